// Package main provides the token acquirer CLI: browser login, then the token
// is written into the credential file.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/aditibhatt04/ai-blog-article-generator/pkg/acquire"
	configpkg "github.com/aditibhatt04/ai-blog-article-generator/pkg/config"
	"github.com/aditibhatt04/ai-blog-article-generator/pkg/credstore"
	loggerpkg "github.com/aditibhatt04/ai-blog-article-generator/pkg/logger"
	"github.com/aditibhatt04/ai-blog-article-generator/pkg/puter"
	"github.com/spf13/cobra"
)

// main is the program entry point.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand(cliDeps{stdout: os.Stdout, stderr: os.Stderr, getenv: os.Getenv}).ExecuteContext(ctx)
	stop()
	if err != nil {
		var shown reportedError
		if !errors.As(err, &shown) {
			_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// reportedError marks failures whose message already reached stderr.
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

type cliDeps struct {
	stdout    io.Writer
	stderr    io.Writer
	getenv    func(string) string
	newClient func(cfg configpkg.Config, logger loggerpkg.Logger) puter.Client
}

func newRootCommand(deps cliDeps) *cobra.Command {
	if deps.newClient == nil {
		deps.newClient = func(cfg configpkg.Config, logger loggerpkg.Logger) puter.Client {
			return puter.New(cfg, puter.WithLogger(logger))
		}
	}

	var (
		envFile      string
		settingsFile string
		verbose      bool
	)
	cmd := &cobra.Command{
		Use:           "puter-token",
		Short:         "Log in to Puter in the browser and save PUTER_AUTH_TOKEN",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configpkg.Load(configpkg.LoadOptions{
				EnvFile:      envFile,
				SettingsFile: settingsFile,
				Getenv:       deps.getenv,
			})
			if err != nil {
				_, _ = fmt.Fprintf(deps.stderr, "Error: %v\n", err)
				return reportedError{err}
			}
			cfg.Verbose = verbose

			logger := loggerpkg.NewWriterLogger(deps.stderr)
			err = acquire.Run(cmd.Context(), acquire.Options{
				Client:    deps.newClient(cfg, logger),
				Store:     credstore.New(cfg.EnvFile),
				StorePath: cfg.EnvFile,
				Out:       deps.stdout,
				Err:       deps.stderr,
				Logger:    logger,
				Verbose:   cfg.Verbose,
			})
			if err != nil {
				return reportedError{err}
			}
			return nil
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.Flags().StringVar(&envFile, "env-file", "", "Credential file to update (default: .env next to the binary)")
	cmd.Flags().StringVar(&settingsFile, "config", "", "Optional YAML settings file")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Verbose logging on stderr")
	cmd.SetOut(deps.stdout)
	cmd.SetErr(deps.stderr)
	return cmd
}
