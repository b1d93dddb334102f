// Package main provides the chat invoker CLI: one prompt in, one JSON result out.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	configpkg "github.com/aditibhatt04/ai-blog-article-generator/pkg/config"
	"github.com/aditibhatt04/ai-blog-article-generator/pkg/envelope"
	"github.com/aditibhatt04/ai-blog-article-generator/pkg/invoke"
	loggerpkg "github.com/aditibhatt04/ai-blog-article-generator/pkg/logger"
	"github.com/aditibhatt04/ai-blog-article-generator/pkg/puter"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// main is the program entry point.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], cliDeps{
		stdout: os.Stdout,
		stderr: os.Stderr,
		getenv: os.Getenv,
	})
	stop()
	os.Exit(code)
}

// cliDeps carries the process boundary so tests can run the command in-process.
type cliDeps struct {
	stdout    io.Writer
	stderr    io.Writer
	getenv    func(string) string
	newClient func(cfg configpkg.Config, logger loggerpkg.Logger) puter.Client
}

type cliFlags struct {
	envFile      string
	settingsFile string
	envFileSet   bool
	model        string
	verbose      bool
}

// execute runs the command tree and returns the process exit code.
func execute(ctx context.Context, args []string, deps cliDeps) int {
	if deps.newClient == nil {
		deps.newClient = func(cfg configpkg.Config, logger loggerpkg.Logger) puter.Client {
			return puter.New(cfg, puter.WithLogger(logger))
		}
	}

	exitCode := invoke.ExitOK
	var flags cliFlags
	var prompt []string
	runInvoke := func(cmd *cobra.Command, _ []string) error {
		flags.envFileSet = cmd.Flags().Changed("env-file")
		exitCode = runPrompt(cmd.Context(), flags, prompt, deps)
		return nil
	}

	root := &cobra.Command{
		Use:           "puter-ai [flags] [invoke] <prompt>",
		Short:         "Send one prompt to Puter AI and print a JSON result",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runInvoke,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().StringVar(&flags.envFile, "env-file", "", "Read "+configpkg.TokenKey+" from this file when the environment has none")
	root.PersistentFlags().StringVar(&flags.settingsFile, "config", "", "Optional YAML settings file")
	root.PersistentFlags().StringVar(&flags.model, "model", "", "Chat model (default: "+configpkg.DefaultModel+")")
	root.PersistentFlags().BoolVar(&flags.verbose, "verbose", false, "Verbose client logging on stderr")

	root.AddCommand(&cobra.Command{
		Use:   "invoke <prompt>",
		Short: "Send one prompt and print {success, content|error}",
		Args:  cobra.NoArgs,
		RunE:  runInvoke,
	})

	cmdArgs, prompt := splitPrompt(args, root.PersistentFlags())
	root.SetArgs(cmdArgs)
	root.SetOut(deps.stderr)
	root.SetErr(deps.stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		_ = envelope.Write(deps.stdout, envelope.FromError(err))
		return invoke.ExitFailure
	}
	return exitCode
}

// splitPrompt separates leading flags (and an optional "invoke" keyword) from
// the prompt. Everything after the first positional argument, "invoke" or
// "--" is prompt text and never parsed as a flag or command.
func splitPrompt(args []string, known *pflag.FlagSet) (cmdArgs, prompt []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "invoke":
			return args[:i+1], args[i+1:]
		case arg == "--":
			return args[:i], args[i+1:]
		case strings.HasPrefix(arg, "-") && len(arg) > 1:
			if takesValue(arg, known) {
				i++
			}
		default:
			return args[:i], args[i:]
		}
	}
	return args, nil
}

// takesValue reports whether a "--name" flag consumes the following argument.
func takesValue(arg string, known *pflag.FlagSet) bool {
	if !strings.HasPrefix(arg, "--") || strings.Contains(arg, "=") {
		return false
	}
	f := known.Lookup(strings.TrimPrefix(arg, "--"))
	return f != nil && f.NoOptDefVal == ""
}

func runPrompt(ctx context.Context, flags cliFlags, args []string, deps cliDeps) int {
	logger := loggerpkg.NewWriterLogger(deps.stderr)

	cfg, err := configpkg.Load(configpkg.LoadOptions{
		EnvFile:          flags.envFile,
		TokenFromEnvFile: flags.envFileSet,
		SettingsFile:     flags.settingsFile,
		Getenv:           deps.getenv,
	})
	if err != nil {
		_ = envelope.Write(deps.stdout, envelope.FromError(err))
		return invoke.ExitFailure
	}
	if flags.model != "" {
		cfg.Model = flags.model
	}
	cfg.Verbose = flags.verbose

	return invoke.Run(ctx, cfg, args, deps.newClient(cfg, logger), deps.stdout, logger)
}
