// Package invoke sends a single prompt to the chat endpoint and reports the
// outcome as one JSON envelope on stdout.
package invoke

import (
	"context"
	"errors"
	"io"

	configpkg "github.com/aditibhatt04/ai-blog-article-generator/pkg/config"
	"github.com/aditibhatt04/ai-blog-article-generator/pkg/envelope"
	loggerpkg "github.com/aditibhatt04/ai-blog-article-generator/pkg/logger"
	"github.com/aditibhatt04/ai-blog-article-generator/pkg/puter"
)

var (
	ErrTokenNotSet   = errors.New(configpkg.TokenKey + " environment variable not set")
	ErrNoPrompt      = errors.New("No prompt provided")
	ErrEmptyResponse = errors.New("Puter.js returned empty response")
)

const (
	ExitOK      = 0
	ExitFailure = 1
)

// Run validates the token and prompt, performs the chat call and writes the
// result envelope to stdout. It returns the process exit code. Diagnostics go
// to logger only; stdout receives exactly one JSON object.
func Run(
	ctx context.Context,
	cfg configpkg.Config,
	args []string,
	client puter.Client,
	stdout io.Writer,
	logger loggerpkg.Logger,
) int {
	if logger == nil {
		logger = loggerpkg.NopLogger{}
	}
	if stdout == nil {
		stdout = io.Discard
	}

	content, err := run(ctx, cfg, args, client, logger)
	if err != nil {
		return emit(stdout, logger, envelope.FromError(err), ExitFailure)
	}
	return emit(stdout, logger, envelope.OK(content), ExitOK)
}

func run(
	ctx context.Context,
	cfg configpkg.Config,
	args []string,
	client puter.Client,
	logger loggerpkg.Logger,
) (string, error) {
	if cfg.AuthToken == "" {
		return "", ErrTokenNotSet
	}
	if len(args) == 0 || args[0] == "" {
		return "", ErrNoPrompt
	}
	if client == nil {
		return "", errors.New("client is required")
	}
	return generate(ctx, client, args[0], cfg.Model, logger)
}

func generate(ctx context.Context, client puter.Client, prompt, model string, logger loggerpkg.Logger) (string, error) {
	logger.Debug("Initializing Puter.js with auth token...", nil)
	logger.Debug("Calling puter.ai.chat()...", map[string]any{"model": model})

	response, err := client.Chat(ctx, prompt, puter.ChatOptions{Model: model})
	if err == nil {
		logger.Debug("Response received", map[string]any{"length": len(response)})
		if response == "" {
			err = ErrEmptyResponse
		}
	}
	if err != nil {
		logger.Error("Puter.js error: "+err.Error(), nil)
		return "", err
	}
	return response, nil
}

func emit(stdout io.Writer, logger loggerpkg.Logger, r envelope.Result, code int) int {
	if err := envelope.Write(stdout, r); err != nil {
		logger.Error("write result", map[string]any{"error": err.Error()})
		return ExitFailure
	}
	return code
}
