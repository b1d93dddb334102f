// Package acquire implements the interactive token acquirer: log in through
// the browser, then persist the bearer token into the credential file.
package acquire

import (
	"context"
	"errors"
	"fmt"
	"io"

	configpkg "github.com/aditibhatt04/ai-blog-article-generator/pkg/config"
	loggerpkg "github.com/aditibhatt04/ai-blog-article-generator/pkg/logger"
	"github.com/aditibhatt04/ai-blog-article-generator/pkg/puter"
	"github.com/fatih/color"
)

// ErrEmptyToken is returned when login completes without a token.
var ErrEmptyToken = errors.New("failed to get auth token")

// TokenStore persists a single key.
type TokenStore interface {
	Upsert(key, value string) error
}

// Options wires the acquirer's collaborators.
type Options struct {
	Client puter.Client
	Store  TokenStore
	// StorePath is only used in user-facing messages.
	StorePath string
	Out       io.Writer
	Err       io.Writer
	Logger    loggerpkg.Logger
	Verbose   bool
}

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	failColor = color.New(color.FgRed, color.Bold)
	bold      = color.New(color.Bold)
)

// Run acquires a token and stores it under PUTER_AUTH_TOKEN. Every failure
// is reported to opts.Err before being returned.
func Run(ctx context.Context, opts Options) error {
	if opts.Client == nil {
		return errors.New("client is required")
	}
	if opts.Store == nil {
		return errors.New("store is required")
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Err == nil {
		opts.Err = io.Discard
	}
	if opts.Logger == nil {
		opts.Logger = loggerpkg.NopLogger{}
	}
	storeName := opts.StorePath
	if storeName == "" {
		storeName = configpkg.DefaultEnvFile
	}

	printBanner(opts.Out)
	_, _ = fmt.Fprintln(opts.Out, "Requesting auth token from Puter...")

	token, err := opts.Client.AcquireToken(ctx)
	if err != nil {
		reportFailure(opts.Err, err)
		return fmt.Errorf("acquire token: %w", err)
	}
	if token == "" {
		_, _ = failColor.Fprintln(opts.Err, "✗ Failed to get auth token")
		return ErrEmptyToken
	}

	_, _ = fmt.Fprintln(opts.Out)
	_, _ = okColor.Fprintln(opts.Out, "✔ Auth token received!")
	_, _ = fmt.Fprintf(opts.Out, "Token: %s\n\n", Mask(token))

	loggerpkg.Debug(opts.Verbose, opts.Logger, "writing token", map[string]any{"path": storeName})
	if err := opts.Store.Upsert(configpkg.TokenKey, token); err != nil {
		reportFailure(opts.Err, err)
		return fmt.Errorf("save token: %w", err)
	}

	_, _ = okColor.Fprintf(opts.Out, "✔ Token saved to %s\n\n", storeName)
	_, _ = bold.Fprintln(opts.Out, "Next steps:")
	_, _ = fmt.Fprintf(opts.Out, "1. Keep %s next to puter-ai, or export %s=<token>\n", storeName, configpkg.TokenKey)
	_, _ = fmt.Fprintln(opts.Out, `2. Run: puter-ai invoke "your prompt"`)
	return nil
}

// Mask shows the first 20 and last 10 characters of a token. Tokens too short
// to mask that way are hidden entirely.
func Mask(token string) string {
	if len(token) <= 30 {
		return "***"
	}
	return token[:20] + "..." + token[len(token)-10:]
}

func printBanner(w io.Writer) {
	_, _ = bold.Fprintln(w, "Puter Auth Token Retriever")
	_, _ = fmt.Fprintln(w, "==============================")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "This will open your browser to log in to Puter and get your auth token.")
	_, _ = fmt.Fprintln(w)
}

func reportFailure(w io.Writer, err error) {
	_, _ = failColor.Fprintf(w, "✗ Error: %v\n", err)
	printManualFallback(w)
}

func printManualFallback(w io.Writer) {
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "If browser auth didn't work, you can manually get the token:")
	_, _ = fmt.Fprintln(w, "1. Go to https://puter.com")
	_, _ = fmt.Fprintln(w, "2. Log in to your account")
	_, _ = fmt.Fprintln(w, "3. Open browser DevTools (F12)")
	_, _ = fmt.Fprintln(w, "4. Go to Application → Local Storage")
	_, _ = fmt.Fprintln(w, `5. Find your puter.com domain and look for "auth_token"`)
	_, _ = fmt.Fprintln(w, "6. Copy the value and add to your .env file:")
	_, _ = fmt.Fprintf(w, "   %s=<paste-token-here>\n", configpkg.TokenKey)
}
