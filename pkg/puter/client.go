// Package puter is the boundary to the Puter platform: interactive login
// returning a bearer token, and a single chat completion call.
package puter

import (
	"context"
	"errors"
	"net/http"

	configpkg "github.com/aditibhatt04/ai-blog-article-generator/pkg/config"
	loggerpkg "github.com/aditibhatt04/ai-blog-article-generator/pkg/logger"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/pkg/browser"
)

// DefaultModel is the chat model used when ChatOptions.Model is empty.
const DefaultModel = configpkg.DefaultModel

var (
	// ErrNoToken is returned by Chat when the client was built without a token.
	ErrNoToken = errors.New("auth token is not set")
	// ErrNotImplemented is returned by a Func whose operation is nil.
	ErrNotImplemented = errors.New("operation not implemented")
)

// Client exposes exactly the two operations both tools need.
type Client interface {
	AcquireToken(ctx context.Context) (string, error)
	Chat(ctx context.Context, prompt string, opts ChatOptions) (string, error)
}

// ChatOptions configures a single chat request.
type ChatOptions struct {
	Model string
}

// Func adapts plain functions to Client.
type Func struct {
	AcquireTokenFunc func(ctx context.Context) (string, error)
	ChatFunc         func(ctx context.Context, prompt string, opts ChatOptions) (string, error)
}

func (f Func) AcquireToken(ctx context.Context) (string, error) {
	if f.AcquireTokenFunc == nil {
		return "", ErrNotImplemented
	}
	return f.AcquireTokenFunc(ctx)
}

func (f Func) Chat(ctx context.Context, prompt string, opts ChatOptions) (string, error) {
	if f.ChatFunc == nil {
		return "", ErrNotImplemented
	}
	return f.ChatFunc(ctx, prompt, opts)
}

// Option configures optional runtime dependencies for SDK.
type Option func(*deps)

type deps struct {
	logger     loggerpkg.Logger
	httpClient *http.Client
	openURL    func(url string) error
}

// WithLogger injects a logger dependency.
func WithLogger(l loggerpkg.Logger) Option {
	return func(d *deps) {
		d.logger = l
	}
}

// WithHTTPClient overrides the HTTP client used for chat requests.
func WithHTTPClient(c *http.Client) Option {
	return func(d *deps) {
		d.httpClient = c
	}
}

// WithBrowser overrides how the login URL is opened.
func WithBrowser(open func(url string) error) Option {
	return func(d *deps) {
		d.openURL = open
	}
}

// SDK is the network-backed Client.
type SDK struct {
	config  configpkg.Config
	chat    openai.Client
	logger  loggerpkg.Logger
	openURL func(url string) error
	verbose bool
}

var _ Client = (*SDK)(nil)

// New builds an SDK from cfg. A missing token is allowed so the same client
// can drive the login flow.
func New(cfg configpkg.Config, opts ...Option) *SDK {
	cfg = configpkg.Normalize(cfg)
	d := deps{logger: loggerpkg.NopLogger{}, openURL: browser.OpenURL}
	for _, opt := range opts {
		if opt != nil {
			opt(&d)
		}
	}
	if d.logger == nil {
		d.logger = loggerpkg.NopLogger{}
	}

	loggerpkg.Debug(cfg.Verbose, d.logger, "puter client init", map[string]any{
		"model":      cfg.Model,
		"base_url":   cfg.APIBaseURL,
		"gui_origin": cfg.GUIOrigin,
		"has_token":  cfg.AuthToken != "",
	})

	return &SDK{
		config:  cfg,
		chat:    newOpenAIClient(cfg, d.httpClient),
		logger:  d.logger,
		openURL: d.openURL,
		verbose: cfg.Verbose,
	}
}

func newOpenAIClient(cfg configpkg.Config, httpClient *http.Client) openai.Client {
	opts := []option.RequestOption{
		option.WithMaxRetries(0),
	}
	if cfg.APIBaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.APIBaseURL))
	}
	if cfg.AuthToken != "" {
		opts = append(opts, option.WithAPIKey(cfg.AuthToken))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return openai.NewClient(opts...)
}

func (s *SDK) debugf(format string, args ...any) {
	loggerpkg.Debugf(s.verbose, s.logger, format, args...)
}
