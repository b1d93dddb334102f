package puter

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	loggerpkg "github.com/aditibhatt04/ai-blog-article-generator/pkg/logger"
)

const (
	callbackHost    = "127.0.0.1"
	shutdownTimeout = 2 * time.Second

	successPage = "<!DOCTYPE html><html><body><h1>Authentication successful!</h1>" +
		"<p>You can close this window and return to the terminal.</p></body></html>"
)

// AuthURL builds the Puter login URL that redirects back to a loopback port
// with ?token=<bearer token> appended.
func AuthURL(guiOrigin string, port int) string {
	redirect := fmt.Sprintf("http://localhost:%d", port)
	return guiOrigin + "/?action=authme&redirectURL=" + url.QueryEscape(redirect)
}

// AcquireToken runs the browser login flow: it serves a loopback callback,
// opens the Puter login page and blocks until the browser is redirected back
// with a token or ctx is done.
func (s *SDK) AcquireToken(ctx context.Context) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	ln, err := net.Listen("tcp", net.JoinHostPort(callbackHost, "0"))
	if err != nil {
		return "", fmt.Errorf("listen for login callback: %w", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port

	tokens := make(chan string, 1)
	srv := &http.Server{
		Handler:           callbackHandler(tokens, s.logger, s.verbose),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	authURL := AuthURL(s.config.GUIOrigin, port)
	loggerpkg.Info(s.logger, "opening browser for authentication", map[string]any{"url": authURL})
	if err := s.openURL(authURL); err != nil {
		loggerpkg.Warn(s.logger, "could not open browser; open the URL manually", map[string]any{
			"url":   authURL,
			"error": err.Error(),
		})
	}

	select {
	case token := <-tokens:
		s.debugf("login: token received bytes=%d", len(token))
		return token, nil
	case err := <-serveErr:
		return "", fmt.Errorf("login callback server: %w", err)
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// callbackHandler accepts the first request carrying a token and answers
// every other request with 400.
func callbackHandler(tokens chan<- string, logger loggerpkg.Logger, verbose bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			loggerpkg.Debug(verbose, logger, "login callback without token", map[string]any{"path": r.URL.Path})
			http.Error(w, "No token found", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprint(w, successPage)

		select {
		case tokens <- token:
		default:
		}
	})
}
