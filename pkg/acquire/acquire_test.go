package acquire

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aditibhatt04/ai-blog-article-generator/pkg/credstore"
	"github.com/aditibhatt04/ai-blog-article-generator/pkg/puter"
	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func loginReturning(token string, err error) puter.Func {
	return puter.Func{
		AcquireTokenFunc: func(context.Context) (string, error) { return token, err },
	}
}

func TestRunSavesToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DEBUG=True\n"), 0o644))
	var out, errOut bytes.Buffer

	token := "abcdefghijklmnopqrstuvwxyz0123456789"
	err := Run(context.Background(), Options{
		Client:    loginReturning(token, nil),
		Store:     credstore.New(path),
		StorePath: path,
		Out:       &out,
		Err:       &errOut,
	})
	require.NoError(t, err)
	require.Empty(t, errOut.String())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "DEBUG=True\nPUTER_AUTH_TOKEN="+token, string(content))

	require.Contains(t, out.String(), "Auth token received!")
	require.Contains(t, out.String(), "Token: abcdefghijklmnopqrst...0123456789")
	require.NotContains(t, out.String(), token)
	require.Contains(t, out.String(), "Token saved to "+path)
}

func TestRunEmptyTokenLeavesFileUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	original := "A=1\nPUTER_AUTH_TOKEN=keep\n"
	require.NoError(t, os.WriteFile(path, []byte(original), 0o644))
	var out, errOut bytes.Buffer

	err := Run(context.Background(), Options{
		Client: loginReturning("", nil),
		Store:  credstore.New(path),
		Out:    &out,
		Err:    &errOut,
	})
	require.ErrorIs(t, err, ErrEmptyToken)
	require.Contains(t, errOut.String(), "Failed to get auth token")

	content, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	require.Equal(t, original, string(content))
}

func TestRunEmptyTokenDoesNotCreateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")

	err := Run(context.Background(), Options{
		Client: loginReturning("", nil),
		Store:  credstore.New(path),
	})
	require.ErrorIs(t, err, ErrEmptyToken)
	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr))
}

func TestRunLoginErrorPrintsManualFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	var errOut bytes.Buffer

	err := Run(context.Background(), Options{
		Client: loginReturning("", errors.New("browser closed")),
		Store:  credstore.New(path),
		Err:    &errOut,
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "browser closed")

	msg := errOut.String()
	require.Contains(t, msg, "Error: browser closed")
	require.Contains(t, msg, "If browser auth didn't work, you can manually get the token:")
	require.Contains(t, msg, "1. Go to https://puter.com")
	require.Contains(t, msg, "   PUTER_AUTH_TOKEN=<paste-token-here>")
}

type failingStore struct{}

func (failingStore) Upsert(string, string) error { return errors.New("disk full") }

func TestRunStoreErrorIsReported(t *testing.T) {
	var errOut bytes.Buffer
	err := Run(context.Background(), Options{
		Client: loginReturning("some-token", nil),
		Store:  failingStore{},
		Err:    &errOut,
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "save token: disk full")
	require.Contains(t, errOut.String(), "Error: disk full")
}

func TestRunTwiceKeepsSecondToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	store := credstore.New(path)

	for _, tok := range []string{"first", "second"} {
		require.NoError(t, Run(context.Background(), Options{
			Client: loginReturning(tok, nil),
			Store:  store,
		}))
	}

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(string(content), "PUTER_AUTH_TOKEN="))
	require.Equal(t, "PUTER_AUTH_TOKEN=second", string(content))
}

func TestRunRequiresCollaborators(t *testing.T) {
	require.Error(t, Run(context.Background(), Options{Store: failingStore{}}))
	require.Error(t, Run(context.Background(), Options{Client: loginReturning("x", nil)}))
}

func TestMask(t *testing.T) {
	require.Equal(t, "***", Mask("short"))
	long := strings.Repeat("a", 20) + "middle" + strings.Repeat("z", 10)
	require.Equal(t, strings.Repeat("a", 20)+"..."+strings.Repeat("z", 10), Mask(long))
}
