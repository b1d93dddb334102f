package credstore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const key = "PUTER_AUTH_TOKEN"

func TestMerge(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"empty", "", "PUTER_AUTH_TOKEN=new"},
		{"trailing newline kept", "A=1\n", "A=1\nPUTER_AUTH_TOKEN=new"},
		{"newline added", "A=1", "A=1\nPUTER_AUTH_TOKEN=new"},
		{"replaces existing", "A=1\nPUTER_AUTH_TOKEN=old\nB=2\n", "A=1\nB=2\nPUTER_AUTH_TOKEN=new"},
		{"replaces final line", "A=1\nPUTER_AUTH_TOKEN=old", "A=1\nPUTER_AUTH_TOKEN=new"},
		{"drops duplicates", "PUTER_AUTH_TOKEN=a\nPUTER_AUTH_TOKEN=b\n", "PUTER_AUTH_TOKEN=new"},
		{"longer key kept", "PUTER_AUTH_TOKEN_V2=x\n", "PUTER_AUTH_TOKEN_V2=x\nPUTER_AUTH_TOKEN=new"},
		{"indented line kept", "  PUTER_AUTH_TOKEN=old\n", "  PUTER_AUTH_TOKEN=old\nPUTER_AUTH_TOKEN=new"},
		{"comments kept", "# creds\n\nA=1\n", "# creds\n\nA=1\nPUTER_AUTH_TOKEN=new"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Merge(tc.content, key, "new"))
		})
	}
}

func TestUpsertCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	s := New(path)

	require.NoError(t, s.Upsert(key, "tok-1"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "PUTER_AUTH_TOKEN=tok-1", string(content))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(filePerm), info.Mode().Perm())
}

func TestUpsertPreservesUnrelatedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	original := "# django\nSECRET_KEY=abc=def\nDEBUG=True\nPUTER_AUTH_TOKEN=stale\nGOOGLE_API_KEY=g\n"
	require.NoError(t, os.WriteFile(path, []byte(original), 0o644))

	require.NoError(t, New(path).Upsert(key, "fresh"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(string(content), "\n")
	require.Equal(t, []string{
		"# django",
		"SECRET_KEY=abc=def",
		"DEBUG=True",
		"GOOGLE_API_KEY=g",
		"PUTER_AUTH_TOKEN=fresh",
	}, lines)
}

func TestUpsertTwiceKeepsOnlySecondToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("A=1\n"), 0o644))
	s := New(path)

	require.NoError(t, s.Upsert(key, "first-token"))
	require.NoError(t, s.Upsert(key, "second"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "A=1\nPUTER_AUTH_TOKEN=second", string(content))
	require.Equal(t, 1, strings.Count(string(content), key+"="))
}

func TestUpsertShrinkingContentTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	long := "PUTER_AUTH_TOKEN=" + strings.Repeat("x", 256)
	require.NoError(t, os.WriteFile(path, []byte(long), 0o644))

	require.NoError(t, New(path).Upsert(key, "short"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "PUTER_AUTH_TOKEN=short", string(content))
}

func TestUpsertMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", ".env")
	err := New(path).Upsert(key, "tok")
	require.Error(t, err)
	require.Contains(t, err.Error(), "open")
}

func TestUpsertRequiresKey(t *testing.T) {
	require.Error(t, New(filepath.Join(t.TempDir(), ".env")).Upsert(" ", "v"))
}

func TestGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	s := New(path)

	_, ok, err := s.Get(key)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, os.WriteFile(path, []byte("A=1\nPUTER_AUTH_TOKEN=one\nPUTER_AUTH_TOKEN=two\n"), 0o644))
	value, ok, err := s.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "two", value)

	_, ok, err = s.Get("MISSING")
	require.NoError(t, err)
	require.False(t, ok)
}
