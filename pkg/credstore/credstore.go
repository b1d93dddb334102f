// Package credstore persists credentials in a flat KEY=VALUE file.
package credstore

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const filePerm = 0o600

// Store is a dotenv-style credential file. Writes preserve every unrelated
// line byte-for-byte. There is no locking: concurrent writers can race.
type Store struct {
	Path string
}

// New returns a Store backed by path.
func New(path string) *Store {
	return &Store{Path: path}
}

// Merge drops every line starting with key+"=" from content and appends
// key=value as the final line. Matching is a literal prefix match.
func Merge(content, key, value string) string {
	if content != "" {
		prefix := key + "="
		lines := strings.Split(content, "\n")
		kept := lines[:0]
		for _, line := range lines {
			if strings.HasPrefix(line, prefix) {
				continue
			}
			kept = append(kept, line)
		}
		content = strings.Join(kept, "\n")
	}

	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + key + "=" + value
}

// Upsert sets key to value, creating the file when it does not exist.
func (s *Store) Upsert(key, value string) (err error) {
	if strings.TrimSpace(key) == "" {
		return errors.New("key is required")
	}

	f, err := os.OpenFile(s.Path, os.O_RDWR|os.O_CREATE, filePerm)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close %s: %w", s.Path, closeErr))
		}
	}()

	existing, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", s.Path, err)
	}

	merged := Merge(string(existing), key, value)

	if err := f.Truncate(0); err != nil {
		return fmt.Errorf("truncate %s: %w", s.Path, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("seek %s: %w", s.Path, err)
	}
	if _, err := io.WriteString(f, merged); err != nil {
		return fmt.Errorf("write %s: %w", s.Path, err)
	}
	return nil
}

// Get returns the value stored under key. A missing file reports ok=false
// without an error. Duplicate keys resolve last-write-wins.
func (s *Store) Get(key string) (value string, ok bool, err error) {
	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer f.Close()

	values, err := godotenv.Parse(f)
	if err != nil {
		return "", false, fmt.Errorf("parse %s: %w", s.Path, err)
	}
	value, ok = values[key]
	return value, ok, nil
}
