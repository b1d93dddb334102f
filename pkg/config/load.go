package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
)

// LoadOptions describes where startup configuration comes from.
type LoadOptions struct {
	// EnvFile is the credential file path. Empty means DefaultEnvFilePath.
	EnvFile string
	// TokenFromEnvFile lets EnvFile supply PUTER_AUTH_TOKEN when the
	// environment has none. The file is never opened otherwise.
	TokenFromEnvFile bool
	// SettingsFile is an optional YAML file.
	SettingsFile string
	// Getenv reads the process environment. Nil means no environment.
	Getenv func(string) string
}

// Load resolves configuration with precedence environment > settings file >
// defaults. Flags are applied by the caller afterwards.
func Load(opts LoadOptions) (Config, error) {
	cfg := DefaultConfig()
	if strings.TrimSpace(opts.EnvFile) != "" {
		cfg.EnvFile = strings.TrimSpace(opts.EnvFile)
	}

	settings, err := LoadSettings(opts.SettingsFile)
	if err != nil {
		return Config{}, err
	}
	cfg = FromEnv(settings.Apply(cfg), opts.Getenv)

	if cfg.AuthToken == "" && opts.TokenFromEnvFile {
		token, err := readEnvFileToken(cfg.EnvFile)
		if err != nil {
			return Config{}, err
		}
		cfg.AuthToken = token
	}
	return Normalize(cfg), nil
}

func readEnvFileToken(path string) (string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read env file %s: %w", path, err)
	}
	return values[TokenKey], nil
}
