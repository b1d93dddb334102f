package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// TokenKey names both the environment variable and the credential file key.
	TokenKey = "PUTER_AUTH_TOKEN"

	DefaultModel      = "gpt-5-nano"
	DefaultAPIBaseURL = "https://api.puter.com/puterai/openai/v1/"
	DefaultGUIOrigin  = "https://puter.com"
	DefaultEnvFile    = ".env"
)

// Config holds all runtime configuration for both tools. It is sourced once
// at startup and passed down explicitly.
type Config struct {
	AuthToken  string
	Model      string
	APIBaseURL string
	GUIOrigin  string
	EnvFile    string
	Verbose    bool
}

// Settings mirrors the optional YAML settings file.
type Settings struct {
	Model      string `yaml:"model"`
	APIBaseURL string `yaml:"api_base_url"`
	GUIOrigin  string `yaml:"gui_origin"`
}

// DefaultConfig returns a baseline configuration without side effects.
func DefaultConfig() Config {
	return Config{
		Model:      DefaultModel,
		APIBaseURL: DefaultAPIBaseURL,
		GUIOrigin:  DefaultGUIOrigin,
		EnvFile:    DefaultEnvFilePath(),
	}
}

// DefaultEnvFilePath resolves the credential file next to the running binary,
// falling back to the working directory when the executable path is unknown.
func DefaultEnvFilePath() string {
	exe, err := os.Executable()
	if err != nil {
		return DefaultEnvFile
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), DefaultEnvFile)
}

// FromEnv overlays environment values onto cfg. getenv is injected so the
// process environment is read exactly once, by the caller.
func FromEnv(cfg Config, getenv func(string) string) Config {
	if getenv == nil {
		return cfg
	}
	cfg.AuthToken = getenv(TokenKey)
	if v := strings.TrimSpace(getenv("PUTER_MODEL")); v != "" {
		cfg.Model = v
	}
	if v := strings.TrimSpace(getenv("PUTER_API_BASE_URL")); v != "" {
		cfg.APIBaseURL = v
	}
	if v := strings.TrimSpace(getenv("PUTER_GUI_ORIGIN")); v != "" {
		cfg.GUIOrigin = v
	}
	return cfg
}

// LoadSettings reads a YAML settings file. A missing file yields zero Settings.
func LoadSettings(path string) (Settings, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Settings{}, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Settings{}, nil
		}
		return Settings{}, fmt.Errorf("read settings %s: %w", path, err)
	}

	var s Settings
	if err := yaml.Unmarshal(content, &s); err != nil {
		return Settings{}, fmt.Errorf("parse settings %s: %w", path, err)
	}
	return s, nil
}

// Apply overlays non-empty settings values onto cfg.
func (s Settings) Apply(cfg Config) Config {
	if v := strings.TrimSpace(s.Model); v != "" {
		cfg.Model = v
	}
	if v := strings.TrimSpace(s.APIBaseURL); v != "" {
		cfg.APIBaseURL = v
	}
	if v := strings.TrimSpace(s.GUIOrigin); v != "" {
		cfg.GUIOrigin = v
	}
	return cfg
}

// Normalize sanitizes configuration values and applies defaults. The token is
// opaque and kept exactly as given.
func Normalize(cfg Config) Config {
	cfg.Model = strings.TrimSpace(cfg.Model)
	cfg.APIBaseURL = strings.TrimSpace(cfg.APIBaseURL)
	cfg.GUIOrigin = strings.TrimRight(strings.TrimSpace(cfg.GUIOrigin), "/")
	cfg.EnvFile = strings.TrimSpace(cfg.EnvFile)

	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	if cfg.GUIOrigin == "" {
		cfg.GUIOrigin = DefaultGUIOrigin
	}
	if cfg.EnvFile == "" {
		cfg.EnvFile = DefaultEnvFilePath()
	}
	return cfg
}
