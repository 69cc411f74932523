package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration for learnflow, stored in
// ~/.learnflow/config.yaml.
type Config struct {
	API APIConfig `yaml:"api"`
	Log LogConfig `yaml:"log"`
}

// APIConfig holds the LearnFlow server settings.
type APIConfig struct {
	// BaseURL is the API root, including the version prefix.
	BaseURL string `yaml:"base_url"`
	// Timeout bounds every single HTTP request.
	Timeout time.Duration `yaml:"timeout"`
	// RefreshPath is the token refresh endpoint, relative to BaseURL.
	RefreshPath string `yaml:"refresh_path"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level string `yaml:"level"`
	// Format is "text" or "json".
	Format string `yaml:"format"`
}

const (
	DefaultBaseURL     = "http://localhost:5000/api/v1"
	DefaultTimeout     = 15 * time.Second
	DefaultRefreshPath = "/auth/refresh"
	DefaultLogLevel    = "info"
)

// Environment variables that override the file.
const (
	EnvBaseURL  = "LEARNFLOW_API_URL"
	EnvTimeout  = "LEARNFLOW_API_TIMEOUT"
	EnvLogLevel = "LEARNFLOW_LOG_LEVEL"
)

// Default returns a Config pre-filled with sensible defaults.
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL:     DefaultBaseURL,
			Timeout:     DefaultTimeout,
			RefreshPath: DefaultRefreshPath,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: "text",
		},
	}
}

// configTemplate is the annotated config written on first run.
const configTemplate = `# learnflow configuration - ~/.learnflow/config.yaml
#
# All settings are optional. Environment variables (or a .env file in the
# working directory) take precedence:
#   LEARNFLOW_API_URL, LEARNFLOW_API_TIMEOUT, LEARNFLOW_LOG_LEVEL

api:
  # Root of the LearnFlow API, including the version prefix.
  base_url: http://localhost:5000/api/v1
  # Per-request timeout, e.g. 10s, 1m.
  timeout: 15s
  # Token refresh endpoint, relative to base_url.
  refresh_path: /auth/refresh

log:
  # One of: trace, debug, info, warn, error.
  level: info
  # "text" or "json".
  format: text
`

// FilePath returns the path to ~/.learnflow/config.yaml.
func FilePath() (string, error) {
	if dir := os.Getenv("LEARNFLOW_HOME"); dir != "" {
		return filepath.Join(dir, "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".learnflow", "config.yaml"), nil
}

// Load reads the default config file, creating it with annotated defaults on
// first run, then applies environment overrides.
func Load() (Config, error) {
	path, err := FilePath()
	if err != nil {
		return applyEnv(Default()), err
	}
	return LoadFile(path)
}

// LoadFile reads the config at path. A missing file is created from the
// annotated template. Environment overrides are applied last.
func LoadFile(path string) (Config, error) {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return applyEnv(Default()), nil
	}
	if err != nil {
		return applyEnv(Default()), fmt.Errorf("reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return applyEnv(Default()), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}

	// Fill zero-value fields with built-in defaults so callers always get
	// a usable Config even if the user only partially fills in the file.
	def := Default()
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = def.API.BaseURL
	}
	if cfg.API.Timeout <= 0 {
		cfg.API.Timeout = def.API.Timeout
	}
	if cfg.API.RefreshPath == "" {
		cfg.API.RefreshPath = def.API.RefreshPath
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = def.Log.Format
	}

	return applyEnv(cfg), nil
}

func applyEnv(cfg Config) Config {
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.API.Timeout = d
		} else {
			fmt.Fprintf(os.Stderr, "Warning: ignoring invalid %s=%q\n", EnvTimeout, v)
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	return cfg
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
