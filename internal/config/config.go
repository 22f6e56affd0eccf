// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and validation for gemchat.
//
// Configuration file locations (in order of precedence):
//   - an explicit --config path
//   - ~/.gemchat/config.toml
//   - ~/.gemchat/config.yaml
//   - Built-in defaults
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// BuildAPIKey is the Gemini API credential baked in at build time:
//
//	go build -ldflags "-X github.com/jeranaias/gemchat-tui/internal/config.BuildAPIKey=$GEMINI_API_KEY"
//
// It is empty in source and in development builds.
var BuildAPIKey string

// Defaults.
const (
	DefaultModel              = "gemini-pro"
	DefaultRequestTimeoutSecs = 60
	MaxRequestTimeoutSecs     = 600
	DefaultRequestsPerMinute  = 60
	MaxRequestsPerMinute      = 1000
)

// ErrMissingAPIKey is returned by CheckCredentials when no key was supplied
// at build time, in the config file or in the environment.
var ErrMissingAPIKey = errors.New("no Gemini API key configured (build with BuildAPIKey or set GEMINI_API_KEY)")

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete gemchat configuration.
type Config struct {
	// Model is the hosted model every prompt is sent to.
	Model string `toml:"model" yaml:"model"`
	// APIKey overrides the build-time credential.
	APIKey string `toml:"api_key" yaml:"api_key"`
	// RequestTimeoutSecs bounds a single generate call.
	RequestTimeoutSecs int `toml:"request_timeout_secs" yaml:"request_timeout_secs"`
	// RequestsPerMinute caps outbound generate calls. 0 disables the cap.
	RequestsPerMinute int `toml:"requests_per_minute" yaml:"requests_per_minute"`

	Chat    ChatConfig    `toml:"chat" yaml:"chat"`
	UI      UIConfig      `toml:"ui" yaml:"ui"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
}

// ChatConfig controls request orchestration.
type ChatConfig struct {
	// AllowOverlap lets the user send a new query while a reply is still
	// pending. Replies are then appended in the order they arrive.
	AllowOverlap bool `toml:"allow_overlap" yaml:"allow_overlap"`
}

// UIConfig contains terminal presentation settings.
type UIConfig struct {
	// Theme is "dark" or "light".
	Theme string `toml:"theme" yaml:"theme"`
	// Markdown renders assistant replies through glamour.
	Markdown bool `toml:"markdown" yaml:"markdown"`
	// ShowTimestamps prints the time under each message bubble.
	ShowTimestamps bool `toml:"show_timestamps" yaml:"show_timestamps"`
}

// LoggingConfig configures the zap file logger.
type LoggingConfig struct {
	Enabled bool `toml:"enabled" yaml:"enabled"`
	// Path is the log file (empty = ~/.gemchat/gemchat.log).
	Path string `toml:"path" yaml:"path"`
	// Level is one of debug, info, warn, error.
	Level string `toml:"level" yaml:"level"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Model:              DefaultModel,
		APIKey:             BuildAPIKey,
		RequestTimeoutSecs: DefaultRequestTimeoutSecs,
		RequestsPerMinute:  DefaultRequestsPerMinute,
		Chat: ChatConfig{
			AllowOverlap: false,
		},
		UI: UIConfig{
			Theme:          "dark",
			Markdown:       true,
			ShowTimestamps: false,
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the gemchat configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".gemchat"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathYAML returns the path to the YAML config file.
func ConfigPathYAML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DefaultLogPath returns ~/.gemchat/gemchat.log.
func DefaultLogPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "gemchat.log"), nil
}

// ensureSecurePermissions tightens a config file to 0600 since it may hold an API key.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode&0077 != 0 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the default locations.
// Tries TOML first, then YAML, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	for _, pathFn := range []func() (string, error){ConfigPathTOML, ConfigPathYAML} {
		path, err := pathFn()
		if err != nil {
			continue
		}
		if _, statErr := os.Stat(path); statErr == nil {
			return LoadFromPath(path)
		}
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	fillDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file with full validation.
// Files ending in .yaml or .yml are read as YAML, anything else as TOML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if err := ensureSecurePermissions(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	var err error
	if ext == ".yaml" || ext == ".yml" {
		err = LoadYAML(cfg, path)
	} else {
		err = LoadTOML(cfg, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	fillDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadYAML decodes a YAML file over cfg.
func LoadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read YAML file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode YAML file: %w", err)
	}
	return nil
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Model == "" {
		cfg.Model = defaults.Model
	}
	if cfg.APIKey == "" {
		cfg.APIKey = defaults.APIKey
	}
	if cfg.RequestTimeoutSecs == 0 {
		cfg.RequestTimeoutSecs = defaults.RequestTimeoutSecs
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaults.Logging.Level
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides.
//
// Supported variables:
//   - GEMINI_API_KEY: overrides api_key
//   - GEMCHAT_API_KEY: overrides api_key, wins over GEMINI_API_KEY
//   - GEMCHAT_MODEL: overrides model
//   - GEMCHAT_TIMEOUT: overrides request_timeout_secs
//   - GEMCHAT_ALLOW_OVERLAP: overrides chat.allow_overlap
//   - GEMCHAT_THEME: overrides ui.theme
func (c *Config) ApplyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.APIKey = key
	}
	if key := os.Getenv("GEMCHAT_API_KEY"); key != "" {
		c.APIKey = key
	}

	if model := os.Getenv("GEMCHAT_MODEL"); model != "" {
		c.Model = model
	}

	if timeout := os.Getenv("GEMCHAT_TIMEOUT"); timeout != "" {
		if secs, err := strconv.Atoi(timeout); err == nil {
			c.RequestTimeoutSecs = secs
		}
	}

	if overlap := os.Getenv("GEMCHAT_ALLOW_OVERLAP"); overlap != "" {
		c.Chat.AllowOverlap = overlap == "1" || strings.ToLower(overlap) == "true"
	}

	if theme := os.Getenv("GEMCHAT_THEME"); theme != "" {
		c.UI.Theme = theme
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
// The API key is not checked here; see CheckCredentials.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if strings.TrimSpace(c.Model) == "" {
		errs = append(errs, ValidationError{Field: "model", Message: "must not be empty"})
	} else if strings.ContainsAny(c.Model, " \t\n?#") {
		errs = append(errs, ValidationError{
			Field:   "model",
			Message: fmt.Sprintf("invalid model name '%s'", c.Model),
		})
	}

	if c.RequestTimeoutSecs < 1 || c.RequestTimeoutSecs > MaxRequestTimeoutSecs {
		errs = append(errs, ValidationError{
			Field:   "request_timeout_secs",
			Message: fmt.Sprintf("must be between 1 and %d, got %d", MaxRequestTimeoutSecs, c.RequestTimeoutSecs),
		})
	}

	if c.RequestsPerMinute < 0 || c.RequestsPerMinute > MaxRequestsPerMinute {
		errs = append(errs, ValidationError{
			Field:   "requests_per_minute",
			Message: fmt.Sprintf("must be between 0 and %d, got %d", MaxRequestsPerMinute, c.RequestsPerMinute),
		})
	}

	validThemes := map[string]bool{"dark": true, "light": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light", c.UI.Theme),
		})
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Logging.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CheckCredentials returns ErrMissingAPIKey when no credential is available.
func (c *Config) CheckCredentials() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// ResolvedLogPath returns the configured log path or the default one.
func (c *Config) ResolvedLogPath() (string, error) {
	if c.Logging.Path != "" {
		return c.Logging.Path, nil
	}
	return DefaultLogPath()
}
