// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults live in New; Load layers a YAML file and environment on top.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"fmt"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// ModelPath points at a YAML/JSON coefficient artifact. Empty selects the
	// artifact embedded in the binary.
	ModelPath string `koanf:"model_path"`

	// ModelLoadAttempts and ModelLoadDelayMS bound the start-up retry loop
	// for reading the model artifact.
	ModelLoadAttempts int `koanf:"model_load_attempts"`
	ModelLoadDelayMS  int `koanf:"model_load_delay_ms"`

	// FormTTLSeconds expires idle live forms.
	FormTTLSeconds int `koanf:"form_ttl_seconds"`

	// MaxForms caps the number of live forms held in memory.
	MaxForms int `koanf:"max_forms"`

	// DedupeSize sets how many change ids are remembered for idempotency.
	DedupeSize int `koanf:"dedupe_size"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		ModelPath:         "",
		ModelLoadAttempts: 3,
		ModelLoadDelayMS:  200,
		FormTTLSeconds:    1800,
		MaxForms:          10_000,
		DedupeSize:        50_000,
	}
}

// FormTTL returns FormTTLSeconds as a duration.
func (c *Config) FormTTL() time.Duration {
	return time.Duration(c.FormTTLSeconds) * time.Second
}

// ModelLoadDelay returns ModelLoadDelayMS as a duration.
func (c *Config) ModelLoadDelay() time.Duration {
	return time.Duration(c.ModelLoadDelayMS) * time.Millisecond
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	case c.ModelLoadAttempts < 1:
		return fmt.Errorf("%w: model_load_attempts must be at least 1", ErrInvalidConfig)
	case c.ModelLoadDelayMS < 0:
		return fmt.Errorf("%w: model_load_delay_ms must not be negative", ErrInvalidConfig)
	case c.FormTTLSeconds <= 0:
		return fmt.Errorf("%w: form_ttl_seconds must be positive", ErrInvalidConfig)
	case c.MaxForms <= 0:
		return fmt.Errorf("%w: max_forms must be positive", ErrInvalidConfig)
	}
	return nil
}
