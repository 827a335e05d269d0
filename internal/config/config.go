// Package config defines the forecaster's configuration and its loader.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"energy_forecaster/pkg/logger"
)

// Sentinel error kinds for this package.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)

const (
	// EnvPrefix prefixes every environment override, e.g. ENERGY_ADDR.
	EnvPrefix = "ENERGY_"

	// EnvConfigFile names a YAML file to load when no path is given.
	EnvConfigFile = "ENERGY_CONFIG"
)

// Config contains process configuration.
type Config struct {
	// Addr is the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// ModelPath locates the model artifact loaded once at startup.
	ModelPath string `koanf:"model_path"`

	// FrontendDir overrides the embedded page when set.
	FrontendDir string `koanf:"frontend_dir"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// MetricsEnabled exposes /metrics.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// SendBuffer bounds the per-connection outbound message queue.
	SendBuffer int `koanf:"send_buffer"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		Addr:           ":8080",
		ModelPath:      "model/consumption_model.json",
		LogLevel:       "info",
		MetricsEnabled: true,
		SendBuffer:     256,
	}
}

// Load layers defaults, an optional YAML file and ENERGY_* environment
// variables, in increasing precedence. An empty path falls back to
// $ENERGY_CONFIG; no file at all is fine.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	// ENERGY_MODEL_PATH -> model_path. Underscores are kept to match the tags.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.ModelPath == "" {
		return fmt.Errorf("%w: model_path must not be empty", ErrInvalidConfig)
	}
	if c.SendBuffer <= 0 {
		return fmt.Errorf("%w: send_buffer must be positive", ErrInvalidConfig)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
