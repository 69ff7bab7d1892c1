package server

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/prometheus/client_golang/prometheus"
)

// Spec holds the runtime settings for the server.
// Config contains the serializable settings loaded from a file.
type Spec struct {
	Config *Config
	Log    *slog.Logger
	// Registry receives the server's metrics. When nil a private registry
	// is used.
	Registry *prometheus.Registry
}

// Config represents the streamd configuration file structure.
type Config struct {
	// Addr is the listen address. Can be overridden by CLI flag.
	Addr string `yaml:"addr"`

	// Scripts is a directory of YAML stream scripts.
	Scripts string `yaml:"scripts"`

	// Speed multiplies every step delay; 0 streams without pauses.
	Speed float64 `yaml:"speed"`

	// AllowOrigin, when set, is sent as Access-Control-Allow-Origin.
	AllowOrigin string `yaml:"allowOrigin"`

	// NoDemo removes the built-in demo stream.
	NoDemo bool `yaml:"noDemo"`
}

// LoadConfig loads a configuration file in YAML format. Settings absent
// from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Addr:  "localhost:3001",
		Speed: 1,
	}
}

var ErrConfig = errors.New("invalid config")

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: empty addr", ErrConfig)
	}
	if c.Speed < 0 {
		return fmt.Errorf("%w: negative speed %v", ErrConfig, c.Speed)
	}
	if c.Scripts != "" {
		fi, err := os.Stat(c.Scripts)
		if err != nil {
			return fmt.Errorf("%w: scripts: %w", ErrConfig, err)
		}
		if !fi.IsDir() {
			return fmt.Errorf("%w: scripts: %s is not a directory", ErrConfig, c.Scripts)
		}
	}
	return nil
}
