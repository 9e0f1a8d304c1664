// Package config loads the vlanctl configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/plexsphere/vlanctl/internal/network"
)

const (
	// DefaultPath is where vlanctl looks for its configuration file.
	DefaultPath = "/etc/vlanctl/config.yaml"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"
)

// Config is the top-level vlanctl configuration, populated from a YAML file
// via ParseConfig.
type Config struct {
	// LogLevel is the log level: "debug", "info", "warn", "error".
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// Topology is the path of the topology file applied by default.
	Topology string `yaml:"topology"`

	Network network.Config `yaml:"network"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	c.Network.ApplyDefaults()
}

// Validate checks that values are acceptable.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: invalid log_level %q (must be debug, info, warn or error)", c.LogLevel)
	}
	return c.Network.Validate()
}

// ParseConfig reads a YAML configuration file, applies defaults and validates it.
// When optional is true a missing file yields the default configuration.
func ParseConfig(path string, optional bool) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case optional && errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
