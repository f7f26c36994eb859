// Package config holds the snapshot tool's configuration: defaults,
// an optional YAML file, and ZMUDUMP_* environment overrides, applied
// in that order.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config drives the zmudump CLI.
type Config struct {
	// PID is the target process to snapshot.
	PID int `yaml:"pid" env:"ZMUDUMP_PID"`
	// Output is the artifact path. Empty means the default artifact
	// file name in the working directory.
	Output string `yaml:"output" env:"ZMUDUMP_OUTPUT"`
	// Verbosity mirrors the host trace verbosity advisory: at 0 the
	// snapshotter warns that comments will be empty.
	Verbosity int `yaml:"verbosity" env:"ZMUDUMP_VERBOSITY"`
	// NoColor disables bold region diagnostics.
	NoColor bool `yaml:"no_color" env:"ZMUDUMP_NO_COLOR"`
	// Quiet suppresses per-region diagnostic lines.
	Quiet bool `yaml:"quiet" env:"ZMUDUMP_QUIET"`
}

// Load builds a Config from an optional YAML file at path (empty path
// skips the file) and then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment overrides: %w", err)
	}
	return cfg, nil
}

// Validate checks the config for a live snapshot run.
func (c *Config) Validate() error {
	if c.PID <= 0 {
		return fmt.Errorf("a target pid is required (got %d)", c.PID)
	}
	return nil
}
