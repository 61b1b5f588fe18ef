// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Config holds the paths hazreport works with. Every field has a sensible
// default, so a bare invocation needs no environment at all.
type Config struct {
	// DataDir holds the kv database. Defaults to ~/.hazreport.
	DataDir string `env:"HAZREPORT_DATA_DIR"`

	// OutputDir receives generated report documents. Defaults to the
	// current working directory.
	OutputDir string `env:"HAZREPORT_OUTPUT_DIR"`
}

// Load parses the environment and fills in defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home dir: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".hazreport")
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	return cfg, nil
}

// DatabasePath returns the kv database file path inside DataDir.
func (c Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "hazreport.db")
}
