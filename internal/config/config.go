// Package config provides configuration loading for sage.
//
// Configuration is loaded from an optional YAML file, then overridden by
// environment variables, then backfilled with defaults. All paths support
// a leading ~ for the user's home directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds the complete sage configuration.
type Config struct {
	Store   StoreConfig   `koanf:"store"`
	Logging LoggingConfig `koanf:"logging"`
	UI      UIConfig      `koanf:"ui"`
}

// StoreConfig holds knowledge store configuration.
type StoreConfig struct {
	Path string `koanf:"path"` // Knowledge file location (default: ~/.config/sage/knowledge.json)
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error (default: warn)
	Format string `koanf:"format"` // console or json (default: console)
}

// UIConfig holds terminal presentation configuration.
type UIConfig struct {
	NoColor bool `koanf:"no_color"` // Disable styled output
}

// Validate validates the configuration.
//
// Returns an error if:
//   - Store path is empty
//   - Logging level is not one of debug, info, warn, error
//   - Logging format is not console or json
func (c *Config) Validate() error {
	if c.Store.Path == "" {
		return fmt.Errorf("store path must not be empty")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level: %q (must be debug, info, warn, or error)", c.Logging.Level)
	}

	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("invalid logging format: %q (must be console or json)", c.Logging.Format)
	}

	return nil
}

// DefaultConfigPath returns the default YAML config location,
// ~/.config/sage/config.yaml.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "sage", "config.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}
