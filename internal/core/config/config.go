// Package config handles configuration loading and validation for lia.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/hay-kot/lia/internal/core/styles"
	"github.com/hay-kot/lia/internal/core/task"
)

// DefaultStoreFile is the task file name used when store_path is unset.
const DefaultStoreFile = "tasks.txt"

// Config holds the application configuration.
type Config struct {
	Store   string        `yaml:"store_path"`
	Theme   string        `yaml:"theme"`
	Display DisplayConfig `yaml:"display"`
	DataDir string        `yaml:"-"` // set by caller, not from config file
}

// DisplayConfig controls how tasks are rendered by list and find.
type DisplayConfig struct {
	// DateFormat is a Go time layout used for deadline and event dates.
	DateFormat string `yaml:"date_format"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Theme: styles.DefaultTheme,
		Display: DisplayConfig{
			DateFormat: task.DisplayDateFormat,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	// Apply defaults for zero values
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
	if c.Display.DateFormat == "" {
		c.Display.DateFormat = defaults.Display.DateFormat
	}
}

// StorePath returns the task file path. Relative store_path values are
// resolved against the data directory.
func (c *Config) StorePath() string {
	if c.Store == "" {
		return filepath.Join(c.DataDir, DefaultStoreFile)
	}
	if filepath.IsAbs(c.Store) {
		return c.Store
	}
	return filepath.Join(c.DataDir, c.Store)
}
