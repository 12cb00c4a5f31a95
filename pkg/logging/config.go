package logging

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds logging configuration settings.
type Config struct {
	Level  Level  `toml:"level" env:"LEVEL"`
	Format Format `toml:"format" env:"FORMAT"`
}

// Finalize applies defaults, loads environment overrides using the given
// variable prefix (e.g. "LOGGING_"), and validates the configuration.
func (c *Config) Finalize(prefix string) error {
	c.loadDefaults()
	if err := c.loadEnv(prefix); err != nil {
		return err
	}
	return c.validate()
}

// Merge applies non-zero values from the overlay configuration.
func (c *Config) Merge(overlay *Config) {
	if overlay.Level != "" {
		c.Level = overlay.Level
	}
	if overlay.Format != "" {
		c.Format = overlay.Format
	}
}

func (c *Config) loadDefaults() {
	if c.Level == "" {
		c.Level = LevelInfo
	}
	if c.Format == "" {
		c.Format = FormatText
	}
}

func (c *Config) loadEnv(prefix string) error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: prefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c *Config) validate() error {
	if err := c.Level.Validate(); err != nil {
		return err
	}
	return c.Format.Validate()
}
