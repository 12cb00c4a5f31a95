package openapi

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds document metadata settings.
type Config struct {
	Title       string `toml:"title" env:"TITLE"`
	Description string `toml:"description" env:"DESCRIPTION"`
}

// Finalize applies defaults and loads environment overrides using the given prefix.
func (c *Config) Finalize(prefix string) error {
	c.loadDefaults()
	if err := env.ParseWithOptions(c, env.Options{Prefix: prefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Merge applies non-zero values from the overlay configuration.
func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
}

func (c *Config) loadDefaults() {
	if c.Title == "" {
		c.Title = "Package Lab API"
	}
	if c.Description == "" {
		c.Description = "Creates packages on behalf of the authenticated caller."
	}
}
