package storage

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/docker/go-units"
)

// Config contains blob storage configuration.
type Config struct {
	// BasePath is the root directory for filesystem storage.
	// Default: ".data/blobs"
	BasePath string `toml:"base_path" env:"BASE_PATH"`

	// MaxObjectSize bounds a single stored object, in human-readable form.
	// Default: "1MB"
	MaxObjectSize    string `toml:"max_object_size" env:"MAX_OBJECT_SIZE"`
	maxObjectSizeVal int64
}

// MaxObjectSizeBytes returns the parsed object size limit.
func (c *Config) MaxObjectSizeBytes() int64 {
	return c.maxObjectSizeVal
}

// Finalize applies defaults, loads environment overrides using the given
// variable prefix, and validates the storage configuration.
func (c *Config) Finalize(prefix string) error {
	c.loadDefaults()
	if err := env.ParseWithOptions(c, env.Options{Prefix: prefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxObjectSize != "" {
		c.MaxObjectSize = overlay.MaxObjectSize
	}
}

func (c *Config) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = ".data/blobs"
	}
	if c.MaxObjectSize == "" {
		c.MaxObjectSize = "1MB"
	}
}

func (c *Config) validate() error {
	if c.BasePath == "" {
		return fmt.Errorf("base_path required")
	}

	size, err := units.FromHumanSize(c.MaxObjectSize)
	if err != nil {
		return fmt.Errorf("invalid max_object_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_object_size must be positive")
	}
	c.maxObjectSizeVal = size

	return nil
}
