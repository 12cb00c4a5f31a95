package config

import (
	"fmt"

	"github.com/JaimeStill/package-lab/pkg/openapi"
	"github.com/caarlos0/env/v11"
	"github.com/docker/go-units"
)

// APIConfig contains HTTP API surface configuration.
type APIConfig struct {
	BasePath       string         `toml:"base_path" env:"BASE_PATH"`
	MaxBodySize    string         `toml:"max_body_size" env:"MAX_BODY_SIZE"`
	OpenAPI        openapi.Config `toml:"openapi" envPrefix:"OPENAPI_"`
	maxBodySizeVal int64
}

// MaxBodySizeBytes returns the parsed request body limit.
func (c *APIConfig) MaxBodySizeBytes() int64 {
	return c.maxBodySizeVal
}

// Finalize applies defaults, loads environment overrides, and validates the API configuration.
func (c *APIConfig) Finalize(prefix string) error {
	c.loadDefaults()
	if err := env.ParseWithOptions(c, env.Options{Prefix: prefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if err := c.validate(); err != nil {
		return err
	}
	if err := c.OpenAPI.Finalize(prefix + "OPENAPI_"); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxBodySize != "" {
		c.MaxBodySize = overlay.MaxBodySize
	}
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "1MB"
	}
}

func (c *APIConfig) validate() error {
	size, err := units.FromHumanSize(c.MaxBodySize)
	if err != nil {
		return fmt.Errorf("invalid max_body_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_body_size must be positive")
	}
	c.maxBodySizeVal = size
	return nil
}
