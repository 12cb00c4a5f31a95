// Package config provides application configuration management with support for
// TOML files, environment variable overrides, and configuration overlays.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/JaimeStill/package-lab/internal/identity"
	"github.com/JaimeStill/package-lab/internal/packages"
	"github.com/JaimeStill/package-lab/pkg/database"
	"github.com/JaimeStill/package-lab/pkg/logging"
	"github.com/pelletier/go-toml/v2"
)

const (
	// BaseConfigFile is the primary configuration file name.
	BaseConfigFile = "config.toml"

	// OverlayConfigPattern is the file name pattern for environment-specific overlays.
	OverlayConfigPattern = "config.%s.toml"

	// EnvServiceEnv specifies the environment name for configuration overlays.
	EnvServiceEnv = "SERVICE_ENV"

	// EnvServiceShutdownTimeout overrides the service shutdown timeout.
	EnvServiceShutdownTimeout = "SERVICE_SHUTDOWN_TIMEOUT"
)

// Config represents the root service configuration.
type Config struct {
	Server          ServerConfig       `toml:"server"`
	Logging         logging.Config     `toml:"logging"`
	Database        database.Config    `toml:"database"`
	Storage         StorageConfig      `toml:"storage"`
	API             APIConfig          `toml:"api"`
	Auth            identity.ClaimKeys `toml:"auth"`
	Packages        packages.Config    `toml:"packages"`
	ShutdownTimeout string             `toml:"shutdown_timeout"`
}

// ShutdownTimeoutDuration parses and returns the shutdown timeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base configuration file from dir and applies any
// environment-specific overlay. A missing base file yields an empty
// configuration so deployments can rely on environment variables alone.
func Load(dir string) (*Config, error) {
	cfg, err := load(dir, BaseConfigFile)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		cfg = &Config{}
	}

	if path := overlayPath(dir); path != "" {
		overlay, err := load(dir, path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}
	return cfg, nil
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize("SERVER_"); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Logging.Finalize("LOGGING_"); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Storage.Finalize("STORAGE_"); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if c.Storage.Backend == BackendDatabase {
		if err := c.Database.Finalize("DATABASE_"); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}
	if err := c.API.Finalize("API_"); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Auth.Finalize("AUTH_"); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Packages.Finalize("PACKAGES_"); err != nil {
		return fmt.Errorf("packages: %w", err)
	}
	return nil
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	c.Server.Merge(&overlay.Server)
	c.Logging.Merge(&overlay.Logging)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Auth.Merge(&overlay.Auth)
	c.Packages.Merge(&overlay.Packages)
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvServiceShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(dir, name string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", name, err)
	}

	return &cfg, nil
}

func overlayPath(dir string) string {
	if env := os.Getenv(EnvServiceEnv); env != "" {
		name := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return name
		}
	}
	return ""
}
