package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/JaimeStill/package-lab/pkg/storage"
	"github.com/caarlos0/env/v11"
)

// Storage backends.
const (
	BackendDatabase   = "database"
	BackendFilesystem = "filesystem"
)

// EnvPackageTableName names the storage location when storage.table is unset.
const EnvPackageTableName = "PACKAGE_TABLE_NAME"

// StorageConfig selects where packages are persisted.
type StorageConfig struct {
	// Backend is "database" (SQL table) or "filesystem" (JSON objects).
	Backend string `toml:"backend" env:"BACKEND"`

	// Table is the storage location: a table name, or a key prefix for
	// the filesystem backend. Required.
	Table string `toml:"table" env:"TABLE"`

	// CreateTable creates the table at startup when it is missing.
	CreateTable bool `toml:"create_table" env:"CREATE_TABLE"`

	Filesystem storage.Config `toml:"filesystem" envPrefix:"FS_"`
}

// Finalize applies defaults, loads environment overrides, and validates the storage configuration.
func (c *StorageConfig) Finalize(prefix string) error {
	c.loadDefaults()
	if v := os.Getenv(EnvPackageTableName); v != "" {
		c.Table = v
	}
	if err := env.ParseWithOptions(c, env.Options{Prefix: prefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if err := c.validate(); err != nil {
		return err
	}
	if c.Backend == BackendFilesystem {
		if err := c.Filesystem.Finalize(prefix + "FS_"); err != nil {
			return fmt.Errorf("filesystem: %w", err)
		}
	}
	return nil
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *StorageConfig) Merge(overlay *StorageConfig) {
	if overlay.Backend != "" {
		c.Backend = overlay.Backend
	}
	if overlay.Table != "" {
		c.Table = overlay.Table
	}
	if overlay.CreateTable {
		c.CreateTable = true
	}
	c.Filesystem.Merge(&overlay.Filesystem)
}

func (c *StorageConfig) loadDefaults() {
	if c.Backend == "" {
		c.Backend = BackendDatabase
	}
}

func (c *StorageConfig) validate() error {
	if strings.TrimSpace(c.Table) == "" {
		return fmt.Errorf("table required (set storage.table or %s)", EnvPackageTableName)
	}
	switch c.Backend {
	case BackendDatabase, BackendFilesystem:
	default:
		return fmt.Errorf("invalid backend: %s (must be %s or %s)", c.Backend, BackendDatabase, BackendFilesystem)
	}
	return nil
}
