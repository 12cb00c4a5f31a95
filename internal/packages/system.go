package packages

import (
	"context"
	"fmt"
	"time"

	"github.com/JaimeStill/package-lab/internal/identity"
	"github.com/caarlos0/env/v11"
)

// DefaultRetention is how long a package is retained after creation.
const DefaultRetention = 60 * time.Second

// System defines the interface for package operations.
type System interface {
	// Create validates req, stamps it with user and a retention deadline,
	// and persists it. Repository errors are returned unchanged.
	Create(ctx context.Context, req PackageRequest, user identity.AppUser) (*Package, error)
}

// Repository persists packages keyed by name.
type Repository interface {
	// Create writes item and returns it as written.
	Create(ctx context.Context, item Package) (*Package, error)
}

// RepositoryOptions controls write semantics shared by repository adapters.
type RepositoryOptions struct {
	// RejectDuplicates makes Create fail with ErrDuplicate when the name
	// is already stored instead of overwriting it.
	RejectDuplicates bool
}

// Config contains package service configuration.
type Config struct {
	Retention        string `toml:"retention" env:"RETENTION"`
	RejectDuplicates bool   `toml:"reject_duplicates" env:"REJECT_DUPLICATES"`
}

// RetentionDuration parses and returns the retention period.
func (c *Config) RetentionDuration() time.Duration {
	d, err := time.ParseDuration(c.Retention)
	if err != nil {
		return DefaultRetention
	}
	return d
}

// RepositoryOptions returns the repository write options implied by c.
func (c *Config) RepositoryOptions() RepositoryOptions {
	return RepositoryOptions{RejectDuplicates: c.RejectDuplicates}
}

// Finalize applies defaults, loads environment overrides using the given
// variable prefix, and validates the configuration.
func (c *Config) Finalize(prefix string) error {
	c.loadDefaults()
	if err := env.ParseWithOptions(c, env.Options{Prefix: prefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	if overlay.Retention != "" {
		c.Retention = overlay.Retention
	}
	if overlay.RejectDuplicates {
		c.RejectDuplicates = true
	}
}

func (c *Config) loadDefaults() {
	if c.Retention == "" {
		c.Retention = DefaultRetention.String()
	}
}

func (c *Config) validate() error {
	d, err := time.ParseDuration(c.Retention)
	if err != nil {
		return fmt.Errorf("invalid retention: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("retention must be positive")
	}
	return nil
}
