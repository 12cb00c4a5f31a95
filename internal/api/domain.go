package api

import (
	"context"
	"fmt"

	"github.com/JaimeStill/package-lab/internal/config"
	"github.com/JaimeStill/package-lab/internal/packages"
)

// Domain holds the domain systems that comprise the API.
type Domain struct {
	Packages   packages.System
	Repository packages.Repository
}

// NewDomain creates the domain systems from the API runtime, selecting the
// repository adapter that matches the configured storage backend.
func NewDomain(runtime *Runtime, cfg *config.Config) (*Domain, error) {
	repo, err := newRepository(runtime, cfg)
	if err != nil {
		return nil, err
	}

	return &Domain{
		Packages:   packages.NewSystem(repo, &cfg.Packages, runtime.Logger),
		Repository: repo,
	}, nil
}

// Prepare creates the package table when storage.create_table is set.
// It must run after the database has started.
func (d *Domain) Prepare(ctx context.Context, cfg *config.Config) error {
	if !cfg.Storage.CreateTable {
		return nil
	}
	repo, ok := d.Repository.(packages.SQLRepository)
	if !ok {
		return nil
	}
	return repo.EnsureTable(ctx)
}

func newRepository(runtime *Runtime, cfg *config.Config) (packages.Repository, error) {
	opts := cfg.Packages.RepositoryOptions()

	switch {
	case runtime.Database != nil:
		dialect, err := packages.DialectForDriver(runtime.Database.Driver())
		if err != nil {
			return nil, err
		}
		return packages.NewRepository(runtime.Database.Connection(), dialect, cfg.Storage.Table, opts, runtime.Logger)
	case runtime.Storage != nil:
		return packages.NewBlobRepository(runtime.Storage, cfg.Storage.Table, opts, runtime.Logger)
	}

	return nil, fmt.Errorf("%w: no storage backend initialized", packages.ErrConfiguration)
}
