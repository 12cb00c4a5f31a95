// Package infrastructure provides core service initialization for application startup.
// It assembles the dependencies (logging, lifecycle, and the configured storage
// backend) that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"

	"github.com/JaimeStill/package-lab/internal/config"
	"github.com/JaimeStill/package-lab/pkg/database"
	"github.com/JaimeStill/package-lab/pkg/lifecycle"
	"github.com/JaimeStill/package-lab/pkg/logging"
	"github.com/JaimeStill/package-lab/pkg/storage"
)

// Infrastructure holds the core systems required by domain modules.
// Exactly one of Database and Storage is set, matching storage.backend.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	return NewWithLogger(cfg, logging.New(&cfg.Logging))
}

// NewWithLogger creates an Infrastructure that logs through logger.
func NewWithLogger(cfg *config.Config, logger *slog.Logger) (*Infrastructure, error) {
	infra := &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
	}

	switch cfg.Storage.Backend {
	case config.BackendDatabase:
		db, err := database.New(&cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("database init failed: %w", err)
		}
		infra.Database = db
	case config.BackendFilesystem:
		store, err := storage.New(&cfg.Storage.Filesystem, logger)
		if err != nil {
			return nil, fmt.Errorf("storage init failed: %w", err)
		}
		infra.Storage = store
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
	}

	return infra, nil
}

// Start initializes the configured systems and registers them with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if i.Database != nil {
		if err := i.Database.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("database start failed: %w", err)
		}
	}
	if i.Storage != nil {
		if err := i.Storage.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("storage start failed: %w", err)
		}
	}
	return nil
}
