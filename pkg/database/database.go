// Package database manages the database/sql connection used by SQL-backed
// repositories. Postgres is reached through the pgx stdlib driver and SQLite
// through the pure-Go modernc driver; both register with database/sql.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/package-lab/pkg/lifecycle"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// ErrNotReady indicates the connection was requested before Start succeeded.
var ErrNotReady = errors.New("database not ready")

// System owns a database connection pool and ties it to the service lifecycle.
type System interface {
	// Connection returns the underlying pool.
	Connection() *sql.DB

	// Driver returns the database/sql driver name in use.
	Driver() string

	// Start verifies connectivity and registers pool shutdown with the coordinator.
	Start(lc *lifecycle.Coordinator) error
}

type database struct {
	conn   *sql.DB
	driver string
	logger *slog.Logger
	cfg    Config
}

// New opens (but does not verify) a connection pool for cfg.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	db, err := sql.Open(cfg.Driver, cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	return &database{
		conn:   db,
		driver: cfg.Driver,
		logger: logger.With("system", "database"),
		cfg:    *cfg,
	}, nil
}

func (d *database) Connection() *sql.DB {
	return d.conn
}

func (d *database) Driver() string {
	return d.driver
}

func (d *database) Start(lc *lifecycle.Coordinator) error {
	d.logger.Info("starting database connection", "driver", d.driver)

	ctx, cancel := context.WithTimeout(lc.Context(), d.cfg.ConnTimeoutDuration())
	defer cancel()

	if err := d.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: ping: %w", ErrNotReady, err)
	}

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		d.logger.Info("closing database connection")

		if err := d.conn.Close(); err != nil {
			d.logger.Error("database close error", "error", err)
		} else {
			d.logger.Info("database connection closed")
		}
	})

	d.logger.Info("database connection established")
	return nil
}
