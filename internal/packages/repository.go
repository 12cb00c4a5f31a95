package packages

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JaimeStill/package-lab/pkg/database"
	"github.com/JaimeStill/package-lab/pkg/repository"
	"github.com/jackc/pgx/v5"
)

// Dialect selects the SQL flavour used by the sql repository.
type Dialect string

// Supported SQL dialects.
const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// DialectForDriver returns the dialect matching a database/sql driver name.
func DialectForDriver(driver string) (Dialect, error) {
	switch driver {
	case database.DriverPostgres:
		return DialectPostgres, nil
	case database.DriverSQLite:
		return DialectSQLite, nil
	}
	return "", fmt.Errorf("%w: unsupported database driver %q", ErrConfiguration, driver)
}

var columns = []string{
	"name", "content_type", "file_name", "description",
	"user_id", "user_name", "created_on", "ttl",
}

type sqlRepository struct {
	db      repository.Executor
	dialect Dialect
	table   string
	opts    RepositoryOptions
	logger  *slog.Logger
}

// SQLRepository is a Repository backed by a relational table.
type SQLRepository interface {
	Repository

	// EnsureTable creates the package table when it does not exist.
	EnsureTable(ctx context.Context) error
}

// NewRepository creates a Repository that writes to table through db, which
// may be a *sql.DB or a caller-owned *sql.Tx. An empty table returns
// ErrConfiguration.
func NewRepository(db repository.Executor, dialect Dialect, table string, opts RepositoryOptions, logger *slog.Logger) (SQLRepository, error) {
	if strings.TrimSpace(table) == "" {
		return nil, ErrConfiguration
	}
	if dialect != DialectPostgres && dialect != DialectSQLite {
		return nil, fmt.Errorf("%w: unsupported dialect %q", ErrConfiguration, dialect)
	}

	return &sqlRepository{
		db:      db,
		dialect: dialect,
		table:   quoteTable(dialect, table),
		opts:    opts,
		logger:  logger.With("repository", "sql", "table", table),
	}, nil
}

func (r *sqlRepository) Create(ctx context.Context, item Package) (*Package, error) {
	var createdOn any = item.CreatedOn
	if r.dialect == DialectSQLite {
		createdOn = item.CreatedOn.UTC().Format(CreatedOnLayout)
	}

	_, err := r.db.ExecContext(ctx, r.insertQuery(),
		item.Name,
		item.ContentType,
		item.FileName,
		item.Description,
		item.UserID,
		item.UserName,
		createdOn,
		item.TTL,
	)
	if err == nil {
		return &item, nil
	}

	if r.opts.RejectDuplicates {
		// Exec never reports sql.ErrNoRows, so only the duplicate mapping applies.
		if mapped := repository.MapError(err, err, ErrDuplicate); errors.Is(mapped, ErrDuplicate) {
			return nil, mapped
		}
	}

	r.logger.Error("package write failed", "name", item.Name, "error", err)
	return nil, &StorageError{Err: err}
}

func (r *sqlRepository) EnsureTable(ctx context.Context) error {
	createdOn := "TIMESTAMPTZ"
	if r.dialect == DialectSQLite {
		createdOn = "TEXT"
	}

	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	name TEXT PRIMARY KEY,
	content_type TEXT NOT NULL,
	file_name TEXT NOT NULL,
	description TEXT,
	user_id TEXT NOT NULL,
	user_name TEXT NOT NULL,
	created_on %s NOT NULL,
	ttl BIGINT NOT NULL
)`, r.table, createdOn)

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return &StorageError{Err: fmt.Errorf("create table: %w", err)}
	}

	r.logger.Info("package table ready")
	return nil
}

func (r *sqlRepository) insertQuery() string {
	placeholders := make([]string, len(columns))
	for i := range columns {
		if r.dialect == DialectPostgres {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
		} else {
			placeholders[i] = "?"
		}
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		r.table, strings.Join(columns, ", "), strings.Join(placeholders, ", "),
	)

	if r.opts.RejectDuplicates {
		return query
	}

	updates := make([]string, 0, len(columns)-1)
	for _, col := range columns[1:] {
		updates = append(updates, fmt.Sprintf("%s = excluded.%s", col, col))
	}
	return query + " ON CONFLICT (name) DO UPDATE SET " + strings.Join(updates, ", ")
}

// quoteTable quotes a table name, honouring a schema qualifier for Postgres.
func quoteTable(dialect Dialect, table string) string {
	if dialect == DialectPostgres {
		return pgx.Identifier(strings.Split(table, ".")).Sanitize()
	}
	return `"` + strings.ReplaceAll(table, `"`, `""`) + `"`
}
