// Package postgres provides a PostgreSQL adapter backed by the pgx stdlib
// driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
	"github.com/leapstack-labs/tablesync/pkg/adapter"
)

func init() {
	adapter.Register("postgres", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}

// Adapter implements adapter.Adapter for PostgreSQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new PostgreSQL adapter instance. A nil logger discards
// output.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger}}
}

// DialectName returns the SQL dialect identity for this adapter.
func (a *Adapter) DialectName() string { return "postgresql" }

// DriverName returns the driver identity.
func (a *Adapter) DriverName() string { return "pgx" }

// Connect establishes a connection to PostgreSQL.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	dsn := buildDSN(cfg)

	a.Logger.Debug("connecting to postgres",
		slog.String("host", cfg.Host), slog.String("database", cfg.Database))

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open postgres connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping postgres: %w", err)
	}

	a.SQLDB = db
	a.Cfg = cfg
	return nil
}

// HasTable reports whether the named table exists in the given schema
// (default "public").
func (a *Adapter) HasTable(ctx context.Context, schema, name string) (bool, error) {
	if a.SQLDB == nil {
		return false, fmt.Errorf("database connection not established")
	}
	if schema == "" {
		schema = "public"
	}
	var n int
	err := a.SQLDB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = $1 AND table_name = $2`,
		schema, name,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check table existence: %w", err)
	}
	return n > 0, nil
}

// buildDSN constructs a key=value PostgreSQL connection string.
func buildDSN(cfg adapter.Config) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 5432
	}
	sslmode := "disable"
	if cfg.Options != nil {
		if mode, ok := cfg.Options["sslmode"]; ok {
			sslmode = mode
		}
	}

	dsn := fmt.Sprintf("host=%s port=%d sslmode=%s", host, port, sslmode)
	if cfg.Database != "" {
		dsn += fmt.Sprintf(" dbname=%s", cfg.Database)
	}
	if cfg.Username != "" {
		dsn += fmt.Sprintf(" user=%s", cfg.Username)
	}
	if cfg.Password != "" {
		dsn += fmt.Sprintf(" password=%s", cfg.Password)
	}
	return dsn
}

var _ adapter.Adapter = (*Adapter)(nil)
