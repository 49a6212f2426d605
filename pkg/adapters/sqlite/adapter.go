// Package sqlite provides a SQLite adapter backed by modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/leapstack-labs/tablesync/pkg/adapter"
	"github.com/leapstack-labs/tablesync/pkg/dialect"
	_ "modernc.org/sqlite" // sqlite driver
)

func init() {
	adapter.Register("sqlite", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}

// Adapter implements adapter.Adapter for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter instance. A nil logger discards output.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger}}
}

// DialectName returns the SQL dialect identity for this adapter.
func (a *Adapter) DialectName() string { return "sqlite" }

// DriverName returns the driver identity.
func (a *Adapter) DriverName() string { return "sqlite" }

var pragmaStmt = regexp.MustCompile(`^PRAGMA\s+(\w+)\s*=\s*(\w+)$`)

// Connect opens the SQLite database. Use ":memory:" as the path for an
// in-memory database. Dialect connection pragmas (e.g. opt-in foreign-key
// enforcement) are encoded in the DSN so that the driver replays them on
// every new physical connection in the pool.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	d, err := dialect.Resolve(a.DialectName(), a.DriverName())
	if err != nil {
		return err
	}
	dsn := path
	for _, pragma := range d.Pragmas {
		if m := pragmaStmt.FindStringSubmatch(strings.TrimSpace(pragma)); m != nil {
			sep := "?"
			if strings.Contains(dsn, "?") {
				sep = "&"
			}
			dsn += fmt.Sprintf("%s_pragma=%s(%s)", sep, m[1], m[2])
		}
	}

	a.Logger.Debug("connecting to sqlite", slog.String("path", path))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite connection: %w", err)
	}
	// Every pooled connection to :memory: would otherwise open its own
	// private database.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite: %w", err)
	}

	a.SQLDB = db
	a.Cfg = cfg
	return nil
}

// HasTable reports whether the named table exists. SQLite has no schema
// namespaces; the schema argument is ignored.
func (a *Adapter) HasTable(ctx context.Context, _, name string) (bool, error) {
	if a.SQLDB == nil {
		return false, fmt.Errorf("database connection not established")
	}
	var n int
	err := a.SQLDB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check table existence: %w", err)
	}
	return n > 0, nil
}

var _ adapter.Adapter = (*Adapter)(nil)
