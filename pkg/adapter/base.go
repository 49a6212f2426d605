package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// BaseSQLAdapter provides common database/sql functionality. Embed it in
// concrete adapter implementations to get standard Close, Exec and DB
// implementations.
type BaseSQLAdapter struct {
	SQLDB  *sql.DB
	Cfg    Config
	Logger *slog.Logger
}

// DB returns the underlying database handle.
func (b *BaseSQLAdapter) DB() *sql.DB {
	return b.SQLDB
}

// IsConnected reports whether the connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.SQLDB != nil
}

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	if b.SQLDB != nil {
		if b.Logger != nil {
			b.Logger.Debug("closing database connection")
		}
		return b.SQLDB.Close()
	}
	return nil
}

// Exec executes a statement that returns no rows.
func (b *BaseSQLAdapter) Exec(ctx context.Context, query string, args ...any) error {
	if b.SQLDB == nil {
		return fmt.Errorf("database connection not established")
	}
	if _, err := b.SQLDB.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}
