// Package adapter defines the connection-provider contract the sync engine
// consumes, plus a database/sql base implementation shared by the concrete
// adapters in pkg/adapters.
package adapter

import (
	"context"
	"database/sql"
)

// Config holds the configuration for connecting to a database.
type Config struct {
	// Type selects the adapter (e.g. "sqlite", "postgres").
	Type string

	// Path is the file path for file-based databases. Use ":memory:" for
	// an in-memory database.
	Path string

	// Host and Port locate network-based databases.
	Host string
	Port int

	// Database is the database name.
	Database string

	// Username and Password authenticate network-based databases.
	Username string
	Password string

	// Schema is the default schema namespace, when the backend has one.
	Schema string

	// Options carries additional driver-specific settings.
	Options map[string]string
}

// Adapter is the contract every database adapter implements. The sync
// engine drives transactions itself, so adapters expose the underlying
// *sql.DB rather than wrapping statement execution completely.
type Adapter interface {
	// Connect establishes the connection described by cfg.
	Connect(ctx context.Context, cfg Config) error

	// Close releases the connection and its resources.
	Close() error

	// DB returns the underlying database handle, or nil before Connect.
	DB() *sql.DB

	// Exec runs a statement that returns no rows.
	Exec(ctx context.Context, query string, args ...any) error

	// HasTable reports whether the named table exists in the given schema
	// namespace (empty means the backend default).
	HasTable(ctx context.Context, schema, name string) (bool, error)

	// DialectName returns the adapter's declared SQL dialect identity.
	DialectName() string

	// DriverName returns the underlying driver identity. Dialect resolution
	// inspects both, since some drivers only populate one meaningfully.
	DriverName() string
}
