// Package sync implements the table synchronization engine: it reconciles an
// in-memory frame against a relational table via append, upsert or replace,
// creating the table (with indexes and constraints) when it does not exist,
// batching commits, and isolating per-row failures so one bad row never
// aborts a run.
package sync

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/tablesync/pkg/adapter"
	"github.com/leapstack-labs/tablesync/pkg/dialect"
	"github.com/leapstack-labs/tablesync/pkg/frame"
	"github.com/leapstack-labs/tablesync/pkg/schema"
)

// Operation selects the reconciliation mode.
type Operation string

// Reconciliation operations.
const (
	Append  Operation = "append"
	Upsert  Operation = "upsert"
	Replace Operation = "replace"
)

// DefaultCommitBatch is the number of processed rows per commit when the
// caller does not choose one.
const DefaultCommitBatch = 50

// ErrUnknownOperation is returned for operation literals outside
// append/upsert/replace.
var ErrUnknownOperation = errors.New("invalid operation, valid values: append|upsert|replace")

// Engine reconciles frames into database tables through one adapter and its
// resolved dialect.
type Engine struct {
	db      adapter.Adapter
	dialect *dialect.Dialect
	logger  *slog.Logger
}

// Config holds engine configuration.
type Config struct {
	// Adapter is the connected database adapter. Required.
	Adapter adapter.Adapter
	// Logger is the structured logger (nil discards).
	Logger *slog.Logger
}

// New creates an engine and resolves the adapter's dialect. An adapter whose
// identity matches no supported dialect is a hard error; no fallback dialect
// is attempted.
func New(cfg Config) (*Engine, error) {
	if cfg.Adapter == nil {
		return nil, fmt.Errorf("adapter is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	d, err := dialect.Resolve(cfg.Adapter.DialectName(), cfg.Adapter.DriverName())
	if err != nil {
		return nil, err
	}

	return &Engine{db: cfg.Adapter, dialect: d, logger: logger}, nil
}

// Dialect returns the engine's resolved dialect handle.
func (e *Engine) Dialect() *dialect.Dialect {
	return e.dialect
}

// Options tunes a reconciliation call.
type Options struct {
	// Schema is the optional schema namespace prefixing the table.
	Schema string
	// Keys are the key columns used for existence checks. Required for
	// upsert.
	Keys []string
	// IndexKind is what to build on the key columns if the table has to be
	// created: standard, unique or primary.
	IndexKind schema.IndexKind
	// CommitBatch is the number of processed rows per commit. Zero means
	// DefaultCommitBatch; negative values are rejected.
	CommitBatch int
	// Parallel processes rows concurrently, each on its own connection and
	// transaction. Commit batching does not apply across workers.
	Parallel bool
	// MaxWorkers bounds the parallel mode worker pool. Zero derives the
	// bound from available parallelism.
	MaxWorkers int
	// ForeignKeys and Constraints are attached when the table is created.
	ForeignKeys []dialect.ForeignKeySpec
	Constraints []dialect.ConstraintSpec
}

// validate enforces the pre-flight rules shared by Reconcile. Everything
// here fails before any I/O happens.
func validate(op Operation, f *frame.Frame, opts Options) error {
	switch op {
	case Append, Upsert, Replace:
	default:
		return fmt.Errorf("%w (got %q)", ErrUnknownOperation, op)
	}
	if f == nil || f.NumColumns() == 0 {
		return fmt.Errorf("dataset must be a non-empty frame")
	}
	if op == Upsert && len(opts.Keys) == 0 {
		return fmt.Errorf("upsert operation requires a non-empty keys list")
	}
	for _, k := range opts.Keys {
		if k == "" {
			return fmt.Errorf("keys must be non-empty column names")
		}
	}
	if len(opts.Keys) > 0 && !opts.IndexKind.Valid() {
		return fmt.Errorf("index kind must be one of standard|unique|primary (got %q)", opts.IndexKind)
	}
	if opts.CommitBatch < 0 {
		return fmt.Errorf("commit batch size must be a positive integer")
	}
	return nil
}
