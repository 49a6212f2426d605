package sync

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/tablesync/pkg/frame"
	"github.com/leapstack-labs/tablesync/pkg/schema"
)

// CreateTable creates the target table from the frame's inferred schema,
// attaching an index on the key columns (for standard/unique index kinds),
// plus any foreign keys and constraints. Callers are responsible for not
// invoking it on an existing table; Reconcile checks existence first.
//
// Validation runs before any DDL. The table, its index and constraints are
// materialized in a single transaction.
func (e *Engine) CreateTable(ctx context.Context, f *frame.Frame, table string, opts Options) error {
	if f == nil || f.NumColumns() == 0 {
		return fmt.Errorf("dataset must be a non-empty frame")
	}
	for _, k := range opts.Keys {
		if k == "" {
			return fmt.Errorf("keys must be non-empty column names")
		}
	}
	if len(opts.Keys) > 0 && !opts.IndexKind.Valid() {
		return fmt.Errorf("index kind must be one of standard|unique|primary (got %q)", opts.IndexKind)
	}

	e.logger.Info("creating table",
		slog.String("table", table), slog.String("schema", opts.Schema),
		slog.String("index", string(opts.IndexKind)))

	// Primary keys only apply when the index kind asks for them.
	var primaryKeys []string
	if len(opts.Keys) > 0 && opts.IndexKind == schema.IndexPrimary {
		primaryKeys = opts.Keys
	}
	columns := schema.BuildColumns(f, primaryKeys, e.logger)

	createSQL, err := schema.CreateTableSQL(e.dialect, opts.Schema, table, columns, opts.ForeignKeys, opts.Constraints)
	if err != nil {
		return err
	}

	var indexSQL string
	if len(opts.Keys) > 0 && (opts.IndexKind == schema.IndexStandard || opts.IndexKind == schema.IndexUnique) {
		idx, err := schema.BuildIndex(table, f.Names(), opts.Keys, opts.IndexKind == schema.IndexUnique)
		if err != nil {
			return err
		}
		indexSQL = schema.CreateIndexSQL(e.dialect, opts.Schema, table, idx)
		e.logger.Debug("creating index",
			slog.String("index", idx.Name), slog.Any("columns", idx.Columns))
	}

	db := e.db.DB()
	if db == nil {
		return fmt.Errorf("database connection not established")
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	if _, err := tx.ExecContext(ctx, createSQL); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}
	if indexSQL != "" {
		if _, err := tx.ExecContext(ctx, indexSQL); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to create index on %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema transaction: %w", err)
	}

	e.logger.Info("table created", slog.String("table", table))
	return nil
}
