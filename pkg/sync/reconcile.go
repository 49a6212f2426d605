package sync

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/tablesync/pkg/frame"
	"github.com/leapstack-labs/tablesync/pkg/schema"
)

// savepointName scopes each row's writes inside the batch transaction so a
// failed row can be rolled back without losing the batch.
const savepointName = "tablesync_row"

// queryExecer is satisfied by *sql.Tx, *sql.DB and *sql.Conn; the per-row
// decision procedure is identical in sequential and parallel mode, only the
// transaction scope differs.
type queryExecer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// rowAction is the outcome of one row's decision procedure.
type rowAction int

const (
	actionInsert rowAction = iota
	actionUpdate
	actionSkip
)

// Reconcile walks the frame's rows in order and brings the target table in
// line with them according to the operation: append inserts missing rows and
// skips existing ones, upsert inserts or updates by key, replace clears the
// table once and inserts everything. A missing table is created first from
// the frame's inferred schema.
//
// Row-level problems never abort the run; they are recorded in the result's
// Failures list. Reconcile returns a non-nil error only for pre-flight
// validation failures or when the target table cannot be prepared at all.
func (e *Engine) Reconcile(ctx context.Context, op Operation, f *frame.Frame, table string, opts Options) (*Result, error) {
	if err := validate(op, f, opts); err != nil {
		return nil, err
	}
	batch := opts.CommitBatch
	if batch == 0 {
		batch = DefaultCommitBatch
	}

	db := e.db.DB()
	if db == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	e.logger.Info("starting reconciliation",
		slog.String("operation", string(op)), slog.String("table", table),
		slog.Int("rows", f.Len()), slog.Int("commit_batch", batch))

	exists, err := e.db.HasTable(ctx, opts.Schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to check table existence: %w", err)
	}
	if !exists {
		e.logger.Info("target table missing, creating it", slog.String("table", table))
		if err := e.CreateTable(ctx, f, table, opts); err != nil {
			return nil, err
		}
	}

	result := newResult(op, opts.Schema, table)
	qualified := schema.QualifiedName(e.dialect, opts.Schema, table)

	// Replace clears the whole table once, committed on its own, before any
	// row processing.
	if op == Replace {
		e.logger.Info("replace operation, clearing table", slog.String("table", table))
		if _, err := db.ExecContext(ctx, "DELETE FROM "+qualified); err != nil {
			result.Failures = append(result.Failures, Failure{Step: "drop table", Error: err.Error()})
			return result, nil
		}
	}

	if opts.Parallel {
		e.reconcileParallel(ctx, op, f, qualified, opts, result)
	} else {
		e.reconcileSequential(ctx, op, f, qualified, opts.Keys, batch, result)
	}

	e.logger.Info("reconciliation finished",
		slog.String("run_id", result.RunID),
		slog.Int("insertions", result.Insertions), slog.Int("updates", result.Updates),
		slog.Int("skips", result.Skips), slog.Int("failures", len(result.Failures)))
	return result, nil
}

// reconcileSequential processes rows in dataset order on a single connection,
// committing every batch rows. Each row runs inside a savepoint so its
// failure rolls back alone.
func (e *Engine) reconcileSequential(ctx context.Context, op Operation, f *frame.Frame, qualified string, keys []string, batch int, result *Result) {
	db := e.db.DB()
	step := "drop table"

	conn, err := db.Conn(ctx)
	if err != nil {
		result.Failures = append(result.Failures, Failure{Step: step, Error: err.Error()})
		return
	}
	defer func() { _ = conn.Close() }()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		result.Failures = append(result.Failures, Failure{Step: step, Error: err.Error()})
		return
	}

	rowsInBatch := 0
	for i := 0; i < f.Len(); i++ {
		values := f.NormalizedRow(i)

		action, failedStep, rowErr := e.processRow(ctx, tx, op, f, qualified, keys, values, true)
		if rowErr != nil {
			e.logger.Error("row failed",
				slog.Int("row", i), slog.String("step", failedStep), slog.String("error", rowErr.Error()))
			if _, spErr := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+savepointName); spErr != nil {
				// The transaction itself is gone; record the terminal
				// failure and stop.
				result.Failures = append(result.Failures,
					Failure{Step: failedStep, Row: &RowRef{Index: i, Values: renderRow(f, values)}, Error: rowErr.Error()},
					Failure{Step: failedStep, Error: spErr.Error()},
				)
				_ = tx.Rollback()
				return
			}
			result.Failures = append(result.Failures,
				Failure{Step: failedStep, Row: &RowRef{Index: i, Values: renderRow(f, values)}, Error: rowErr.Error()})
			continue
		}

		switch action {
		case actionInsert:
			result.Insertions++
		case actionUpdate:
			result.Updates++
		case actionSkip:
			result.Skips++
		}

		rowsInBatch++
		if rowsInBatch >= batch {
			if err := tx.Commit(); err != nil {
				result.Failures = append(result.Failures, Failure{Step: "drop table", Error: err.Error()})
				return
			}
			e.logger.Debug("committed batch", slog.Int("rows", rowsInBatch))
			rowsInBatch = 0
			tx, err = conn.BeginTx(ctx, nil)
			if err != nil {
				result.Failures = append(result.Failures, Failure{Step: "drop table", Error: err.Error()})
				return
			}
		}
	}

	if err := tx.Commit(); err != nil {
		result.Failures = append(result.Failures, Failure{Step: "drop table", Error: err.Error()})
	}
}

// processRow runs the per-row decision procedure: existence check by key
// conjunction, then insert, update or skip per the operation's decision
// table. withSavepoint scopes the row inside the caller's transaction.
// It returns the action taken, or the step that failed and its error.
func (e *Engine) processRow(ctx context.Context, q queryExecer, op Operation, f *frame.Frame, qualified string, keys []string, values map[string]any, withSavepoint bool) (rowAction, string, error) {
	step := "check existence"
	if withSavepoint {
		if _, err := q.ExecContext(ctx, "SAVEPOINT "+savepointName); err != nil {
			return 0, step, err
		}
	}

	rowExists := false
	if len(keys) > 0 {
		existsSQL, args := e.existsQuery(qualified, keys, values)
		var n int
		if err := q.QueryRowContext(ctx, existsSQL, args...).Scan(&n); err != nil {
			return 0, step, err
		}
		rowExists = n > 0
	}

	if rowExists {
		if op == Upsert {
			step = "replace with update"
			updateSQL, args, ok := e.updateQuery(qualified, f.Names(), keys, values)
			if !ok {
				// Every column is a key; nothing to update.
				if err := e.releaseSavepoint(ctx, q, withSavepoint); err != nil {
					return 0, step, err
				}
				return actionSkip, "", nil
			}
			if _, err := q.ExecContext(ctx, updateSQL, args...); err != nil {
				return 0, step, err
			}
			if err := e.releaseSavepoint(ctx, q, withSavepoint); err != nil {
				return 0, step, err
			}
			return actionUpdate, "", nil
		}
		if err := e.releaseSavepoint(ctx, q, withSavepoint); err != nil {
			return 0, step, err
		}
		return actionSkip, "", nil
	}

	step = "perform insert"
	insertSQL, args := e.insertQuery(qualified, f.Names(), values)
	if _, err := q.ExecContext(ctx, insertSQL, args...); err != nil {
		return 0, step, err
	}
	if err := e.releaseSavepoint(ctx, q, withSavepoint); err != nil {
		return 0, step, err
	}
	return actionInsert, "", nil
}

// releaseSavepoint releases the row savepoint on dialects that support it.
// Oracle overwrites same-named savepoints instead.
func (e *Engine) releaseSavepoint(ctx context.Context, q queryExecer, withSavepoint bool) error {
	if !withSavepoint || e.dialect.NoReleaseSavepoint {
		return nil
	}
	_, err := q.ExecContext(ctx, "RELEASE SAVEPOINT "+savepointName)
	return err
}

// existsQuery builds the key-conjunction existence check. A row matches only
// if every key column matches.
func (e *Engine) existsQuery(qualified string, keys []string, values map[string]any) (string, []any) {
	conds := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		conds[i] = fmt.Sprintf("%s = %s", e.dialect.QuoteIdent(k), e.dialect.Placeholder(i+1))
		args[i] = values[k]
	}
	return fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", qualified, strings.Join(conds, " AND ")), args
}

// insertQuery builds the full-row insert.
func (e *Engine) insertQuery(qualified string, columns []string, values map[string]any) (string, []any) {
	names := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, c := range columns {
		names[i] = e.dialect.QuoteIdent(c)
		placeholders[i] = e.dialect.Placeholder(i + 1)
		args[i] = values[c]
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		qualified, strings.Join(names, ", "), strings.Join(placeholders, ", ")), args
}

// updateQuery builds the non-key column update keyed on the key conjunction.
// ok is false when every column is a key.
func (e *Engine) updateQuery(qualified string, columns, keys []string, values map[string]any) (string, []any, bool) {
	keySet := make(map[string]bool, len(keys))
	for _, k := range keys {
		keySet[k] = true
	}

	var sets []string
	var args []any
	n := 0
	for _, c := range columns {
		if keySet[c] {
			continue
		}
		n++
		sets = append(sets, fmt.Sprintf("%s = %s", e.dialect.QuoteIdent(c), e.dialect.Placeholder(n)))
		args = append(args, values[c])
	}
	if len(sets) == 0 {
		return "", nil, false
	}

	conds := make([]string, len(keys))
	for i, k := range keys {
		n++
		conds[i] = fmt.Sprintf("%s = %s", e.dialect.QuoteIdent(k), e.dialect.Placeholder(n))
		args = append(args, values[k])
	}

	return fmt.Sprintf("UPDATE %s SET %s WHERE %s",
		qualified, strings.Join(sets, ", "), strings.Join(conds, " AND ")), args, true
}
