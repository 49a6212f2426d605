package sync

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/leapstack-labs/tablesync/pkg/frame"
)

// Failure records one isolated per-row failure (or a single terminal entry
// when the whole transaction fails). Step names the phase that failed.
type Failure struct {
	// Step is one of "check existence", "replace with update",
	// "perform insert", "parallel processing", or "drop table" for
	// table-level failures.
	Step string
	// Row identifies the failed row; nil for table-level failures.
	Row *RowRef
	// Error is the backend error text.
	Error string
}

// RowRef identifies a source row by position and a human-readable rendering
// of its values.
type RowRef struct {
	Index  int
	Values string
}

// Result summarizes one reconciliation call. Immutable once returned; the
// Failures list is the single channel for partial-failure reporting, and a
// non-empty list does not mean the call failed: successful insertions and
// updates are retained and counted.
type Result struct {
	RunID      string
	Operation  Operation
	Table      string
	Insertions int
	Updates    int
	Skips      int
	Failures   []Failure
}

// Processed returns the number of rows accounted for, counters plus
// failures.
func (r *Result) Processed() int {
	return r.Insertions + r.Updates + r.Skips + len(r.Failures)
}

// newResult builds an empty result for a run.
func newResult(op Operation, schemaNS, table string) *Result {
	id := schemaNS
	if id != "" {
		id += "."
	}
	return &Result{
		RunID:     uuid.New().String(),
		Operation: op,
		Table:     id + table,
	}
}

// renderRow renders a row's key/value pairs in frame column order for
// failure reporting.
func renderRow(f *frame.Frame, values map[string]any) string {
	parts := make([]string, 0, len(values))
	for _, name := range f.Names() {
		parts = append(parts, fmt.Sprintf("%s='%v'", name, values[name]))
	}
	return strings.Join(parts, ", ")
}
