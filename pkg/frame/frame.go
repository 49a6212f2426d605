// Package frame provides an ordered, in-memory tabular dataset used as the
// source for table synchronization.
//
// A Frame is a sequence of named columns of equal length. Values are plain Go
// scalars (int64, float64, bool, string, time.Time) or nil. Column dtypes use
// the conventional dataframe vocabulary ("int64", "float64", "bool", "object",
// "datetime64[ns]") so that schema inference has a stable contract.
package frame

import (
	"fmt"
	"time"
)

// Canonical column dtypes.
const (
	DTypeInt       = "int64"
	DTypeFloat     = "float64"
	DTypeBool      = "bool"
	DTypeObject    = "object"
	DTypeTimestamp = "datetime64[ns]"
)

// Column is a named, homogeneous sequence of scalar values.
type Column struct {
	Name   string
	DType  string
	Values []any
}

// Frame is an ordered collection of equal-length columns.
// Column order is significant: generated DDL follows it.
type Frame struct {
	cols   []Column
	byName map[string]int
}

// New returns an empty frame.
func New() *Frame {
	return &Frame{byName: make(map[string]int)}
}

// AddColumn appends a column to the frame. The dtype is inferred from the
// values when empty. Column names must be unique and all columns must have
// the same length.
func (f *Frame) AddColumn(name, dtype string, values []any) error {
	if name == "" {
		return fmt.Errorf("column name must not be empty")
	}
	if _, ok := f.byName[name]; ok {
		return fmt.Errorf("duplicate column %q", name)
	}
	if len(f.cols) > 0 && len(values) != len(f.cols[0].Values) {
		return fmt.Errorf("column %q has %d values, frame has %d rows", name, len(values), len(f.cols[0].Values))
	}
	if dtype == "" {
		dtype = inferDType(values)
	}
	f.cols = append(f.cols, Column{Name: name, DType: dtype, Values: values})
	f.byName[name] = len(f.cols) - 1
	return nil
}

// FromColumns builds a frame from ordered (name, values) pairs with inferred
// dtypes. Ordering follows the names slice.
func FromColumns(names []string, columns map[string][]any) (*Frame, error) {
	f := New()
	for _, name := range names {
		values, ok := columns[name]
		if !ok {
			return nil, fmt.Errorf("no values for column %q", name)
		}
		if err := f.AddColumn(name, "", values); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	if len(f.cols) == 0 {
		return 0
	}
	return len(f.cols[0].Values)
}

// NumColumns returns the number of columns.
func (f *Frame) NumColumns() int {
	return len(f.cols)
}

// Names returns the column names in frame order.
func (f *Frame) Names() []string {
	names := make([]string, len(f.cols))
	for i, c := range f.cols {
		names[i] = c.Name
	}
	return names
}

// Columns returns the frame's columns in order.
func (f *Frame) Columns() []Column {
	return f.cols
}

// Column returns the named column.
func (f *Frame) Column(name string) (Column, bool) {
	i, ok := f.byName[name]
	if !ok {
		return Column{}, false
	}
	return f.cols[i], true
}

// HasColumn reports whether the frame contains the named column.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.byName[name]
	return ok
}

// Row returns row i as a column-name keyed map. Values are raw, not
// normalized; callers that need consistent null handling apply
// NormalizeValue per value.
func (f *Frame) Row(i int) map[string]any {
	row := make(map[string]any, len(f.cols))
	for _, c := range f.cols {
		row[c.Name] = c.Values[i]
	}
	return row
}

// Value returns the raw value at (row, column name).
func (f *Frame) Value(i int, name string) any {
	return f.cols[f.byName[name]].Values[i]
}

// inferDType picks the canonical dtype for a value sequence. The first
// non-nil value decides; an all-nil column is object.
func inferDType(values []any) string {
	for _, v := range values {
		if v == nil {
			continue
		}
		switch v.(type) {
		case int, int32, int64:
			return DTypeInt
		case float32, float64:
			return DTypeFloat
		case bool:
			return DTypeBool
		case time.Time:
			return DTypeTimestamp
		default:
			return DTypeObject
		}
	}
	return DTypeObject
}
