// Package schema infers relational column definitions from a frame's dtypes
// and renders the DDL (tables, indexes, constraints) the sync engine needs
// when a target table does not exist yet.
package schema

import "fmt"

// DefaultTextLength bounds text columns when the dtype carries no length of
// its own (generic/object columns and anything unrecognized).
const DefaultTextLength = 4000

// StorageKind enumerates the storage column types.
type StorageKind string

// Storage kinds. The labels line up with dialect.TypeName.
const (
	Integer   StorageKind = "integer"
	Float     StorageKind = "float"
	Boolean   StorageKind = "boolean"
	Text      StorageKind = "text"
	Timestamp StorageKind = "timestamp"
)

// StorageType is a storage kind plus its text bound (Text only).
type StorageType struct {
	Kind   StorageKind
	MaxLen int
}

func (t StorageType) String() string {
	if t.Kind == Text {
		return fmt.Sprintf("text(%d)", t.MaxLen)
	}
	return string(t.Kind)
}

// ColumnDefinition describes one column of a table to create. Built fresh
// per table-creation call, in dataset column order.
type ColumnDefinition struct {
	Name       string
	Type       StorageType
	PrimaryKey bool
}

// IndexKind selects what to build on the key columns at creation time.
type IndexKind string

// Index kinds.
const (
	IndexNone     IndexKind = ""
	IndexStandard IndexKind = "standard"
	IndexUnique   IndexKind = "unique"
	IndexPrimary  IndexKind = "primary"
)

// Valid reports whether the index kind is one of the accepted literals.
func (k IndexKind) Valid() bool {
	switch k {
	case IndexNone, IndexStandard, IndexUnique, IndexPrimary:
		return true
	}
	return false
}
