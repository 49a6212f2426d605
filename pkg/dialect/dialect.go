// Package dialect captures the per-backend SQL conventions the sync engine
// depends on: identifier quoting, bind placeholders, storage type names,
// constraint DDL, and upsert statement templates.
//
// Each supported backend registers a Dialect capability struct; Resolve picks
// one by inspecting an engine's identity strings. Unsupported backends are a
// hard error, never a fallback.
package dialect

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies a supported dialect.
type Kind string

// Supported dialect kinds.
const (
	SQLite     Kind = "sqlite"
	PostgreSQL Kind = "postgresql"
	Oracle     Kind = "oracle"
	Firebird   Kind = "firebird"
)

// ErrUnsupportedDialect is returned by Resolve when no registered dialect
// matches the engine identity.
var ErrUnsupportedDialect = errors.New("unsupported database dialect")

// ForeignKeySpec describes a foreign-key constraint to attach at table
// creation. Some dialects (Firebird) require Name to be set.
type ForeignKeySpec struct {
	Name       string
	Columns    []string
	RefTable   string
	RefColumns []string
}

// ConstraintKind selects the constraint variant.
type ConstraintKind string

// Constraint variants.
const (
	CheckConstraint  ConstraintKind = "check"
	UniqueConstraint ConstraintKind = "unique"
)

// ConstraintSpec describes a check or unique constraint. Predicate is the
// SQL text for check constraints; Columns the column list for unique ones.
type ConstraintSpec struct {
	Kind      ConstraintKind
	Name      string
	Columns   []string
	Predicate string
}

// UpsertParams parameterizes upsert statement generation.
type UpsertParams struct {
	Table   string
	Columns []string
	Keys    []string
}

// TypeNames maps the five storage types onto backend type names.
type TypeNames struct {
	Integer   string
	Float     string
	Boolean   string
	Text      string // format string taking the max length
	Timestamp string
}

// Dialect is the capability set for one backend. All function fields must be
// non-nil on registered dialects.
type Dialect struct {
	Kind  Kind
	Name  string
	Types TypeNames

	// Pragmas holds statements to execute on every new physical connection.
	// Populated once when the dialect handle is resolved.
	Pragmas []string

	// NoReleaseSavepoint marks backends that overwrite same-named
	// savepoints instead of supporting RELEASE SAVEPOINT (Oracle).
	NoReleaseSavepoint bool

	// matches are lowercase substrings that identify this dialect in an
	// engine's dialect or driver name.
	matches []string

	// configure runs once per resolved handle, before it is handed out.
	configure func(d *Dialect)

	// QuoteIdent quotes a single identifier.
	QuoteIdent func(name string) string

	// Placeholder renders the n-th (1-based) bind parameter.
	Placeholder func(n int) string

	// ForeignKey renders a table-level foreign-key constraint clause.
	ForeignKey func(spec ForeignKeySpec) (string, error)

	// Constraint renders a table-level check or unique constraint clause.
	Constraint func(spec ConstraintSpec) (string, error)

	// Upsert renders an insert-or-update statement for the given params.
	Upsert func(params UpsertParams) (string, error)
}

// QuoteAll quotes a list of identifiers.
func (d *Dialect) QuoteAll(names []string) []string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = d.QuoteIdent(n)
	}
	return quoted
}

// TypeName renders the backend type for a storage type label and text bound.
func (d *Dialect) TypeName(storage string, maxLen int) (string, error) {
	switch storage {
	case "integer":
		return d.Types.Integer, nil
	case "float":
		return d.Types.Float, nil
	case "boolean":
		return d.Types.Boolean, nil
	case "text":
		return fmt.Sprintf(d.Types.Text, maxLen), nil
	case "timestamp":
		return d.Types.Timestamp, nil
	}
	return "", fmt.Errorf("unknown storage type %q", storage)
}

// renderConstraint is the shared check/unique constraint renderer used by
// the dialects that follow standard SQL constraint syntax.
func renderConstraint(d *Dialect, spec ConstraintSpec) (string, error) {
	prefix := ""
	if spec.Name != "" {
		prefix = fmt.Sprintf("CONSTRAINT %s ", d.QuoteIdent(spec.Name))
	}
	switch spec.Kind {
	case CheckConstraint:
		if spec.Predicate == "" {
			return "", fmt.Errorf("check constraint requires a predicate")
		}
		return fmt.Sprintf("%sCHECK (%s)", prefix, spec.Predicate), nil
	case UniqueConstraint:
		if len(spec.Columns) == 0 {
			return "", fmt.Errorf("unique constraint requires at least one column")
		}
		return fmt.Sprintf("%sUNIQUE (%s)", prefix, strings.Join(d.QuoteAll(spec.Columns), ", ")), nil
	}
	return "", fmt.Errorf("unsupported constraint type %q", spec.Kind)
}

// renderForeignKey is the shared foreign-key renderer. requireName enforces
// an explicit constraint name for dialects that reject unnamed ones.
func renderForeignKey(d *Dialect, spec ForeignKeySpec, requireName bool) (string, error) {
	if requireName && spec.Name == "" {
		return "", fmt.Errorf("%s foreign key constraint requires a name", d.Name)
	}
	if len(spec.Columns) == 0 || len(spec.Columns) != len(spec.RefColumns) {
		return "", fmt.Errorf("foreign key requires matching column and referenced column lists")
	}
	if spec.RefTable == "" {
		return "", fmt.Errorf("foreign key requires a referenced table")
	}
	prefix := ""
	if spec.Name != "" {
		prefix = fmt.Sprintf("CONSTRAINT %s ", d.QuoteIdent(spec.Name))
	}
	return fmt.Sprintf("%sFOREIGN KEY (%s) REFERENCES %s (%s)",
		prefix,
		strings.Join(d.QuoteAll(spec.Columns), ", "),
		d.QuoteIdent(spec.RefTable),
		strings.Join(d.QuoteAll(spec.RefColumns), ", "),
	), nil
}

// quoteDouble is the ANSI double-quote identifier quoter.
func quoteDouble(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
