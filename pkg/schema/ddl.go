package schema

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/tablesync/pkg/dialect"
)

// QualifiedName renders a schema-qualified, quoted table name.
func QualifiedName(d *dialect.Dialect, schemaNS, table string) string {
	if schemaNS == "" {
		return d.QuoteIdent(table)
	}
	return d.QuoteIdent(schemaNS) + "." + d.QuoteIdent(table)
}

// CreateTableSQL renders the CREATE TABLE statement for the given column
// definitions, foreign keys and constraints. Constraint rendering errors
// (e.g. Firebird's unnamed foreign keys) propagate unmodified.
func CreateTableSQL(
	d *dialect.Dialect,
	schemaNS, table string,
	columns []ColumnDefinition,
	foreignKeys []dialect.ForeignKeySpec,
	constraints []dialect.ConstraintSpec,
) (string, error) {
	if len(columns) == 0 {
		return "", fmt.Errorf("cannot create table %q with no columns", table)
	}

	items := make([]string, 0, len(columns)+len(foreignKeys)+len(constraints)+1)
	var pkCols []string
	for _, col := range columns {
		typeName, err := d.TypeName(string(col.Type.Kind), col.Type.MaxLen)
		if err != nil {
			return "", err
		}
		items = append(items, fmt.Sprintf("%s %s", d.QuoteIdent(col.Name), typeName))
		if col.PrimaryKey {
			pkCols = append(pkCols, col.Name)
		}
	}
	if len(pkCols) > 0 {
		items = append(items, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(d.QuoteAll(pkCols), ", ")))
	}
	for _, fk := range foreignKeys {
		clause, err := d.ForeignKey(fk)
		if err != nil {
			return "", err
		}
		items = append(items, clause)
	}
	for _, c := range constraints {
		clause, err := d.Constraint(c)
		if err != nil {
			return "", err
		}
		items = append(items, clause)
	}

	return fmt.Sprintf("CREATE TABLE %s (%s)",
		QualifiedName(d, schemaNS, table), strings.Join(items, ", ")), nil
}

// CreateIndexSQL renders the CREATE INDEX statement for an index spec.
func CreateIndexSQL(d *dialect.Dialect, schemaNS, table string, idx IndexSpec) string {
	unique := ""
	if idx.Unique {
		unique = "UNIQUE "
	}
	return fmt.Sprintf("CREATE %sINDEX %s ON %s (%s)",
		unique,
		d.QuoteIdent(idx.Name),
		QualifiedName(d, schemaNS, table),
		strings.Join(d.QuoteAll(idx.Columns), ", "),
	)
}
