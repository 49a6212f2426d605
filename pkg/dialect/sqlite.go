package dialect

import (
	"fmt"
	"os"
	"strings"
)

// EnvSQLiteForeignKeys is the environment flag that opts in to SQLite
// foreign-key enforcement. SQLite ships with enforcement off; when the flag
// is set the resolved handle carries a pragma that adapters run on every new
// physical connection, not just the first.
const EnvSQLiteForeignKeys = "TABLESYNC_SQLITE_FOREIGN_KEYS_ON"

func init() {
	Register(&Dialect{
		Kind:    SQLite,
		Name:    "sqlite",
		matches: []string{"sqlite"},
		Types: TypeNames{
			Integer:   "INTEGER",
			Float:     "REAL",
			Boolean:   "BOOLEAN",
			Text:      "VARCHAR(%d)",
			Timestamp: "TIMESTAMP",
		},
		configure: func(d *Dialect) {
			if strings.EqualFold(os.Getenv(EnvSQLiteForeignKeys), "true") {
				d.Pragmas = append(d.Pragmas, "PRAGMA foreign_keys = ON")
			}
		},
		QuoteIdent:  quoteDouble,
		Placeholder: func(int) string { return "?" },
		ForeignKey: func(spec ForeignKeySpec) (string, error) {
			d, _ := Get(SQLite)
			return renderForeignKey(d, spec, false)
		},
		Constraint: func(spec ConstraintSpec) (string, error) {
			d, _ := Get(SQLite)
			return renderConstraint(d, spec)
		},
		Upsert: func(params UpsertParams) (string, error) {
			return conflictUpsert(SQLite, "INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(%s) DO UPDATE SET %s", params)
		},
	})
}

// conflictUpsert renders the INSERT ... ON CONFLICT upsert shared by the
// SQLite and PostgreSQL dialects. Non-key columns update from the excluded
// pseudo-row.
func conflictUpsert(kind Kind, template string, params UpsertParams) (string, error) {
	d, _ := Get(kind)
	if len(params.Keys) == 0 {
		return "", fmt.Errorf("upsert requires at least one key column")
	}
	updates := make([]string, 0, len(params.Columns))
	for _, col := range params.Columns {
		if containsString(params.Keys, col) {
			continue
		}
		q := d.QuoteIdent(col)
		updates = append(updates, fmt.Sprintf("%s = excluded.%s", q, q))
	}
	if len(updates) == 0 {
		return "", fmt.Errorf("upsert requires at least one non-key column")
	}
	values := make([]string, len(params.Columns))
	for i := range params.Columns {
		values[i] = d.Placeholder(i + 1)
	}
	return fmt.Sprintf(template,
		d.QuoteIdent(params.Table),
		strings.Join(d.QuoteAll(params.Columns), ", "),
		strings.Join(values, ", "),
		strings.Join(d.QuoteAll(params.Keys), ", "),
		strings.Join(updates, ", "),
	), nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
