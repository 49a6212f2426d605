package dialect

import "fmt"

func init() {
	Register(&Dialect{
		Kind:    PostgreSQL,
		Name:    "postgresql",
		matches: []string{"postgres", "pgx"},
		Types: TypeNames{
			Integer:   "BIGINT",
			Float:     "DOUBLE PRECISION",
			Boolean:   "BOOLEAN",
			Text:      "VARCHAR(%d)",
			Timestamp: "TIMESTAMP",
		},
		QuoteIdent:  quoteDouble,
		Placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
		ForeignKey: func(spec ForeignKeySpec) (string, error) {
			d, _ := Get(PostgreSQL)
			return renderForeignKey(d, spec, false)
		},
		Constraint: func(spec ConstraintSpec) (string, error) {
			d, _ := Get(PostgreSQL)
			return renderConstraint(d, spec)
		},
		Upsert: func(params UpsertParams) (string, error) {
			return conflictUpsert(PostgreSQL, "INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s", params)
		},
	})
}
