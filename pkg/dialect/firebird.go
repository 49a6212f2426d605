package dialect

import "fmt"

func init() {
	Register(&Dialect{
		Kind:    Firebird,
		Name:    "firebird",
		matches: []string{"firebird"},
		Types: TypeNames{
			Integer:   "BIGINT",
			Float:     "DOUBLE PRECISION",
			Boolean:   "BOOLEAN",
			Text:      "VARCHAR(%d)",
			Timestamp: "TIMESTAMP",
		},
		QuoteIdent:  quoteDouble,
		Placeholder: func(int) string { return "?" },
		ForeignKey: func(spec ForeignKeySpec) (string, error) {
			// Firebird rejects unnamed foreign keys; fail fast instead of
			// inventing a name.
			d, _ := Get(Firebird)
			return renderForeignKey(d, spec, true)
		},
		Constraint: func(spec ConstraintSpec) (string, error) {
			d, _ := Get(Firebird)
			return renderConstraint(d, spec)
		},
		Upsert: func(UpsertParams) (string, error) {
			return "", fmt.Errorf("firebird upsert statement generation is not implemented")
		},
	})
}
