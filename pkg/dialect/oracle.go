package dialect

import (
	"fmt"
	"strings"
)

func init() {
	Register(&Dialect{
		Kind:               Oracle,
		Name:               "oracle",
		matches:            []string{"oracle"},
		NoReleaseSavepoint: true,
		Types: TypeNames{
			Integer:   "NUMBER(19)",
			Float:     "BINARY_DOUBLE",
			Boolean:   "NUMBER(1)",
			Text:      "VARCHAR2(%d)",
			Timestamp: "TIMESTAMP",
		},
		QuoteIdent:  quoteDouble,
		Placeholder: func(n int) string { return fmt.Sprintf(":%d", n) },
		ForeignKey: func(spec ForeignKeySpec) (string, error) {
			d, _ := Get(Oracle)
			return renderForeignKey(d, spec, false)
		},
		Constraint: func(spec ConstraintSpec) (string, error) {
			d, _ := Get(Oracle)
			return renderConstraint(d, spec)
		},
		Upsert: mergeUpsert,
	})
}

// mergeUpsert renders the Oracle MERGE INTO ... USING (SELECT ... FROM DUAL)
// upsert. Key columns drive the ON conditions; the remaining columns update
// from the source row.
func mergeUpsert(params UpsertParams) (string, error) {
	d, _ := Get(Oracle)
	if len(params.Keys) == 0 {
		return "", fmt.Errorf("upsert requires at least one key column")
	}

	valuesSelect := make([]string, len(params.Columns))
	values := make([]string, len(params.Columns))
	for i, col := range params.Columns {
		valuesSelect[i] = fmt.Sprintf("%s AS %s", d.Placeholder(i+1), d.QuoteIdent(col))
		values[i] = fmt.Sprintf("source.%s", d.QuoteIdent(col))
	}

	onConditions := make([]string, len(params.Keys))
	for i, key := range params.Keys {
		q := d.QuoteIdent(key)
		onConditions[i] = fmt.Sprintf("target.%s = source.%s", q, q)
	}

	updates := make([]string, 0, len(params.Columns))
	for _, col := range params.Columns {
		if containsString(params.Keys, col) {
			continue
		}
		q := d.QuoteIdent(col)
		updates = append(updates, fmt.Sprintf("target.%s = source.%s", q, q))
	}
	if len(updates) == 0 {
		return "", fmt.Errorf("upsert requires at least one non-key column")
	}

	return fmt.Sprintf(
		"MERGE INTO %s target USING (SELECT %s FROM DUAL) source ON (%s) "+
			"WHEN MATCHED THEN UPDATE SET %s "+
			"WHEN NOT MATCHED THEN INSERT (%s) VALUES (%s)",
		d.QuoteIdent(params.Table),
		strings.Join(valuesSelect, ", "),
		strings.Join(onConditions, " AND "),
		strings.Join(updates, ", "),
		strings.Join(d.QuoteAll(params.Columns), ", "),
		strings.Join(values, ", "),
	), nil
}
