package schema

import "fmt"

// IndexSpec describes a secondary index over key columns.
type IndexSpec struct {
	Name    string
	Columns []string
	Unique  bool
}

// IndexName derives the deterministic index name for a table. The name is
// persisted as a DDL object name and must be stable across runs so external
// tooling can run idempotency checks against it.
func IndexName(table string, unique bool) string {
	suffix := "ik"
	if unique {
		suffix = "uk"
	}
	return fmt.Sprintf("%s_i001_%s", table, suffix)
}

// BuildIndex intersects the requested key columns with the table's actual
// columns, deduplicating while preserving first occurrence. An empty
// intersection is an error: the engine never silently creates a column-less
// index.
func BuildIndex(table string, tableColumns, keys []string, unique bool) (IndexSpec, error) {
	present := make(map[string]bool, len(tableColumns))
	for _, c := range tableColumns {
		present[c] = true
	}

	seen := make(map[string]bool, len(keys))
	covered := make([]string, 0, len(keys))
	for _, k := range keys {
		if present[k] && !seen[k] {
			covered = append(covered, k)
			seen[k] = true
		}
	}
	if len(covered) == 0 {
		return IndexSpec{}, fmt.Errorf("no matching columns found for index keys %v", keys)
	}

	return IndexSpec{
		Name:    IndexName(table, unique),
		Columns: covered,
		Unique:  unique,
	}, nil
}
