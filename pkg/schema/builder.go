package schema

import (
	"log/slog"

	"github.com/leapstack-labs/tablesync/pkg/frame"
)

// BuildColumns produces one ColumnDefinition per frame column, in frame
// order (ordering matters for the generated DDL). Columns named in
// primaryKeys are marked as primary-key columns; names that match no frame
// column are ineffective here, index construction is where they surface as
// errors.
func BuildColumns(f *frame.Frame, primaryKeys []string, logger *slog.Logger) []ColumnDefinition {
	pk := make(map[string]bool, len(primaryKeys))
	for _, k := range primaryKeys {
		pk[k] = true
	}

	cols := f.Columns()
	defs := make([]ColumnDefinition, len(cols))
	for i, c := range cols {
		defs[i] = ColumnDefinition{
			Name:       c.Name,
			Type:       MapType(c.DType, logger),
			PrimaryKey: pk[c.Name],
		}
		if logger != nil {
			logger.Debug("built column definition",
				slog.String("column", c.Name),
				slog.String("type", defs[i].Type.String()),
				slog.Bool("primary_key", defs[i].PrimaryKey))
		}
	}
	return defs
}
