package schema

import "log/slog"

// MapType maps a column's semantic dtype label onto a storage type. Labels
// are matched exactly and case-sensitively. Unrecognized labels degrade to
// a bounded text column with a logged warning; an unknown dtype must never
// block table creation.
func MapType(dtype string, logger *slog.Logger) StorageType {
	switch dtype {
	case "int64", "int32", "int":
		return StorageType{Kind: Integer}
	case "float64", "float32", "float":
		return StorageType{Kind: Float}
	case "bool":
		return StorageType{Kind: Boolean}
	case "object":
		return StorageType{Kind: Text, MaxLen: DefaultTextLength}
	case "datetime64[ns]":
		return StorageType{Kind: Timestamp}
	}
	if logger != nil {
		logger.Warn("unknown dtype, defaulting to bounded text",
			slog.String("dtype", dtype), slog.Int("max_len", DefaultTextLength))
	}
	return StorageType{Kind: Text, MaxLen: DefaultTextLength}
}
