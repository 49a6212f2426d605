package frame

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeValue maps every null-like representation to a single sentinel
// (nil): nil itself, empty strings, NaN floats, and zero timestamps. All
// other values pass through unchanged. Every existence check and every write
// in the sync engine goes through this, which is what keeps null handling
// consistent across backends.
func NormalizeValue(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		if x == "" {
			return nil
		}
	case float64:
		if math.IsNaN(x) {
			return nil
		}
	case float32:
		if math.IsNaN(float64(x)) {
			return nil
		}
	case time.Time:
		if x.IsZero() {
			return nil
		}
	}
	return v
}

// NormalizedRow returns row i with every value passed through NormalizeValue.
func (f *Frame) NormalizedRow(i int) map[string]any {
	row := make(map[string]any, len(f.cols))
	for _, c := range f.cols {
		row[c.Name] = NormalizeValue(c.Values[i])
	}
	return row
}

var columnNamePattern = regexp.MustCompile(`[^0-9a-zA-Z_]+`)

// NormalizeColumns lowercases column names after folding accented characters
// to their ASCII base. Names that still contain characters outside
// [0-9a-zA-Z_] are rejected rather than silently mangled.
func NormalizeColumns(cols []string) ([]string, error) {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	normalized := make([]string, len(cols))
	for i, col := range cols {
		folded, _, err := transform.String(fold, col)
		if err != nil {
			return nil, fmt.Errorf("failed to fold column name %q: %w", col, err)
		}
		if columnNamePattern.MatchString(folded) {
			return nil, fmt.Errorf("column name %q contains special characters that cannot be normalized", col)
		}
		normalized[i] = strings.ToLower(folded)
	}
	return normalized, nil
}

// NormalizeColumnNames returns a new frame with normalized column names and
// the data untouched. Normalization that collapses two names into one is a
// duplicate-column error.
func (f *Frame) NormalizeColumnNames() (*Frame, error) {
	names, err := NormalizeColumns(f.Names())
	if err != nil {
		return nil, err
	}
	out := New()
	for i, c := range f.cols {
		if err := out.AddColumn(names[i], c.DType, c.Values); err != nil {
			return nil, err
		}
	}
	return out, nil
}
