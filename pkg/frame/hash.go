package frame

import (
	"fmt"
	"strings"

	"github.com/zeebo/xxh3"
)

// DefaultHashLength is the truncated hex length of generated surrogate keys.
const DefaultHashLength = 12

// hashRow renders the selected values of a row into a stable string and
// returns its truncated xxh3 digest. Nil values render as the empty string
// so that hashes survive null-representation changes.
func hashRow(values []any, length int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		if v = NormalizeValue(v); v != nil {
			parts[i] = fmt.Sprint(v)
		}
	}
	sum := xxh3.Hash128([]byte(strings.Join(parts, "|"))).Bytes()
	hex := fmt.Sprintf("%x", sum)
	if length > 0 && length < len(hex) {
		hex = hex[:length]
	}
	return hex
}

// checkHashArgs validates the shared AddHashColumn/HashIndex parameters.
func (f *Frame) checkHashArgs(name string, length int, columns []string) error {
	if name == "" {
		return fmt.Errorf("hash column name must not be empty")
	}
	if length <= 0 {
		return fmt.Errorf("hash length must be greater than 0")
	}
	for _, c := range columns {
		if !f.HasColumn(c) {
			return fmt.Errorf("hash source column %q not found in frame", c)
		}
	}
	return nil
}

// hashValues computes one surrogate key per row over the given source
// columns (all columns when empty).
func (f *Frame) hashValues(length int, columns []string) []string {
	if len(columns) == 0 {
		columns = f.Names()
	}
	hashes := make([]string, f.Len())
	row := make([]any, len(columns))
	for i := range hashes {
		for j, c := range columns {
			row[j] = f.Value(i, c)
		}
		hashes[i] = hashRow(row, length)
	}
	return hashes
}

// AddHashColumn returns a new frame with a surrogate-key column prepended.
// The key is a truncated hash of the row's values over the given source
// columns (all columns when empty); the remaining column order is preserved.
func (f *Frame) AddHashColumn(name string, length int, columns []string) (*Frame, error) {
	if err := f.checkHashArgs(name, length, columns); err != nil {
		return nil, err
	}
	if f.HasColumn(name) {
		return nil, fmt.Errorf("duplicate column %q", name)
	}

	hashes := f.hashValues(length, columns)
	values := make([]any, len(hashes))
	for i, h := range hashes {
		values[i] = h
	}

	out := New()
	if err := out.AddColumn(name, DTypeObject, values); err != nil {
		return nil, err
	}
	for _, c := range f.cols {
		if err := out.AddColumn(c.Name, c.DType, c.Values); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// HashIndex computes a surrogate key per row without modifying the frame.
// Useful when the caller stores row identity outside the dataset.
func (f *Frame) HashIndex(length int, columns []string) ([]string, error) {
	if err := f.checkHashArgs("id", length, columns); err != nil {
		return nil, err
	}
	return f.hashValues(length, columns), nil
}
