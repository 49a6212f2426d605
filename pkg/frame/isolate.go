package frame

import "fmt"

// Isolate filters the frame down to one row per unique combination of the
// group columns: the row holding the maximum value in rankColumn. Relative
// order of the surviving rows follows their first appearance.
func (f *Frame) Isolate(groupColumns []string, rankColumn string) (*Frame, error) {
	if len(groupColumns) == 0 {
		return nil, fmt.Errorf("at least one group column is required")
	}
	for _, c := range groupColumns {
		if !f.HasColumn(c) {
			return nil, fmt.Errorf("group column %q not found in frame", c)
		}
	}
	if !f.HasColumn(rankColumn) {
		return nil, fmt.Errorf("rank column %q not found in frame", rankColumn)
	}

	type winner struct {
		row  int
		rank any
	}
	best := make(map[string]winner)
	order := make([]string, 0)

	for i := 0; i < f.Len(); i++ {
		key := ""
		for _, c := range groupColumns {
			key += fmt.Sprintf("%v\x00", NormalizeValue(f.Value(i, c)))
		}
		rank := NormalizeValue(f.Value(i, rankColumn))
		cur, seen := best[key]
		if !seen {
			best[key] = winner{row: i, rank: rank}
			order = append(order, key)
			continue
		}
		if rankLess(cur.rank, rank) {
			best[key] = winner{row: i, rank: rank}
		}
	}

	keep := make([]int, len(order))
	for i, key := range order {
		keep[i] = best[key].row
	}

	out := New()
	for _, c := range f.cols {
		values := make([]any, len(keep))
		for i, row := range keep {
			values[i] = c.Values[row]
		}
		if err := out.AddColumn(c.Name, c.DType, values); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// rankLess orders rank values; nil sorts below everything, mixed types fall
// back to string comparison.
func rankLess(a, b any) bool {
	if b == nil {
		return false
	}
	if a == nil {
		return true
	}
	switch x := a.(type) {
	case int64:
		if y, ok := b.(int64); ok {
			return x < y
		}
	case float64:
		if y, ok := b.(float64); ok {
			return x < y
		}
	case string:
		if y, ok := b.(string); ok {
			return x < y
		}
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}
