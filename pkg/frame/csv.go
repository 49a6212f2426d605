package frame

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Timestamp layouts accepted during CSV inference, most specific first.
var csvTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ReadCSV parses CSV data with a header row into a frame, inferring column
// dtypes from the cell values. Empty cells become nil. A column falls back
// to object as soon as one cell resists the inferred type.
func ReadCSV(r io.Reader) (*Frame, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv has no header row")
	}

	header := records[0]
	rows := records[1:]

	f := New()
	for col, name := range header {
		cells := make([]string, len(rows))
		for i, row := range rows {
			cells[i] = row[col]
		}
		dtype := inferCSVDType(cells)
		values := make([]any, len(cells))
		for i, cell := range cells {
			values[i] = parseCSVCell(cell, dtype)
		}
		if err := f.AddColumn(name, dtype, values); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// LoadCSV reads a CSV file from disk into a frame.
func LoadCSV(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return ReadCSV(file)
}

// inferCSVDType picks the narrowest dtype that fits every non-empty cell.
func inferCSVDType(cells []string) string {
	dtype := ""
	for _, cell := range cells {
		if cell == "" {
			continue
		}
		next := cellDType(cell)
		switch {
		case dtype == "" || dtype == next:
			dtype = next
		case dtype == DTypeInt && next == DTypeFloat,
			dtype == DTypeFloat && next == DTypeInt:
			dtype = DTypeFloat
		default:
			return DTypeObject
		}
	}
	if dtype == "" {
		return DTypeObject
	}
	return dtype
}

func cellDType(cell string) string {
	if _, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return DTypeInt
	}
	if _, err := strconv.ParseFloat(cell, 64); err == nil {
		return DTypeFloat
	}
	if _, err := strconv.ParseBool(cell); err == nil {
		return DTypeBool
	}
	for _, layout := range csvTimeLayouts {
		if _, err := time.Parse(layout, cell); err == nil {
			return DTypeTimestamp
		}
	}
	return DTypeObject
}

func parseCSVCell(cell, dtype string) any {
	if cell == "" {
		return nil
	}
	switch dtype {
	case DTypeInt:
		v, _ := strconv.ParseInt(cell, 10, 64)
		return v
	case DTypeFloat:
		v, _ := strconv.ParseFloat(cell, 64)
		return v
	case DTypeBool:
		v, _ := strconv.ParseBool(cell)
		return v
	case DTypeTimestamp:
		for _, layout := range csvTimeLayouts {
			if t, err := time.Parse(layout, cell); err == nil {
				return t
			}
		}
	}
	return cell
}
