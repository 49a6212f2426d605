// Package render prints frames as ASCII tables for terminals and logs.
package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/leapstack-labs/tablesync/pkg/frame"
)

// Alignment selects cell alignment.
type Alignment string

// Alignments.
const (
	AlignLeft   Alignment = "left"
	AlignRight  Alignment = "right"
	AlignCenter Alignment = "center"
)

// Options tunes table rendering.
type Options struct {
	// Alignment for data cells. Defaults to left.
	Alignment Alignment
	// MaxRows limits the rendered rows; zero renders everything.
	MaxRows int
}

// Frame writes an ASCII rendering of the frame. Null values render as empty
// cells.
func Frame(w io.Writer, f *frame.Frame, opts Options) error {
	align, err := textAlign(opts.Alignment)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleDefault)

	names := f.Names()
	header := make(table.Row, len(names))
	configs := make([]table.ColumnConfig, len(names))
	for i, name := range names {
		header[i] = name
		configs[i] = table.ColumnConfig{Number: i + 1, Align: align}
	}
	t.AppendHeader(header)
	t.SetColumnConfigs(configs)

	rows := f.Len()
	if opts.MaxRows > 0 && opts.MaxRows < rows {
		rows = opts.MaxRows
	}
	for i := 0; i < rows; i++ {
		row := make(table.Row, len(names))
		for j, name := range names {
			if v := frame.NormalizeValue(f.Value(i, name)); v != nil {
				row[j] = fmt.Sprint(v)
			} else {
				row[j] = ""
			}
		}
		t.AppendRow(row)
	}

	t.Render()
	return nil
}

func textAlign(a Alignment) (text.Align, error) {
	switch a {
	case AlignLeft, "":
		return text.AlignLeft, nil
	case AlignRight:
		return text.AlignRight, nil
	case AlignCenter:
		return text.AlignCenter, nil
	}
	return text.AlignDefault, fmt.Errorf("alignment valid values: left|right|center (got %q)", a)
}
