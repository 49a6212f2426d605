package render

import (
	"strings"
	"testing"

	"github.com/leapstack-labs/tablesync/pkg/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f, err := frame.FromColumns([]string{"id", "name", "note"}, map[string][]any{
		"id":   {int64(1), int64(2), int64(3)},
		"name": {"alice", "bob", "carol"},
		"note": {"", "present", nil},
	})
	require.NoError(t, err)
	return f
}

func TestFrame(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, Frame(&buf, renderFrame(t), Options{}))
	out := buf.String()

	// Header and every row are present.
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "carol")
	// Null-like cells render empty, not as a literal.
	assert.NotContains(t, out, "<nil>")
}

func TestFrame_MaxRows(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, Frame(&buf, renderFrame(t), Options{MaxRows: 2}))
	out := buf.String()

	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "bob")
	assert.NotContains(t, out, "carol")
}

func TestFrame_Alignments(t *testing.T) {
	for _, align := range []Alignment{AlignLeft, AlignRight, AlignCenter, ""} {
		t.Run(string(align), func(t *testing.T) {
			var buf strings.Builder
			require.NoError(t, Frame(&buf, renderFrame(t), Options{Alignment: align}))
			assert.NotEmpty(t, buf.String())
		})
	}
}

func TestFrame_InvalidAlignment(t *testing.T) {
	var buf strings.Builder
	err := Frame(&buf, renderFrame(t), Options{Alignment: "diagonal"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "left|right|center")
	assert.Empty(t, buf.String())
}
