package frame

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	csv := strings.Join([]string{
		"id,score,active,created_at,name",
		"1,1.5,true,2024-01-02,alice",
		"2,2.5,false,2024-01-03,bob",
	}, "\n")

	f, err := ReadCSV(strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "score", "active", "created_at", "name"}, f.Names())
	assert.Equal(t, 2, f.Len())

	id, _ := f.Column("id")
	assert.Equal(t, DTypeInt, id.DType)
	assert.Equal(t, int64(1), f.Value(0, "id"))

	score, _ := f.Column("score")
	assert.Equal(t, DTypeFloat, score.DType)
	assert.Equal(t, 2.5, f.Value(1, "score"))

	active, _ := f.Column("active")
	assert.Equal(t, DTypeBool, active.DType)
	assert.Equal(t, true, f.Value(0, "active"))

	created, _ := f.Column("created_at")
	assert.Equal(t, DTypeTimestamp, created.DType)
	ts, ok := f.Value(0, "created_at").(time.Time)
	require.True(t, ok)
	assert.Equal(t, 2024, ts.Year())

	name, _ := f.Column("name")
	assert.Equal(t, DTypeObject, name.DType)
}

func TestReadCSV_IntWidensToFloat(t *testing.T) {
	csv := "v\n1\n2.5\n3\n"
	f, err := ReadCSV(strings.NewReader(csv))
	require.NoError(t, err)

	col, _ := f.Column("v")
	assert.Equal(t, DTypeFloat, col.DType)
	assert.Equal(t, 1.0, f.Value(0, "v"))
	assert.Equal(t, 2.5, f.Value(1, "v"))
}

func TestReadCSV_MixedFallsBackToObject(t *testing.T) {
	csv := "v\n1\nalice\n"
	f, err := ReadCSV(strings.NewReader(csv))
	require.NoError(t, err)

	col, _ := f.Column("v")
	assert.Equal(t, DTypeObject, col.DType)
	assert.Equal(t, "1", f.Value(0, "v"))
}

func TestReadCSV_EmptyCellsBecomeNil(t *testing.T) {
	csv := "id,name\n1,\n,bob\n"
	f, err := ReadCSV(strings.NewReader(csv))
	require.NoError(t, err)

	assert.Nil(t, f.Value(0, "name"))
	assert.Nil(t, f.Value(1, "id"))
	assert.Equal(t, int64(1), f.Value(0, "id"))

	// Inference ignores the empty cells.
	id, _ := f.Column("id")
	assert.Equal(t, DTypeInt, id.DType)
}

func TestReadCSV_NoHeader(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no header row")
}

func TestReadCSV_HeaderOnly(t *testing.T) {
	f, err := ReadCSV(strings.NewReader("id,name\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, f.Len())
	assert.Equal(t, 2, f.NumColumns())
}
