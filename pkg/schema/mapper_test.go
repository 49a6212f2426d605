package schema

import (
	"testing"

	"github.com/leapstack-labs/tablesync/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMapType(t *testing.T) {
	tests := []struct {
		dtype string
		want  StorageType
	}{
		{"int64", StorageType{Kind: Integer}},
		{"int32", StorageType{Kind: Integer}},
		{"int", StorageType{Kind: Integer}},
		{"float64", StorageType{Kind: Float}},
		{"float32", StorageType{Kind: Float}},
		{"float", StorageType{Kind: Float}},
		{"bool", StorageType{Kind: Boolean}},
		{"object", StorageType{Kind: Text, MaxLen: DefaultTextLength}},
		{"datetime64[ns]", StorageType{Kind: Timestamp}},
	}

	for _, tt := range tests {
		t.Run(tt.dtype, func(t *testing.T) {
			assert.Equal(t, tt.want, MapType(tt.dtype, nil))
		})
	}
}

func TestMapType_Unknown(t *testing.T) {
	// Unrecognized labels degrade to bounded text instead of failing; matching
	// is exact, so near-misses take the same path.
	for _, dtype := range []string{"decimal", "Int64", "INT", "datetime64", ""} {
		t.Run(dtype, func(t *testing.T) {
			got := MapType(dtype, testutil.NewTestLogger(t))
			assert.Equal(t, StorageType{Kind: Text, MaxLen: DefaultTextLength}, got)
		})
	}
}

func TestStorageTypeString(t *testing.T) {
	assert.Equal(t, "integer", StorageType{Kind: Integer}.String())
	assert.Equal(t, "text(4000)", StorageType{Kind: Text, MaxLen: 4000}.String())
}

func TestIndexKindValid(t *testing.T) {
	assert.True(t, IndexNone.Valid())
	assert.True(t, IndexStandard.Valid())
	assert.True(t, IndexUnique.Valid())
	assert.True(t, IndexPrimary.Valid())
	assert.False(t, IndexKind("clustered").Valid())
}
