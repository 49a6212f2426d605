package postgres

import (
	"testing"

	"github.com/leapstack-labs/tablesync/pkg/adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  adapter.Config
		want string
	}{
		{
			name: "defaults",
			cfg:  adapter.Config{},
			want: "host=localhost port=5432 sslmode=disable",
		},
		{
			name: "full config",
			cfg: adapter.Config{
				Host:     "db.internal",
				Port:     5433,
				Database: "analytics",
				Username: "etl",
				Password: "secret",
			},
			want: "host=db.internal port=5433 sslmode=disable dbname=analytics user=etl password=secret",
		},
		{
			name: "sslmode override",
			cfg: adapter.Config{
				Database: "analytics",
				Options:  map[string]string{"sslmode": "require"},
			},
			want: "host=localhost port=5432 sslmode=require dbname=analytics",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildDSN(tt.cfg))
		})
	}
}

func TestIdentity(t *testing.T) {
	a := New(nil)
	assert.Equal(t, "postgresql", a.DialectName())
	assert.Equal(t, "pgx", a.DriverName())
}

func TestRegistered(t *testing.T) {
	factory, ok := adapter.Get("postgres")
	require.True(t, ok)
	assert.NotNil(t, factory(nil))
}
