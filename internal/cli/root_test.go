package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/tablesync/internal/cli/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	config.ResetConfig()
	cfgFile = ""
	envFlag = ""

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "tablesync v")
	assert.Contains(t, out, "Build Date: "+BuildDate)
	assert.Contains(t, out, "Git Commit: "+GitCommit)
}

func TestRenderCommand(t *testing.T) {
	csv := writeCSV(t, "id,name\n1,alice\n2,bob\n")

	out, _, err := execute(t, "render", csv)
	require.NoError(t, err)
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "bob")
}

func TestRenderCommand_MaxRows(t *testing.T) {
	csv := writeCSV(t, "id,name\n1,alice\n2,bob\n")

	out, _, err := execute(t, "render", csv, "--max-rows", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "alice")
	assert.NotContains(t, out, "bob")
}

func TestSyncCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "sync.db")
	t.Setenv("TABLESYNC_TARGET_TYPE", "sqlite")
	t.Setenv("TABLESYNC_TARGET_PATH", dbPath)

	csv := writeCSV(t, "id,name\n1,alice\n2,bob\n3,carol\n")

	out, _, err := execute(t, "sync", csv, "--table", "customers", "--keys", "id")
	require.NoError(t, err)
	assert.Contains(t, out, "insertions: 3")

	// A second append run skips every existing key.
	out, _, err = execute(t, "sync", csv, "--table", "customers", "--keys", "id")
	require.NoError(t, err)
	assert.Contains(t, out, "insertions: 0")
	assert.Contains(t, out, "skips:      3")
}

func TestSyncCommand_Upsert(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "sync.db")
	t.Setenv("TABLESYNC_TARGET_TYPE", "sqlite")
	t.Setenv("TABLESYNC_TARGET_PATH", dbPath)

	first := writeCSV(t, "id,name\n1,alice\n2,bob\n")
	_, _, err := execute(t, "sync", first, "--table", "customers", "--op", "upsert", "--keys", "id")
	require.NoError(t, err)

	second := writeCSV(t, "id,name\n1,alicia\n4,dave\n")
	out, _, err := execute(t, "sync", second, "--table", "customers", "--op", "upsert", "--keys", "id")
	require.NoError(t, err)
	assert.Contains(t, out, "insertions: 1")
	assert.Contains(t, out, "updates:    1")
}

func TestSyncCommand_RequiresTable(t *testing.T) {
	csv := writeCSV(t, "id\n1\n")
	_, _, err := execute(t, "sync", csv)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "table")
}

func TestCreateCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "create.db")
	t.Setenv("TABLESYNC_TARGET_TYPE", "sqlite")
	t.Setenv("TABLESYNC_TARGET_PATH", dbPath)

	csv := writeCSV(t, "id,name\n1,alice\n")
	out, _, err := execute(t, "create", csv, "--table", "customers", "--keys", "id", "--index", "primary")
	require.NoError(t, err)
	assert.Contains(t, out, "Created table customers")
}

func TestUnknownAdapterType(t *testing.T) {
	t.Setenv("TABLESYNC_TARGET_TYPE", "bogus")

	csv := writeCSV(t, "id\n1\n")
	_, _, err := execute(t, "sync", csv, "--table", "t")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown adapter type")
}

func TestGetConfig_Fallback(t *testing.T) {
	cfg := GetConfig(t.Context())
	require.NotNil(t, cfg)
	assert.Equal(t, config.DefaultEnv, cfg.Environment)
}
