package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "tablesync.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Cleanup(ResetConfig)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultEnv, cfg.Environment)
	assert.False(t, cfg.Verbose)
	require.NotNil(t, cfg.Target)
	assert.Equal(t, DefaultTargetType, cfg.Target.Type)
	require.NotNil(t, cfg.Sync)
	assert.Equal(t, DefaultCommitBatch, cfg.Sync.CommitBatch)
}

func TestLoadConfig_File(t *testing.T) {
	t.Cleanup(ResetConfig)

	path := writeConfig(t, `
environment: prod
target:
  type: postgres
  host: db.internal
  port: 5433
  database: analytics
sync:
  commit_batch: 200
  parallel: true
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Environment)
	assert.Equal(t, "postgres", cfg.Target.Type)
	assert.Equal(t, "db.internal", cfg.Target.Host)
	assert.Equal(t, 5433, cfg.Target.Port)
	assert.Equal(t, 200, cfg.Sync.CommitBatch)
	assert.True(t, cfg.Sync.Parallel)
	assert.Equal(t, path, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_MissingFile(t *testing.T) {
	t.Cleanup(ResetConfig)

	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_EnvVars(t *testing.T) {
	t.Cleanup(ResetConfig)
	t.Setenv("TABLESYNC_TARGET_TYPE", "postgres")
	t.Setenv("TABLESYNC_TARGET_HOST", "envhost")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Target.Type)
	assert.Equal(t, "envhost", cfg.Target.Host)
}

func TestLoadConfig_FlagsWin(t *testing.T) {
	t.Cleanup(ResetConfig)
	t.Setenv("TABLESYNC_VERBOSE", "false")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Bool("verbose", false, "")
	require.NoError(t, flags.Set("verbose", "true"))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_UnchangedFlagsIgnored(t *testing.T) {
	t.Cleanup(ResetConfig)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Bool("verbose", false, "")

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.False(t, cfg.Verbose)
}

func TestLoadConfigWithEnv_EnvironmentTargets(t *testing.T) {
	t.Cleanup(ResetConfig)

	path := writeConfig(t, `
target:
  type: sqlite
  path: dev.db
environments:
  prod:
    target:
      type: postgres
      host: prod.internal
      database: analytics
    sync:
      commit_batch: 500
`)

	cfg, err := LoadConfigWithEnv(path, "prod", nil)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Environment)
	assert.Equal(t, "postgres", cfg.Target.Type)
	assert.Equal(t, "prod.internal", cfg.Target.Host)
	// Base fields not overridden carry through.
	assert.Equal(t, "dev.db", cfg.Target.Path)
	assert.Equal(t, 500, cfg.Sync.CommitBatch)
}

func TestLoadConfig_ExpandsEnvVarsInTarget(t *testing.T) {
	t.Cleanup(ResetConfig)
	t.Setenv("DB_PASSWORD", "hunter2")

	path := writeConfig(t, `
target:
  type: postgres
  user: etl
  password: ${DB_PASSWORD}
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", cfg.Target.Password)

	// Unset variables stay as-is rather than collapsing to empty.
	ResetConfig()
	path = writeConfig(t, `
target:
  type: postgres
  password: ${NOT_SET_ANYWHERE}
`)
	cfg, err = LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "${NOT_SET_ANYWHERE}", cfg.Target.Password)
}

func TestMergeTargetConfig(t *testing.T) {
	base := &TargetConfig{Type: "sqlite", Path: "dev.db", Options: map[string]string{"a": "1"}}
	override := &TargetConfig{Type: "postgres", Host: "h", Options: map[string]string{"b": "2"}}

	merged := MergeTargetConfig(base, override)
	assert.Equal(t, "postgres", merged.Type)
	assert.Equal(t, "dev.db", merged.Path)
	assert.Equal(t, "h", merged.Host)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, merged.Options)

	assert.Same(t, base, MergeTargetConfig(base, nil))
	assert.Same(t, override, MergeTargetConfig(nil, override))
}
