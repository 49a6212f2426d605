// Package config provides configuration management for the tablesync CLI.
//
// Configuration merges, in ascending precedence, built-in defaults, a
// tablesync.yaml file, TABLESYNC_-prefixed environment variables and CLI
// flags. Environment-specific target overrides are applied last.
package config

// TargetConfig describes the database a sync run writes to.
type TargetConfig struct {
	Type     string            `koanf:"type"`
	Path     string            `koanf:"path"`
	Host     string            `koanf:"host"`
	Port     int               `koanf:"port"`
	Database string            `koanf:"database"`
	User     string            `koanf:"user"`
	Password string            `koanf:"password"`
	Schema   string            `koanf:"schema"`
	Options  map[string]string `koanf:"options"`
}

// SyncConfig holds reconciliation tuning defaults that individual commands
// may override per invocation.
type SyncConfig struct {
	CommitBatch int  `koanf:"commit_batch"`
	Parallel    bool `koanf:"parallel"`
	Workers     int  `koanf:"workers"`
}

// Config holds all CLI configuration options.
type Config struct {
	Environment  string               `koanf:"environment"`
	Verbose      bool                 `koanf:"verbose"`
	Target       *TargetConfig        `koanf:"target"`
	Sync         *SyncConfig          `koanf:"sync"`
	Environments map[string]EnvConfig `koanf:"environments"`
}

// EnvConfig holds environment-specific configuration overrides.
type EnvConfig struct {
	Target *TargetConfig `koanf:"target"`
	Sync   *SyncConfig   `koanf:"sync"`
}

// Default configuration values.
const (
	DefaultEnv         = "dev"
	DefaultTargetType  = "sqlite"
	DefaultCommitBatch = 50
)
