// Package commands implements the tablesync CLI subcommands.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/leapstack-labs/tablesync/internal/cli/config"
	"github.com/leapstack-labs/tablesync/pkg/adapter"
	"github.com/leapstack-labs/tablesync/pkg/sync"
	"github.com/spf13/cobra"

	// Registered database adapters.
	_ "github.com/leapstack-labs/tablesync/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/tablesync/pkg/adapters/sqlite"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg     *config.Config
	Logger  *slog.Logger
	Adapter adapter.Adapter
	Engine  *sync.Engine
}

// NewCommandContext creates a CommandContext with a connected adapter and a
// sync engine. Returns the context and a cleanup function that must be
// called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg := getConfig(cmd.Context())
	logger := config.GetLogger(cmd.Context())

	db, err := connectAdapter(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	eng, err := sync.New(sync.Config{Adapter: db, Logger: logger})
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	logger.Debug("resolved dialect", slog.String("dialect", eng.Dialect().Name))

	cleanup := func() {
		_ = db.Close()
	}

	return &CommandContext{Cfg: cfg, Logger: logger, Adapter: db, Engine: eng}, cleanup, nil
}

// getConfig returns the current configuration, falling back to environment
// variables when no config was loaded (e.g. commands run in isolation).
func getConfig(_ context.Context) *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	return &config.Config{
		Environment: getEnvOrDefault("TABLESYNC_ENVIRONMENT", config.DefaultEnv),
		Verbose:     os.Getenv("TABLESYNC_VERBOSE") == "true",
		Target: &config.TargetConfig{
			Type:     getEnvOrDefault("TABLESYNC_TARGET_TYPE", config.DefaultTargetType),
			Path:     os.Getenv("TABLESYNC_TARGET_PATH"),
			Database: os.Getenv("TABLESYNC_TARGET_DATABASE"),
		},
		Sync: &config.SyncConfig{CommitBatch: config.DefaultCommitBatch},
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// connectAdapter builds and connects the adapter described by the target
// configuration.
func connectAdapter(ctx context.Context, cfg *config.Config, logger *slog.Logger) (adapter.Adapter, error) {
	target := cfg.Target
	if target == nil {
		target = &config.TargetConfig{Type: config.DefaultTargetType}
	}

	adapterCfg := adapter.Config{
		Type:     target.Type,
		Path:     target.Path,
		Host:     target.Host,
		Port:     target.Port,
		Database: target.Database,
		Username: target.User,
		Password: target.Password,
		Schema:   target.Schema,
		Options:  target.Options,
	}

	db, err := adapter.New(adapterCfg, logger)
	if err != nil {
		return nil, err
	}
	if err := db.Connect(ctx, adapterCfg); err != nil {
		return nil, err
	}
	return db, nil
}
