// Package cli provides the command-line interface for tablesync.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/leapstack-labs/tablesync/internal/cli/commands"
	"github.com/leapstack-labs/tablesync/internal/cli/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	envFlag string
	cfg     *config.Config
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// configKey is used to store config in context.
type configKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tablesync",
		Short: "tablesync - Table Synchronization Engine",
		Long: `tablesync reconciles tabular datasets into relational tables.

It infers a table schema from the dataset, creates the table with indexes
and constraints when missing, and applies append, upsert or replace
semantics row by row with batched commits and per-row failure isolation.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			var err error
			cfg, err = config.LoadConfigWithEnv(cfgFile, envFlag, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			ctx = context.WithValue(ctx, config.LoggerKey(), newLogger(cmd.ErrOrStderr(), cfg.Verbose))
			cmd.SetContext(ctx)

			if cfg.Verbose {
				if configFile := config.GetConfigFileUsed(); configFile != "" {
					fmt.Fprintf(os.Stderr, "Using config file: %s\n", configFile)
				}
				if envFlag != "" {
					fmt.Fprintf(os.Stderr, "Using environment: %s\n", envFlag)
				}
			}

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
Table Synchronization Engine
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./tablesync.yaml)")
	rootCmd.PersistentFlags().StringVarP(&envFlag, "env", "e", "", "Environment to use (e.g., dev, staging, prod)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")

	_ = rootCmd.RegisterFlagCompletionFunc("env", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"dev", "staging", "prod"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewVersionCommand(Version, BuildDate, GitCommit))
	rootCmd.AddCommand(commands.NewSyncCommand())
	rootCmd.AddCommand(commands.NewCreateCommand())
	rootCmd.AddCommand(commands.NewRenderCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	return &config.Config{
		Environment: config.DefaultEnv,
		Target:      &config.TargetConfig{Type: config.DefaultTargetType},
		Sync:        &config.SyncConfig{CommitBatch: config.DefaultCommitBatch},
	}
}

// newLogger builds the CLI logger. Verbose runs log at debug level.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
