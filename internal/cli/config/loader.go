package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// loggerKey is used to store the logger in context.
type loggerKey struct{}

// Package-level koanf instance and config file tracking.
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config
)

// findConfigFile finds the config file to use.
// Priority: explicit path > tablesync.yaml > tablesync.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"tablesync.yaml", "tablesync.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	return LoadConfigWithEnv(cfgFile, "", flags)
}

// LoadConfigWithEnv loads configuration with an optional environment
// override selecting which environments entry supplies the target.
func LoadConfigWithEnv(cfgFile, envOverride string, flags *pflag.FlagSet) (*Config, error) {
	k = koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"environment":       DefaultEnv,
		"verbose":           false,
		"target.type":       DefaultTargetType,
		"sync.commit_batch": DefaultCommitBatch,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Environment variables (TABLESYNC_ prefix)
	// Transform: TABLESYNC_TARGET_TYPE -> target.type
	if err := k.Load(env.Provider("TABLESYNC_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "TABLESYNC_")), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags (highest priority)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	envForTarget := cfg.Environment
	if envOverride != "" {
		envForTarget = envOverride
		cfg.Environment = envOverride
	}

	// Apply environment-specific overrides.
	if envForTarget != "" && cfg.Environments != nil {
		if envCfg, ok := cfg.Environments[envForTarget]; ok {
			if envCfg.Target != nil {
				cfg.Target = MergeTargetConfig(cfg.Target, envCfg.Target)
			}
			if envCfg.Sync != nil {
				cfg.Sync = mergeSyncConfig(cfg.Sync, envCfg.Sync)
			}
		}
	}

	if cfg.Target == nil {
		cfg.Target = &TargetConfig{Type: DefaultTargetType}
	}
	if cfg.Sync == nil {
		cfg.Sync = &SyncConfig{CommitBatch: DefaultCommitBatch}
	}
	if cfg.Sync.CommitBatch == 0 {
		cfg.Sync.CommitBatch = DefaultCommitBatch
	}

	expandTargetEnvVars(cfg.Target)

	currentConfig = &cfg
	return &cfg, nil
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger. This lets
// the commands package retrieve the logger from context without an import
// cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

// expandEnvVars expands ${VAR} patterns with environment variable values.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})
}

// expandTargetEnvVars expands environment variables in sensitive target
// fields.
func expandTargetEnvVars(t *TargetConfig) {
	if t == nil {
		return
	}
	t.Password = expandEnvVars(t.Password)
	t.User = expandEnvVars(t.User)
	t.Host = expandEnvVars(t.Host)
	t.Database = expandEnvVars(t.Database)
	t.Path = expandEnvVars(t.Path)
}

// MergeTargetConfig merges two target configs, with override taking
// precedence.
func MergeTargetConfig(base, override *TargetConfig) *TargetConfig {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	merged := *base
	merged.Options = make(map[string]string)
	for k, v := range base.Options {
		merged.Options[k] = v
	}

	if override.Type != "" {
		merged.Type = override.Type
	}
	if override.Path != "" {
		merged.Path = override.Path
	}
	if override.Host != "" {
		merged.Host = override.Host
	}
	if override.Port != 0 {
		merged.Port = override.Port
	}
	if override.Database != "" {
		merged.Database = override.Database
	}
	if override.User != "" {
		merged.User = override.User
	}
	if override.Password != "" {
		merged.Password = override.Password
	}
	if override.Schema != "" {
		merged.Schema = override.Schema
	}
	for k, v := range override.Options {
		merged.Options[k] = v
	}

	return &merged
}

func mergeSyncConfig(base, override *SyncConfig) *SyncConfig {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}
	merged := *base
	if override.CommitBatch != 0 {
		merged.CommitBatch = override.CommitBatch
	}
	if override.Parallel {
		merged.Parallel = true
	}
	if override.Workers != 0 {
		merged.Workers = override.Workers
	}
	return &merged
}
