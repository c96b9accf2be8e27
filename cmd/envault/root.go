package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"envault/internal/config"
	"envault/internal/fsutil"
	"envault/internal/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "envault",
	Short: "envault - inject vault secrets into process environments",
	Long: `envault fetches secrets from a cloud vault (AWS Secrets Manager,
Azure Key Vault, Google Cloud Secret Manager or Bitwarden Secrets Manager)
and injects them into a subprocess environment.

It also maintains a local encrypted secret cache keyed off short-lived,
revocable session tokens, so repeated runs do not have to go back to the
vault.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", config.DefaultFileName, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads the configured YAML file.
func loadConfig() (config.Config, error) {
	return config.Load(cfgFile)
}

// loadConfigOrDefault loads the config file but tolerates its absence:
// token and cache management work against the state directory alone and
// should not require a per-project config.
func loadConfigOrDefault() (config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return config.DefaultConfig(), nil
	}
	return cfg, err
}

// newLogger builds the logger for a command run, honoring --verbose over the
// configured level.
func newLogger(cfg config.Config) (*logging.Logger, error) {
	level := logging.Level(cfg.Logging.Level)
	if verbose {
		level = logging.LevelDebug
	}

	if cfg.Logging.File != "" {
		return logging.NewFileLogger(level, cfg.Logging.File)
	}
	return logging.NewLogger(level), nil
}

// stateDir resolves the state directory, preferring the config override.
func stateDir(cfg config.Config) string {
	if cfg.StateDir != "" {
		return cfg.StateDir
	}
	return fsutil.StateDir()
}

// tokenLifetime converts the configured lifetime to a duration.
func tokenLifetime(cfg config.Config) time.Duration {
	return time.Duration(cfg.Token.LifetimeSeconds) * time.Second
}
