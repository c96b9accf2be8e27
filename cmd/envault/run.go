package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"envault/internal/env"
	"envault/internal/vault"
)

var runCmd = &cobra.Command{
	Use:   "run -- <command> [args...]",
	Short: "Fetch secrets and run a command with them injected",
	Long: `Fetch the configured secret from the vault, resolve the keys declared
in the env file against it, and run the given command with the resolved
values added to its environment.

Examples:
  envault run -- ./server
  envault run -- npm start
  envault -c deploy/envault.yaml run -- terraform apply`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
	// The child command owns everything after "--".
	DisableFlagsInUseLine: true,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.SecretName == "" {
		return fmt.Errorf("'secret_name' is not set in %s", cfgFile)
	}
	if _, err := os.Stat(cfg.EnvFile); err != nil {
		return fmt.Errorf("env file %s from the config does not exist: %w", cfg.EnvFile, err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	ctx := cmd.Context()

	source, err := vault.New(ctx, cfg, logger)
	if err != nil {
		return err
	}

	secrets, err := vault.FetchSecretMap(ctx, source, cfg.SecretName)
	if err != nil {
		return err
	}
	if len(secrets) == 0 {
		return fmt.Errorf("no secrets fetched for %s", cfg.SecretName)
	}

	filled, err := env.FillSecrets(cfg.EnvFile, secrets, logger)
	if err != nil {
		return err
	}
	logger.Info("env.injected", "Secrets injected into the environment", map[string]interface{}{
		"keys": len(filled),
	})

	return execChild(args, filled)
}

// execChild runs the child command with extra environment variables merged
// over the current environment, forwarding its exit code.
func execChild(args []string, extra map[string]string) error {
	environ := os.Environ()
	for k, v := range extra {
		environ = append(environ, k+"="+v)
	}

	child := exec.Command(args[0], args[1:]...) // #nosec G204 -- running the caller's command is the point
	child.Env = environ
	child.Stdin = os.Stdin
	child.Stdout = os.Stdout
	child.Stderr = os.Stderr

	if err := child.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		return fmt.Errorf("failed to run %s: %w", args[0], err)
	}
	return nil
}
