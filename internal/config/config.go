package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from path, layered over DefaultConfig. The merged
// result is validated before it is returned.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if err := mergeConfigFile(&cfg, path); err != nil {
		return cfg, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	if validationErrors := cfg.Validate(); len(validationErrors) > 0 {
		return cfg, fmt.Errorf("config validation: %v", formatValidationErrors(validationErrors))
	}

	return cfg, nil
}

// mergeConfigFile reads a YAML file and merges it into the existing config
func mergeConfigFile(cfg *Config, path string) error {
	data, err := os.ReadFile(filepath.Clean(path)) // #nosec G304 -- path is chosen by the operator
	if err != nil {
		return err
	}

	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	mergeConfig(cfg, &overlay)
	return nil
}

// mergeConfig merges non-zero values from src into dst
func mergeConfig(dst, src *Config) {
	if src.Vault != "" {
		dst.Vault = src.Vault
	}
	if src.SecretName != "" {
		dst.SecretName = src.SecretName
	}
	if src.EnvFile != "" {
		dst.EnvFile = src.EnvFile
	}
	if src.SSOProfile != "" {
		dst.SSOProfile = src.SSOProfile
	}
	if src.VaultURL != "" {
		dst.VaultURL = src.VaultURL
	}
	if src.ProjectID != "" {
		dst.ProjectID = src.ProjectID
	}
	if src.StateDir != "" {
		dst.StateDir = src.StateDir
	}
	if src.Token.LifetimeSeconds != 0 {
		dst.Token.LifetimeSeconds = src.Token.LifetimeSeconds
	}
	if src.Logging.Level != "" {
		dst.Logging.Level = src.Logging.Level
	}
	if src.Logging.File != "" {
		dst.Logging.File = src.Logging.File
	}
}

// formatValidationErrors formats validation errors for display
func formatValidationErrors(errors []ValidationError) string {
	msg := ""
	for i, e := range errors {
		if i > 0 {
			msg += "; "
		}
		msg += e.Error()
	}
	return msg
}
