package config

import "fmt"

// Validate checks if the configuration is valid
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateVault()...)
	errors = append(errors, c.validateToken()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validateVault() []ValidationError {
	var errors []ValidationError

	validVaults := []string{"aws", "azure", "gcp", "bitwarden"}
	if !contains(validVaults, c.Vault) {
		errors = append(errors, ValidationError{
			Path:    "vault",
			Message: fmt.Sprintf("must be one of %v, got '%s'", validVaults, c.Vault),
		})
	}

	if c.Vault == "azure" && c.VaultURL == "" {
		errors = append(errors, ValidationError{
			Path:    "vault_url",
			Message: "required when vault is 'azure'",
		})
	}

	if c.Vault == "gcp" && c.ProjectID == "" {
		errors = append(errors, ValidationError{
			Path:    "project_id",
			Message: "required when vault is 'gcp'",
		})
	}

	return errors
}

func (c *Config) validateToken() []ValidationError {
	if c.Token.LifetimeSeconds >= 60 {
		return nil
	}

	return []ValidationError{{
		Path:    "token.lifetime_seconds",
		Message: fmt.Sprintf("must be at least 60, got %d", c.Token.LifetimeSeconds),
	}}
}

func (c *Config) validateLogging() []ValidationError {
	validLevels := []string{"debug", "info", "warn", "error"}
	if contains(validLevels, c.Logging.Level) {
		return nil
	}

	return []ValidationError{{
		Path:    "logging.level",
		Message: fmt.Sprintf("must be one of %v, got '%s'", validLevels, c.Logging.Level),
	}}
}

// contains checks if a string is in a slice
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
