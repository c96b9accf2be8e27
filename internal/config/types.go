package config

// Config represents the complete envault configuration
type Config struct {
	Vault      string        `yaml:"vault"`
	SecretName string        `yaml:"secret_name"`
	EnvFile    string        `yaml:"env_file"`
	SSOProfile string        `yaml:"sso_profile"`
	VaultURL   string        `yaml:"vault_url"`
	ProjectID  string        `yaml:"project_id"`
	StateDir   string        `yaml:"state_dir"`
	Token      TokenConfig   `yaml:"token"`
	Logging    LoggingConfig `yaml:"logging"`
}

// TokenConfig represents session token configuration
type TokenConfig struct {
	LifetimeSeconds int `yaml:"lifetime_seconds"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Path    string
	Message string
}

func (e ValidationError) Error() string {
	return e.Path + ": " + e.Message
}
