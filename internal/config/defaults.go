package config

// DefaultFileName is the per-project configuration file looked up in the
// working directory when no explicit path is given.
const DefaultFileName = "envault.yaml"

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		Vault:   "aws",
		EnvFile: ".env",
		Token: TokenConfig{
			LifetimeSeconds: 10800, // 3 hours
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
