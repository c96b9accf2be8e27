package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFileName)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Vault != "aws" {
		t.Errorf("Vault = %q, want aws", cfg.Vault)
	}
	if cfg.EnvFile != ".env" {
		t.Errorf("EnvFile = %q, want .env", cfg.EnvFile)
	}
	if cfg.Token.LifetimeSeconds != 10800 {
		t.Errorf("Token.LifetimeSeconds = %d, want 10800", cfg.Token.LifetimeSeconds)
	}
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("DefaultConfig().Validate() = %v, want no errors", errs)
	}
}

func TestLoad_MergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
vault: gcp
project_id: my-project
secret_name: app/prod
logging:
  level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Vault != "gcp" {
		t.Errorf("Vault = %q, want gcp", cfg.Vault)
	}
	if cfg.ProjectID != "my-project" {
		t.Errorf("ProjectID = %q, want my-project", cfg.ProjectID)
	}
	if cfg.SecretName != "app/prod" {
		t.Errorf("SecretName = %q, want app/prod", cfg.SecretName)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	// Untouched fields keep their defaults.
	if cfg.EnvFile != ".env" {
		t.Errorf("EnvFile = %q, want default .env", cfg.EnvFile)
	}
	if cfg.Token.LifetimeSeconds != 10800 {
		t.Errorf("Token.LifetimeSeconds = %d, want default 10800", cfg.Token.LifetimeSeconds)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of missing file should fail")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "vault: [unclosed")

	if _, err := Load(path); err == nil {
		t.Error("Load() of invalid YAML should fail")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid default", func(c *Config) {}, false},
		{"unknown vault", func(c *Config) { c.Vault = "onepassword" }, true},
		{"azure without url", func(c *Config) { c.Vault = "azure" }, true},
		{"azure with url", func(c *Config) { c.Vault = "azure"; c.VaultURL = "https://kv.vault.azure.net" }, false},
		{"gcp without project", func(c *Config) { c.Vault = "gcp" }, true},
		{"gcp with project", func(c *Config) { c.Vault = "gcp"; c.ProjectID = "p" }, false},
		{"bitwarden", func(c *Config) { c.Vault = "bitwarden" }, false},
		{"lifetime too short", func(c *Config) { c.Token.LifetimeSeconds = 30 }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			errs := cfg.Validate()
			if (len(errs) > 0) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", errs, tt.wantErr)
			}
		})
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	path := writeConfig(t, "vault: nosuchvault\n")

	if _, err := Load(path); err == nil {
		t.Error("Load() with invalid vault should fail validation")
	}
}
