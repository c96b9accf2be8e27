package env

import (
	"os"
	"path/filepath"
	"testing"

	"envault/internal/logging"
)

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFillSecrets(t *testing.T) {
	path := writeEnvFile(t, "DB_USER=\nDB_PASS=\nUNMATCHED=\n")
	secrets := map[string]string{
		"DB_USER": "admin",
		"DB_PASS": "hunter2",
		"EXTRA":   "never-requested",
	}

	filled, err := FillSecrets(path, secrets, logging.NewLogger(logging.LevelError))
	if err != nil {
		t.Fatalf("FillSecrets() error = %v", err)
	}

	if len(filled) != 2 {
		t.Fatalf("FillSecrets() returned %d entries, want 2: %v", len(filled), filled)
	}
	if filled["DB_USER"] != "admin" || filled["DB_PASS"] != "hunter2" {
		t.Errorf("FillSecrets() = %v", filled)
	}
	if _, ok := filled["EXTRA"]; ok {
		t.Error("Vault keys not declared in the env file must not leak into the result")
	}
}

func TestFillSecrets_PlaceholderValuesIgnored(t *testing.T) {
	path := writeEnvFile(t, "API_KEY=local-dev-value\n")
	secrets := map[string]string{"API_KEY": "vault-value"}

	filled, err := FillSecrets(path, secrets, logging.NewLogger(logging.LevelError))
	if err != nil {
		t.Fatal(err)
	}
	if filled["API_KEY"] != "vault-value" {
		t.Errorf("API_KEY = %q, want vault value to win over the placeholder", filled["API_KEY"])
	}
}

func TestFillSecrets_MissingFile(t *testing.T) {
	_, err := FillSecrets(filepath.Join(t.TempDir(), "missing.env"), nil, logging.NewLogger(logging.LevelError))
	if err == nil {
		t.Error("FillSecrets() with a missing env file should fail")
	}
}
