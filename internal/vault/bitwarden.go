package vault

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"envault/internal/logging"
)

// BitwardenVault fetches secrets from Bitwarden Secrets Manager via the
// `bws` CLI, which handles authentication through BWS_ACCESS_TOKEN.
type BitwardenVault struct {
	// binary is the bws executable; overridable in tests.
	binary string
	logger *logging.Logger
}

// NewBitwardenVault builds a Bitwarden adapter.
func NewBitwardenVault(logger *logging.Logger) *BitwardenVault {
	return &BitwardenVault{
		binary: "bws",
		logger: logger,
	}
}

// FetchSecret runs `bws secret get <name>` and returns the secret's value.
// A missing secret, a missing bws binary or an auth failure are logged and
// reported as ""; other errors propagate.
func (v *BitwardenVault) FetchSecret(ctx context.Context, name string) (string, error) {
	cmd := exec.CommandContext(ctx, v.binary, "secret", "get", name, "--output", "json")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			v.logger.Error("vault.bitwarden.no_cli", "bws CLI not found on PATH", nil)
			return "", nil
		}

		msg := strings.ToLower(stderr.String())
		if strings.Contains(msg, "not found") || strings.Contains(msg, "unauthorized") || strings.Contains(msg, "invalid") {
			v.logger.Error("vault.bitwarden.lookup_failed", "Secret lookup failed", map[string]interface{}{
				"secret": name,
				"stderr": strings.TrimSpace(stderr.String()),
			})
			return "", nil
		}
		return "", fmt.Errorf("bws secret get %s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}

	var secret struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &secret); err != nil {
		return "", fmt.Errorf("failed to parse bws output for %s: %w", name, err)
	}

	v.logger.Info("vault.bitwarden.fetched", "Fetched secret", map[string]interface{}{
		"secret": name,
	})
	return secret.Value, nil
}
