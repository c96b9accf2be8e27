package vault

import (
	"context"
	"encoding/json"
	"fmt"

	"envault/internal/config"
	"envault/internal/logging"
)

// Kind identifies a supported vault backend.
type Kind string

const (
	// KindAWS is AWS Secrets Manager.
	KindAWS Kind = "aws"
	// KindAzure is Azure Key Vault.
	KindAzure Kind = "azure"
	// KindGCP is Google Cloud Secret Manager.
	KindGCP Kind = "gcp"
	// KindBitwarden is Bitwarden Secrets Manager.
	KindBitwarden Kind = "bitwarden"
)

// SecretSource fetches a named secret from a vault backend as a JSON object
// string. Not-found and credential failures are logged and reported as an
// empty string; everything else propagates as an error.
type SecretSource interface {
	FetchSecret(ctx context.Context, name string) (string, error)
}

// ParseKind validates a vault kind string.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindAWS, KindAzure, KindGCP, KindBitwarden:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unsupported vault type: %s", s)
	}
}

// New returns the SecretSource for the configured vault kind.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (SecretSource, error) {
	kind, err := ParseKind(cfg.Vault)
	if err != nil {
		return nil, err
	}

	logger.Info("vault.init", "Initializing vault", map[string]interface{}{
		"vault": string(kind),
	})

	switch kind {
	case KindAWS:
		return NewAWSVault(ctx, cfg.SSOProfile, logger)
	case KindAzure:
		if cfg.VaultURL == "" {
			return nil, fmt.Errorf("vault type %s needs 'vault_url' set in the config file", kind)
		}
		return NewAzureVault(cfg.VaultURL, logger)
	case KindGCP:
		if cfg.ProjectID == "" {
			return nil, fmt.Errorf("vault type %s needs 'project_id' set in the config file", kind)
		}
		return NewGCPVault(ctx, cfg.ProjectID, logger)
	case KindBitwarden:
		return NewBitwardenVault(logger), nil
	default:
		return nil, fmt.Errorf("unsupported vault type: %s", kind)
	}
}

// FetchSecretMap fetches a secret and decodes it as a flat JSON object of
// string values. An empty fetch result yields an empty map.
func FetchSecretMap(ctx context.Context, src SecretSource, name string) (map[string]string, error) {
	raw, err := src.FetchSecret(ctx, name)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return map[string]string{}, nil
	}

	secrets := map[string]string{}
	if err := json.Unmarshal([]byte(raw), &secrets); err != nil {
		return nil, fmt.Errorf("secret %s is not a flat JSON object of strings: %w", name, err)
	}
	return secrets, nil
}
