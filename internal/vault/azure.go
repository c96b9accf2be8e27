package vault

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"

	"envault/internal/logging"
)

// azureSecretsClient is the slice of the Key Vault API this adapter uses.
type azureSecretsClient interface {
	GetSecret(ctx context.Context, name, version string, options *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error)
}

// AzureVault fetches secrets from an Azure Key Vault.
type AzureVault struct {
	client   azureSecretsClient
	vaultURL string
	logger   *logging.Logger
}

// NewAzureVault builds an Azure adapter against vaultURL using the default
// credential chain (environment, managed identity, CLI login).
func NewAzureVault(vaultURL string, logger *logging.Logger) (*AzureVault, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire Azure credentials: %w", err)
	}

	client, err := azsecrets.NewClient(vaultURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Key Vault client for %s: %w", vaultURL, err)
	}

	return &AzureVault{
		client:   client,
		vaultURL: vaultURL,
		logger:   logger,
	}, nil
}

// FetchSecret returns the latest version of the named secret. Missing
// secrets and authorization failures are logged and reported as ""; other
// errors propagate.
func (v *AzureVault) FetchSecret(ctx context.Context, name string) (string, error) {
	resp, err := v.client.GetSecret(ctx, name, "", nil)
	if err != nil {
		var respErr *azcore.ResponseError
		if errors.As(err, &respErr) {
			switch respErr.StatusCode {
			case http.StatusNotFound:
				v.logger.Error("vault.azure.not_found", "Secret not found in Key Vault", map[string]interface{}{
					"secret": name,
					"vault":  v.vaultURL,
				})
				return "", nil
			case http.StatusUnauthorized, http.StatusForbidden:
				v.logger.Error("vault.azure.bad_credentials", "Not authorized for Key Vault", map[string]interface{}{
					"vault": v.vaultURL,
				})
				return "", nil
			}
		}
		return "", fmt.Errorf("failed to fetch secret %s: %w", name, err)
	}

	v.logger.Info("vault.azure.fetched", "Fetched secret", map[string]interface{}{
		"secret": name,
	})

	if resp.Value == nil {
		return "", nil
	}
	return *resp.Value, nil
}
