package vault

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"

	"envault/internal/logging"
)

type fakeAzureClient struct {
	resp azsecrets.GetSecretResponse
	err  error
}

func (f *fakeAzureClient) GetSecret(ctx context.Context, name, version string, options *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error) {
	return f.resp, f.err
}

func newAzureVaultWithClient(client azureSecretsClient) *AzureVault {
	return &AzureVault{
		client:   client,
		vaultURL: "https://kv.vault.azure.net",
		logger:   logging.NewLogger(logging.LevelError),
	}
}

func TestAzureVault_FetchSecret(t *testing.T) {
	value := `{"API_KEY":"value"}`
	v := newAzureVaultWithClient(&fakeAzureClient{
		resp: azsecrets.GetSecretResponse{
			Secret: azsecrets.Secret{Value: &value},
		},
	})

	got, err := v.FetchSecret(context.Background(), "app-secrets")
	if err != nil {
		t.Fatalf("FetchSecret() error = %v", err)
	}
	if got != value {
		t.Errorf("FetchSecret() = %q, want %q", got, value)
	}
}

func TestAzureVault_FetchSecret_NotFoundSwallowed(t *testing.T) {
	v := newAzureVaultWithClient(&fakeAzureClient{
		err: &azcore.ResponseError{StatusCode: http.StatusNotFound, ErrorCode: "SecretNotFound"},
	})

	got, err := v.FetchSecret(context.Background(), "missing")
	if err != nil {
		t.Fatalf("FetchSecret() error = %v, want swallowed not-found", err)
	}
	if got != "" {
		t.Errorf("FetchSecret() = %q, want empty string", got)
	}
}

func TestAzureVault_FetchSecret_ForbiddenSwallowed(t *testing.T) {
	v := newAzureVaultWithClient(&fakeAzureClient{
		err: &azcore.ResponseError{StatusCode: http.StatusForbidden, ErrorCode: "Forbidden"},
	})

	got, err := v.FetchSecret(context.Background(), "app-secrets")
	if err != nil {
		t.Fatalf("FetchSecret() error = %v, want swallowed auth failure", err)
	}
	if got != "" {
		t.Errorf("FetchSecret() = %q, want empty string", got)
	}
}

func TestAzureVault_FetchSecret_OtherErrorPropagates(t *testing.T) {
	v := newAzureVaultWithClient(&fakeAzureClient{
		err: errors.New("connection reset"),
	})

	if _, err := v.FetchSecret(context.Background(), "app-secrets"); err == nil {
		t.Error("FetchSecret() should propagate transport errors")
	}
}
