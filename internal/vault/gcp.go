package vault

import (
	"context"
	"fmt"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"envault/internal/logging"
)

// gcpSecretsClient is the slice of the Secret Manager API this adapter uses.
type gcpSecretsClient interface {
	AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error)
}

// GCPVault fetches secrets from Google Cloud Secret Manager.
type GCPVault struct {
	client    gcpSecretsClient
	projectID string
	logger    *logging.Logger
}

// NewGCPVault builds a GCP adapter using application-default credentials.
func NewGCPVault(ctx context.Context, projectID string, logger *logging.Logger) (*GCPVault, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Secret Manager client: %w", err)
	}

	return &GCPVault{
		client:    client,
		projectID: projectID,
		logger:    logger,
	}, nil
}

// FetchSecret returns the latest version of the named secret. Missing
// secrets and permission failures are logged and reported as ""; other
// errors propagate.
func (v *GCPVault) FetchSecret(ctx context.Context, name string) (string, error) {
	resp, err := v.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: fmt.Sprintf("projects/%s/secrets/%s/versions/latest", v.projectID, name),
	})
	if err != nil {
		switch status.Code(err) {
		case codes.NotFound:
			v.logger.Error("vault.gcp.not_found", "Secret not found in Secret Manager", map[string]interface{}{
				"secret":  name,
				"project": v.projectID,
			})
			return "", nil
		case codes.PermissionDenied, codes.Unauthenticated:
			v.logger.Error("vault.gcp.bad_credentials", "Not authorized for Secret Manager", map[string]interface{}{
				"project": v.projectID,
			})
			return "", nil
		}
		return "", fmt.Errorf("failed to fetch secret %s: %w", name, err)
	}

	v.logger.Info("vault.gcp.fetched", "Fetched secret", map[string]interface{}{
		"secret": name,
	})
	return string(resp.GetPayload().GetData()), nil
}
