package vault

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"envault/internal/logging"
)

type fakeGCPClient struct {
	resp    *secretmanagerpb.AccessSecretVersionResponse
	err     error
	gotName string
}

func (f *fakeGCPClient) AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error) {
	f.gotName = req.GetName()
	return f.resp, f.err
}

func newGCPVaultWithClient(client gcpSecretsClient) *GCPVault {
	return &GCPVault{
		client:    client,
		projectID: "my-project",
		logger:    logging.NewLogger(logging.LevelError),
	}
}

func TestGCPVault_FetchSecret(t *testing.T) {
	client := &fakeGCPClient{
		resp: &secretmanagerpb.AccessSecretVersionResponse{
			Payload: &secretmanagerpb.SecretPayload{Data: []byte(`{"API_KEY":"value"}`)},
		},
	}
	v := newGCPVaultWithClient(client)

	got, err := v.FetchSecret(context.Background(), "app-secrets")
	if err != nil {
		t.Fatalf("FetchSecret() error = %v", err)
	}
	if got != `{"API_KEY":"value"}` {
		t.Errorf("FetchSecret() = %q", got)
	}

	wantName := "projects/my-project/secrets/app-secrets/versions/latest"
	if client.gotName != wantName {
		t.Errorf("Accessed version %q, want %q", client.gotName, wantName)
	}
}

func TestGCPVault_FetchSecret_NotFoundSwallowed(t *testing.T) {
	v := newGCPVaultWithClient(&fakeGCPClient{
		err: status.Error(codes.NotFound, "secret not found"),
	})

	got, err := v.FetchSecret(context.Background(), "missing")
	if err != nil {
		t.Fatalf("FetchSecret() error = %v, want swallowed not-found", err)
	}
	if got != "" {
		t.Errorf("FetchSecret() = %q, want empty string", got)
	}
}

func TestGCPVault_FetchSecret_PermissionDeniedSwallowed(t *testing.T) {
	v := newGCPVaultWithClient(&fakeGCPClient{
		err: status.Error(codes.PermissionDenied, "no access"),
	})

	got, err := v.FetchSecret(context.Background(), "app-secrets")
	if err != nil {
		t.Fatalf("FetchSecret() error = %v, want swallowed auth failure", err)
	}
	if got != "" {
		t.Errorf("FetchSecret() = %q, want empty string", got)
	}
}

func TestGCPVault_FetchSecret_OtherErrorPropagates(t *testing.T) {
	v := newGCPVaultWithClient(&fakeGCPClient{
		err: errors.New("deadline exceeded"),
	})

	if _, err := v.FetchSecret(context.Background(), "app-secrets"); err == nil {
		t.Error("FetchSecret() should propagate transport errors")
	}
}
