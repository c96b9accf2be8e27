package vault

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/aws/smithy-go"

	"envault/internal/logging"
)

// awsSecretsClient is the slice of the Secrets Manager API this adapter uses.
type awsSecretsClient interface {
	GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// AWSVault fetches secrets from AWS Secrets Manager.
type AWSVault struct {
	client awsSecretsClient
	logger *logging.Logger
}

// NewAWSVault builds an AWS adapter using the default credential chain, or
// the named shared-config profile when ssoProfile is set.
func NewAWSVault(ctx context.Context, ssoProfile string, logger *logging.Logger) (*AWSVault, error) {
	var optFns []func(*awsconfig.LoadOptions) error
	if ssoProfile != "" {
		optFns = append(optFns, awsconfig.WithSharedConfigProfile(ssoProfile))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		if ssoProfile != "" {
			return nil, fmt.Errorf("config profile %s could not be loaded, check your AWS SSO config: %w", ssoProfile, err)
		}
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return &AWSVault{
		client: secretsmanager.NewFromConfig(cfg),
		logger: logger,
	}, nil
}

// FetchSecret returns the secret's string value. A missing secret or bad
// credentials are logged and reported as ""; other errors propagate.
func (v *AWSVault) FetchSecret(ctx context.Context, name string) (string, error) {
	out, err := v.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			v.logger.Error("vault.aws.not_found", "Secret not found on AWS, check AWS_DEFAULT_REGION", map[string]interface{}{
				"secret": name,
			})
			return "", nil
		}

		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "UnrecognizedClientException" {
			v.logger.Error("vault.aws.bad_credentials", "Incorrect AWS credentials set for operation", nil)
			return "", nil
		}

		return "", fmt.Errorf("failed to fetch secret %s: %w", name, err)
	}

	v.logger.Info("vault.aws.fetched", "Fetched secret", map[string]interface{}{
		"secret": name,
	})
	return aws.ToString(out.SecretString), nil
}
