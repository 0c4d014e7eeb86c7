// Package aws loads AWS SDK configuration and looks up the Kubernetes
// versions Amazon EKS offers.
package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// Options selects the region and credentials for AWS clients. Empty fields
// fall back to the SDK's default chain (environment, shared config, IMDS).
type Options struct {
	Region    string
	AccessKey string
	SecretKey string
	// Endpoint overrides the service endpoint, e.g. for S3-compatible stores.
	Endpoint string
}

// LoadConfig resolves an aws.Config for opts.
func LoadConfig(ctx context.Context, opts Options) (aws.Config, error) {
	var loaders []func(*config.LoadOptions) error
	if opts.Region != "" {
		loaders = append(loaders, config.WithRegion(opts.Region))
	}
	if opts.AccessKey != "" {
		loaders = append(loaders, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}
