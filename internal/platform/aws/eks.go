package aws

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eks"
	"github.com/aws/aws-sdk-go-v2/service/eks/types"

	"github.com/imamik/qhub/internal/config"
)

var (
	// ErrNoRegion is returned when neither the document nor the AWS config names a region.
	ErrNoRegion = errors.New("no AWS region configured")
	// ErrNoCredentials is returned when the AWS config carries no credentials.
	ErrNoCredentials = errors.New("no AWS credentials configured")
)

// EKSClient lists the Kubernetes versions Amazon EKS offers.
type EKSClient struct {
	eks     *eks.Client
	region  string
	hasAuth bool
}

// NewEKSClient creates an EKS client for opts.
func NewEKSClient(ctx context.Context, opts Options) (*EKSClient, error) {
	cfg, err := LoadConfig(ctx, opts)
	if err != nil {
		return nil, err
	}
	return newEKSClient(cfg, opts.Endpoint), nil
}

func newEKSClient(cfg aws.Config, endpoint string) *EKSClient {
	client := eks.NewFromConfig(cfg, func(o *eks.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return &EKSClient{eks: client, region: cfg.Region, hasAuth: cfg.Credentials != nil}
}

// ClusterVersions returns every version EKS reports in region, following
// pagination. An empty region uses the region of the AWS config.
func (c *EKSClient) ClusterVersions(ctx context.Context, region string) ([]types.ClusterVersionInformation, error) {
	if region == "" {
		region = c.region
	}
	if region == "" {
		return nil, ErrNoRegion
	}
	if !c.hasAuth {
		return nil, ErrNoCredentials
	}

	paginator := eks.NewDescribeClusterVersionsPaginator(c.eks, &eks.DescribeClusterVersionsInput{
		MaxResults: aws.Int32(100),
	})
	var all []types.ClusterVersionInformation
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx, func(o *eks.Options) { o.Region = region })
		if err != nil {
			return nil, fmt.Errorf("failed to describe EKS cluster versions in %s: %w", region, err)
		}
		all = append(all, page.ClusterVersions...)
	}
	return all, nil
}

// KubernetesVersions implements config.VersionLister. Versions past the end
// of extended support are left out.
func (c *EKSClient) KubernetesVersions(ctx context.Context, region string) ([]string, error) {
	versions, err := c.ClusterVersions(ctx, region)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(versions))
	for _, v := range versions {
		if isUnsupported(string(v.Status)) || isUnsupported(string(v.VersionStatus)) {
			continue
		}
		if version := aws.ToString(v.ClusterVersion); version != "" {
			out = append(out, version)
		}
	}
	return config.SortVersions(out), nil
}

func isUnsupported(status string) bool {
	return strings.EqualFold(status, "unsupported")
}

var _ config.VersionLister = (*EKSClient)(nil)
