// Package azure looks up the Kubernetes versions Azure Kubernetes Service
// offers in a location.
package azure

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"

	"github.com/imamik/qhub/internal/config"
)

const (
	moduleName    = "qhub/platform/azure"
	moduleVersion = "v" + config.Version

	managementEndpoint = "https://management.azure.com"
	apiVersion         = "2023-08-01"

	// SubscriptionEnv is the environment variable holding the subscription ID.
	SubscriptionEnv = "AZURE_SUBSCRIPTION_ID"
)

var managementScopes = []string{managementEndpoint + "/.default"}

// ErrNoSubscription is returned when no subscription ID is configured.
var ErrNoSubscription = errors.New(SubscriptionEnv + " is not set")

// Client queries the AKS resource provider.
type Client struct {
	pipeline     runtime.Pipeline
	endpoint     string
	subscription string
}

// KubernetesVersion is a minor release and its patch versions.
type KubernetesVersion struct {
	Version       string                  `json:"version"`
	IsPreview     bool                    `json:"isPreview"`
	PatchVersions map[string]PatchVersion `json:"patchVersions"`
}

// PatchVersion lists the versions a patch release can upgrade to.
type PatchVersion struct {
	Upgrades []string `json:"upgrades"`
}

type kubernetesVersionsResponse struct {
	Values []KubernetesVersion `json:"values"`
}

// NewClient creates a client authenticating with cred.
func NewClient(subscriptionID string, cred azcore.TokenCredential, opts *policy.ClientOptions) *Client {
	pl := runtime.NewPipeline(moduleName, moduleVersion, runtime.PipelineOptions{
		PerRetry: []policy.Policy{runtime.NewBearerTokenPolicy(cred, managementScopes, nil)},
	}, opts)
	return &Client{pipeline: pl, endpoint: managementEndpoint, subscription: subscriptionID}
}

// NewClientFromEnv creates a client from AZURE_SUBSCRIPTION_ID and the
// default Azure credential chain.
func NewClientFromEnv() (*Client, error) {
	subscription := os.Getenv(SubscriptionEnv)
	if subscription == "" {
		return nil, ErrNoSubscription
	}
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}
	return NewClient(subscription, cred, nil), nil
}

// Versions returns the AKS releases available in location.
func (c *Client) Versions(ctx context.Context, location string) ([]KubernetesVersion, error) {
	u := fmt.Sprintf("%s/subscriptions/%s/providers/Microsoft.ContainerService/locations/%s/kubernetesVersions",
		c.endpoint, url.PathEscape(c.subscription), url.PathEscape(LocationName(location)))

	req, err := runtime.NewRequest(ctx, http.MethodGet, u)
	if err != nil {
		return nil, err
	}
	q := req.Raw().URL.Query()
	q.Set("api-version", apiVersion)
	req.Raw().URL.RawQuery = q.Encode()
	req.Raw().Header.Set("Accept", "application/json")

	resp, err := c.pipeline.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list kubernetes versions: %w", err)
	}
	if !runtime.HasStatusCode(resp, http.StatusOK) {
		return nil, fmt.Errorf("list kubernetes versions: %w", runtime.NewResponseError(resp))
	}

	var out kubernetesVersionsResponse
	if err := runtime.UnmarshalAsJSON(resp, &out); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return out.Values, nil
}

// KubernetesVersions implements config.VersionLister. Preview releases are
// left out; every generally available patch version is returned.
func (c *Client) KubernetesVersions(ctx context.Context, location string) ([]string, error) {
	releases, err := c.Versions(ctx, location)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, r := range releases {
		if r.IsPreview {
			continue
		}
		if len(r.PatchVersions) == 0 {
			out = append(out, r.Version)
			continue
		}
		for patch := range r.PatchVersions {
			out = append(out, patch)
		}
	}
	return config.SortVersions(out), nil
}

// LocationName turns a display name such as "Central US" into the
// location name the management API expects ("centralus").
func LocationName(region string) string {
	return strings.ToLower(strings.ReplaceAll(region, " ", ""))
}

var _ config.VersionLister = (*Client)(nil)
