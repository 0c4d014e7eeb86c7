// Package digitalocean looks up the Kubernetes versions DigitalOcean
// Kubernetes (DOKS) offers.
package digitalocean

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/imamik/qhub/internal/config"
)

const baseURL = "https://api.digitalocean.com/v2"

// TokenEnv is the environment variable holding the API token.
const TokenEnv = "DIGITALOCEAN_TOKEN"

// ErrNoToken is returned when no API token is configured.
var ErrNoToken = errors.New(TokenEnv + " is not set")

// Client is a minimal DigitalOcean API client for the Kubernetes options endpoint.
type Client struct {
	apiToken   string
	httpClient *http.Client
}

// Version is a DOKS release. Slug is the value accepted as kubernetes_version.
type Version struct {
	Slug              string `json:"slug"`
	KubernetesVersion string `json:"kubernetes_version"`
}

// Region is a datacenter region that can host clusters.
type Region struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type optionsResponse struct {
	Options struct {
		Regions  []Region  `json:"regions"`
		Versions []Version `json:"versions"`
	} `json:"options"`
}

type apiError struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// NewClient creates a new DigitalOcean API client.
func NewClient(apiToken string) *Client {
	return &Client{
		apiToken:   apiToken,
		httpClient: &http.Client{},
	}
}

// NewClientFromEnv creates a client from DIGITALOCEAN_TOKEN.
func NewClientFromEnv() (*Client, error) {
	token := os.Getenv(TokenEnv)
	if token == "" {
		return nil, ErrNoToken
	}
	return NewClient(token), nil
}

// Options returns the versions and regions DOKS currently offers.
func (c *Client) Options(ctx context.Context) ([]Version, []Region, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/kubernetes/options")
	if err != nil {
		return nil, nil, err
	}

	var resp optionsResponse
	if err := c.do(req, &resp); err != nil {
		return nil, nil, fmt.Errorf("get kubernetes options: %w", err)
	}
	return resp.Options.Versions, resp.Options.Regions, nil
}

// KubernetesVersions implements config.VersionLister. DOKS offers the same
// versions in every region, so region is only checked for availability.
func (c *Client) KubernetesVersions(ctx context.Context, region string) ([]string, error) {
	versions, regions, err := c.Options(ctx)
	if err != nil {
		return nil, err
	}

	if region != "" && !hasRegion(regions, region) {
		return nil, fmt.Errorf("region %q does not offer kubernetes clusters", region)
	}

	slugs := make([]string, 0, len(versions))
	for _, v := range versions {
		slugs = append(slugs, v.Slug)
	}
	return config.SortVersions(slugs), nil
}

func hasRegion(regions []Region, slug string) bool {
	for _, r := range regions {
		if r.Slug == slug {
			return true
		}
	}
	return false
}

func (c *Client) newRequest(ctx context.Context, method, path string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("API error (status %d): %s: %s", resp.StatusCode, apiErr.ID, apiErr.Message)
		}
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse response: %w (status %d)", err, resp.StatusCode)
	}
	return nil
}

var _ config.VersionLister = (*Client)(nil)
