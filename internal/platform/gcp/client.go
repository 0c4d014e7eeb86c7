// Package gcp looks up the Kubernetes versions Google Kubernetes Engine
// offers in a location.
package gcp

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	container "google.golang.org/api/container/v1"
	"google.golang.org/api/option"

	"github.com/imamik/qhub/internal/config"
)

const (
	scope = container.CloudPlatformScope

	// ProjectEnv is the environment variable holding the project ID.
	ProjectEnv = "PROJECT_ID"
)

// ErrNoProject is returned when neither PROJECT_ID nor the credentials name a project.
var ErrNoProject = errors.New("no GCP project configured; set " + ProjectEnv)

// Client queries the GKE server configuration.
type Client struct {
	project string
	svc     *container.Service
}

// NewClient creates a client for project. opts carry the credentials, for
// example option.WithTokenSource.
func NewClient(ctx context.Context, project string, opts ...option.ClientOption) (*Client, error) {
	svc, err := container.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GKE client: %w", err)
	}
	return &Client{project: project, svc: svc}, nil
}

// NewClientFromEnv creates a client from Application Default Credentials.
// PROJECT_ID takes precedence over the project of the credentials.
func NewClientFromEnv(ctx context.Context) (*Client, error) {
	creds, err := google.FindDefaultCredentials(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to find GCP credentials: %w", err)
	}

	project := os.Getenv(ProjectEnv)
	if project == "" {
		project = creds.ProjectID
	}
	if project == "" {
		return nil, ErrNoProject
	}
	return NewClient(ctx, project, option.WithTokenSource(creds.TokenSource))
}

// ServerConfig returns the GKE server configuration for location.
func (c *Client) ServerConfig(ctx context.Context, location string) (*container.ServerConfig, error) {
	name := fmt.Sprintf("projects/%s/locations/%s", c.project, location)
	cfg, err := c.svc.Projects.Locations.GetServerConfig(name).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get server config for %s: %w", location, err)
	}
	return cfg, nil
}

// KubernetesVersions implements config.VersionLister using the valid
// control plane versions.
func (c *Client) KubernetesVersions(ctx context.Context, location string) ([]string, error) {
	cfg, err := c.ServerConfig(ctx, location)
	if err != nil {
		return nil, err
	}
	return config.SortVersions(cfg.ValidMasterVersions), nil
}

var _ config.VersionLister = (*Client)(nil)
