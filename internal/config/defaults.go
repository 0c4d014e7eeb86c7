package config

import (
	"fmt"

	"github.com/imamik/qhub/internal/util/keygen"
)

// SecretGenerator produces the random values used for generated defaults:
// the Keycloak root password and the Azure storage account postfix.
type SecretGenerator interface {
	String(alphabet string, n int) (string, error)
}

// SecretGeneratorFunc adapts a function to [SecretGenerator].
type SecretGeneratorFunc func(alphabet string, n int) (string, error)

func (f SecretGeneratorFunc) String(alphabet string, n int) (string, error) {
	return f(alphabet, n)
}

// defaulter fills in the defaults that depend on the process environment,
// randomness or the selected provider. It only ever fills empty values, so
// running it over an already materialized document changes nothing.
type defaulter struct {
	getenv  func(string) string
	secrets SecretGenerator
}

func newDefaulter(getenv func(string) string, secrets SecretGenerator) *defaulter {
	if secrets == nil {
		secrets = keygen.New(nil)
	}
	return &defaulter{getenv: getenv, secrets: secrets}
}

func (d *defaulter) env(key, fallback string) string {
	if d.getenv != nil {
		if v := d.getenv(key); v != "" {
			return v
		}
	}
	return fallback
}

func (d *defaulter) secret(alphabet string, n int) (string, error) {
	s, err := d.secrets.String(alphabet, n)
	if err != nil {
		return "", fmt.Errorf("failed to generate secret: %w", err)
	}
	return s, nil
}

func (d *defaulter) synthesize(c *Config) error {
	if len(c.cloudBlocks()) == 0 {
		if block, ok := CloudProviders.New(string(c.Provider)); ok {
			c.setCloud(block)
		}
	}
	// Blocks for other providers are reported by the cross-field checks,
	// never filled.
	if block := c.Cloud(); block != nil {
		if err := block.applyDefaults(d); err != nil {
			return fmt.Errorf("%s: %w", SectionKey(c.Provider), err)
		}
	}

	if c.Security.Keycloak.InitialRootPassword == "" {
		pw, err := d.secret(keygen.Alphanumeric, 16)
		if err != nil {
			return fmt.Errorf("security.keycloak.initial_root_password: %w", err)
		}
		c.Security.Keycloak.InitialRootPassword = pw
	}

	c.normalize()
	return nil
}

// normalize makes a parsed document and its re-parsed canonical form compare
// equal: always-written collections become empty rather than nil, and empty
// optional ones become nil because the canonical form omits them.
func (c *Config) normalize() {
	c.HelmExtensions = emptyIfNil(c.HelmExtensions)
	c.Extensions = emptyIfNil(c.Extensions)
	c.Profiles.JupyterLab = emptyIfNil(c.Profiles.JupyterLab)
	if c.Profiles.DaskWorker == nil {
		c.Profiles.DaskWorker = map[string]*DaskWorkerProfile{}
	}
	if c.Environments == nil {
		c.Environments = map[string]*CondaEnvironment{}
	}

	for i := range c.HelmExtensions {
		c.HelmExtensions[i].Overrides = emptyMapIfNil(c.HelmExtensions[i].Overrides)
	}
	c.Prefect.Overrides = emptyMapIfNil(c.Prefect.Overrides)
	c.ClearML.Overrides = emptyMapIfNil(c.ClearML.Overrides)
	c.JupyterHub.Overrides = emptyMapIfNil(c.JupyterHub.Overrides)
	c.Security.Keycloak.Overrides = emptyMapIfNil(c.Security.Keycloak.Overrides)

	c.CICD.BeforeScript = nilIfEmpty(c.CICD.BeforeScript)
	c.CICD.AfterScript = nilIfEmpty(c.CICD.AfterScript)
	if len(c.TerraformState.Config) == 0 {
		c.TerraformState.Config = nil
	}
	for i := range c.Profiles.JupyterLab {
		c.Profiles.JupyterLab[i].Users = nilIfEmpty(c.Profiles.JupyterLab[i].Users)
		c.Profiles.JupyterLab[i].Groups = nilIfEmpty(c.Profiles.JupyterLab[i].Groups)
	}
	for _, env := range c.Environments {
		if env != nil {
			env.Channels = nilIfEmpty(env.Channels)
		}
	}
	for i := range c.Extensions {
		c.Extensions[i].Envs = nilIfEmpty(c.Extensions[i].Envs)
	}
	if c.AmazonWebServices != nil {
		c.AmazonWebServices.AvailabilityZones = nilIfEmpty(c.AmazonWebServices.AvailabilityZones)
	}
	if c.GoogleCloudPlatform != nil {
		c.GoogleCloudPlatform.AvailabilityZones = nilIfEmpty(c.GoogleCloudPlatform.AvailabilityZones)
	}
}

func nilIfEmpty[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return s
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func emptyMapIfNil(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
