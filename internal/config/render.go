package config

import (
	"fmt"
)

// RenderOptions are the inputs for a freshly initialized document.
type RenderOptions struct {
	ProjectName       string
	Domain            string
	Provider          ProviderType
	CIProvider        CIType
	AuthProvider      AuthenticationType
	Namespace         string
	TerraformState    TerraformStateType
	KubernetesVersion string
	SSLCertEmail      string

	// Authentication replaces the placeholder block for AuthProvider,
	// typically with credentials collected interactively.
	Authentication AuthProvider
}

// Render builds a new document from opts. The result still needs a pass
// through [Engine.Revalidate] to receive generated defaults and to have
// its Kubernetes version checked.
func Render(opts RenderOptions) (*Config, error) {
	if !opts.Provider.IsValid() {
		return nil, fmt.Errorf("invalid provider %q (valid: %s)", opts.Provider, joinOptions(opts.Provider))
	}
	if opts.CIProvider == "" {
		opts.CIProvider = CINone
	}
	if !opts.CIProvider.IsValid() {
		return nil, fmt.Errorf("invalid CI provider %q (valid: %s)", opts.CIProvider, joinOptions(opts.CIProvider))
	}
	if opts.AuthProvider == "" {
		opts.AuthProvider = AuthPassword
	}
	if !opts.AuthProvider.IsValid() {
		return nil, fmt.Errorf("invalid auth provider %q (valid: %s)", opts.AuthProvider, joinOptions(opts.AuthProvider))
	}
	if opts.TerraformState != "" && !opts.TerraformState.IsValid() {
		return nil, fmt.Errorf("invalid terraform state %q (valid: %s)", opts.TerraformState, joinOptions(opts.TerraformState))
	}

	c := New(opts.ProjectName, opts.Domain, opts.Provider)
	if opts.Namespace != "" {
		c.Namespace = opts.Namespace
	}
	c.CICD.Type = opts.CIProvider

	c.Theme.JupyterHub.HubTitle = "QHub - " + opts.ProjectName
	c.Theme.JupyterHub.HubSubtitle = hubSubtitle(opts.Provider)
	c.Theme.JupyterHub.Welcome = welcomeText(opts.Domain)

	if block, ok := CloudProviders.New(string(opts.Provider)); ok {
		if managed, ok := block.(ManagedCloud); ok && opts.KubernetesVersion != "" {
			managed.SetKubernetesVersion(opts.KubernetesVersion)
		}
		c.setCloud(block)
	}

	auth := opts.Authentication
	if auth == nil {
		switch opts.AuthProvider {
		case AuthGitHub:
			auth = NewGitHubAuthentication()
		case AuthAuth0:
			auth = NewAuth0Authentication()
		default:
			auth = NewPasswordAuthentication()
		}
	}
	if auth.AuthType() != opts.AuthProvider {
		return nil, fmt.Errorf("authentication block is %s but auth provider is %s", auth.AuthType(), opts.AuthProvider)
	}
	c.Security.Authentication = Authentication{Provider: auth}

	if opts.TerraformState != "" {
		c.TerraformState = TerraformState{Type: opts.TerraformState}
	}

	if opts.SSLCertEmail != "" {
		c.Certificate = Certificate{
			Type:       CertificateLetsEncrypt,
			ACMEEmail:  opts.SSLCertEmail,
			ACMEServer: LetsEncryptStaging,
		}
	}

	return c, nil
}

func hubSubtitle(p ProviderType) string {
	const base = "Autoscaling Compute Environment"
	switch p {
	case ProviderGCP, ProviderAzure, ProviderAWS, ProviderDigitalOcean:
		return base + " on " + p.DisplayName()
	default:
		return base
	}
}
