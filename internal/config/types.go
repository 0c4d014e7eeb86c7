package config

import "strings"

// ProviderType selects the cloud backend a deployment targets.
type ProviderType string

const (
	// ProviderLocal deploys into an existing Kubernetes cluster.
	ProviderLocal ProviderType = "local"
	// ProviderDigitalOcean deploys onto DigitalOcean Kubernetes (DOKS).
	ProviderDigitalOcean ProviderType = "do"
	// ProviderAWS deploys onto Amazon EKS.
	ProviderAWS ProviderType = "aws"
	// ProviderGCP deploys onto Google Kubernetes Engine.
	ProviderGCP ProviderType = "gcp"
	// ProviderAzure deploys onto Azure Kubernetes Service.
	ProviderAzure ProviderType = "azure"
)

// ValidProviders returns all valid providers.
func ValidProviders() []ProviderType {
	return []ProviderType{ProviderLocal, ProviderDigitalOcean, ProviderAWS, ProviderGCP, ProviderAzure}
}

// IsValid returns true if the provider is known.
func (p ProviderType) IsValid() bool {
	switch p {
	case ProviderLocal, ProviderDigitalOcean, ProviderAWS, ProviderGCP, ProviderAzure:
		return true
	default:
		return false
	}
}

// DisplayName returns the human-readable cloud name.
func (p ProviderType) DisplayName() string {
	switch p {
	case ProviderLocal:
		return "Local"
	case ProviderDigitalOcean:
		return "Digital Ocean"
	case ProviderAWS:
		return "Amazon Web Services"
	case ProviderGCP:
		return "Google Cloud Platform"
	case ProviderAzure:
		return "Azure"
	default:
		return string(p)
	}
}

func (p ProviderType) options() []string { return enumStrings(ValidProviders()) }

// CIType is the CI/CD system that deploys the configuration.
type CIType string

const (
	CIGitHubActions CIType = "github-actions"
	CIGitLab        CIType = "gitlab-ci"
	CINone          CIType = "none"
)

// ValidCITypes returns all valid CI/CD systems.
func ValidCITypes() []CIType {
	return []CIType{CIGitHubActions, CIGitLab, CINone}
}

// IsValid returns true if the CI/CD system is known.
func (c CIType) IsValid() bool {
	switch c {
	case CIGitHubActions, CIGitLab, CINone:
		return true
	default:
		return false
	}
}

func (c CIType) options() []string { return enumStrings(ValidCITypes()) }

// TerraformStateType is where Terraform keeps its state.
type TerraformStateType string

const (
	TerraformStateRemote   TerraformStateType = "remote"
	TerraformStateLocal    TerraformStateType = "local"
	TerraformStateExisting TerraformStateType = "existing"
)

// ValidTerraformStateTypes returns all valid state backends.
func ValidTerraformStateTypes() []TerraformStateType {
	return []TerraformStateType{TerraformStateRemote, TerraformStateLocal, TerraformStateExisting}
}

// IsValid returns true if the state backend is known.
func (t TerraformStateType) IsValid() bool {
	switch t {
	case TerraformStateRemote, TerraformStateLocal, TerraformStateExisting:
		return true
	default:
		return false
	}
}

func (t TerraformStateType) options() []string { return enumStrings(ValidTerraformStateTypes()) }

// CertificateType is the TLS certificate policy.
type CertificateType string

const (
	CertificateLetsEncrypt CertificateType = "lets-encrypt"
	CertificateSelfSigned  CertificateType = "self-signed"
	CertificateExisting    CertificateType = "existing"
)

// ValidCertificateTypes returns all valid certificate policies.
func ValidCertificateTypes() []CertificateType {
	return []CertificateType{CertificateLetsEncrypt, CertificateSelfSigned, CertificateExisting}
}

// IsValid returns true if the certificate policy is known.
func (c CertificateType) IsValid() bool {
	switch c {
	case CertificateLetsEncrypt, CertificateSelfSigned, CertificateExisting:
		return true
	default:
		return false
	}
}

func (c CertificateType) options() []string { return enumStrings(ValidCertificateTypes()) }

// AuthenticationType is the discriminator of the security.authentication block.
type AuthenticationType string

const (
	AuthPassword AuthenticationType = "password"
	AuthGitHub   AuthenticationType = "GitHub"
	AuthAuth0    AuthenticationType = "Auth0"
)

// ValidAuthenticationTypes returns all valid authentication types.
func ValidAuthenticationTypes() []AuthenticationType {
	return []AuthenticationType{AuthPassword, AuthGitHub, AuthAuth0}
}

// IsValid returns true if the authentication type is known.
func (a AuthenticationType) IsValid() bool {
	switch a {
	case AuthPassword, AuthGitHub, AuthAuth0:
		return true
	default:
		return false
	}
}

func (a AuthenticationType) options() []string { return enumStrings(ValidAuthenticationTypes()) }

// enum is satisfied by every string enumeration in the document.
type enum interface {
	IsValid() bool
	options() []string
}

func enumStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func joinOptions(e enum) string {
	return strings.Join(e.options(), ", ")
}
