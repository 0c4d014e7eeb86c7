package config

import (
	"gopkg.in/yaml.v3"
)

// Placeholder is the value OAuth credentials default to until real ones are supplied.
const Placeholder = "PLACEHOLDER"

// AuthProvider is implemented by every security.authentication variant.
type AuthProvider interface {
	AuthType() AuthenticationType
}

// AuthenticationTypes resolves security.authentication blocks by their type field.
var AuthenticationTypes = NewRegistry[AuthProvider]("security.authentication", "type").
	Register(string(AuthPassword), func() AuthProvider { return NewPasswordAuthentication() }).
	Register(string(AuthGitHub), func() AuthProvider { return &GitHubAuthentication{Type: AuthGitHub} }).
	Register(string(AuthAuth0), func() AuthProvider { return &Auth0Authentication{Type: AuthAuth0} })

// Authentication holds the resolved security.authentication variant.
type Authentication struct {
	Provider AuthProvider
}

// UnmarshalYAML dispatches on the type field through [AuthenticationTypes].
func (a *Authentication) UnmarshalYAML(n *yaml.Node) error {
	p, err := AuthenticationTypes.Resolve(n)
	if p != nil {
		a.Provider = p
	}
	return err
}

// MarshalYAML emits the variant itself.
func (a Authentication) MarshalYAML() (any, error) {
	return a.Provider, nil
}

// Type returns the discriminator of the resolved variant.
func (a Authentication) Type() AuthenticationType {
	if a.Provider == nil {
		return ""
	}
	return a.Provider.AuthType()
}

// PasswordAuthentication authenticates users against Keycloak's own user store.
type PasswordAuthentication struct {
	Type AuthenticationType `yaml:"type"`
}

// NewPasswordAuthentication returns the default authentication block.
func NewPasswordAuthentication() *PasswordAuthentication {
	return &PasswordAuthentication{Type: AuthPassword}
}

func (*PasswordAuthentication) AuthType() AuthenticationType { return AuthPassword }

// GitHubAuthentication brokers logins through a GitHub OAuth application.
type GitHubAuthentication struct {
	Type   AuthenticationType `yaml:"type"`
	Config *GitHubConfig      `yaml:"config" validate:"required"`
}

// GitHubConfig holds the GitHub OAuth application credentials.
type GitHubConfig struct {
	ClientID     string `yaml:"client_id" validate:"required"`
	ClientSecret string `yaml:"client_secret" validate:"required"`
}

// NewGitHubAuthentication returns a GitHub block with placeholder credentials.
func NewGitHubAuthentication() *GitHubAuthentication {
	return &GitHubAuthentication{
		Type:   AuthGitHub,
		Config: &GitHubConfig{ClientID: Placeholder, ClientSecret: Placeholder},
	}
}

func (*GitHubAuthentication) AuthType() AuthenticationType { return AuthGitHub }

func (c *GitHubConfig) UnmarshalYAML(n *yaml.Node) error {
	type plain GitHubConfig
	*c = GitHubConfig{ClientID: Placeholder, ClientSecret: Placeholder}
	return n.Decode((*plain)(c))
}

// Auth0Authentication brokers logins through an Auth0 tenant.
type Auth0Authentication struct {
	Type   AuthenticationType `yaml:"type"`
	Config *Auth0Config       `yaml:"config" validate:"required"`
}

// Auth0Config holds the Auth0 application credentials and tenant.
type Auth0Config struct {
	ClientID       string `yaml:"client_id" validate:"required"`
	ClientSecret   string `yaml:"client_secret" validate:"required"`
	Auth0Subdomain string `yaml:"auth0_subdomain" validate:"required"`
}

// NewAuth0Authentication returns an Auth0 block with placeholder credentials.
func NewAuth0Authentication() *Auth0Authentication {
	return &Auth0Authentication{
		Type:   AuthAuth0,
		Config: &Auth0Config{ClientID: Placeholder, ClientSecret: Placeholder, Auth0Subdomain: Placeholder + ".auth0.io"},
	}
}

func (*Auth0Authentication) AuthType() AuthenticationType { return AuthAuth0 }

func (c *Auth0Config) UnmarshalYAML(n *yaml.Node) error {
	type plain Auth0Config
	*c = Auth0Config{ClientID: Placeholder, ClientSecret: Placeholder, Auth0Subdomain: Placeholder + ".auth0.io"}
	return n.Decode((*plain)(c))
}
