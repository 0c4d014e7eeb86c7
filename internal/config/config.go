package config

import (
	"gopkg.in/yaml.v3"
)

// Config is a qhub deployment configuration document.
//
// Field order is the canonical key order of the serialized form. Optional
// blocks are pointers and are omitted from output when unset; everything
// else is always written, even when it equals its default.
type Config struct {
	ProjectName         string                       `yaml:"project_name" validate:"required,namestr"`
	Domain              string                       `yaml:"domain" validate:"required"`
	Provider            ProviderType                 `yaml:"provider" validate:"required,enum"`
	Namespace           string                       `yaml:"namespace" validate:"required,namestr"`
	QHubVersion         string                       `yaml:"qhub_version"`
	CICD                CICD                         `yaml:"ci_cd"`
	TerraformState      TerraformState               `yaml:"terraform_state"`
	Certificate         Certificate                  `yaml:"certificate"`
	HelmExtensions      []HelmExtension              `yaml:"helm_extensions" validate:"dive"`
	Prefect             Prefect                      `yaml:"prefect"`
	CDSDashboards       CDSDashboards                `yaml:"cdsdashboards"`
	Security            Security                     `yaml:"security"`
	ExtContainerReg     *ExtContainerReg             `yaml:"external_container_reg,omitempty"`
	DefaultImages       DefaultImages                `yaml:"default_images"`
	Storage             Storage                      `yaml:"storage"`
	Local               *LocalProvider               `yaml:"local,omitempty"`
	GoogleCloudPlatform *GoogleCloudPlatformProvider `yaml:"google_cloud_platform,omitempty"`
	AmazonWebServices   *AmazonWebServicesProvider   `yaml:"amazon_web_services,omitempty"`
	Azure               *AzureProvider               `yaml:"azure,omitempty"`
	DigitalOcean        *DigitalOceanProvider        `yaml:"digital_ocean,omitempty"`
	Theme               Theme                        `yaml:"theme"`
	Profiles            Profiles                     `yaml:"profiles"`
	Environments        map[string]*CondaEnvironment `yaml:"environments" validate:"dive,required"`
	Monitoring          Monitoring                   `yaml:"monitoring"`
	ClearML             ClearML                      `yaml:"clearml"`
	Extensions          []Extension                  `yaml:"tf_extensions" validate:"dive"`
	JupyterHub          JupyterHub                   `yaml:"jupyterhub"`
	PreventDeploy       bool                         `yaml:"prevent_deploy"`

	warnings []Issue
}

// New returns a document with every default applied except the ones that
// need randomness or a provider lookup.
func New(projectName, domain string, provider ProviderType) *Config {
	c := &Config{}
	c.presetDefaults()
	c.Environments = defaultEnvironments()
	c.ProjectName = projectName
	c.Domain = domain
	c.Provider = provider
	return c
}

func (c *Config) presetDefaults() {
	*c = Config{
		Namespace:      "dev",
		QHubVersion:    Version,
		CICD:           defaultCICD(),
		TerraformState: TerraformState{Type: TerraformStateLocal},
		Certificate:    defaultCertificate(),
		CDSDashboards:  defaultCDSDashboards(),
		Security:       defaultSecurity(),
		DefaultImages:  defaultImages(),
		Storage:        defaultStorage(),
		Theme:          Theme{JupyterHub: defaultJupyterHubTheme()},
		Profiles:       defaultProfiles(),
		Monitoring:     Monitoring{Enabled: true},
		ClearML:        ClearML{EnableForwardAuth: true},
	}
}

// UnmarshalYAML decodes over the schema defaults. Maps are left nil during
// the decode because yaml.v3 merges into existing maps, and are filled
// afterwards only when the document leaves them out.
func (c *Config) UnmarshalYAML(n *yaml.Node) error {
	type plain Config
	c.presetDefaults()
	err := n.Decode((*plain)(c))
	if c.Environments == nil && mappingValue(n, "environments") == nil {
		c.Environments = defaultEnvironments()
	}
	return err
}

// Warnings returns the non-fatal issues found while validating the document.
func (c *Config) Warnings() []Issue {
	return c.warnings
}
