package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// CICD selects the pipeline that deploys the configuration repository.
type CICD struct {
	Type         CIType   `yaml:"type" validate:"enum"`
	Branch       string   `yaml:"branch"`
	BeforeScript []string `yaml:"before_script,omitempty"`
	AfterScript  []string `yaml:"after_script,omitempty"`
}

func defaultCICD() CICD {
	return CICD{Type: CINone, Branch: "main"}
}

func (c *CICD) UnmarshalYAML(n *yaml.Node) error {
	type plain CICD
	*c = defaultCICD()
	return n.Decode((*plain)(c))
}

// TerraformState configures where Terraform keeps its state.
type TerraformState struct {
	Type    TerraformStateType `yaml:"type" validate:"enum"`
	Backend string             `yaml:"backend,omitempty"`
	Config  map[string]string  `yaml:"config,omitempty"`
}

func (t *TerraformState) UnmarshalYAML(n *yaml.Node) error {
	type plain TerraformState
	*t = TerraformState{Type: TerraformStateLocal}
	return n.Decode((*plain)(t))
}

// LetsEncryptStaging is the default ACME directory.
const LetsEncryptStaging = "https://acme-staging-v02.api.letsencrypt.org/directory"

// Certificate is the TLS certificate policy for the public endpoint.
type Certificate struct {
	Type       CertificateType `yaml:"type" validate:"enum"`
	SecretName string          `yaml:"secret_name,omitempty"`
	ACMEEmail  string          `yaml:"acme_email,omitempty" validate:"omitempty,acme_email"`
	ACMEServer string          `yaml:"acme_server"`
}

func defaultCertificate() Certificate {
	return Certificate{Type: CertificateSelfSigned, ACMEServer: LetsEncryptStaging}
}

func (c *Certificate) UnmarshalYAML(n *yaml.Node) error {
	type plain Certificate
	*c = defaultCertificate()
	return n.Decode((*plain)(c))
}

// HelmExtension installs an additional Helm chart alongside the platform.
type HelmExtension struct {
	Name       string         `yaml:"name" validate:"required"`
	Repository string         `yaml:"repository" validate:"required"`
	Chart      string         `yaml:"chart" validate:"required"`
	Version    string         `yaml:"version" validate:"required"`
	Overrides  map[string]any `yaml:"overrides"`
}

// Prefect toggles the workflow orchestration service.
type Prefect struct {
	Enabled   bool           `yaml:"enabled"`
	Image     string         `yaml:"image,omitempty"`
	Overrides map[string]any `yaml:"overrides"`
}

// ClearML toggles the experiment tracking service.
type ClearML struct {
	Enabled           bool           `yaml:"enabled"`
	EnableForwardAuth bool           `yaml:"enable_forward_auth"`
	Overrides         map[string]any `yaml:"overrides"`
}

func (c *ClearML) UnmarshalYAML(n *yaml.Node) error {
	type plain ClearML
	*c = ClearML{EnableForwardAuth: true}
	return n.Decode((*plain)(c))
}

// Monitoring toggles the Prometheus and Grafana stack.
type Monitoring struct {
	Enabled bool `yaml:"enabled"`
}

func (m *Monitoring) UnmarshalYAML(n *yaml.Node) error {
	type plain Monitoring
	*m = Monitoring{Enabled: true}
	return n.Decode((*plain)(m))
}

// CDSDashboards configures dashboard publishing.
type CDSDashboards struct {
	Enabled                     bool `yaml:"enabled"`
	CDSHideUserNamedServers     bool `yaml:"cds_hide_user_named_servers"`
	CDSHideUserDashboardServers bool `yaml:"cds_hide_user_dashboard_servers"`
}

func defaultCDSDashboards() CDSDashboards {
	return CDSDashboards{Enabled: true, CDSHideUserNamedServers: true}
}

func (c *CDSDashboards) UnmarshalYAML(n *yaml.Node) error {
	type plain CDSDashboards
	*c = defaultCDSDashboards()
	return n.Decode((*plain)(c))
}

// JupyterHub carries raw Helm value overrides for the hub.
type JupyterHub struct {
	Overrides map[string]any `yaml:"overrides"`
}

// Keycloak configures the identity broker.
type Keycloak struct {
	// InitialRootPassword is generated on first synthesis and then persisted.
	InitialRootPassword string         `yaml:"initial_root_password" validate:"required"`
	Overrides           map[string]any `yaml:"overrides"`
	RealmDisplayName    string         `yaml:"realm_display_name"`
}

func (k *Keycloak) UnmarshalYAML(n *yaml.Node) error {
	type plain Keycloak
	*k = Keycloak{RealmDisplayName: "QHub"}
	return n.Decode((*plain)(k))
}

// Security groups user authentication and identity broker settings.
type Security struct {
	// Authentication is validated separately because its concrete type is
	// only known after resolution.
	Authentication   Authentication `yaml:"authentication" validate:"-"`
	SharedUsersGroup bool           `yaml:"shared_users_group"`
	Keycloak         Keycloak       `yaml:"keycloak"`
}

func defaultSecurity() Security {
	return Security{
		Authentication:   Authentication{Provider: NewPasswordAuthentication()},
		SharedUsersGroup: true,
		Keycloak:         Keycloak{RealmDisplayName: "QHub"},
	}
}

func (s *Security) UnmarshalYAML(n *yaml.Node) error {
	type plain Security
	*s = defaultSecurity()
	return n.Decode((*plain)(s))
}

// ExtContainerReg points image pulls at a private registry such as ECR.
// The four credential fields are required once Enabled is set.
type ExtContainerReg struct {
	Enabled         *bool  `yaml:"enabled" validate:"required"`
	AccessKeyID     string `yaml:"access_key_id,omitempty"`
	SecretAccessKey string `yaml:"secret_access_key,omitempty"`
	ExtCRAccount    string `yaml:"extcr_account,omitempty"`
	ExtCRRegion     string `yaml:"extcr_region,omitempty"`
}

// DefaultImages are the container images the platform runs.
type DefaultImages struct {
	JupyterHub  string `yaml:"jupyterhub" validate:"required"`
	JupyterLab  string `yaml:"jupyterlab" validate:"required"`
	DaskWorker  string `yaml:"dask_worker" validate:"required"`
	DaskGateway string `yaml:"dask_gateway" validate:"required"`
}

func defaultImages() DefaultImages {
	tag := ImageTag()
	return DefaultImages{
		JupyterHub:  "quansight/qhub-jupyterhub:" + tag,
		JupyterLab:  "quansight/qhub-jupyterlab:" + tag,
		DaskWorker:  "quansight/qhub-dask-worker:" + tag,
		DaskGateway: "quansight/qhub-dask-gateway:" + tag,
	}
}

func (d *DefaultImages) UnmarshalYAML(n *yaml.Node) error {
	type plain DefaultImages
	*d = defaultImages()
	return n.Decode((*plain)(d))
}

// Storage sizes the persistent volumes.
type Storage struct {
	CondaStore       string `yaml:"conda_store" validate:"required,quantity"`
	SharedFilesystem string `yaml:"shared_filesystem" validate:"required,quantity"`
}

func defaultStorage() Storage {
	return Storage{CondaStore: "60Gi", SharedFilesystem: "100Gi"}
}

func (s *Storage) UnmarshalYAML(n *yaml.Node) error {
	type plain Storage
	*s = defaultStorage()
	return n.Decode((*plain)(s))
}

const defaultWelcome = `Welcome to %s. It is maintained by <a href="http://quansight.com">Quansight staff</a>. ` +
	`The hub's configuration is stored in a github repository based on ` +
	`<a href="https://github.com/Quansight/qhub/">https://github.com/Quansight/qhub/</a>. ` +
	`To provide feedback and report any technical problems, please use the ` +
	`<a href="https://github.com/Quansight/qhub/issues">github issue tracker</a>.`

// JupyterHubTheme styles the hub landing page. Unknown keys are passed
// through to the theme templates.
type JupyterHubTheme struct {
	HubTitle       string         `yaml:"hub_title"`
	HubSubtitle    string         `yaml:"hub_subtitle"`
	Welcome        string         `yaml:"welcome"`
	Logo           string         `yaml:"logo"`
	PrimaryColor   string         `yaml:"primary_color"`
	SecondaryColor string         `yaml:"secondary_color"`
	AccentColor    string         `yaml:"accent_color"`
	TextColor      string         `yaml:"text_color"`
	H1Color        string         `yaml:"h1_color"`
	H2Color        string         `yaml:"h2_color"`
	Extra          map[string]any `yaml:",inline"`
}

func welcomeText(site string) string {
	return fmt.Sprintf(defaultWelcome, site)
}

func defaultJupyterHubTheme() JupyterHubTheme {
	return JupyterHubTheme{
		HubTitle:       "QHub",
		HubSubtitle:    "Autoscaling Compute Environment",
		Welcome:        welcomeText("QHub"),
		Logo:           "/hub/custom/images/jupyter_qhub_logo.svg",
		PrimaryColor:   "#4f4173",
		SecondaryColor: "#957da6",
		AccentColor:    "#32C574",
		TextColor:      "#111111",
		H1Color:        "#652e8e",
		H2Color:        "#652e8e",
	}
}

func (t *JupyterHubTheme) UnmarshalYAML(n *yaml.Node) error {
	type plain JupyterHubTheme
	*t = defaultJupyterHubTheme()
	return n.Decode((*plain)(t))
}

// Theme groups the per-component themes.
type Theme struct {
	JupyterHub JupyterHubTheme `yaml:"jupyterhub"`
}

func (t *Theme) UnmarshalYAML(n *yaml.Node) error {
	type plain Theme
	*t = Theme{JupyterHub: defaultJupyterHubTheme()}
	return n.Decode((*plain)(t))
}

// ExtensionEnv is an environment variable passed to an extension.
type ExtensionEnv struct {
	Name  string `yaml:"name" validate:"required"`
	Value string `yaml:"value"`
}

// Extension deploys an additional service behind the hub's ingress.
type Extension struct {
	Name           string         `yaml:"name" validate:"required"`
	Image          string         `yaml:"image" validate:"required"`
	URLSlug        string         `yaml:"urlslug" validate:"required"`
	Private        bool           `yaml:"private"`
	OAuth2Client   bool           `yaml:"oauth2client"`
	KeycloakAdmin  bool           `yaml:"keycloakadmin"`
	JWT            bool           `yaml:"jwt"`
	QHubConfigYAML bool           `yaml:"qhubconfigyaml"`
	Logout         string         `yaml:"logout,omitempty"`
	Envs           []ExtensionEnv `yaml:"envs,omitempty" validate:"dive"`
}
