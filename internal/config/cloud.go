package config

// CloudProvider is implemented by the five provider-specific blocks.
type CloudProvider interface {
	Provider() ProviderType
	applyDefaults(d *defaulter) error
}

// ManagedCloud is a CloudProvider that provisions its own Kubernetes
// control plane and therefore carries a region, a version and node groups.
type ManagedCloud interface {
	CloudProvider
	GetRegion() string
	GetKubernetesVersion() string
	SetKubernetesVersion(v string)
	GetNodeGroups() map[string]*NodeGroup
}

// CloudProviders holds the default constructor for each provider block.
// The engine uses it to synthesize the block for the selected provider
// when the document leaves it out.
var CloudProviders = NewRegistry[CloudProvider]("provider", "provider").
	Register(string(ProviderLocal), func() CloudProvider { return &LocalProvider{} }).
	Register(string(ProviderDigitalOcean), func() CloudProvider { return &DigitalOceanProvider{} }).
	Register(string(ProviderAWS), func() CloudProvider { return &AmazonWebServicesProvider{} }).
	Register(string(ProviderGCP), func() CloudProvider { return &GoogleCloudPlatformProvider{} }).
	Register(string(ProviderAzure), func() CloudProvider { return &AzureProvider{} })

// SectionKey returns the top-level document key holding the block for p.
func SectionKey(p ProviderType) string {
	switch p {
	case ProviderLocal:
		return "local"
	case ProviderDigitalOcean:
		return "digital_ocean"
	case ProviderAWS:
		return "amazon_web_services"
	case ProviderGCP:
		return "google_cloud_platform"
	case ProviderAzure:
		return "azure"
	default:
		return ""
	}
}

// NodeGroup is a named pool of identical worker machines.
// Keys beyond the known ones are kept in Extra and written back unchanged.
type NodeGroup struct {
	Instance string         `yaml:"instance" validate:"required"`
	MinNodes int            `yaml:"min_nodes" validate:"gte=0"`
	MaxNodes int            `yaml:"max_nodes" validate:"gtefield=MinNodes"`
	GPU      bool           `yaml:"gpu"`
	Extra    map[string]any `yaml:",inline"`
}

// requiredKeys lists the bounds a document must spell out; zero is a valid
// value for both.
func (NodeGroup) requiredKeys() []string { return []string{"min_nodes", "max_nodes"} }

func nodeGroup(instance string, minNodes, maxNodes int) *NodeGroup {
	return &NodeGroup{Instance: instance, MinNodes: minNodes, MaxNodes: maxNodes}
}

// KeyValue is a single Kubernetes label selector.
type KeyValue struct {
	Key   string `yaml:"key" validate:"required"`
	Value string `yaml:"value" validate:"required"`
}

// NodeSelectors pins each workload class of a local deployment to nodes.
type NodeSelectors struct {
	General KeyValue `yaml:"general"`
	User    KeyValue `yaml:"user"`
	Worker  KeyValue `yaml:"worker"`
}

// LocalProvider deploys into an existing cluster reachable through kubeconfig.
type LocalProvider struct {
	KubeContext   string         `yaml:"kube_context,omitempty"`
	NodeSelectors *NodeSelectors `yaml:"node_selectors" validate:"required"`
}

func (*LocalProvider) Provider() ProviderType { return ProviderLocal }

func (p *LocalProvider) applyDefaults(*defaulter) error {
	if p.NodeSelectors == nil {
		linux := KeyValue{Key: "kubernetes.io/os", Value: "linux"}
		p.NodeSelectors = &NodeSelectors{General: linux, User: linux, Worker: linux}
	}
	return nil
}

// DigitalOceanProvider is a DigitalOcean Kubernetes (DOKS) cluster.
type DigitalOceanProvider struct {
	Region            string                `yaml:"region" validate:"required"`
	KubernetesVersion string                `yaml:"kubernetes_version,omitempty"`
	NodeGroups        map[string]*NodeGroup `yaml:"node_groups" validate:"dive,required"`
}

func (*DigitalOceanProvider) Provider() ProviderType { return ProviderDigitalOcean }

func (p *DigitalOceanProvider) applyDefaults(*defaulter) error {
	if p.Region == "" {
		p.Region = "nyc3"
	}
	if p.NodeGroups == nil {
		p.NodeGroups = map[string]*NodeGroup{
			"general": nodeGroup("g-4vcpu-16gb", 1, 1),
			"user":    nodeGroup("g-2vcpu-8gb", 1, 5),
			"worker":  nodeGroup("g-2vcpu-8gb", 1, 5),
		}
	}
	return nil
}

func (p *DigitalOceanProvider) GetRegion() string                    { return p.Region }
func (p *DigitalOceanProvider) GetKubernetesVersion() string         { return p.KubernetesVersion }
func (p *DigitalOceanProvider) SetKubernetesVersion(v string)        { p.KubernetesVersion = v }
func (p *DigitalOceanProvider) GetNodeGroups() map[string]*NodeGroup { return p.NodeGroups }

// AmazonWebServicesProvider is an Amazon EKS cluster.
type AmazonWebServicesProvider struct {
	Region            string                `yaml:"region" validate:"required"`
	AvailabilityZones []string              `yaml:"availability_zones,omitempty" validate:"omitempty,min=2"`
	KubernetesVersion string                `yaml:"kubernetes_version,omitempty"`
	NodeGroups        map[string]*NodeGroup `yaml:"node_groups" validate:"dive,required"`
}

func (*AmazonWebServicesProvider) Provider() ProviderType { return ProviderAWS }

func (p *AmazonWebServicesProvider) applyDefaults(d *defaulter) error {
	if p.Region == "" {
		p.Region = d.env("AWS_DEFAULT_REGION", "us-west-2")
	}
	if p.NodeGroups == nil {
		p.NodeGroups = map[string]*NodeGroup{
			"general": nodeGroup("m5.xlarge", 1, 1),
			"user":    nodeGroup("m5.large", 1, 5),
			"worker":  nodeGroup("m5.large", 1, 5),
		}
	}
	return nil
}

func (p *AmazonWebServicesProvider) GetRegion() string                    { return p.Region }
func (p *AmazonWebServicesProvider) GetKubernetesVersion() string         { return p.KubernetesVersion }
func (p *AmazonWebServicesProvider) SetKubernetesVersion(v string)        { p.KubernetesVersion = v }
func (p *AmazonWebServicesProvider) GetNodeGroups() map[string]*NodeGroup { return p.NodeGroups }

// GoogleCloudPlatformProvider is a Google Kubernetes Engine cluster.
type GoogleCloudPlatformProvider struct {
	Project           string                `yaml:"project,omitempty"`
	Region            string                `yaml:"region" validate:"required"`
	AvailabilityZones []string              `yaml:"availability_zones,omitempty"`
	KubernetesVersion string                `yaml:"kubernetes_version,omitempty"`
	NodeGroups        map[string]*NodeGroup `yaml:"node_groups" validate:"dive,required"`
}

func (*GoogleCloudPlatformProvider) Provider() ProviderType { return ProviderGCP }

func (p *GoogleCloudPlatformProvider) applyDefaults(d *defaulter) error {
	if p.Project == "" {
		p.Project = d.env("PROJECT_ID", "")
	}
	if p.Region == "" {
		p.Region = "us-central1"
	}
	if p.NodeGroups == nil {
		p.NodeGroups = map[string]*NodeGroup{
			"general": nodeGroup("n1-standard-4", 1, 1),
			"user":    nodeGroup("n1-standard-2", 0, 5),
			"worker":  nodeGroup("n1-standard-2", 0, 5),
		}
	}
	return nil
}

func (p *GoogleCloudPlatformProvider) GetRegion() string                    { return p.Region }
func (p *GoogleCloudPlatformProvider) GetKubernetesVersion() string         { return p.KubernetesVersion }
func (p *GoogleCloudPlatformProvider) SetKubernetesVersion(v string)        { p.KubernetesVersion = v }
func (p *GoogleCloudPlatformProvider) GetNodeGroups() map[string]*NodeGroup { return p.NodeGroups }

// storagePostfixAlphabet is the character set Azure storage account names allow.
const storagePostfixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// AzureProvider is an Azure Kubernetes Service cluster.
type AzureProvider struct {
	Region            string                `yaml:"region" validate:"required"`
	KubernetesVersion string                `yaml:"kubernetes_version,omitempty"`
	NodeGroups        map[string]*NodeGroup `yaml:"node_groups" validate:"dive,required"`
	// StoragePostfix is generated once and then persisted; re-parsing a
	// document never replaces it.
	StoragePostfix string `yaml:"storage_account_postfix" validate:"required,len=8,alphanum,lowercase"`
}

func (*AzureProvider) Provider() ProviderType { return ProviderAzure }

func (p *AzureProvider) applyDefaults(d *defaulter) error {
	if p.Region == "" {
		p.Region = "Central US"
	}
	if p.NodeGroups == nil {
		p.NodeGroups = map[string]*NodeGroup{
			"general": nodeGroup("Standard_D4_v3", 1, 1),
			"user":    nodeGroup("Standard_D2_v2", 0, 5),
			"worker":  nodeGroup("Standard_D2_v2", 0, 5),
		}
	}
	if p.StoragePostfix == "" {
		s, err := d.secret(storagePostfixAlphabet, 8)
		if err != nil {
			return err
		}
		p.StoragePostfix = s
	}
	return nil
}

func (p *AzureProvider) GetRegion() string                    { return p.Region }
func (p *AzureProvider) GetKubernetesVersion() string         { return p.KubernetesVersion }
func (p *AzureProvider) SetKubernetesVersion(v string)        { p.KubernetesVersion = v }
func (p *AzureProvider) GetNodeGroups() map[string]*NodeGroup { return p.NodeGroups }

// cloudBlocks returns every populated provider block keyed by provider.
func (c *Config) cloudBlocks() map[ProviderType]CloudProvider {
	out := make(map[ProviderType]CloudProvider)
	if c.Local != nil {
		out[ProviderLocal] = c.Local
	}
	if c.DigitalOcean != nil {
		out[ProviderDigitalOcean] = c.DigitalOcean
	}
	if c.AmazonWebServices != nil {
		out[ProviderAWS] = c.AmazonWebServices
	}
	if c.GoogleCloudPlatform != nil {
		out[ProviderGCP] = c.GoogleCloudPlatform
	}
	if c.Azure != nil {
		out[ProviderAzure] = c.Azure
	}
	return out
}

// setCloud stores p in the field matching its provider.
func (c *Config) setCloud(p CloudProvider) {
	switch v := p.(type) {
	case *LocalProvider:
		c.Local = v
	case *DigitalOceanProvider:
		c.DigitalOcean = v
	case *AmazonWebServicesProvider:
		c.AmazonWebServices = v
	case *GoogleCloudPlatformProvider:
		c.GoogleCloudPlatform = v
	case *AzureProvider:
		c.Azure = v
	}
}

// Cloud returns the block for the selected provider, or nil when the
// document has none.
func (c *Config) Cloud() CloudProvider {
	switch c.Provider {
	case ProviderLocal:
		if c.Local != nil {
			return c.Local
		}
	case ProviderDigitalOcean:
		if c.DigitalOcean != nil {
			return c.DigitalOcean
		}
	case ProviderAWS:
		if c.AmazonWebServices != nil {
			return c.AmazonWebServices
		}
	case ProviderGCP:
		if c.GoogleCloudPlatform != nil {
			return c.GoogleCloudPlatform
		}
	case ProviderAzure:
		if c.Azure != nil {
			return c.Azure
		}
	}
	return nil
}
