package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// KubeSpawner overrides the resources of a JupyterLab server pod.
// Keys beyond the known ones are passed to KubeSpawner untouched.
type KubeSpawner struct {
	CPULimit     float64        `yaml:"cpu_limit" validate:"gt=0"`
	CPUGuarantee float64        `yaml:"cpu_guarantee" validate:"gte=0"`
	MemLimit     string         `yaml:"mem_limit" validate:"required,quantity"`
	MemGuarantee string         `yaml:"mem_guarantee" validate:"required,quantity"`
	Image        string         `yaml:"image,omitempty"`
	Extra        map[string]any `yaml:",inline"`
}

// JupyterLabProfile is an interactive-session profile offered at spawn time.
type JupyterLabProfile struct {
	DisplayName         string       `yaml:"display_name" validate:"required"`
	Description         string       `yaml:"description" validate:"required"`
	Default             bool         `yaml:"default"`
	Users               []string     `yaml:"users,omitempty"`
	Groups              []string     `yaml:"groups,omitempty"`
	KubeSpawnerOverride *KubeSpawner `yaml:"kubespawner_override,omitempty"`
}

// DaskWorkerProfile sizes a batch worker. Keys beyond the known ones are
// passed to Dask Gateway as worker options.
type DaskWorkerProfile struct {
	WorkerCoresLimit  float64        `yaml:"worker_cores_limit" validate:"gt=0"`
	WorkerCores       float64        `yaml:"worker_cores" validate:"gt=0"`
	WorkerMemoryLimit string         `yaml:"worker_memory_limit" validate:"required,quantity"`
	WorkerMemory      string         `yaml:"worker_memory" validate:"required,quantity"`
	Image             string         `yaml:"image,omitempty"`
	Extra             map[string]any `yaml:",inline"`
}

// Profiles lists the interactive and batch compute profiles.
type Profiles struct {
	JupyterLab []JupyterLabProfile           `yaml:"jupyterlab" validate:"dive"`
	DaskWorker map[string]*DaskWorkerProfile `yaml:"dask_worker" validate:"dive,required"`
}

func defaultJupyterLabProfiles() []JupyterLabProfile {
	return []JupyterLabProfile{
		{
			DisplayName: "Small Instance",
			Description: "Stable environment with 1 cpu / 4 GB ram",
			Default:     true,
			KubeSpawnerOverride: &KubeSpawner{
				CPULimit:     1,
				CPUGuarantee: 0.75,
				MemLimit:     "4G",
				MemGuarantee: "2.5G",
			},
		},
		{
			DisplayName: "Medium Instance",
			Description: "Stable environment with 2 cpu / 8 GB ram",
			KubeSpawnerOverride: &KubeSpawner{
				CPULimit:     2,
				CPUGuarantee: 1.5,
				MemLimit:     "8G",
				MemGuarantee: "5G",
			},
		},
	}
}

func defaultDaskWorkerProfiles() map[string]*DaskWorkerProfile {
	return map[string]*DaskWorkerProfile{
		"Small Worker": {
			WorkerCoresLimit:  1,
			WorkerCores:       0.75,
			WorkerMemoryLimit: "4G",
			WorkerMemory:      "2.5G",
			Extra:             map[string]any{"worker_threads": 1},
		},
		"Medium Worker": {
			WorkerCoresLimit:  2,
			WorkerCores:       1.5,
			WorkerMemoryLimit: "8G",
			WorkerMemory:      "5G",
			Extra:             map[string]any{"worker_threads": 1},
		},
	}
}

func defaultProfiles() Profiles {
	return Profiles{JupyterLab: defaultJupyterLabProfiles(), DaskWorker: defaultDaskWorkerProfiles()}
}

// UnmarshalYAML fills whichever profile list the document leaves out.
func (p *Profiles) UnmarshalYAML(n *yaml.Node) error {
	type plain Profiles
	*p = Profiles{}
	err := n.Decode((*plain)(p))
	if p.JupyterLab == nil && mappingValue(n, "jupyterlab") == nil {
		p.JupyterLab = defaultJupyterLabProfiles()
	}
	if p.DaskWorker == nil && mappingValue(n, "dask_worker") == nil {
		p.DaskWorker = defaultDaskWorkerProfiles()
	}
	return err
}

// defaultProfileCount returns how many interactive profiles are marked default.
func (p Profiles) defaultProfileCount() int {
	n := 0
	for _, profile := range p.JupyterLab {
		if profile.Default {
			n++
		}
	}
	return n
}

// CondaEnvironment is a named conda environment specification.
type CondaEnvironment struct {
	Name         string       `yaml:"name" validate:"required"`
	Channels     []string     `yaml:"channels,omitempty"`
	Dependencies []Dependency `yaml:"dependencies" validate:"required"`
}

// Dependency is one entry of an environment's dependency list: either a
// package spec such as "numpy>=1.20" or a pin group such as {pip: [...]}.
type Dependency struct {
	Spec  string
	Group map[string][]string
}

func (Dependency) freeform() {}

func (d *Dependency) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		*d = Dependency{}
		return n.Decode(&d.Spec)
	case yaml.MappingNode:
		*d = Dependency{}
		return n.Decode(&d.Group)
	default:
		return &yaml.TypeError{Errors: []string{
			fmt.Sprintf("line %d: dependency must be a package spec or a mapping of package lists", n.Line),
		}}
	}
}

func (d Dependency) MarshalYAML() (any, error) {
	if d.Group != nil {
		return d.Group, nil
	}
	return d.Spec, nil
}

func deps(specs ...string) []Dependency {
	out := make([]Dependency, len(specs))
	for i, s := range specs {
		out[i] = Dependency{Spec: s}
	}
	return out
}

func defaultEnvironments() map[string]*CondaEnvironment {
	return map[string]*CondaEnvironment{
		"environment-dask.yaml": {
			Name:     "dask",
			Channels: []string{"conda-forge"},
			Dependencies: deps(
				"python",
				"ipykernel",
				"ipywidgets",
				"qhub-dask ==0.3.13",
				"python-graphviz",
				"numpy",
				"numba",
				"pandas",
			),
		},
		"environment-dashboard.yaml": {
			Name:     "dashboard",
			Channels: []string{"conda-forge"},
			Dependencies: deps(
				"python==3.9.7",
				"ipykernel==6.4.1",
				"ipywidgets==7.6.5",
				"qhub-dask==0.3.13",
				"param==1.11.1",
				"python-graphviz==0.17",
				"matplotlib==3.4.3",
				"panel==0.12.4",
				"voila==0.2.16",
				"streamlit==1.0.0",
				"dash==2.0.0",
				"cdsdashboards-singleuser==0.6.0",
			),
		},
	}
}
