// Package kube reads the local kubeconfig for deployments into an
// existing cluster.
package kube

import (
	"context"
	"fmt"
	"sort"

	"k8s.io/client-go/tools/clientcmd"

	"github.com/imamik/qhub/internal/config"
)

// Kubeconfig lists the contexts of a kubeconfig. With an empty Path the
// standard loading rules apply: $KUBECONFIG, then ~/.kube/config.
type Kubeconfig struct {
	Path string
}

// Contexts implements config.ContextLister.
func (k Kubeconfig) Contexts(_ context.Context) ([]string, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if k.Path != "" {
		rules.ExplicitPath = k.Path
	}

	cfg, err := rules.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
	}

	names := make([]string, 0, len(cfg.Contexts))
	for name := range cfg.Contexts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// CurrentContext returns the context kubectl would use.
func (k Kubeconfig) CurrentContext() (string, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if k.Path != "" {
		rules.ExplicitPath = k.Path
	}
	cfg, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, &clientcmd.ConfigOverrides{}).RawConfig()
	if err != nil {
		return "", fmt.Errorf("failed to load kubeconfig: %w", err)
	}
	return cfg.CurrentContext, nil
}

var _ config.ContextLister = Kubeconfig{}
