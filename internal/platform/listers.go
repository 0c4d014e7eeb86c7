// Package platform wires the cloud provider clients into the lookups the
// configuration engine performs.
package platform

import (
	"context"
	"sync"

	"github.com/imamik/qhub/internal/config"
	platformaws "github.com/imamik/qhub/internal/platform/aws"
	"github.com/imamik/qhub/internal/platform/azure"
	"github.com/imamik/qhub/internal/platform/digitalocean"
	"github.com/imamik/qhub/internal/platform/gcp"
	"github.com/imamik/qhub/internal/platform/kube"
	"github.com/imamik/qhub/internal/util/retry"
)

// Options selects how provider lookups are made.
type Options struct {
	// Offline uses the pinned version lists instead of calling provider APIs.
	Offline bool
	// Kubeconfig is the kubeconfig checked for local deployments. Empty
	// means the standard loading rules.
	Kubeconfig string
	// AWS overrides the credentials and endpoint used for EKS.
	AWS platformaws.Options
	// Retry tunes the retry policy around each lookup.
	Retry []retry.Option
}

// VersionListers returns a lister per managed provider. Clients are built
// from the environment on first use, so a document for one provider never
// needs credentials for another.
func VersionListers(opts Options) map[config.ProviderType]config.VersionLister {
	if opts.Offline {
		return config.PinnedVersionListers()
	}

	return map[config.ProviderType]config.VersionLister{
		config.ProviderDigitalOcean: Lazy(func(context.Context) (config.VersionLister, error) {
			return digitalocean.NewClientFromEnv()
		}, opts.Retry...),
		config.ProviderAWS: Lazy(func(ctx context.Context) (config.VersionLister, error) {
			return platformaws.NewEKSClient(ctx, opts.AWS)
		}, opts.Retry...),
		config.ProviderGCP: Lazy(func(ctx context.Context) (config.VersionLister, error) {
			return gcp.NewClientFromEnv(ctx)
		}, opts.Retry...),
		config.ProviderAzure: Lazy(func(context.Context) (config.VersionLister, error) {
			return azure.NewClientFromEnv()
		}, opts.Retry...),
	}
}

// EngineOptions returns the engine options for real provider lookups.
// Offline mode leaves the kube_context check disabled.
func EngineOptions(opts Options) []config.Option {
	var out []config.Option
	for p, l := range VersionListers(opts) {
		out = append(out, config.WithVersionLister(p, l))
	}
	if !opts.Offline {
		out = append(out, config.WithContextLister(kube.Kubeconfig{Path: opts.Kubeconfig}))
	}
	return out
}

// LazyLister builds its client once, on the first lookup, and retries
// failed lookups. A client that cannot be built is not retried.
type LazyLister struct {
	build func(context.Context) (config.VersionLister, error)
	retry []retry.Option

	once   sync.Once
	lister config.VersionLister
	err    error
}

// Lazy returns a LazyLister around build.
func Lazy(build func(context.Context) (config.VersionLister, error), opts ...retry.Option) *LazyLister {
	return &LazyLister{build: build, retry: opts}
}

// KubernetesVersions implements config.VersionLister.
func (l *LazyLister) KubernetesVersions(ctx context.Context, region string) ([]string, error) {
	l.once.Do(func() {
		l.lister, l.err = l.build(ctx)
	})
	if l.err != nil {
		return nil, l.err
	}

	return retry.Do(ctx, func(ctx context.Context) ([]string, error) {
		return l.lister.KubernetesVersions(ctx, region)
	}, l.retry...)
}

var _ config.VersionLister = (*LazyLister)(nil)
