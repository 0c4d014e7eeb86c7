package platform

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/qhub/internal/config"
	"github.com/imamik/qhub/internal/util/retry"
)

var fastRetry = []retry.Option{
	retry.WithMaxRetries(2),
	retry.WithInitialDelay(time.Millisecond),
	retry.WithMaxDelay(time.Millisecond),
}

func TestLazyLister_BuildsOnce(t *testing.T) {
	t.Parallel()

	var builds atomic.Int32
	l := Lazy(func(context.Context) (config.VersionLister, error) {
		builds.Add(1)
		return config.StaticVersions{"1.20.0", "1.21.0"}, nil
	}, fastRetry...)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			versions, err := l.KubernetesVersions(context.Background(), "nyc3")
			assert.NoError(t, err)
			assert.Equal(t, []string{"1.20.0", "1.21.0"}, versions)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), builds.Load())
}

func TestLazyLister_BuildErrorIsNotRetried(t *testing.T) {
	t.Parallel()

	errNoToken := errors.New("DIGITALOCEAN_TOKEN is not set")
	var builds atomic.Int32
	l := Lazy(func(context.Context) (config.VersionLister, error) {
		builds.Add(1)
		return nil, errNoToken
	}, fastRetry...)

	for range 2 {
		_, err := l.KubernetesVersions(context.Background(), "nyc3")
		require.ErrorIs(t, err, errNoToken)
	}
	assert.Equal(t, int32(1), builds.Load())
}

func TestLazyLister_RetriesLookups(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	flaky := config.VersionListerFunc(func(context.Context, string) ([]string, error) {
		if calls.Add(1) < 3 {
			return nil, errors.New("503 Service Unavailable")
		}
		return []string{"1.21.2"}, nil
	})
	l := Lazy(func(context.Context) (config.VersionLister, error) { return flaky, nil }, fastRetry...)

	versions, err := l.KubernetesVersions(context.Background(), "Central US")
	require.NoError(t, err)
	assert.Equal(t, []string{"1.21.2"}, versions)
	assert.Equal(t, int32(3), calls.Load())
}

func TestLazyLister_GivesUp(t *testing.T) {
	t.Parallel()

	l := Lazy(func(context.Context) (config.VersionLister, error) {
		return config.VersionListerFunc(func(context.Context, string) ([]string, error) {
			return nil, errors.New("connection refused")
		}), nil
	}, fastRetry...)

	_, err := l.KubernetesVersions(context.Background(), "us-west-2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestVersionListers_Offline(t *testing.T) {
	t.Parallel()

	listers := VersionListers(Options{Offline: true})
	for _, p := range []config.ProviderType{config.ProviderDigitalOcean, config.ProviderAWS, config.ProviderGCP, config.ProviderAzure} {
		require.Contains(t, listers, p)
		_, isLazy := listers[p].(*LazyLister)
		assert.False(t, isLazy, "offline lister for %s must not call the API", p)
	}
}

func TestVersionListers_Online(t *testing.T) {
	t.Parallel()

	listers := VersionListers(Options{})
	assert.Len(t, listers, 4)
	for p, l := range listers {
		_, isLazy := l.(*LazyLister)
		assert.True(t, isLazy, "lister for %s", p)
	}
}

func TestEngineOptions(t *testing.T) {
	t.Parallel()

	assert.Len(t, EngineOptions(Options{Offline: true}), 4)
	assert.Len(t, EngineOptions(Options{}), 5)
}
