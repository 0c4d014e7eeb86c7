package config

// PinnedVersions are the Kubernetes versions each managed provider offered
// when this schema version was released. They back offline validation and
// are used when no live lookup is configured.
type PinnedVersions struct {
	DigitalOcean []string
	AWS          []string
	GCP          []string
	Azure        []string
}

// DefaultPinnedVersions returns the pinned lists, oldest first.
func DefaultPinnedVersions() PinnedVersions {
	return PinnedVersions{
		// DOKS slugs carry a "-do.N" revision suffix.
		DigitalOcean: []string{"1.19.15-do.0", "1.20.11-do.0", "1.21.5-do.0"},

		// EKS only exposes major.minor.
		AWS: []string{"1.18", "1.19", "1.20", "1.21"},

		GCP: []string{"1.19.14-gke.1900", "1.20.10-gke.1600", "1.21.5-gke.1302"},

		Azure: []string{"1.19.11", "1.19.13", "1.20.7", "1.20.9", "1.21.1", "1.21.2"},
	}
}

// For returns the pinned list for p, or nil for providers without a
// managed control plane.
func (v PinnedVersions) For(p ProviderType) []string {
	switch p {
	case ProviderDigitalOcean:
		return v.DigitalOcean
	case ProviderAWS:
		return v.AWS
	case ProviderGCP:
		return v.GCP
	case ProviderAzure:
		return v.Azure
	default:
		return nil
	}
}

// PinnedVersionListers returns a VersionLister per managed provider backed
// by [DefaultPinnedVersions].
func PinnedVersionListers() map[ProviderType]VersionLister {
	pinned := DefaultPinnedVersions()
	out := make(map[ProviderType]VersionLister)
	for _, p := range ValidProviders() {
		if versions := pinned.For(p); versions != nil {
			out[p] = StaticVersions(SortVersions(versions))
		}
	}
	return out
}
