package config

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Version is the schema version this engine accepts in qhub_version.
const Version = "0.4.0"

// leadingVersion captures major[.minor[.patch]] followed by an optional
// pre-release, post-release, development or build suffix, so "0.4.0rc1",
// "0.4.0.dev3", "0.4.0-beta.2" and "v0.4.0+g1a2b" all round to 0.4.0.
// Any other trailing text is rejected.
var leadingVersion = regexp.MustCompile(`(?i)^v?(\d+)(?:\.(\d+))?(?:\.(\d+))?(?:\.\d+)*` +
	`(?:(?:[-_.]?(?:a|b|c|rc|alpha|beta|pre|preview)[-_.]?\d*)?(?:[-_.]?(?:post|rev|r)[-_.]?\d*)?(?:[-_.]?dev[-_.]?\d*)?` +
	`|-[0-9a-z][0-9a-z.-]*)` +
	`(?:\+[0-9a-z][0-9a-z.-]*)?$`)

// RoundedVersion truncates v to major.minor.patch, discarding any
// pre-release, development or build suffix.
func RoundedVersion(v string) (*semver.Version, error) {
	m := leadingVersion.FindStringSubmatch(strings.TrimSpace(v))
	if m == nil {
		return nil, fmt.Errorf("invalid version %q", v)
	}

	parts := [3]uint64{}
	for i := range parts {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.ParseUint(m[i+1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid version %q: %w", v, err)
		}
		parts[i] = n
	}

	return semver.New(parts[0], parts[1], parts[2], "", ""), nil
}

// CheckVersion returns a *VersionMismatchError unless declared rounds to the
// same major.minor.patch as engine. An empty declared version always fails.
func CheckVersion(declared, engine string) error {
	want, err := RoundedVersion(engine)
	if err != nil {
		return fmt.Errorf("invalid engine version: %w", err)
	}

	mismatch := &VersionMismatchError{Declared: declared, Engine: engine}
	if strings.TrimSpace(declared) == "" {
		return mismatch
	}

	got, err := RoundedVersion(declared)
	if err != nil || !got.Equal(want) {
		return mismatch
	}
	return nil
}

// IsVersionAccepted reports whether a qhub_version value would be accepted
// by this engine.
func IsVersionAccepted(v string) bool {
	return CheckVersion(v, Version) == nil
}

// ImageTag is the container image tag matching the schema version.
func ImageTag() string {
	v, err := RoundedVersion(Version)
	if err != nil {
		return "main"
	}
	return "v" + v.String()
}

// SortVersions orders Kubernetes version strings oldest first. Entries that
// do not parse as versions keep their relative order ahead of the rest.
func SortVersions(versions []string) []string {
	out := make([]string, len(versions))
	copy(out, versions)

	sort.SliceStable(out, func(i, j int) bool {
		vi, erri := semver.NewVersion(out[i])
		vj, errj := semver.NewVersion(out[j])
		switch {
		case erri != nil && errj != nil:
			return false
		case erri != nil:
			return true
		case errj != nil:
			return false
		default:
			return vi.LessThan(vj)
		}
	})
	return out
}
