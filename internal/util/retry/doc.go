// Package retry retries operations with exponential backoff.
//
// [Do] wraps the cloud provider lookups behind Kubernetes version
// validation, where a transient API failure would otherwise turn into a
// spurious ProviderUnavailable warning. Errors wrapped with [Fatal], such as
// missing credentials, stop immediately.
package retry
