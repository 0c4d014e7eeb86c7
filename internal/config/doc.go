// Package config defines the qhub deployment configuration document and the
// engine that validates it.
//
// The [Config] struct is the canonical in-memory form of a qhub-config.yaml
// file: project identity, cloud provider selection, CI/CD, TLS, security,
// storage sizing, compute profiles and environment definitions. An [Engine]
// turns raw YAML into a [Config] in fixed stages: the schema version gate,
// decoding over defaults with discriminated-union resolution for the
// polymorphic sections, default synthesis, field validation and document-wide
// cross-field rules. Recoverable problems are collected into a single
// [ValidationError]; version mismatches and unknown variants stop processing
// immediately.
//
// Values that can only be checked against the outside world, such as the
// Kubernetes versions a cloud region offers, are looked up through injected
// [VersionLister] and [ContextLister] implementations.
package config
