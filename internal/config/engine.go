package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// VersionLister returns the Kubernetes versions a provider offers in a
// region, oldest first and newest last.
type VersionLister interface {
	KubernetesVersions(ctx context.Context, region string) ([]string, error)
}

// VersionListerFunc adapts a function to [VersionLister].
type VersionListerFunc func(ctx context.Context, region string) ([]string, error)

func (f VersionListerFunc) KubernetesVersions(ctx context.Context, region string) ([]string, error) {
	return f(ctx, region)
}

// StaticVersions is a VersionLister that offers the same versions in
// every region.
type StaticVersions []string

func (s StaticVersions) KubernetesVersions(context.Context, string) ([]string, error) {
	return slices.Clone([]string(s)), nil
}

// ContextLister returns the context names of the local kubeconfig.
type ContextLister interface {
	Contexts(ctx context.Context) ([]string, error)
}

// ContextListerFunc adapts a function to [ContextLister].
type ContextListerFunc func(ctx context.Context) ([]string, error)

func (f ContextListerFunc) Contexts(ctx context.Context) ([]string, error) {
	return f(ctx)
}

// Validation results passed to [Recorder.ObserveValidation].
const (
	ResultValid    = "valid"
	ResultInvalid  = "invalid"
	ResultRejected = "rejected"
)

// Recorder observes validation outcomes and provider lookups.
type Recorder interface {
	ObserveValidation(result string, issues []Issue)
	ObserveLookup(provider ProviderType, d time.Duration, err error)
}

type nopRecorder struct{}

func (nopRecorder) ObserveValidation(string, []Issue)                {}
func (nopRecorder) ObserveLookup(ProviderType, time.Duration, error) {}

// Engine parses and validates configuration documents. An Engine holds no
// per-document state and may be shared by concurrent callers.
type Engine struct {
	version  string
	versions map[ProviderType]VersionLister
	contexts ContextLister
	secrets  SecretGenerator
	getenv   func(string) string
	recorder Recorder
	log      zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithVersionLister sets the Kubernetes version lookup for a provider.
func WithVersionLister(p ProviderType, l VersionLister) Option {
	return func(e *Engine) {
		e.versions[p] = l
	}
}

// WithContextLister enables the kube_context check for local deployments.
func WithContextLister(l ContextLister) Option {
	return func(e *Engine) {
		e.contexts = l
	}
}

// WithSecretGenerator sets the randomness source for generated defaults.
func WithSecretGenerator(g SecretGenerator) Option {
	return func(e *Engine) {
		e.secrets = g
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		if r != nil {
			e.recorder = r
		}
	}
}

// WithEngineVersion overrides the version documents are checked against.
func WithEngineVersion(v string) Option {
	return func(e *Engine) {
		e.version = v
	}
}

// WithEnvironment sets the environment lookup used for env-derived defaults.
func WithEnvironment(getenv func(string) string) Option {
	return func(e *Engine) {
		e.getenv = getenv
	}
}

// NewEngine returns an Engine that checks Kubernetes versions against the
// pinned offline lists unless real listers are supplied.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		version:  Version,
		versions: PinnedVersionListers(),
		getenv:   os.Getenv,
		recorder: nopRecorder{},
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Parse validates a YAML document and returns the normalized Config.
//
// A document written for another schema version fails with a
// *VersionMismatchError before anything else is inspected. An unknown
// authentication type fails with a *UnknownVariantError. Every other
// problem is collected into a single *ValidationError.
func (e *Engine) Parse(ctx context.Context, data []byte) (*Config, error) {
	log := e.log.With().Str("run_id", uuid.NewString()).Logger()

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		e.recorder.ObserveValidation(ResultRejected, nil)
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	doc := &root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}

	declared := ""
	if v := mappingValue(doc, "qhub_version"); v != nil && v.Kind == yaml.ScalarNode {
		declared = v.Value
	}
	if err := CheckVersion(declared, e.version); err != nil {
		log.Debug().Str("declared", declared).Str("engine", e.version).Msg("Version gate rejected document")
		e.recorder.ObserveValidation(ResultRejected, nil)
		return nil, err
	}

	cfg, err := e.build(ctx, log, doc)
	var validationErr *ValidationError
	switch {
	case err == nil:
		e.recorder.ObserveValidation(ResultValid, cfg.Warnings())
	case errors.As(err, &validationErr):
		e.recorder.ObserveValidation(ResultInvalid, validationErr.Issues)
	default:
		e.recorder.ObserveValidation(ResultRejected, nil)
	}
	return cfg, err
}

func (e *Engine) build(ctx context.Context, log zerolog.Logger, doc *yaml.Node) (*Config, error) {
	var issues issueList
	cfg := &Config{}

	if err := doc.Decode(cfg); err != nil {
		var typeErr *yaml.TypeError
		if !errors.As(err, &typeErr) {
			return nil, err
		}
		lines := indexLines(doc)
		for _, msg := range typeErr.Errors {
			path, text := lines.locate(msg)
			issues.at(KindFieldConstraint, path, "%s", text)
		}
	}
	log.Debug().Int("issues", len(issues.items)).Msg("Decoded document")

	unknownFields(doc, reflect.TypeOf(cfg), nil, &issues)

	if err := newDefaulter(e.getenv, e.secrets).synthesize(cfg); err != nil {
		return nil, fmt.Errorf("failed to generate defaults: %w", err)
	}

	validateFields(cfg, &issues)
	log.Debug().Int("issues", len(issues.items)).Msg("Checked field constraints")

	cfg.warnings = e.crossValidate(ctx, log, cfg, &issues)
	if err := issues.err(); err != nil {
		log.Debug().Int("issues", len(issues.items)).Msg("Document is invalid")
		return nil, err
	}
	return cfg, nil
}

// Revalidate runs c through the full pipeline again by way of its
// canonical form. Generated values already present in c are kept.
func (e *Engine) Revalidate(ctx context.Context, c *Config) (*Config, error) {
	data, err := c.Marshal()
	if err != nil {
		return nil, err
	}
	return e.Parse(ctx, data)
}

// LoadFile reads and validates the document at path.
func (e *Engine) LoadFile(ctx context.Context, path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return e.Parse(ctx, data)
}
