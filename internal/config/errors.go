package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation/field"
)

var (
	// ErrVersionMismatch is matched by [VersionMismatchError].
	ErrVersionMismatch = errors.New("qhub_version mismatch")
	// ErrUnknownVariant is matched by [UnknownVariantError].
	ErrUnknownVariant = errors.New("unknown variant")
	// ErrProviderUnavailable wraps failures of a [VersionLister] or [ContextLister].
	ErrProviderUnavailable = errors.New("provider unavailable")
)

// IssueKind classifies a validation problem.
type IssueKind string

const (
	// KindFieldConstraint is a problem with a single field's value.
	KindFieldConstraint IssueKind = "FieldConstraintViolation"
	// KindCrossField is a violated document-wide invariant.
	KindCrossField IssueKind = "CrossFieldInvariantViolation"
	// KindProviderUnavailable is a lookup that could not be performed.
	// It is only ever reported as a warning.
	KindProviderUnavailable IssueKind = "ProviderUnavailable"
)

// Issue is a single validation finding anchored at a field path
// such as "amazon_web_services.node_groups[general].max_nodes".
type Issue struct {
	Path    string    `json:"path"`
	Kind    IssueKind `json:"kind"`
	Message string    `json:"message"`
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// ValidationError carries every recoverable issue found in one pass.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	if len(e.Issues) == 1 {
		b.WriteString("1 validation error")
	} else {
		fmt.Fprintf(&b, "%d validation errors", len(e.Issues))
	}
	for _, issue := range e.Issues {
		b.WriteString("\n  ")
		b.WriteString(issue.String())
	}
	return b.String()
}

// Paths returns the distinct issue paths in sorted order.
func (e *ValidationError) Paths() []string {
	seen := make(map[string]bool, len(e.Issues))
	var out []string
	for _, issue := range e.Issues {
		if !seen[issue.Path] {
			seen[issue.Path] = true
			out = append(out, issue.Path)
		}
	}
	sort.Strings(out)
	return out
}

// VersionMismatchError reports a document written for another schema version.
type VersionMismatchError struct {
	Declared string
	Engine   string
}

func (e *VersionMismatchError) Error() string {
	declared := e.Declared
	if strings.TrimSpace(declared) == "" {
		declared = "not supplied"
	}
	return fmt.Sprintf("qhub_version in the config file must be equivalent to %s to be processed by this version of qhub "+
		"(your config file version is %s). Install a different version of qhub or run qhub upgrade to ensure your "+
		"config file is compatible.", e.Engine, declared)
}

func (e *VersionMismatchError) Is(target error) bool { return target == ErrVersionMismatch }

// UnknownVariantError reports a discriminator with no registered variant.
type UnknownVariantError struct {
	Path  string
	Field string
	Value string
	Known []string
}

func (e *UnknownVariantError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s field is missing from %s", e.Field, e.Path)
	}
	return fmt.Sprintf("no registered %s %s called %q (known: %s)",
		e.Path, e.Field, e.Value, strings.Join(e.Known, ", "))
}

func (e *UnknownVariantError) Is(target error) bool { return target == ErrUnknownVariant }

// issueList accumulates issues during a validation pass.
type issueList struct {
	items []Issue
}

func (l *issueList) add(kind IssueKind, path *field.Path, format string, args ...any) {
	l.at(kind, pathString(path), format, args...)
}

func (l *issueList) at(kind IssueKind, path, format string, args ...any) {
	l.items = append(l.items, Issue{Path: path, Kind: kind, Message: fmt.Sprintf(format, args...)})
}

func (l *issueList) constraint(path *field.Path, format string, args ...any) {
	l.add(KindFieldConstraint, path, format, args...)
}

func (l *issueList) cross(path *field.Path, format string, args ...any) {
	l.add(KindCrossField, path, format, args...)
}

// has reports whether an issue exists at path or below it.
func (l *issueList) has(path *field.Path) bool {
	p := pathString(path)
	for _, issue := range l.items {
		if issue.Path == p ||
			strings.HasPrefix(issue.Path, p+".") ||
			strings.HasPrefix(issue.Path, p+"[") {
			return true
		}
	}
	return false
}

func (l *issueList) err() error {
	if len(l.items) == 0 {
		return nil
	}
	return &ValidationError{Issues: l.items}
}

func pathString(p *field.Path) string {
	if p == nil {
		return ""
	}
	return p.String()
}
