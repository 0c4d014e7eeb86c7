package config

import (
	"sort"

	"gopkg.in/yaml.v3"
)

// Registry maps discriminator values to constructors for one polymorphic
// section of the document.
//
// Registries are built in package variable initializers and never modified
// afterwards, so concurrent Resolve calls need no locking.
type Registry[T any] struct {
	section string
	field   string
	ctors   map[string]func() T
}

// NewRegistry creates an empty registry for the section at path, dispatching
// on the mapping key named field.
func NewRegistry[T any](path, field string) *Registry[T] {
	return &Registry[T]{
		section: path,
		field:   field,
		ctors:   make(map[string]func() T),
	}
}

// Register maps discriminator to ctor. A later registration for the same
// discriminator replaces the earlier one.
func (r *Registry[T]) Register(discriminator string, ctor func() T) *Registry[T] {
	r.ctors[discriminator] = ctor
	return r
}

// Variants returns the registered discriminators in sorted order.
func (r *Registry[T]) Variants() []string {
	out := make([]string, 0, len(r.ctors))
	for k := range r.ctors {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// New constructs the default value of a variant.
func (r *Registry[T]) New(discriminator string) (T, bool) {
	ctor, ok := r.ctors[discriminator]
	if !ok {
		var zero T
		return zero, false
	}
	return ctor(), true
}

// Resolve reads the discriminator from a mapping node and decodes the node
// into the matching variant. Constructors return pointers pre-filled with
// defaults, so absent fields keep them.
func (r *Registry[T]) Resolve(node *yaml.Node) (T, error) {
	var zero T

	node = resolveAlias(node)
	value := ""
	if node.Kind == yaml.MappingNode {
		if v := mappingValue(node, r.field); v != nil && v.Kind == yaml.ScalarNode {
			value = v.Value
		}
	}

	v, ok := r.New(value)
	if !ok {
		return zero, &UnknownVariantError{Path: r.section, Field: r.field, Value: value, Known: r.Variants()}
	}

	if err := node.Decode(v); err != nil {
		return v, err
	}
	return v, nil
}

// mappingValue returns the value node stored under key, or nil. Aliases
// are followed and keys merged in with "<<" are found when the mapping
// does not set them itself.
func mappingValue(node *yaml.Node, key string) *yaml.Node {
	node = resolveAlias(node)
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	var merged []*yaml.Node
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if isMergeKey(k) {
			merged = append(merged, mergeSources(v)...)
			continue
		}
		if k.Value == key {
			return resolveAlias(v)
		}
	}
	for _, m := range merged {
		if v := mappingValue(m, key); v != nil {
			return v
		}
	}
	return nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func isMergeKey(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Value == "<<" && (n.Tag == "" || n.Tag == "!!merge")
}

// mergeSources returns the mappings a "<<" value merges in: a single
// mapping or a sequence of them.
func mergeSources(v *yaml.Node) []*yaml.Node {
	v = resolveAlias(v)
	if v == nil {
		return nil
	}
	if v.Kind == yaml.SequenceNode {
		out := make([]*yaml.Node, 0, len(v.Content))
		for _, item := range v.Content {
			if item = resolveAlias(item); item != nil && item.Kind == yaml.MappingNode {
				out = append(out, item)
			}
		}
		return out
	}
	if v.Kind == yaml.MappingNode {
		return []*yaml.Node{v}
	}
	return nil
}
