package config

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// freeform marks types whose YAML shape is checked by their own unmarshaler.
type freeform interface {
	freeform()
}

// presenceChecked marks types whose keys must be written out even when the
// zero value is valid, so the struct validator cannot tell them apart.
type presenceChecked interface {
	requiredKeys() []string
}

var (
	freeformType       = reflect.TypeOf((*freeform)(nil)).Elem()
	presenceType       = reflect.TypeOf((*presenceChecked)(nil)).Elem()
	authenticationType = reflect.TypeOf(Authentication{})
)

// yamlFields describes the keys a struct accepts.
type yamlFields struct {
	known map[string]reflect.Type
	// open is set when an inline map collects keys that are not known.
	open bool
}

var yamlFieldCache sync.Map // reflect.Type -> *yamlFields

func fieldsOf(t reflect.Type) *yamlFields {
	if cached, ok := yamlFieldCache.Load(t); ok {
		return cached.(*yamlFields)
	}

	fields := &yamlFields{known: make(map[string]reflect.Type)}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("yaml")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		if hasOption(opts, "inline") {
			switch f.Type.Kind() {
			case reflect.Map:
				fields.open = true
			case reflect.Struct:
				inner := fieldsOf(f.Type)
				for k, v := range inner.known {
					fields.known[k] = v
				}
				fields.open = fields.open || inner.open
			}
			continue
		}
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		fields.known[name] = f.Type
	}

	yamlFieldCache.Store(t, fields)
	return fields
}

func hasOption(opts, want string) bool {
	for _, o := range strings.Split(opts, ",") {
		if o == want {
			return true
		}
	}
	return false
}

// unknownFields reports every mapping key under n that the Go type t does
// not declare. Structs with an inline map accept any key.
func unknownFields(n *yaml.Node, t reflect.Type, path *field.Path, issues *issueList) {
	if n == nil {
		return
	}
	switch n.Kind {
	case yaml.DocumentNode:
		for _, c := range n.Content {
			unknownFields(c, t, path, issues)
		}
		return
	case yaml.AliasNode:
		n = resolveAlias(n)
	}

	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t == authenticationType {
		disc := mappingValue(n, "type")
		if disc == nil {
			return
		}
		variant, ok := AuthenticationTypes.New(disc.Value)
		if !ok {
			return
		}
		unknownFields(n, reflect.TypeOf(variant), path, issues)
		return
	}
	if t.Implements(freeformType) {
		return
	}

	switch t.Kind() {
	case reflect.Struct:
		if n.Kind != yaml.MappingNode {
			return
		}
		if t.Implements(presenceType) {
			for _, key := range reflect.Zero(t).Interface().(presenceChecked).requiredKeys() {
				if mappingValue(n, key) == nil {
					issues.constraint(child(path, key), "field required")
				}
			}
		}
		fields := fieldsOf(t)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, value := n.Content[i], n.Content[i+1]
			if isMergeKey(key) {
				for _, m := range mergeSources(value) {
					unknownFields(m, t, path, issues)
				}
				continue
			}
			ft, ok := fields.known[key.Value]
			if !ok {
				if !fields.open {
					issues.constraint(child(path, key.Value), "extra fields not permitted")
				}
				continue
			}
			unknownFields(value, ft, child(path, key.Value), issues)
		}
	case reflect.Map:
		if n.Kind != yaml.MappingNode {
			return
		}
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, value := n.Content[i], n.Content[i+1]
			if isMergeKey(key) {
				for _, m := range mergeSources(value) {
					unknownFields(m, t, path, issues)
				}
				continue
			}
			unknownFields(value, t.Elem(), path.Key(key.Value), issues)
		}
	case reflect.Slice:
		if n.Kind != yaml.SequenceNode {
			return
		}
		for i, item := range n.Content {
			unknownFields(item, t.Elem(), path.Index(i), issues)
		}
	}
}

func child(path *field.Path, name string) *field.Path {
	if path == nil {
		return field.NewPath(name)
	}
	return path.Child(name)
}

// lineIndex maps a source line to the deepest field path whose key or
// sequence item starts on that line. Flow collections are not entered:
// an error inside one is reported at the collection itself.
type lineIndex map[int]string

func indexLines(n *yaml.Node) lineIndex {
	idx := make(lineIndex)
	idx.walk(n, nil)
	return idx
}

func (idx lineIndex) walk(n *yaml.Node, path *field.Path) {
	if n.Style&yaml.FlowStyle != 0 {
		return
	}
	switch n.Kind {
	case yaml.DocumentNode:
		for _, c := range n.Content {
			idx.walk(c, path)
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			p := child(path, n.Content[i].Value)
			idx[n.Content[i].Line] = p.String()
			idx.walk(n.Content[i+1], p)
		}
	case yaml.SequenceNode:
		for i, item := range n.Content {
			p := path.Index(i)
			idx[item.Line] = p.String()
			idx.walk(item, p)
		}
	}
}

var typeErrorLine = regexp.MustCompile(`^line (\d+): (.*)$`)

// locate splits a yaml.v3 type error message into a field path and text.
func (idx lineIndex) locate(msg string) (string, string) {
	m := typeErrorLine.FindStringSubmatch(msg)
	if m == nil {
		return "", msg
	}
	line, err := strconv.Atoi(m[1])
	if err != nil {
		return "", msg
	}
	return idx[line], m[2]
}
