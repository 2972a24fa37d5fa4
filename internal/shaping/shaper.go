// Package shaping renders enveloped values into documents: the value under its root key,
// side-loaded related resources next to it and merged metadata under the meta key.
package shaping

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/imdario/mergo"

	"github.com/nemberjs/nember/internal/codec"
	"github.com/nemberjs/nember/internal/envelope"
	"github.com/nemberjs/nember/internal/inflect"
	"github.com/nemberjs/nember/internal/shape"
)

// Document is a shaped envelope ready for a codec.
type Document map[string]any

// Resource can be implemented by domain types to choose their singular root key.
type Resource interface {
	ResourceName() string
}

// Related is implemented by domain values that can hand over the resources they relate to.
// Related resources are only side-loaded when the value's type carries the side-load marker.
type Related interface {
	Related() []any
}

var resourceType = reflect.TypeFor[Resource]()

// Shaper builds documents for enveloped values.
// NewShaper should be used to create instances of Shaper.
type Shaper struct {
	logger     hclog.Logger
	pluralizer inflect.Pluralizer

	mu        sync.RWMutex
	providers []envelope.MetaProvider
}

// NewShaper creates a Shaper that names plural root keys with pluralizer.
func NewShaper(logger hclog.Logger, pluralizer inflect.Pluralizer) (*Shaper, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if pluralizer == nil {
		return nil, fmt.Errorf("pluralizer cannot be nil")
	}

	return &Shaper{
		logger:     logger.Named("shaper"),
		pluralizer: pluralizer,
	}, nil
}

// AddMetaProvider registers p. Providers are consulted in registration order and later providers
// override keys set by earlier ones.
func (s *Shaper) AddMetaProvider(p envelope.MetaProvider) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.providers = append(s.providers, p)
}

// RootKey returns the lower camel case resource name of t's element shape,
// pluralized when t is a slice or an array, or a pointer to one.
func (s *Shaper) RootKey(t reflect.Type) string {
	name := resourceName(shape.ElementShape(t))
	if isCollection(t) {
		return s.pluralizer.Pluralize(name)
	}
	return name
}

// Shape renders w as a Document.
func (s *Shaper) Shape(w envelope.Write) (any, error) {
	root := s.RootKey(w.Type)
	doc := Document{root: w.Value}

	if w.Sideload {
		if err := s.sideload(doc, root, w.Value); err != nil {
			return nil, err
		}
	}

	meta, err := s.meta(w)
	if err != nil {
		return nil, err
	}
	if len(meta) > 0 {
		doc[codec.MetaKey] = meta
	}

	return doc, nil
}

// sideload adds the related resources of value, grouped under their plural root keys.
func (s *Shaper) sideload(doc Document, root string, value any) error {
	groups := make(map[string][]any)
	for _, item := range elements(value) {
		related, ok := item.(Related)
		if !ok {
			continue
		}
		for _, r := range related.Related() {
			if r == nil {
				continue
			}
			key := s.pluralizer.Pluralize(resourceName(shape.ElementShape(reflect.TypeOf(r))))
			groups[key] = append(groups[key], r)
		}
	}

	for key, resources := range groups {
		if key == root || key == codec.MetaKey {
			return fmt.Errorf("side-loaded key '%s' collides with a reserved key", key)
		}
		doc[key] = resources
	}

	s.logger.Trace("Side-loaded related resources", "root", root, "sections", len(groups))
	return nil
}

// meta merges the metadata of every provider.
func (s *Shaper) meta(w envelope.Write) (map[string]any, error) {
	s.mu.RLock()
	providers := make([]envelope.MetaProvider, len(s.providers))
	copy(providers, s.providers)
	s.mu.RUnlock()

	merged := map[string]any{}
	for _, p := range providers {
		m, err := p.Meta(w.Type, w.Value)
		if err != nil {
			return nil, fmt.Errorf("meta provider failed: %w", err)
		}
		if len(m) == 0 {
			continue
		}
		if err := mergo.Merge(&merged, m, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("merging meta: %w", err)
		}
	}

	return merged, nil
}

// resourceName returns the singular root key for a named type.
func resourceName(t reflect.Type) string {
	if t == nil {
		return "data"
	}

	if t.Kind() != reflect.Interface {
		if t.Implements(resourceType) {
			return reflect.Zero(t).Interface().(Resource).ResourceName()
		}
		if reflect.PointerTo(t).Implements(resourceType) {
			return reflect.New(t).Interface().(Resource).ResourceName()
		}
	}

	name := t.Name()
	// Instantiated generic types are named like "Page[pkg.Post]".
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return "data"
	}
	return inflect.LowerCamel(name)
}

func isCollection(t reflect.Type) bool {
	if t == nil {
		return false
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	k := t.Kind()
	return k == reflect.Slice || k == reflect.Array
}

// indirect follows pointers until a non-pointer value or a nil pointer is reached.
func indirect(rv reflect.Value) reflect.Value {
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	return rv
}

// elements returns the items of a slice or array value, or the value itself.
// Pointers to slices and arrays are followed.
func elements(value any) []any {
	if value == nil {
		return nil
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil
	}

	switch items := indirect(rv); items.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, 0, items.Len())
		for i := range items.Len() {
			item := items.Index(i)
			if item.Kind() == reflect.Pointer && item.IsNil() {
				continue
			}
			out = append(out, item.Interface())
		}
		return out
	default:
		return []any{value}
	}
}
