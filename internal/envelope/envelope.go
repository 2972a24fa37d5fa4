// Package envelope wraps outgoing values in a named root envelope and picks the type incoming
// bodies are parsed into, based on the shape classification of their types.
package envelope

import (
	"reflect"

	"github.com/nemberjs/nember/internal/codec"
)

// Classifier decides whether values of a type must be enveloped.
type Classifier interface {
	ShouldEnvelope(t reflect.Type) (bool, error)
}

// SideloadMarkers reports whether a type carries the side-load marker.
type SideloadMarkers interface {
	IsSideload(t reflect.Type) bool
}

// MetaProvider contributes top-level metadata to enveloped responses.
// Returning a nil map contributes nothing.
type MetaProvider interface {
	Meta(t reflect.Type, value any) (map[string]any, error)
}

// MetaProviderFunc adapts a function to a MetaProvider.
type MetaProviderFunc func(t reflect.Type, value any) (map[string]any, error)

// Meta calls f(t, value).
func (f MetaProviderFunc) Meta(t reflect.Type, value any) (map[string]any, error) {
	return f(t, value)
}

// Shaper renders enveloped values into documents and names their root keys.
type Shaper interface {
	// RootKey returns the top-level key used for values of type t.
	RootKey(t reflect.Type) string

	// Shape renders w into the value handed to the codec.
	Shape(w Write) (any, error)

	// AddMetaProvider registers a provider consulted by Shape.
	AddMetaProvider(p MetaProvider)
}

// Write is an outgoing value that must be placed under its root key.
type Write struct {
	// Value is the original value, kept verbatim even when nil.
	Value any

	// Type is the effective type the value was classified by.
	Type reflect.Type

	// Sideload is true when the type asked for related resources to be side-loaded.
	Sideload bool
}

// Unwrapper is implemented by parsed read envelopes.
type Unwrapper interface {
	// Unwrap returns the value found under the root key.
	Unwrap() any
}

// Read is the read envelope for target type T: the body is parsed as a document whose root key
// holds a T.
type Read[T any] struct {
	// Root is the key the value was expected under.
	Root string

	// Value is the parsed payload.
	Value T
}

// Unwrap returns the parsed payload.
func (r *Read[T]) Unwrap() any {
	return r.Value
}

func (r *Read[T]) decode(c codec.Codec, data []byte) error {
	return c.UnmarshalRoot(data, r.Root, &r.Value)
}

func (r *Read[T]) value() reflect.Value {
	return reflect.ValueOf(&r.Value).Elem()
}

// readEnvelope is a parsed or parseable Read of some type.
type readEnvelope interface {
	Unwrapper
	decode(c codec.Codec, data []byte) error
	value() reflect.Value
}

// Unwrap returns the payload of a parsed read envelope, or v itself when it is not one.
// Pointers returned by ReadPayload for non-enveloped types are dereferenced.
func Unwrap(v any) any {
	if u, ok := v.(Unwrapper); ok {
		return u.Unwrap()
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		return rv.Elem().Interface()
	}
	return v
}
