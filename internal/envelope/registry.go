package envelope

import (
	"reflect"
	"slices"
	"strings"
	"sync"
)

// Reader constructs read envelopes for one target type.
type Reader interface {
	// Target returns the type the envelope carries.
	Target() reflect.Type

	// EnvelopeType returns the type of the read envelope, i.e. Read[T].
	EnvelopeType() reflect.Type

	newEnvelope(root string) readEnvelope
}

type reader[T any] struct{}

func (reader[T]) Target() reflect.Type {
	return reflect.TypeFor[T]()
}

func (reader[T]) EnvelopeType() reflect.Type {
	return reflect.TypeFor[Read[T]]()
}

func (reader[T]) newEnvelope(root string) readEnvelope {
	return &Read[T]{Root: root}
}

// Registry is the dispatch table from target types to their read envelopes.
// The zero value is ready to use and safe for concurrent use.
type Registry struct {
	readers sync.Map // reflect.Type -> Reader
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register makes Read[T] available for target type T. Registering a type more than once is a no-op.
func Register[T any](r *Registry) {
	r.readers.LoadOrStore(reflect.TypeFor[T](), reader[T]{})
}

// Lookup returns the Reader registered for t.
func (r *Registry) Lookup(t reflect.Type) (Reader, bool) {
	if t == nil {
		return nil, false
	}

	v, ok := r.readers.Load(t)
	if !ok {
		return nil, false
	}
	return v.(Reader), true
}

// Types returns the registered target types sorted by name, for diagnostics.
func (r *Registry) Types() []reflect.Type {
	var types []reflect.Type
	r.readers.Range(func(k, _ any) bool {
		types = append(types, k.(reflect.Type))
		return true
	})

	slices.SortFunc(types, func(a, b reflect.Type) int {
		return strings.Compare(a.String(), b.String())
	})
	return types
}
