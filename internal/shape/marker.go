package shape

import (
	"reflect"
	"sync"
)

// Sideloader is implemented by domain types whose instances ask for their related resources to be
// side-loaded next to them in an enveloped response.
// Implementing it is equivalent to marking the type in a Markers set.
type Sideloader interface {
	Sideload()
}

var sideloaderType = reflect.TypeFor[Sideloader]()

// Markers records which types carry the side-load marker.
// The zero value is ready to use and safe for concurrent use.
type Markers struct {
	sideload sync.Map // reflect.Type -> struct{}
}

// MarkSideload flags t as requesting side-loaded related resources.
func (m *Markers) MarkSideload(t reflect.Type) {
	if t == nil {
		return
	}
	m.sideload.Store(t, struct{}{})
}

// IsSideload reports whether t, or the shape it contains, carries the side-load marker.
// The result is only forwarded to the shaping collaborator, it never influences ShouldEnvelope.
func (m *Markers) IsSideload(t reflect.Type) bool {
	if t == nil {
		return false
	}

	for _, candidate := range []reflect.Type{t, ElementShape(t)} {
		if _, ok := m.sideload.Load(candidate); ok {
			return true
		}
		if candidate.Implements(sideloaderType) || reflect.PointerTo(candidate).Implements(sideloaderType) {
			return true
		}
	}

	return false
}

// SideloadOf marks T in m as requesting side-loaded related resources.
func SideloadOf[T any](m *Markers) {
	m.MarkSideload(reflect.TypeFor[T]())
}
