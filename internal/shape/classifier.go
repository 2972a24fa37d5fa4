// Package shape decides, from a reflect.Type alone, whether a serialized value must be wrapped in a
// named root envelope.
//
// Containers are classified by what they contain: a slice of decimals is a scalar payload and is
// never enveloped, a slice of domain objects is enveloped exactly like a single domain object.
package shape

import (
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/nemberjs/nember/internal/errors"
)

var (
	// opaqueType is the fully generic object type, nothing is known about its shape.
	opaqueType = reflect.TypeFor[any]()

	// untypedSequenceType is the fully generic sequence type.
	untypedSequenceType = reflect.TypeFor[[]any]()

	timeType = reflect.TypeFor[time.Time]()
)

// Classifier decides whether values of a given type must be enveloped.
// NewClassifier should be used to create instances of Classifier.
type Classifier struct {
	// decimals are high-precision numeric types treated as scalars.
	decimals map[reflect.Type]struct{}

	// scalars are additional host types that serialize as a single scalar value.
	scalars map[reflect.Type]struct{}
}

// NewClassifier creates a Classifier with the default decimal and scalar types,
// then applies any options on top.
func NewClassifier(opt ...Option) (*Classifier, error) {
	opts, err := NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	return &Classifier{
		decimals: opts.decimals,
		scalars:  opts.scalars,
	}, nil
}

// ShouldEnvelope reports whether a value of type t must be wrapped in a root envelope.
// The decision is a pure function of t. A nil type is a programming error and returns ErrInvalidArgument.
func (c *Classifier) ShouldEnvelope(t reflect.Type) (bool, error) {
	if t == nil {
		return false, fmt.Errorf("%w: type descriptor cannot be nil", errors.ErrInvalidArgument)
	}

	// Order matters, first match wins.
	if t == opaqueType {
		return false, nil
	}
	if t == untypedSequenceType {
		return false, nil
	}

	inner := ElementShape(t)

	switch {
	case inner == opaqueType:
		return false, nil
	case inner.Kind() == reflect.String:
		return false, nil
	case inner == timeType:
		return false, nil
	case c.isDecimal(inner):
		return false, nil
	case isPrimitive(inner):
		return false, nil
	case c.isScalar(inner):
		return false, nil
	case IsAnonymous(inner):
		return false, nil
	case inner.Kind() == reflect.Map:
		return false, nil
	}

	return true, nil
}

// ElementShape returns the type that governs classification of t.
// Pointer indirection is removed first, then arrays and slices are represented by their element type,
// and any pointer indirection left on the element is removed as well.
// So *[]*Post and []*Post both have the shape of Post, while [][]int keeps its inner container.
// Types that are not containers are their own element shape.
func ElementShape(t reflect.Type) reflect.Type {
	if t == nil {
		return nil
	}

	inner := derefType(t)
	switch inner.Kind() {
	case reflect.Array, reflect.Slice:
		return derefType(inner.Elem())
	default:
		return inner
	}
}

func derefType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// IsAnonymous reports whether t is an inline struct literal type: it has no declared name and
// is not bound to the package that uses it.
// Ad-hoc projections built by handlers have this shape.
func IsAnonymous(t reflect.Type) bool {
	if t == nil {
		return false
	}

	return t.Kind() == reflect.Struct && t.Name() == "" && t.PkgPath() == ""
}

func isPrimitive(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return true
	default:
		return false
	}
}

func (c *Classifier) isDecimal(t reflect.Type) bool {
	_, ok := c.decimals[t]
	return ok
}

func (c *Classifier) isScalar(t reflect.Type) bool {
	_, ok := c.scalars[t]
	return ok
}

// DefaultDecimalTypes returns the high-precision numeric types that are always treated as scalars.
func DefaultDecimalTypes() []reflect.Type {
	return []reflect.Type{
		reflect.TypeFor[big.Int](),
		reflect.TypeFor[big.Float](),
		reflect.TypeFor[big.Rat](),
		reflect.TypeFor[json.Number](),
	}
}

// DefaultScalarTypes returns host types that serialize as one scalar value despite a composite kind.
func DefaultScalarTypes() []reflect.Type {
	return []reflect.Type{
		reflect.TypeFor[uuid.UUID](),
	}
}
