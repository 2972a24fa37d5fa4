package shape

import (
	"fmt"
	"reflect"
)

// Option defines a functional option for configuring a Classifier.
type Option func(*Options) error

// Options contains optional configuration for the Classifier.
type Options struct {
	// decimals are high-precision numeric types treated as scalars.
	decimals map[reflect.Type]struct{}

	// scalars are additional types that serialize as one scalar value.
	scalars map[reflect.Type]struct{}
}

// NewOptions creates Options with the default decimal and scalar types,
// then applies options in order.
func NewOptions(opts ...Option) (Options, error) {
	o := Options{
		decimals: typeSet(DefaultDecimalTypes()),
		scalars:  typeSet(DefaultScalarTypes()),
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&o); err != nil {
			return Options{}, err
		}
	}

	return o, nil
}

// WithDecimalTypes adds high-precision numeric types that must never be enveloped.
func WithDecimalTypes(types ...reflect.Type) Option {
	return func(o *Options) error {
		for _, t := range types {
			if t == nil {
				return fmt.Errorf("decimal type cannot be nil")
			}
			o.decimals[t] = struct{}{}
		}
		return nil
	}
}

// WithScalarTypes adds types that serialize as a single scalar value and must never be enveloped.
func WithScalarTypes(types ...reflect.Type) Option {
	return func(o *Options) error {
		for _, t := range types {
			if t == nil {
				return fmt.Errorf("scalar type cannot be nil")
			}
			o.scalars[t] = struct{}{}
		}
		return nil
	}
}

func typeSet(types []reflect.Type) map[reflect.Type]struct{} {
	set := make(map[reflect.Type]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return set
}
