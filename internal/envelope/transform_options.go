package envelope

import (
	"fmt"
	"reflect"

	"github.com/hashicorp/go-hclog"

	"github.com/nemberjs/nember/internal/normalize"
)

// Dependencies contains the required collaborators of a Transform.
type Dependencies struct {
	// Logger for transform operations.
	Logger hclog.Logger

	// Classifier decides which types are enveloped.
	Classifier Classifier

	// Markers reports side-load markers, forwarded to the Shaper.
	Markers SideloadMarkers

	// Shaper renders enveloped values and names root keys.
	Shaper Shaper
}

// Validate ensures all required dependencies are provided.
func (d Dependencies) Validate() error {
	if isNil(d.Logger) {
		return fmt.Errorf("logger cannot be nil")
	}
	if isNil(d.Classifier) {
		return fmt.Errorf("classifier cannot be nil")
	}
	if isNil(d.Markers) {
		return fmt.Errorf("side-load markers cannot be nil")
	}
	if isNil(d.Shaper) {
		return fmt.Errorf("shaper cannot be nil")
	}
	return nil
}

// Option defines a functional option for configuring a Transform.
type Option func(*Options) error

// Options contains optional configuration for a Transform.
type Options struct {
	// Registry is the read envelope dispatch table.
	Registry *Registry

	// Conventions are applied to outgoing values after shaping and to incoming values after decoding.
	// None are applied by default.
	Conventions normalize.Conventions
}

// NewOptions creates Options with defaults, then applies options in order.
func NewOptions(opts ...Option) (Options, error) {
	o := Options{
		Registry: NewRegistry(),
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

// WithRegistry shares an existing read envelope registry with the Transform.
func WithRegistry(r *Registry) Option {
	return func(o *Options) error {
		if r == nil {
			return fmt.Errorf("registry cannot be nil")
		}
		o.Registry = r
		return nil
	}
}

// WithConventions applies c to every value the Transform prepares or decodes.
func WithConventions(c normalize.Conventions) Option {
	return func(o *Options) error {
		o.Conventions = c
		return nil
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Func, reflect.Slice, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
