package cache

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-hclog"

	"github.com/nemberjs/nember/internal/errors"
)

// ComputeFunc derives the cached value for a type.
// It must be pure: two calls for the same type must return equal values.
type ComputeFunc[V any] func(t reflect.Type) (V, error)

// TypeCache memoizes a pure per-type computation.
// Entries are added lazily, at most once per type in the absence of races, and are never evicted.
// NewTypeCache should be used to create instances of TypeCache.
type TypeCache[V any] struct {
	// entries maps reflect.Type to V.
	entries sync.Map

	// size counts stored entries.
	size atomic.Int64

	// compute derives values for types not yet cached.
	compute ComputeFunc[V]

	// trace determines if computed entries are logged.
	trace bool

	// logger is used for logging cache operations.
	logger hclog.Logger
}

// NewTypeCache creates a new cache that fills itself using compute.
func NewTypeCache[V any](logger hclog.Logger, compute ComputeFunc[V], opts ...Option) (*TypeCache[V], error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if compute == nil {
		return nil, fmt.Errorf("compute function cannot be nil")
	}

	options, err := NewOptions(opts...)
	if err != nil {
		return nil, err
	}

	return &TypeCache[V]{
		compute: compute,
		trace:   options.traceComputations,
		logger:  logger.Named(options.name),
	}, nil
}

// GetOrCompute returns the cached value for t, computing and storing it first when absent.
// Concurrent first lookups for the same type may both compute, but every caller observes the
// single value that was stored. Errors are returned to the caller and never cached.
func (c *TypeCache[V]) GetOrCompute(t reflect.Type) (V, error) {
	var zero V
	if t == nil {
		return zero, fmt.Errorf("%w: cache key cannot be nil", errors.ErrInvalidArgument)
	}

	if v, ok := c.entries.Load(t); ok {
		return v.(V), nil
	}

	computed, err := c.compute(t)
	if err != nil {
		return zero, err
	}

	actual, loaded := c.entries.LoadOrStore(t, computed)
	if !loaded {
		c.size.Add(1)
		if c.trace {
			c.logger.Trace("Cached type", "type", t.String(), "value", computed)
		}
	}

	return actual.(V), nil
}

// Get returns the cached value for t without computing it.
func (c *TypeCache[V]) Get(t reflect.Type) (V, bool) {
	var zero V
	if t == nil {
		return zero, false
	}

	v, ok := c.entries.Load(t)
	if !ok {
		return zero, false
	}
	return v.(V), true
}

// Len returns the number of cached types.
func (c *TypeCache[V]) Len() int {
	return int(c.size.Load())
}
