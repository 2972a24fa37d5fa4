package cache

import (
	"fmt"
	"strings"
)

// Option defines a functional option for configuring TypeCache.
type Option func(*Options) error

// Options contains optional configuration for the cache.
type Options struct {
	// name is used to name the cache logger.
	name string

	// traceComputations logs every computed (not cached) entry at trace level.
	traceComputations bool
}

// NewOptions creates Options with defaults, then applies options in order.
func NewOptions(opts ...Option) (Options, error) {
	// Default options.
	o := Options{
		name:              "cache",
		traceComputations: true,
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

// WithName sets the name used for the cache logger.
func WithName(name string) Option {
	return func(o *Options) error {
		name = strings.TrimSpace(name)
		if name == "" {
			return fmt.Errorf("cache name cannot be empty")
		}
		o.name = name
		return nil
	}
}

// WithTraceComputations configures whether computed entries are logged.
func WithTraceComputations(enabled bool) Option {
	return func(o *Options) error {
		o.traceComputations = enabled
		return nil
	}
}
