package daemon

import (
	"fmt"
	"maps"
	"strings"

	"github.com/nemberjs/nember/internal/normalize"
)

// Options contains optional configuration for the daemon.
// NewOptions should be used to create instances of Options.
type Options struct {
	// APIOptions contains functional options for the API server.
	APIOptions []APIOption

	// Plurals overrides the plural form of resource names used as collection root keys.
	Plurals map[string]string

	// MetaTotal reports the size of enveloped collections in their meta section.
	MetaTotal bool

	// APIVersion is stamped into the meta section of every enveloped document when set.
	APIVersion string

	// Conventions are applied to request and response bodies.
	Conventions normalize.Conventions
}

// Option defines a functional option for configuring Options.
// Options are applied in order, with later options overriding earlier ones.
type Option func(*Options) error

// NewOptions creates Options with optional configurations applied.
// Starts with default values, then applies options in order with later options overriding earlier ones.
func NewOptions(opts ...Option) (Options, error) {
	options := defaultOptions()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&options); err != nil {
			return Options{}, err
		}
	}

	return options, nil
}

// WithAPIOptions configures API server options.
// Replaces all previous API configuration including CORS settings.
func WithAPIOptions(apiOpts ...APIOption) Option {
	return func(o *Options) error {
		o.APIOptions = apiOpts
		return nil
	}
}

// WithPlurals configures plural overrides for resource names, keyed by singular form.
// Overrides are merged with any configured before.
func WithPlurals(plurals map[string]string) Option {
	return func(o *Options) error {
		for singular, plural := range plurals {
			if strings.TrimSpace(singular) == "" || strings.TrimSpace(plural) == "" {
				return fmt.Errorf("plural override '%s' => '%s' cannot be empty", singular, plural)
			}
		}
		if o.Plurals == nil {
			o.Plurals = make(map[string]string, len(plurals))
		}
		maps.Copy(o.Plurals, plurals)
		return nil
	}
}

// WithMetaTotal configures whether collection sizes are reported in the meta section.
func WithMetaTotal(enabled bool) Option {
	return func(o *Options) error {
		o.MetaTotal = enabled
		return nil
	}
}

// WithAPIVersion configures the API version stamped into the meta section.
func WithAPIVersion(version string) Option {
	return func(o *Options) error {
		o.APIVersion = strings.TrimSpace(version)
		return nil
	}
}

// WithConventions configures the conventions applied to request and response bodies.
func WithConventions(c normalize.Conventions) Option {
	return func(o *Options) error {
		o.Conventions = c
		return nil
	}
}

// DefaultMetaTotal is the default for reporting collection sizes in the meta section.
func DefaultMetaTotal() bool {
	return true
}

// defaultOptions returns Options with default values.
func defaultOptions() Options {
	return Options{
		MetaTotal:   DefaultMetaTotal(),
		Conventions: normalize.Default(),
	}
}
