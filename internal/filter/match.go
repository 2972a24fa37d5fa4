package filter

import (
	"strconv"
	"strings"
)

// Predicate defines a function that returns true if the given item matches a filter value.
type Predicate[T any] func(item T, filterValue string) bool

// Options holds the matchers used by Match, keyed by normalized filter name.
type Options[T any] struct {
	matchers map[string]Predicate[T]
}

// Option configures filter Options.
type Option[T any] func(*Options[T]) error

// NewOptions creates Options with defaults and applies the given options.
func NewOptions[T any](opt ...Option[T]) (Options[T], error) {
	opts := Options[T]{
		matchers: make(map[string]Predicate[T]),
	}

	for _, o := range opt {
		if o == nil {
			continue
		}
		if err := o(&opts); err != nil {
			return Options[T]{}, err
		}
	}
	return opts, nil
}

// NormalizeString lowercases s and removes leading and trailing whitespace.
func NormalizeString(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// StringValueProvider extracts a single string value from an item of type T.
type StringValueProvider[T any] func(T) string

// StringValuesProvider extracts a slice of string values from an item of type T.
type StringValuesProvider[T any] func(T) []string

// BoolValueProvider extracts a single boolean value from an item of type T.
type BoolValueProvider[T any] func(T) bool

// Equals returns a Predicate that checks if the value extracted by the provider
// exactly matches the filter value (case-insensitive, normalized).
func Equals[T any](provider StringValueProvider[T]) Predicate[T] {
	return func(item T, val string) bool {
		return NormalizeString(provider(item)) == NormalizeString(val)
	}
}

// EqualsBool returns a Predicate that checks if the value extracted by the provider
// matches the parsed boolean representation of the filter value.
// Values that do not parse as booleans never match.
func EqualsBool[T any](provider BoolValueProvider[T]) Predicate[T] {
	return func(item T, val string) bool {
		parsed, err := strconv.ParseBool(NormalizeString(val))
		if err != nil {
			return false
		}
		return provider(item) == parsed
	}
}

// Partial returns a Predicate that checks if the value extracted by the provider
// contains the filter value as a substring (case-insensitive, normalized).
//
// Example:
//
// predicate := Partial(func(p Post) string { return p.Title }),
// result := predicate(post, "envelope") // true if the title contains "envelope"
func Partial[T any](provider StringValueProvider[T]) Predicate[T] {
	return func(item T, val string) bool {
		return strings.Contains(NormalizeString(provider(item)), NormalizeString(val))
	}
}

// HasAny returns a Predicate that checks if the values extracted by the provider include *ANY* of
// the comma-separated values in the filter string (case-insensitive, normalized).
func HasAny[T any](provider StringValuesProvider[T]) Predicate[T] {
	return func(item T, val string) bool {
		wanted := make(map[string]struct{})
		for _, v := range strings.Split(val, ",") {
			if n := NormalizeString(v); n != "" {
				wanted[n] = struct{}{}
			}
		}

		for _, v := range provider(item) {
			if _, ok := wanted[NormalizeString(v)]; ok {
				return true
			}
		}
		return false
	}
}

// WithMatchers adds or overrides matchers.
func WithMatchers[T any](m map[string]Predicate[T]) Option[T] {
	return func(o *Options[T]) error {
		for k, v := range m {
			o.matchers[NormalizeString(k)] = v
		}
		return nil
	}
}

// WithMatcher adds or overrides a matcher.
func WithMatcher[T any](key string, value Predicate[T]) Option[T] {
	return func(o *Options[T]) error {
		o.matchers[NormalizeString(key)] = value
		return nil
	}
}

// Match applies the provided filters to an item of type T using the configured matchers.
// Filters with a blank key or value, and filters without a matcher, are ignored.
func Match[T any](item T, filters map[string]string, opts ...Option[T]) (bool, error) {
	if len(filters) == 0 {
		return true, nil
	}

	filterOpts, err := NewOptions(opts...)
	if err != nil {
		return false, err
	}

	for key, val := range filters {
		k := NormalizeString(key)
		if k == "" || strings.TrimSpace(val) == "" {
			continue
		}

		matcher, ok := filterOpts.matchers[k]
		if !ok {
			continue
		}
		if !matcher(item, val) {
			return false, nil
		}
	}
	return true, nil
}

// Active reports whether any filter has both a key and a value, so Match would consult a matcher.
func Active(filters map[string]string) bool {
	for k, v := range filters {
		if NormalizeString(k) != "" && strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}
