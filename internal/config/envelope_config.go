package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/nemberjs/nember/internal/codec"
)

// EnvelopeConfigSection contains the settings of the envelope transform.
//
// NOTE: if you add/remove fields you must review schema.json and the associated Validate implementation.
type EnvelopeConfigSection struct {
	// Formats lists the codecs served by the API, in order of preference.
	// The first format is the default for requests without an Accept header.
	Formats []string `json:"formats,omitempty" toml:"formats,omitempty" yaml:"formats,omitempty"`

	// Plurals overrides the built-in English pluralization, keyed by singular root key.
	Plurals map[string]string `json:"plurals,omitempty" toml:"plurals,omitempty" yaml:"plurals,omitempty"`

	// OmitNulls drops object members holding null from response bodies, enabled unless set to false.
	OmitNulls *bool `json:"omitNulls,omitempty" toml:"omit_nulls,omitempty" yaml:"omit_nulls,omitempty"`

	// TrimStrings trims white space around strings in request and response bodies, enabled unless set to false.
	TrimStrings *bool `json:"trimStrings,omitempty" toml:"trim_strings,omitempty" yaml:"trim_strings,omitempty"`

	// Nested meta configuration for enveloped responses
	Meta *MetaConfigSection `json:"meta,omitempty" toml:"meta,omitempty" yaml:"meta,omitempty"`
}

// MetaConfigSection controls the built-in meta providers.
type MetaConfigSection struct {
	// Total adds the number of resources to enveloped collections.
	Total *bool `json:"total,omitempty" toml:"total,omitempty" yaml:"total,omitempty"`

	// APIVersion is stamped on every enveloped response when set.
	APIVersion *string `json:"apiVersion,omitempty" toml:"api_version,omitempty" yaml:"api_version,omitempty"`
}

// Validate checks the envelope configuration values.
func (e *EnvelopeConfigSection) Validate() error {
	if e == nil {
		return nil
	}

	var validationErrors []error

	seen := make(map[string]struct{}, len(e.Formats))
	for _, name := range e.Formats {
		normalized := strings.ToLower(strings.TrimSpace(name))
		if !slices.Contains(codec.Names(), normalized) {
			validationErrors = append(
				validationErrors,
				fmt.Errorf("unknown format '%s', expected one of: %s", name, strings.Join(codec.Names(), ", ")),
			)
			continue
		}
		if _, ok := seen[normalized]; ok {
			validationErrors = append(validationErrors, fmt.Errorf("duplicate format '%s'", name))
			continue
		}
		seen[normalized] = struct{}{}
	}

	for singular, plural := range e.Plurals {
		if strings.TrimSpace(singular) == "" || strings.TrimSpace(plural) == "" {
			validationErrors = append(
				validationErrors,
				fmt.Errorf("plural override cannot be empty: '%s' => '%s'", singular, plural),
			)
		}
	}

	return errors.Join(validationErrors...)
}

// FormatsOrDefault returns the configured formats, or every built-in codec when none are set.
func (e *EnvelopeConfigSection) FormatsOrDefault() []string {
	if e == nil || len(e.Formats) == 0 {
		return codec.Names()
	}
	return slices.Clone(e.Formats)
}

// TotalEnabled reports whether collection totals are added to meta, which is the default.
func (e *EnvelopeConfigSection) TotalEnabled() bool {
	if e == nil || e.Meta == nil || e.Meta.Total == nil {
		return true
	}
	return *e.Meta.Total
}

// APIVersion returns the configured API version stamp, or an empty string.
func (e *EnvelopeConfigSection) APIVersion() string {
	if e == nil || e.Meta == nil || e.Meta.APIVersion == nil {
		return ""
	}
	return *e.Meta.APIVersion
}

// OmitNullsEnabled reports whether null members are dropped from response bodies.
func (e *EnvelopeConfigSection) OmitNullsEnabled() bool {
	if e == nil || e.OmitNulls == nil {
		return true
	}
	return *e.OmitNulls
}

// TrimStringsEnabled reports whether strings are trimmed in request and response bodies.
func (e *EnvelopeConfigSection) TrimStringsEnabled() bool {
	if e == nil || e.TrimStrings == nil {
		return true
	}
	return *e.TrimStrings
}
