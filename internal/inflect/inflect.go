// Package inflect provides the naming rules used to build envelope root keys.
package inflect

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jinzhu/inflection"
)

// Pluralizer turns a singular resource name into its plural form.
type Pluralizer interface {
	Pluralize(word string) string
}

// English pluralizes English nouns with the inflection rule set, consulting a local table of
// overrides first. Compound camel case names are pluralized on their last word, "blogPerson" => "blogPeople".
// NewEnglish should be used to create instances of English.
type English struct {
	overrides map[string]string
}

// NewEnglish returns an English pluralizer with the default overrides plus overrides.
// Override keys are matched case-insensitively against the whole name, then its last word.
// Keys and values must not be empty.
func NewEnglish(overrides map[string]string) (*English, error) {
	table := defaultOverrides()
	for singular, plural := range overrides {
		singular = strings.ToLower(strings.TrimSpace(singular))
		plural = strings.TrimSpace(plural)
		if singular == "" || plural == "" {
			return nil, fmt.Errorf("plural override cannot be empty: '%s' => '%s'", singular, plural)
		}
		table[singular] = plural
	}

	return &English{overrides: table}, nil
}

// Pluralize returns the plural of word, preserving the case of the first letter of the replaced word.
func (e *English) Pluralize(word string) string {
	if word == "" {
		return word
	}

	if plural, ok := e.overrides[strings.ToLower(word)]; ok {
		return matchFirstCase(word, plural)
	}

	prefix, last := splitLastWord(word)
	if plural, ok := e.overrides[strings.ToLower(last)]; ok {
		return prefix + matchFirstCase(last, plural)
	}

	return prefix + inflection.Plural(last)
}

// defaultOverrides covers nouns the inflection rule set pluralizes regularly.
func defaultOverrides() map[string]string {
	return map[string]string{
		"foot":  "feet",
		"goose": "geese",
		"hero":  "heroes",
		"leaf":  "leaves",
		"tooth": "teeth",
	}
}

// splitLastWord splits a camel case name before the capital that starts its last word.
// Names without a lower case letter after a capital, like "ID", are a single word.
func splitLastWord(word string) (string, string) {
	runes := []rune(word)
	for i := len(runes) - 2; i > 0; i-- {
		if unicode.IsUpper(runes[i]) && unicode.IsLower(runes[i+1]) {
			return string(runes[:i]), string(runes[i:])
		}
	}
	return "", word
}

func matchFirstCase(original, replacement string) string {
	first, _ := utf8.DecodeRuneInString(original)
	if !unicode.IsUpper(first) {
		return replacement
	}
	r, size := utf8.DecodeRuneInString(replacement)
	return string(unicode.ToUpper(r)) + replacement[size:]
}

// LowerCamel lowercases the leading run of capitals of a Go identifier:
// "Post" => "post", "BlogPost" => "blogPost", "URLLink" => "urlLink", "ID" => "id".
func LowerCamel(name string) string {
	runes := []rune(name)
	n := len(runes)
	i := 0
	for i < n && unicode.IsUpper(runes[i]) {
		i++
	}

	switch {
	case i == 0:
		return name
	case i == 1 || i == n:
		for j := 0; j < i; j++ {
			runes[j] = unicode.ToLower(runes[j])
		}
	default:
		// Keep the last capital of an acronym, it starts the next word.
		for j := 0; j < i-1; j++ {
			runes[j] = unicode.ToLower(runes[j])
		}
	}

	return string(runes)
}
