package filter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type testItem struct {
	Name     string
	Category string
	Tags     []string
	Official bool
}

func TestNormalizeString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "hello", NormalizeString("  Hello "))
	require.Equal(t, "world", NormalizeString("WORLD"))
	require.Equal(t, "", NormalizeString("  "))
}

func TestPredicates(t *testing.T) {
	t.Parallel()

	name := func(i testItem) string { return i.Name }
	tags := func(i testItem) []string { return i.Tags }
	official := func(i testItem) bool { return i.Official }

	tests := []struct {
		name      string
		predicate Predicate[testItem]
		item      testItem
		value     string
		want      bool
	}{
		{name: "equals ignores case", predicate: Equals(name), item: testItem{Name: "ToolA"}, value: " toola ", want: true},
		{name: "equals mismatch", predicate: Equals(name), item: testItem{Name: "ToolB"}, value: "toola"},
		{name: "partial substring", predicate: Partial(name), item: testItem{Name: "DevTools"}, value: "TOOL", want: true},
		{name: "partial mismatch", predicate: Partial(name), item: testItem{Name: "runtime"}, value: "tool"},
		{name: "has any", predicate: HasAny(tags), item: testItem{Tags: []string{"Alpha", "beta"}}, value: "beta, gamma", want: true},
		{name: "has any none", predicate: HasAny(tags), item: testItem{Tags: []string{"alpha"}}, value: "beta,gamma"},
		{name: "has any blank entries", predicate: HasAny(tags), item: testItem{Tags: []string{""}}, value: ",,"},
		{name: "has any no values", predicate: HasAny(tags), item: testItem{}, value: "alpha"},
		{name: "bool true", predicate: EqualsBool(official), item: testItem{Official: true}, value: "TRUE", want: true},
		{name: "bool false", predicate: EqualsBool(official), item: testItem{}, value: "false", want: true},
		{name: "bool mismatch", predicate: EqualsBool(official), item: testItem{}, value: "1"},
		{name: "bool invalid", predicate: EqualsBool(official), item: testItem{}, value: "maybe"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.want, tc.predicate(tc.item, tc.value))
		})
	}
}

func TestMatch(t *testing.T) {
	t.Parallel()

	matchers := WithMatchers(map[string]Predicate[testItem]{
		"Name":     Equals(func(i testItem) string { return i.Name }),
		"category": Partial(func(i testItem) string { return i.Category }),
	})

	item := testItem{Name: "abc123", Category: "infra"}

	tests := []struct {
		name    string
		filters map[string]string
		want    bool
	}{
		{name: "no filters", filters: nil, want: true},
		{name: "single match", filters: map[string]string{"name": "ABC123"}, want: true},
		{name: "all match", filters: map[string]string{"NAME": "abc123", "category": "inf"}, want: true},
		{name: "one mismatch", filters: map[string]string{"name": "abc123", "category": "tools"}},
		{name: "unknown keys ignored", filters: map[string]string{"unknown": "x"}, want: true},
		{name: "blank key ignored", filters: map[string]string{" ": "x"}, want: true},
		{name: "blank value ignored", filters: map[string]string{"name": "  "}, want: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := Match(item, tc.filters, matchers)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestMatch_WithMatcherOverrides(t *testing.T) {
	t.Parallel()

	item := testItem{Name: "abc"}
	got, err := Match(
		item,
		map[string]string{"name": "x"},
		WithMatcher("name", Equals(func(i testItem) string { return i.Name })),
		WithMatcher("name", func(testItem, string) bool { return true }),
	)
	require.NoError(t, err)
	require.True(t, got)
}

func TestMatch_OptionError(t *testing.T) {
	t.Parallel()

	failing := func(*Options[testItem]) error { return errors.New("bad option") }
	_, err := Match(testItem{}, map[string]string{"name": "x"}, nil, failing)
	require.EqualError(t, err, "bad option")
}

func TestActive(t *testing.T) {
	t.Parallel()

	require.False(t, Active(nil))
	require.False(t, Active(map[string]string{"author": "", " ": "x"}))
	require.True(t, Active(map[string]string{"author": "ada", "title": ""}))
}
