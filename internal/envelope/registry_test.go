package envelope

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

type thing struct {
	Name string `json:"name"`
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	t.Parallel()

	r := NewRegistry()

	_, ok := r.Lookup(reflect.TypeFor[thing]())
	require.False(t, ok)

	Register[thing](r)
	Register[thing](r)
	Register[[]thing](r)

	reader, ok := r.Lookup(reflect.TypeFor[thing]())
	require.True(t, ok)
	require.Equal(t, reflect.TypeFor[thing](), reader.Target())
	require.Equal(t, reflect.TypeFor[Read[thing]](), reader.EnvelopeType())

	env := reader.newEnvelope("thing")
	require.IsType(t, &Read[thing]{}, env)
	require.Equal(t, "thing", env.(*Read[thing]).Root)

	_, ok = r.Lookup(nil)
	require.False(t, ok)

	require.Equal(t, []reflect.Type{reflect.TypeFor[[]thing](), reflect.TypeFor[thing]()}, r.Types())
}

func TestRegistry_ZeroValue(t *testing.T) {
	t.Parallel()

	var r Registry
	require.Empty(t, r.Types())

	Register[thing](&r)
	require.Len(t, r.Types(), 1)
}

func TestUnwrap(t *testing.T) {
	t.Parallel()

	n := 3
	var nilThing *thing

	tests := []struct {
		name     string
		value    any
		expected any
	}{
		{"read envelope", &Read[thing]{Root: "thing", Value: thing{Name: "a"}}, thing{Name: "a"}},
		{"pointer", &n, 3},
		{"nil pointer", nilThing, nilThing},
		{"plain value", "s", "s"},
		{"nil", nil, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.expected, Unwrap(tc.value))
		})
	}
}
