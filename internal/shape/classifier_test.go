package shape

import (
	"encoding/json"
	"math/big"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nemberjs/nember/internal/errors"
)

type post struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type status string

type result interface {
	Kind() string
}

type money struct {
	units int64
}

func newTestClassifier(t *testing.T, opt ...Option) *Classifier {
	t.Helper()

	c, err := NewClassifier(opt...)
	require.NoError(t, err)
	return c
}

func TestClassifier_ShouldEnvelope_Scalars(t *testing.T) {
	t.Parallel()

	c := newTestClassifier(t)

	tests := []struct {
		name string
		typ  reflect.Type
	}{
		{"string", reflect.TypeFor[string]()},
		{"named string", reflect.TypeFor[status]()},
		{"bool", reflect.TypeFor[bool]()},
		{"int", reflect.TypeFor[int]()},
		{"int64", reflect.TypeFor[int64]()},
		{"uint8", reflect.TypeFor[uint8]()},
		{"float32", reflect.TypeFor[float32]()},
		{"float64", reflect.TypeFor[float64]()},
		{"complex128", reflect.TypeFor[complex128]()},
		{"time", reflect.TypeFor[time.Time]()},
		{"big int", reflect.TypeFor[big.Int]()},
		{"big float", reflect.TypeFor[big.Float]()},
		{"big rat", reflect.TypeFor[big.Rat]()},
		{"json number", reflect.TypeFor[json.Number]()},
		{"uuid", reflect.TypeFor[uuid.UUID]()},
		{"pointer to int", reflect.TypeFor[*int]()},
		{"pointer to time", reflect.TypeFor[*time.Time]()},
		{"pointer to big float", reflect.TypeFor[*big.Float]()},
		{"array of decimals", reflect.TypeFor[[4]*big.Rat]()},
		{"array of strings", reflect.TypeFor[[3]string]()},
		{"slice of ints", reflect.TypeFor[[]int]()},
		{"slice of times", reflect.TypeFor[[]time.Time]()},
		{"slice of nullable floats", reflect.TypeFor[[]*float64]()},
		{"slice of uuids", reflect.TypeFor[[]uuid.UUID]()},
		{"bytes", reflect.TypeFor[[]byte]()},
		{"pointer to slice of ints", reflect.TypeFor[*[]int]()},
		{"pointer to slice of strings", reflect.TypeFor[*[]string]()},
		{"pointer to slice of times", reflect.TypeFor[*[]time.Time]()},
		{"pointer to array of floats", reflect.TypeFor[*[3]float64]()},
		{"double pointer to slice of nullable ints", reflect.TypeFor[**[]*int]()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := c.ShouldEnvelope(tc.typ)
			require.NoError(t, err)
			require.False(t, got)
		})
	}
}

func TestClassifier_ShouldEnvelope_Anonymous(t *testing.T) {
	t.Parallel()

	c := newTestClassifier(t)

	projection := struct {
		Count int    `json:"count"`
		Name  string `json:"name"`
	}{}
	typ := reflect.TypeOf(projection)

	tests := []struct {
		name string
		typ  reflect.Type
	}{
		{"value", typ},
		{"pointer", reflect.PointerTo(typ)},
		{"slice", reflect.SliceOf(typ)},
		{"array", reflect.ArrayOf(2, typ)},
		{"slice of pointers", reflect.SliceOf(reflect.PointerTo(typ))},
		{"pointer to slice", reflect.PointerTo(reflect.SliceOf(typ))},
		{"empty struct", reflect.TypeFor[struct{}]()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := c.ShouldEnvelope(tc.typ)
			require.NoError(t, err)
			require.False(t, got)
		})
	}
}

func TestClassifier_ShouldEnvelope_DomainTypes(t *testing.T) {
	t.Parallel()

	c := newTestClassifier(t)

	tests := []struct {
		name string
		typ  reflect.Type
	}{
		{"struct", reflect.TypeFor[post]()},
		{"pointer", reflect.TypeFor[*post]()},
		{"slice", reflect.TypeFor[[]post]()},
		{"slice of pointers", reflect.TypeFor[[]*post]()},
		{"array", reflect.TypeFor[[2]post]()},
		{"pointer to slice", reflect.TypeFor[*[]post]()},
		{"pointer to slice of pointers", reflect.TypeFor[*[]*post]()},
		{"struct with unexported fields", reflect.TypeFor[money]()},
		{"non-empty interface", reflect.TypeFor[result]()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := c.ShouldEnvelope(tc.typ)
			require.NoError(t, err)
			require.True(t, got)
		})
	}
}

func TestClassifier_ShouldEnvelope_OpaqueTypes(t *testing.T) {
	t.Parallel()

	c := newTestClassifier(t)

	for _, typ := range []reflect.Type{
		reflect.TypeFor[any](),
		reflect.TypeFor[[]any](),
		reflect.TypeFor[*[]any](),
		reflect.TypeFor[*any](),
		reflect.TypeFor[map[string]any](),
		reflect.TypeFor[map[string]post](),
	} {
		got, err := c.ShouldEnvelope(typ)
		require.NoError(t, err)
		require.False(t, got, typ.String())
	}
}

func TestClassifier_ShouldEnvelope_NilType(t *testing.T) {
	t.Parallel()

	c := newTestClassifier(t)

	got, err := c.ShouldEnvelope(nil)
	require.ErrorIs(t, err, errors.ErrInvalidArgument)
	require.False(t, got)
}

func TestClassifier_ShouldEnvelope_Deterministic(t *testing.T) {
	t.Parallel()

	c := newTestClassifier(t)
	typ := reflect.TypeFor[[]*post]()

	first, err := c.ShouldEnvelope(typ)
	require.NoError(t, err)
	for range 10 {
		got, err := c.ShouldEnvelope(typ)
		require.NoError(t, err)
		require.Equal(t, first, got)
	}
}

func TestClassifier_WithScalarTypes(t *testing.T) {
	t.Parallel()

	before := newTestClassifier(t)
	got, err := before.ShouldEnvelope(reflect.TypeFor[money]())
	require.NoError(t, err)
	require.True(t, got)

	after := newTestClassifier(t, WithScalarTypes(reflect.TypeFor[money]()))
	got, err = after.ShouldEnvelope(reflect.TypeFor[[]money]())
	require.NoError(t, err)
	require.False(t, got)
}

func TestClassifier_WithDecimalTypes(t *testing.T) {
	t.Parallel()

	c := newTestClassifier(t, WithDecimalTypes(reflect.TypeFor[money]()))
	got, err := c.ShouldEnvelope(reflect.TypeFor[*money]())
	require.NoError(t, err)
	require.False(t, got)
}

func TestNewClassifier_InvalidOptions(t *testing.T) {
	t.Parallel()

	_, err := NewClassifier(WithScalarTypes(nil))
	require.EqualError(t, err, "scalar type cannot be nil")

	_, err = NewClassifier(WithDecimalTypes(nil))
	require.EqualError(t, err, "decimal type cannot be nil")

	c, err := NewClassifier(nil)
	require.NoError(t, err)
	require.NotNil(t, c)
}

func TestElementShape(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    reflect.Type
		expected reflect.Type
	}{
		{"nil", nil, nil},
		{"plain struct", reflect.TypeFor[post](), reflect.TypeFor[post]()},
		{"pointer", reflect.TypeFor[*post](), reflect.TypeFor[post]()},
		{"double pointer", reflect.TypeFor[**post](), reflect.TypeFor[post]()},
		{"slice", reflect.TypeFor[[]post](), reflect.TypeFor[post]()},
		{"slice of pointers", reflect.TypeFor[[]*post](), reflect.TypeFor[post]()},
		{"array", reflect.TypeFor[[3]int](), reflect.TypeFor[int]()},
		{"nested slice keeps inner container", reflect.TypeFor[[][]int](), reflect.TypeFor[[]int]()},
		{"pointer to slice", reflect.TypeFor[*[]int](), reflect.TypeFor[int]()},
		{"pointer to slice of pointers", reflect.TypeFor[*[]*post](), reflect.TypeFor[post]()},
		{"pointer to array", reflect.TypeFor[*[3]float64](), reflect.TypeFor[float64]()},
		{"map is not a container", reflect.TypeFor[map[string]int](), reflect.TypeFor[map[string]int]()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.expected, ElementShape(tc.input))
		})
	}
}

func TestIsAnonymous(t *testing.T) {
	t.Parallel()

	require.True(t, IsAnonymous(reflect.TypeOf(struct{ A int }{})))
	require.False(t, IsAnonymous(reflect.TypeFor[post]()))
	require.False(t, IsAnonymous(reflect.TypeFor[*struct{ A int }]()))
	require.False(t, IsAnonymous(reflect.TypeFor[map[string]int]()))
	require.False(t, IsAnonymous(nil))
}
