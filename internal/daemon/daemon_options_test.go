package daemon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nemberjs/nember/internal/normalize"
)

func TestNewOptions(t *testing.T) {
	t.Parallel()

	t.Run("default options", func(t *testing.T) {
		t.Parallel()

		opts, err := NewOptions()
		require.NoError(t, err)
		assert.True(t, opts.MetaTotal)
		assert.Empty(t, opts.APIVersion)
		assert.Nil(t, opts.Plurals)
		assert.Nil(t, opts.APIOptions)
		assert.Equal(t, normalize.Default(), opts.Conventions)
	})

	t.Run("conventions can be turned off", func(t *testing.T) {
		t.Parallel()

		opts, err := NewOptions(WithConventions(normalize.Conventions{}))
		require.NoError(t, err)
		assert.False(t, opts.Conventions.Enabled())
	})

	t.Run("nil options are skipped", func(t *testing.T) {
		t.Parallel()

		opts, err := NewOptions(nil, WithMetaTotal(false), nil)
		require.NoError(t, err)
		assert.False(t, opts.MetaTotal)
	})

	t.Run("api version is trimmed", func(t *testing.T) {
		t.Parallel()

		opts, err := NewOptions(WithAPIVersion("  2024-01  "))
		require.NoError(t, err)
		assert.Equal(t, "2024-01", opts.APIVersion)
	})

	t.Run("api options are replaced", func(t *testing.T) {
		t.Parallel()

		opts, err := NewOptions(
			WithAPIOptions(WithCORSEnabled(true), WithFormats("json")),
			WithAPIOptions(WithCORSEnabled(true)), // This should win
		)
		require.NoError(t, err)
		assert.Len(t, opts.APIOptions, 1)
	})

	t.Run("options override in order", func(t *testing.T) {
		t.Parallel()

		opts, err := NewOptions(
			WithAPIVersion("v1"),
			WithAPIVersion("v2"), // This should win
		)
		require.NoError(t, err)
		assert.Equal(t, "v2", opts.APIVersion)
	})
}

func TestWithPlurals(t *testing.T) {
	t.Parallel()

	t.Run("overrides are merged", func(t *testing.T) {
		t.Parallel()

		opts, err := NewOptions(
			WithPlurals(map[string]string{"person": "persons", "cactus": "cacti"}),
			WithPlurals(map[string]string{"person": "folk"}),
		)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"person": "folk", "cactus": "cacti"}, opts.Plurals)
	})

	t.Run("empty plural fails", func(t *testing.T) {
		t.Parallel()

		_, err := NewOptions(WithPlurals(map[string]string{"person": " "}))
		require.EqualError(t, err, "plural override 'person' => ' ' cannot be empty")
	})

	t.Run("empty singular fails", func(t *testing.T) {
		t.Parallel()

		_, err := NewOptions(WithPlurals(map[string]string{"": "things"}))
		require.EqualError(t, err, "plural override '' => 'things' cannot be empty")
	})

	t.Run("caller map is not aliased", func(t *testing.T) {
		t.Parallel()

		in := map[string]string{"person": "folk"}
		opts, err := NewOptions(WithPlurals(in))
		require.NoError(t, err)

		in["person"] = "changed"
		assert.Equal(t, "folk", opts.Plurals["person"])
	})
}
