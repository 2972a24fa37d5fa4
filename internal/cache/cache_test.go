package cache

import (
	"fmt"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/nemberjs/nember/internal/errors"
)

type widget struct {
	Name string
}

type gadget struct {
	Name string
}

func countingCompute(calls *atomic.Int64) ComputeFunc[bool] {
	return func(t reflect.Type) (bool, error) {
		calls.Add(1)
		return t.Kind() == reflect.Struct, nil
	}
}

func TestTypeCache_New(t *testing.T) {
	t.Parallel()

	logger := hclog.NewNullLogger()
	compute := func(reflect.Type) (bool, error) { return true, nil }

	tc := []struct {
		name      string
		logger    hclog.Logger
		compute   ComputeFunc[bool]
		opts      []Option
		expectErr string
	}{
		{
			name:    "creates cache with defaults",
			logger:  logger,
			compute: compute,
		},
		{
			name:    "creates cache with options and nil options",
			logger:  logger,
			compute: compute,
			opts:    []Option{nil, WithName("shape"), WithTraceComputations(false)},
		},
		{
			name:      "nil logger",
			compute:   compute,
			expectErr: "logger cannot be nil",
		},
		{
			name:      "nil compute",
			logger:    logger,
			expectErr: "compute function cannot be nil",
		},
		{
			name:      "empty name",
			logger:    logger,
			compute:   compute,
			opts:      []Option{WithName("  ")},
			expectErr: "cache name cannot be empty",
		},
	}

	for _, testCase := range tc {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			c, err := NewTypeCache(testCase.logger, testCase.compute, testCase.opts...)
			if testCase.expectErr != "" {
				require.EqualError(t, err, testCase.expectErr)
				require.Nil(t, c)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, c)
			require.Equal(t, 0, c.Len())
		})
	}
}

func TestTypeCache_GetOrCompute_ComputesOnce(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	c, err := NewTypeCache(hclog.NewNullLogger(), countingCompute(&calls))
	require.NoError(t, err)

	typ := reflect.TypeFor[widget]()

	first, err := c.GetOrCompute(typ)
	require.NoError(t, err)
	require.True(t, first)

	second, err := c.GetOrCompute(typ)
	require.NoError(t, err)
	require.Equal(t, first, second)

	require.Equal(t, int64(1), calls.Load())
	require.Equal(t, 1, c.Len())

	cached, ok := c.Get(typ)
	require.True(t, ok)
	require.True(t, cached)
}

func TestTypeCache_GetOrCompute_DistinctKeys(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	c, err := NewTypeCache(hclog.NewNullLogger(), countingCompute(&calls))
	require.NoError(t, err)

	for _, typ := range []reflect.Type{
		reflect.TypeFor[widget](),
		reflect.TypeFor[gadget](),
		reflect.TypeFor[string](),
	} {
		_, err := c.GetOrCompute(typ)
		require.NoError(t, err)
	}

	v, err := c.GetOrCompute(reflect.TypeFor[string]())
	require.NoError(t, err)
	require.False(t, v)

	require.Equal(t, int64(3), calls.Load())
	require.Equal(t, 3, c.Len())
}

func TestTypeCache_GetOrCompute_ErrorsAreNotCached(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	c, err := NewTypeCache[int](hclog.NewNullLogger(), func(t reflect.Type) (int, error) {
		calls.Add(1)
		return 0, fmt.Errorf("cannot compute %s", t)
	})
	require.NoError(t, err)

	typ := reflect.TypeFor[widget]()
	for range 2 {
		_, err := c.GetOrCompute(typ)
		require.Error(t, err)
	}

	require.Equal(t, int64(2), calls.Load())
	require.Equal(t, 0, c.Len())

	_, ok := c.Get(typ)
	require.False(t, ok)
}

func TestTypeCache_GetOrCompute_NilKey(t *testing.T) {
	t.Parallel()

	c, err := NewTypeCache[bool](hclog.NewNullLogger(), func(reflect.Type) (bool, error) { return true, nil })
	require.NoError(t, err)

	_, err = c.GetOrCompute(nil)
	require.ErrorIs(t, err, errors.ErrInvalidArgument)

	_, ok := c.Get(nil)
	require.False(t, ok)
}

func TestTypeCache_GetOrCompute_Concurrent(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	c, err := NewTypeCache(hclog.NewNullLogger(), countingCompute(&calls))
	require.NoError(t, err)

	const workers = 64
	types := []reflect.Type{reflect.TypeFor[widget](), reflect.TypeFor[int]()}
	results := make([]bool, workers)

	var g errgroup.Group
	for i := range workers {
		g.Go(func() error {
			v, err := c.GetOrCompute(types[i%len(types)])
			if err != nil {
				return err
			}
			results[i] = v
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for i, v := range results {
		require.Equal(t, i%len(types) == 0, v, "worker %d", i)
	}
	require.Equal(t, len(types), c.Len())
	require.GreaterOrEqual(t, calls.Load(), int64(len(types)))
	require.LessOrEqual(t, calls.Load(), int64(workers))
}
