package materialize

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptoluganti/bicep/pkg/schema"
	"github.com/ptoluganti/bicep/pkg/types"
)

func TestCacheInvokesFactoryOncePerIdentity(t *testing.T) {
	c := newTypeCache()
	node := &schema.Object{Name: "n"}

	var calls int32
	factory := func() (types.Type, error) {
		atomic.AddInt32(&calls, 1)
		return types.NewNamedObjectType("n", nil, nil), nil
	}

	first, err := c.getOrCreate(node, factory)
	require.NoError(t, err)
	second, err := c.getOrCreate(node, factory)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), calls)
}

func TestCacheConcurrentGetOrCreate(t *testing.T) {
	c := newTypeCache()
	node := &schema.Object{Name: "n"}

	var calls int32
	const goroutines = 32
	results := make([]types.Type, goroutines)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := c.getOrCreate(node, func() (types.Type, error) {
				atomic.AddInt32(&calls, 1)
				return types.NewNamedObjectType("n", nil, nil), nil
			})
			assert.NoError(t, err)
			results[i] = got
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls)
	for _, got := range results {
		assert.Same(t, results[0], got)
	}
}

func TestCacheDoesNotStoreFailures(t *testing.T) {
	c := newTypeCache()
	node := &schema.Object{Name: "n"}
	wantErr := errors.New("nope")

	_, err := c.getOrCreate(node, func() (types.Type, error) { return nil, wantErr })
	require.ErrorIs(t, err, wantErr)

	// A later factory for the same identity still runs.
	got, err := c.getOrCreate(node, func() (types.Type, error) {
		return types.NewNamedObjectType("n", nil, nil), nil
	})
	require.NoError(t, err)
	assert.NotNil(t, got)
}
