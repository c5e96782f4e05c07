package cache_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/locmeta/internal/cache"
)

func TestCache_GetOrCompute(t *testing.T) {
	t.Parallel()

	c := cache.New[string, int]()
	calls := 0

	compute := func() (int, error) {
		calls++

		return 42, nil
	}

	v, err := c.GetOrCompute("a", compute)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	v, err = c.GetOrCompute("a", compute)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	assert.Equal(t, 1, calls)
	assert.Equal(t, int64(1), c.Hits())
	assert.Equal(t, int64(1), c.Misses())
	assert.Equal(t, 1, c.Len())
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	t.Parallel()

	c := cache.New[string, int]()
	boom := errors.New("boom")

	_, err := c.GetOrCompute("a", func() (int, error) { return 0, boom })
	require.ErrorIs(t, err, boom)

	_, found := c.Get("a")
	assert.False(t, found)
	assert.Equal(t, 0, c.Len())
}

func TestCache_Concurrent(t *testing.T) {
	t.Parallel()

	c := cache.New[int, int]()

	var wg sync.WaitGroup

	for i := range 50 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			c.Set(i%5, i)
			_, _ = c.GetOrCompute(i%7, func() (int, error) { return i, nil })
		}()
	}

	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 7)
	assert.Equal(t, int64(50), c.Hits()+c.Misses())
}
