package cache_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"govendas/internal/pkg/cache"
)

// mapClient imita o subconjunto do Redis usado pelo lock.
type mapClient struct {
	cache.NoopClient
	mu   sync.Mutex
	keys map[string]time.Duration
}

func (c *mapClient) SetNX(_ context.Context, key string, _ interface{}, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.keys[key]; ok {
		return false, nil
	}
	c.keys[key] = ttl
	return true, nil
}

func (c *mapClient) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.keys, key)
	return nil
}

func TestSubmissionLock_SecondAcquireFails(t *testing.T) {
	client := &mapClient{keys: map[string]time.Duration{}}
	lock := cache.NewSubmissionLock(client, 10*time.Minute)
	ctx := context.Background()

	ok, err := lock.Acquire(ctx, "sale", "abc")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = lock.Acquire(ctx, "sale", "abc")
	require.NoError(t, err)
	assert.False(t, ok)

	// Escopos diferentes não colidem.
	ok, err = lock.Acquire(ctx, "installment", "abc")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, 10*time.Minute, client.keys["idemp:sale:abc"])
}

func TestSubmissionLock_ReleaseAllowsRetry(t *testing.T) {
	client := &mapClient{keys: map[string]time.Duration{}}
	lock := cache.NewSubmissionLock(client, time.Minute)
	ctx := context.Background()

	_, err := lock.Acquire(ctx, "sale", "abc")
	require.NoError(t, err)
	require.NoError(t, lock.Release(ctx, "sale", "abc"))

	ok, err := lock.Acquire(ctx, "sale", "abc")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSubmissionLock_ConcurrentAcquireHasOneWinner(t *testing.T) {
	client := &mapClient{keys: map[string]time.Duration{}}
	lock := cache.NewSubmissionLock(client, time.Minute)

	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := lock.Acquire(context.Background(), "sale", "abc"); ok {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
}

func TestNoopClient_AlwaysMisses(t *testing.T) {
	var c cache.Client = cache.NoopClient{}

	_, err := c.Get(context.Background(), cache.ProductKey("p1"))
	assert.ErrorIs(t, err, cache.ErrCacheMiss)

	ok, err := c.SetNX(context.Background(), "k", "1", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}
