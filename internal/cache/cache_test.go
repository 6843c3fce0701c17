package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseClient corre el mismo contrato contra cualquier driver.
func exerciseClient(t *testing.T, c Client) {
	t.Helper()
	ctx := context.Background()

	_, err := c.Get(ctx, "missing")
	require.True(t, IsNotFound(err))

	require.NoError(t, c.Set(ctx, "k", "v", 0))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	require.NoError(t, c.Delete(ctx, "k"))
	_, err = c.Get(ctx, "k")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, c.Set(ctx, "short", "v", 50*time.Millisecond))
	require.Eventually(t, func() bool {
		_, err := c.Get(ctx, "short")
		return IsNotFound(err)
	}, 3*time.Second, 20*time.Millisecond)

	require.NoError(t, c.Ping(ctx))
}

func TestMemoryClient(t *testing.T) {
	c := NewMemory("test:", time.Minute)
	defer c.Close()
	assert.Equal(t, "memory", c.Driver())
	exerciseClient(t, c)
}

func TestMemoryPrefixIsolation(t *testing.T) {
	ctx := context.Background()
	c := NewMemory("a:", 0).(*memoryClient)
	require.NoError(t, c.Set(ctx, "k", "v", 0))
	_, ok := c.c.Get("a:k")
	assert.True(t, ok)
}

func TestNew(t *testing.T) {
	c, err := New(Config{Kind: "memory"})
	require.NoError(t, err)
	assert.Equal(t, "memory", c.Driver())

	_, err = New(Config{Kind: "redis"})
	require.Error(t, err)

	_, err = New(Config{Kind: "memcached"})
	require.Error(t, err)
}

func TestRedisClient(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	rdb, err := DialRedis(context.Background(), addr, 0)
	require.NoError(t, err)

	c := NewRedis(rdb, "exercisetracker_test:", time.Minute)
	defer c.Close()
	assert.Equal(t, "redis", c.Driver())
	exerciseClient(t, c)
}
