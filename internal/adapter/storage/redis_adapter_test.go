package storage

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Integration test against a real Redis.
// Run with: TEST_REDIS_ADDR=localhost:6379 go test ./...
func TestRedisAdapter_SeenMark(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skipf("TEST_REDIS_ADDR not set, skipping redis integration test")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	ctx := context.Background()
	require.NoError(t, client.Ping(ctx).Err())

	adapter := NewRedisAdapter(client)
	key := fmt.Sprintf("txn:itest-%d", time.Now().UnixNano())
	t.Cleanup(func() { client.Del(ctx, key) })

	// Checking a key must not create it.
	seen, err := adapter.Seen(ctx, key)
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = adapter.Seen(ctx, key)
	require.NoError(t, err)
	assert.False(t, seen, "Seen must be a read, not a set")

	require.NoError(t, adapter.Mark(ctx, key))

	seen, err = adapter.Seen(ctx, key)
	require.NoError(t, err)
	assert.True(t, seen)

	ttl, err := client.TTL(ctx, key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
