package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyKeyTTL = 7 * 24 * time.Hour

// RedisAdapter is the backend-side idempotency guard. A drained queue can
// resubmit sales that were already accepted; a marked transaction key lets
// the backend adapter skip those replays cheaply. Keys are marked only
// after the database commit, so a failed insert stays retryable.
type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) Seen(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *RedisAdapter) Mark(ctx context.Context, key string) error {
	return r.client.Set(ctx, key, 1, idempotencyKeyTTL).Err()
}
