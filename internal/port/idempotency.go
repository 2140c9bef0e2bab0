package port

import "context"

// IdempotencyGuard tracks transaction keys that already reached the
// backend. Seen is the fast-path skip for replays; Mark records a key and
// must only be called after the backend write is committed, otherwise a
// failed write would be skipped forever on retry.
type IdempotencyGuard interface {
	Seen(ctx context.Context, key string) (bool, error)
	Mark(ctx context.Context, key string) error
}
