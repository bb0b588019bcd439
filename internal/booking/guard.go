package booking

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const guardKeyPrefix = "booking:inflight:"

// Guard collapses concurrent submissions of the same draft into one upstream
// call. It backs the idempotency key, not replaces it: the key deduplicates
// across sessions, the guard stops two in-flight requests racing within one.
type Guard struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewGuard(rdb *redis.Client, ttl time.Duration) *Guard {
	return &Guard{redis: rdb, ttl: ttl}
}

// Acquire takes the in-flight lock for a draft. Returns false when another
// submission of the same draft is already running.
func (g *Guard) Acquire(ctx context.Context, draftID string) (bool, error) {
	return g.redis.SetNX(ctx, guardKeyPrefix+draftID, "1", g.ttl).Result()
}

// Release frees the lock so the user can retry after a failure.
func (g *Guard) Release(ctx context.Context, draftID string) error {
	return g.redis.Del(ctx, guardKeyPrefix+draftID).Err()
}
