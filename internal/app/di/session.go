package di

import (
	"time"

	"github.com/redis/go-redis/v9"

	"stockscope/internal/feature/dashboard/adapters"
	"stockscope/internal/feature/dashboard/usecase"
	"stockscope/internal/platform/session"
)

// NewStateRepository creates a StateRepository implementation.
// If Redis is available, it returns a Redis-backed implementation.
// Otherwise, it falls back to process memory.
func NewStateRepository(rdb *redis.Client, ttl time.Duration) usecase.StateRepository {
	if rdb != nil {
		return session.NewStateRedis(rdb, "dashboard", ttl)
	}
	return adapters.NewStateMemory(ttl)
}
