// Package session provides Redis-backed storage for per-session dashboard state.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"stockscope/internal/feature/dashboard/domain/entity"
	"stockscope/internal/feature/dashboard/usecase"
)

// DefaultTTL is how long a session's state survives after its last update.
const DefaultTTL = 24 * time.Hour

// StateRedis implements usecase.StateRepository using Redis.
type StateRedis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ usecase.StateRepository = (*StateRedis)(nil)

// NewStateRedis creates a new StateRedis instance.
// If ttl is 0, it defaults to DefaultTTL. If prefix is empty, it uses "dashboard".
func NewStateRedis(client *redis.Client, prefix string, ttl time.Duration) *StateRedis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if prefix == "" {
		prefix = "dashboard"
	}
	return &StateRedis{client: client, prefix: prefix, ttl: ttl}
}

// stateKey returns the Redis key for a session's state.
func (r *StateRedis) stateKey(sessionID string) string {
	return fmt.Sprintf("%s:%s", r.prefix, sessionID)
}

// Load retrieves a session's state. Missing sessions start from the initial state.
func (r *StateRedis) Load(ctx context.Context, sessionID string) (entity.State, error) {
	key := r.stateKey(sessionID)
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return entity.InitialState(), nil
		}
		return entity.State{}, err
	}

	var st entity.State
	if err := json.Unmarshal(data, &st); err != nil {
		// Delete corrupted entry and start over
		slog.Warn("corrupted dashboard state discarded", "key", key, "error", err)
		_ = r.client.Del(ctx, key).Err()
		return entity.InitialState(), nil
	}
	return st, nil
}

// Save replaces a session's state and refreshes its TTL.
func (r *StateRedis) Save(ctx context.Context, sessionID string, state entity.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal dashboard state: %w", err)
	}
	return r.client.Set(ctx, r.stateKey(sessionID), data, r.ttl).Err()
}
