package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyKeyPrefix = "marketplace:processed:"

// RedisIdempotencyStore shares processed event IDs across consumer
// instances. Keys expire after ttl.
type RedisIdempotencyStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisIdempotencyStore creates a store on client.
func NewRedisIdempotencyStore(client redis.Cmdable, ttl time.Duration) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{client: client, ttl: ttl}
}

func idempotencyKey(eventID string) string {
	return idempotencyKeyPrefix + eventID
}

// Contains reports whether the key for eventID exists.
func (s *RedisIdempotencyStore) Contains(ctx context.Context, eventID string) (bool, error) {
	n, err := s.client.Exists(ctx, idempotencyKey(eventID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists %s: %w", eventID, err)
	}
	return n > 0, nil
}

// Add sets the key for eventID with SET NX so the first writer's TTL wins.
func (s *RedisIdempotencyStore) Add(ctx context.Context, eventID string) error {
	if err := s.client.SetNX(ctx, idempotencyKey(eventID), time.Now().UTC().Format(time.RFC3339), s.ttl).Err(); err != nil {
		return fmt.Errorf("redis setnx %s: %w", eventID, err)
	}
	return nil
}
