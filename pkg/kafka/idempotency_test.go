package kafka

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

type failingStore struct{}

func (failingStore) Contains(context.Context, string) (bool, error) {
	return false, errors.New("store down")
}

func (failingStore) Add(context.Context, string) error {
	return errors.New("store down")
}

// --- MemoryIdempotencyStore ---

func TestMemoryIdempotencyStore_AddAndContains(t *testing.T) {
	store := NewMemoryIdempotencyStore(time.Minute)
	ctx := context.Background()

	seen, err := store.Contains(ctx, "evt-1")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, store.Add(ctx, "evt-1"))

	seen, err = store.Contains(ctx, "evt-1")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestMemoryIdempotencyStore_Expiry(t *testing.T) {
	store := NewMemoryIdempotencyStore(time.Minute)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "evt-old"))

	now = now.Add(2 * time.Minute)
	seen, err := store.Contains(ctx, "evt-old")
	require.NoError(t, err)
	assert.False(t, seen)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryIdempotencyStore_AddSweepsExpired(t *testing.T) {
	store := NewMemoryIdempotencyStore(time.Minute)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "a"))
	require.NoError(t, store.Add(ctx, "b"))
	now = now.Add(90 * time.Second)
	require.NoError(t, store.Add(ctx, "c"))

	assert.Equal(t, 1, store.Len())
}

// --- RedisIdempotencyStore ---

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisIdempotencyStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisIdempotencyStore(client, ttl), mr
}

func TestRedisIdempotencyStore_AddAndContains(t *testing.T) {
	store, mr := newRedisStore(t, time.Hour)
	ctx := context.Background()

	seen, err := store.Contains(ctx, "evt-1")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, store.Add(ctx, "evt-1"))
	assert.True(t, mr.Exists("marketplace:processed:evt-1"))
	assert.Equal(t, time.Hour, mr.TTL("marketplace:processed:evt-1"))

	seen, err = store.Contains(ctx, "evt-1")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestRedisIdempotencyStore_Expiry(t *testing.T) {
	store, mr := newRedisStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "evt-2"))
	mr.FastForward(2 * time.Minute)

	seen, err := store.Contains(ctx, "evt-2")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestRedisIdempotencyStore_ServerDown(t *testing.T) {
	store, mr := newRedisStore(t, time.Minute)
	mr.Close()

	_, err := store.Contains(context.Background(), "evt-3")
	assert.Error(t, err)
	assert.Error(t, store.Add(context.Background(), "evt-3"))
}

// --- IdempotentHandler ---

func TestIdempotentHandler_SkipsDuplicates(t *testing.T) {
	store := NewMemoryIdempotencyStore(time.Minute)
	calls := 0
	h := IdempotentHandler(store, func(context.Context, *Event) error {
		calls++
		return nil
	}, testLogger())

	evt := &Event{EventID: "evt-dup", EventType: "review.created"}
	require.NoError(t, h(context.Background(), evt))
	require.NoError(t, h(context.Background(), evt))

	assert.Equal(t, 1, calls)
}

func TestIdempotentHandler_FailureIsNotRecorded(t *testing.T) {
	store := NewMemoryIdempotencyStore(time.Minute)
	calls := 0
	h := IdempotentHandler(store, func(context.Context, *Event) error {
		calls++
		if calls == 1 {
			return errors.New("transient")
		}
		return nil
	}, testLogger())

	evt := &Event{EventID: "evt-retry"}
	assert.Error(t, h(context.Background(), evt))
	assert.NoError(t, h(context.Background(), evt))
	assert.Equal(t, 2, calls)
}

func TestIdempotentHandler_EmptyIDPassesThrough(t *testing.T) {
	store := NewMemoryIdempotencyStore(time.Minute)
	calls := 0
	h := IdempotentHandler(store, func(context.Context, *Event) error {
		calls++
		return nil
	}, testLogger())

	require.NoError(t, h(context.Background(), &Event{}))
	require.NoError(t, h(context.Background(), &Event{}))
	assert.Equal(t, 2, calls)
	assert.Equal(t, 0, store.Len())
}

func TestIdempotentHandler_StoreFailureStillProcesses(t *testing.T) {
	calls := 0
	h := IdempotentHandler(failingStore{}, func(context.Context, *Event) error {
		calls++
		return nil
	}, testLogger())

	require.NoError(t, h(context.Background(), &Event{EventID: "evt-x"}))
	assert.Equal(t, 1, calls)
}
