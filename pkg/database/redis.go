package database

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig describes the Redis instance backing the event dedupe keys.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int

	// Zero values fall back to go-redis defaults.
	PoolSize    int
	DialTimeout time.Duration
}

// Addr returns host:port, bracketing IPv6 hosts.
func (c RedisConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c RedisConfig) options() *redis.Options {
	return &redis.Options{
		Addr:        c.Addr(),
		Password:    c.Password,
		DB:          c.DB,
		PoolSize:    c.PoolSize,
		DialTimeout: c.DialTimeout,
	}
}

// NewRedisClient connects to Redis and waits until it answers PING,
// retrying with the same backoff as the Postgres pool. logger may be nil.
func NewRedisClient(ctx context.Context, cfg RedisConfig, logger *slog.Logger) (*redis.Client, error) {
	client := redis.NewClient(cfg.options())

	err := withRetry(ctx, "connect to redis", logger, nil, func() error {
		return client.Ping(ctx).Err()
	})
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis at %s: %w", cfg.Addr(), err)
	}
	return client, nil
}
