package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "evstore:ratelimit:"

// Redis is a fixed-window limiter shared by every replica pointing at the
// same Redis instance.
type Redis struct {
	client   redis.UniversalClient
	capacity int64
	window   time.Duration
}

// NewRedis wraps an existing client.
func NewRedis(client redis.UniversalClient, capacity int, window time.Duration) *Redis {
	return &Redis{client: client, capacity: int64(capacity), window: window}
}

// DialRedis connects to addr and verifies the connection.
func DialRedis(ctx context.Context, addr string, capacity int, window time.Duration) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return NewRedis(client, capacity, window), nil
}

// Allow increments the counter for key's current window.
func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	windowKey := fmt.Sprintf("%s%s:%d", redisKeyPrefix, key, time.Now().UnixNano()/int64(r.window))

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, windowKey)
	pipe.Expire(ctx, windowKey, r.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit counter: %w", err)
	}

	return incr.Val() <= r.capacity, nil
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
