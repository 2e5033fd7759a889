// Package redisrate provides a Redis-backed fixed-window rate limiter so
// the callback endpoint budget is shared across replicas.
package redisrate

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter counts requests per key in fixed windows using INCR + EXPIRE.
type Limiter struct {
	client redis.UniversalClient
	prefix string
	limit  int
	window time.Duration
}

// Config groups Limiter construction parameters.
type Config struct {
	Prefix string // key prefix, defaults to "ratelimit:"
	Limit  int    // requests allowed per window
	Window time.Duration
}

// New creates a Redis-backed limiter.
func New(client redis.UniversalClient, cfg Config) *Limiter {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "ratelimit:"
	}
	limit := cfg.Limit
	if limit <= 0 {
		limit = 30
	}
	window := cfg.Window
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{client: client, prefix: prefix, limit: limit, window: window}
}

// Allow reports whether the request identified by key fits the current
// window's budget. Redis errors fail open: a broken limiter must not take
// down login.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := l.prefix + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return true, fmt.Errorf("ratelimit incr: %w", err)
	}
	if count == 1 {
		if expireErr := l.client.Expire(ctx, redisKey, l.window).Err(); expireErr != nil {
			return true, fmt.Errorf("ratelimit expire: %w", expireErr)
		}
	}
	return count <= int64(l.limit), nil
}
