package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter implements Limiter on a fixed window counter shared across
// replicas. The fixed window trades the sliding window's boundary precision
// for a single round trip per check.
type RedisLimiter struct {
	client *redis.Client
	prefix string
}

func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: "fismapp:ratelimit:"}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error) {
	bucket := l.prefix + key

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, bucket)
	pipe.ExpireNX(ctx, bucket, window)
	ttl := pipe.PTTL(ctx, bucket)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("ratelimit redis: %w", err)
	}

	count := int(incr.Val())
	resetAt := time.Now().Add(window)
	if d := ttl.Val(); d > 0 {
		resetAt = time.Now().Add(d)
	}

	if count > limit {
		return &Result{Allowed: false, Limit: limit, ResetAt: resetAt}, nil
	}
	return &Result{Allowed: true, Limit: limit, Remaining: limit - count, ResetAt: resetAt}, nil
}
