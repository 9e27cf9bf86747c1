package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/propgate/propgate/internal/core/ports"
)

// RedisRateLimitStore counts requests in fixed windows with shared Redis
// state, preserving the limit across horizontally scaled instances. The
// fixed window is a coarser approximation than the in-memory sliding list.
type RedisRateLimitStore struct {
	r         redis.Cmdable
	keyPrefix string
}

func NewRedisRateLimitStore(r redis.Cmdable, keyPrefix string) *RedisRateLimitStore {
	if keyPrefix == "" {
		keyPrefix = "ratelimit"
	}
	return &RedisRateLimitStore{r: r, keyPrefix: keyPrefix}
}

// Check atomically increments the window counter and ensures expiry.
func (s *RedisRateLimitStore) Check(ctx context.Context, key string, limit int, window time.Duration) (ports.RateLimitResult, error) {
	now := time.Now()
	windowStart := now.Truncate(window)
	redisKey := fmt.Sprintf("%s:%s:%d", s.keyPrefix, key, windowStart.Unix())

	pipe := s.r.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, window*2)
	if _, err := pipe.Exec(ctx); err != nil {
		return ports.RateLimitResult{}, err
	}

	count := int(incr.Val())
	resetSeconds := int(windowStart.Add(window).Sub(now).Seconds())
	if count > limit {
		return ports.RateLimitResult{Allowed: false, Remaining: 0, Limit: limit, ResetSeconds: resetSeconds}, nil
	}
	return ports.RateLimitResult{Allowed: true, Remaining: limit - count, Limit: limit}, nil
}
