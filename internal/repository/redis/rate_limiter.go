package redis

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/config"
)

// RateLimiter is a fixed-window counter backed by Redis INCR and EXPIRE.
type RateLimiter struct {
	client *redis.Client
	cfg    config.RateLimitConfig
}

func NewRateLimiter(client *redis.Client, cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{client: client, cfg: cfg}
}

// Allow increments the window counter for key and reports whether the request
// stays within the rule. Rate limiting fails open: a Redis error allows the
// request and is returned for the caller to log.
func (l *RateLimiter) Allow(ctx context.Context, key string, rule config.RateLimitRule) (bool, error) {
	if !l.cfg.Enabled || !rule.Enabled || rule.Limit <= 0 {
		return true, nil
	}

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return true, fmt.Errorf("rate limit incr failed: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, rule.Window).Err(); err != nil {
			return true, fmt.Errorf("rate limit expire failed: %w", err)
		}
	}
	return count <= int64(rule.Limit), nil
}

// Reset clears the window counter for key.
func (l *RateLimiter) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("rate limit reset failed: %w", err)
	}
	return nil
}

// Key builds a namespaced rate limit key such as "ratelimit:login:1.2.3.4".
func Key(action, subject string) string {
	return "ratelimit:" + action + ":" + subject
}

// Count returns the current window counter for key.
func (l *RateLimiter) Count(ctx context.Context, key string) (int64, error) {
	count, err := l.client.Get(ctx, key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("rate limit get failed: %w", err)
	}
	return count, nil
}
