package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/config"
)

func TestRateLimiterEnforcesLimit(t *testing.T) {
	_, client := testClient(t)
	limiter := NewRateLimiter(client, config.RateLimitConfig{Enabled: true})
	rule := config.RateLimitRule{Enabled: true, Limit: 3, Window: time.Minute}
	ctx := context.Background()
	key := Key("login", "10.0.0.1")

	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, key, rule)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d", i+1)
	}

	allowed, err := limiter.Allow(ctx, key, rule)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestRateLimiterWindowResets(t *testing.T) {
	mr, client := testClient(t)
	limiter := NewRateLimiter(client, config.RateLimitConfig{Enabled: true})
	rule := config.RateLimitRule{Enabled: true, Limit: 1, Window: time.Minute}
	ctx := context.Background()
	key := Key("login", "10.0.0.2")

	allowed, err := limiter.Allow(ctx, key, rule)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = limiter.Allow(ctx, key, rule)
	require.NoError(t, err)
	assert.False(t, allowed)

	mr.FastForward(2 * time.Minute)

	allowed, err = limiter.Allow(ctx, key, rule)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimiterDisabledRuleAllowsEverything(t *testing.T) {
	_, client := testClient(t)
	ctx := context.Background()

	limiter := NewRateLimiter(client, config.RateLimitConfig{Enabled: true})
	disabled := config.RateLimitRule{Enabled: false, Limit: 1, Window: time.Minute}
	for i := 0; i < 5; i++ {
		allowed, err := limiter.Allow(ctx, Key("login", "10.0.0.3"), disabled)
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	globallyOff := NewRateLimiter(client, config.RateLimitConfig{Enabled: false})
	enabled := config.RateLimitRule{Enabled: true, Limit: 1, Window: time.Minute}
	for i := 0; i < 5; i++ {
		allowed, err := globallyOff.Allow(ctx, Key("login", "10.0.0.3"), enabled)
		require.NoError(t, err)
		assert.True(t, allowed)
	}
}

func TestRateLimiterReset(t *testing.T) {
	_, client := testClient(t)
	limiter := NewRateLimiter(client, config.RateLimitConfig{Enabled: true})
	rule := config.RateLimitRule{Enabled: true, Limit: 1, Window: time.Minute}
	ctx := context.Background()
	key := Key("two_fa", "10.0.0.4")

	allowed, err := limiter.Allow(ctx, key, rule)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = limiter.Allow(ctx, key, rule)
	require.NoError(t, err)
	assert.False(t, allowed)

	require.NoError(t, limiter.Reset(ctx, key))

	allowed, err = limiter.Allow(ctx, key, rule)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimiterCount(t *testing.T) {
	_, client := testClient(t)
	limiter := NewRateLimiter(client, config.RateLimitConfig{Enabled: true})
	rule := config.RateLimitRule{Enabled: true, Limit: 10, Window: time.Minute}
	ctx := context.Background()
	key := Key("register", "10.0.0.5")

	count, err := limiter.Count(ctx, key)
	require.NoError(t, err)
	assert.Zero(t, count)

	for i := 0; i < 4; i++ {
		_, err := limiter.Allow(ctx, key, rule)
		require.NoError(t, err)
	}

	count, err = limiter.Count(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}
