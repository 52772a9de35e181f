package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestTokenBlacklistAddAndContains(t *testing.T) {
	_, client := testClient(t)
	blacklist := NewTokenBlacklist(client)
	ctx := context.Background()

	found, err := blacklist.Contains(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, blacklist.Add(ctx, "jti-1", time.Minute))

	found, err = blacklist.Contains(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestTokenBlacklistSkipsNonPositiveTTL(t *testing.T) {
	mr, client := testClient(t)
	blacklist := NewTokenBlacklist(client)
	ctx := context.Background()

	require.NoError(t, blacklist.Add(ctx, "jti-expired", 0))
	require.NoError(t, blacklist.Add(ctx, "jti-expired", -time.Minute))
	assert.Empty(t, mr.Keys())
}

func TestTokenBlacklistEntryExpires(t *testing.T) {
	mr, client := testClient(t)
	blacklist := NewTokenBlacklist(client)
	ctx := context.Background()

	require.NoError(t, blacklist.Add(ctx, "jti-2", time.Minute))
	mr.FastForward(2 * time.Minute)

	found, err := blacklist.Contains(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, found)
}
