package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const blacklistKeyPrefix = "auth:blacklist:jti:"

// TokenBlacklist stores revoked access token JTIs until their natural expiry.
// A blacklisted JTI fails validation even though the token signature is valid.
type TokenBlacklist struct {
	client *redis.Client
}

func NewTokenBlacklist(client *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{client: client}
}

// Add blacklists a JTI for ttl. Tokens past their expiry need no entry, so a
// non-positive ttl is a no-op.
func (b *TokenBlacklist) Add(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, blacklistKeyPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

// Contains reports whether the JTI has been blacklisted.
func (b *TokenBlacklist) Contains(ctx context.Context, jti string) (bool, error) {
	result, err := b.client.Exists(ctx, blacklistKeyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return result > 0, nil
}
