package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	domainErrors "github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/errors"
)

const challengeKeyPrefix = "auth:2fa:challenge:"

// ChallengeStore holds short-lived two-factor challenge tokens. A challenge is
// issued after a correct password when the account has 2FA enabled, and is
// consumed exactly once by the code verification step.
type ChallengeStore struct {
	client *redis.Client
}

func NewChallengeStore(client *redis.Client) *ChallengeStore {
	return &ChallengeStore{client: client}
}

func (s *ChallengeStore) Put(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	if err := s.client.Set(ctx, challengeKeyPrefix+token, userID.String(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to store 2fa challenge: %w", err)
	}
	return nil
}

// Consume atomically fetches and deletes the challenge, returning the user it
// was issued for. An unknown or expired token yields ErrInvalidToken.
func (s *ChallengeStore) Consume(ctx context.Context, token string) (uuid.UUID, error) {
	value, err := s.client.GetDel(ctx, challengeKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, domainErrors.ErrInvalidToken
		}
		return uuid.Nil, fmt.Errorf("failed to consume 2fa challenge: %w", err)
	}
	userID, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("malformed 2fa challenge payload: %w", err)
	}
	return userID, nil
}
