package redis

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/errors"
)

func TestChallengeStoreConsumeOnce(t *testing.T) {
	_, client := testClient(t)
	store := NewChallengeStore(client)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, store.Put(ctx, "challenge-1", userID, time.Minute))

	got, err := store.Consume(ctx, "challenge-1")
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	_, err = store.Consume(ctx, "challenge-1")
	assert.ErrorIs(t, err, domainErrors.ErrInvalidToken)
}

func TestChallengeStoreUnknownToken(t *testing.T) {
	_, client := testClient(t)
	store := NewChallengeStore(client)

	_, err := store.Consume(context.Background(), "never-issued")
	assert.ErrorIs(t, err, domainErrors.ErrInvalidToken)
}

func TestChallengeStoreExpiredToken(t *testing.T) {
	mr, client := testClient(t)
	store := NewChallengeStore(client)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "challenge-2", uuid.New(), time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := store.Consume(ctx, "challenge-2")
	assert.ErrorIs(t, err, domainErrors.ErrInvalidToken)
}
