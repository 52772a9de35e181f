package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/models"
)

// RefreshTokenRepository persists hashed refresh tokens.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	FindByHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uuid.UUID, at time.Time, reason string) error
	RevokeBySessionID(ctx context.Context, sessionID uuid.UUID, at time.Time, reason string) (int64, error)
	RevokeAllByUserID(ctx context.Context, userID uuid.UUID, at time.Time, reason string) (int64, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// VerificationCodeRepository persists hashed email-verification and
// password-reset codes.
type VerificationCodeRepository interface {
	Create(ctx context.Context, code *models.VerificationCode) error
	FindActiveByHash(ctx context.Context, codeHash string, codeType models.VerificationCodeType) (*models.VerificationCode, error)
	MarkUsed(ctx context.Context, id uuid.UUID, at time.Time) error
	InvalidateAllForUser(ctx context.Context, userID uuid.UUID, codeType models.VerificationCodeType) error
}
