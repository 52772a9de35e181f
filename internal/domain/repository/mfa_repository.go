package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/models"
)

// MFASecretRepository persists per-user TOTP secrets.
type MFASecretRepository interface {
	Create(ctx context.Context, secret *models.MFASecret) error
	Update(ctx context.Context, secret *models.MFASecret) error
	FindByUserIDAndType(ctx context.Context, userID uuid.UUID, mfaType models.MFAType) (*models.MFASecret, error)
	DeleteByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
}

// MFABackupCodeRepository persists single-use recovery codes.
type MFABackupCodeRepository interface {
	CreateBatch(ctx context.Context, codes []*models.MFABackupCode) error
	FindActiveByUserID(ctx context.Context, userID uuid.UUID) ([]*models.MFABackupCode, error)
	CountActiveByUserID(ctx context.Context, userID uuid.UUID) (int, error)
	MarkUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
}
