package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/models"
)

// SessionRepository persists device sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Session, error)
	FindActiveByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Session, error)
	CountActiveByUserID(ctx context.Context, userID uuid.UUID) (int, error)
	// FindOldestActiveByUserID returns active sessions ordered by last
	// activity, oldest first, limited to n rows.
	FindOldestActiveByUserID(ctx context.Context, userID uuid.UUID, n int) ([]*models.Session, error)
	Terminate(ctx context.Context, id uuid.UUID, at time.Time) error
	TerminateAllByUserID(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error)
	TerminateAllExcept(ctx context.Context, userID uuid.UUID, keep uuid.UUID, at time.Time) (int64, error)
	UpdateLastActivity(ctx context.Context, id uuid.UUID, at time.Time) error
}
