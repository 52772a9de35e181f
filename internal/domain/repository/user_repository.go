package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/models"
)

// UserRepository persists user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.UserStatus) error
	SetEmailVerifiedAt(ctx context.Context, id uuid.UUID, verifiedAt time.Time) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	IncrementFailedLoginAttempts(ctx context.Context, id uuid.UUID) (int, error)
	ResetFailedLoginAttempts(ctx context.Context, id uuid.UUID) error
	SetLockout(ctx context.Context, id uuid.UUID, lockoutUntil *time.Time) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, lastLoginAt time.Time) error
	List(ctx context.Context, params models.ListUsersParams) ([]*models.User, int, error)
}
