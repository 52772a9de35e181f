package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/errors"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/models"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/repository"
)

// RefreshTokenRepositoryPostgres implements repository.RefreshTokenRepository.
type RefreshTokenRepositoryPostgres struct {
	pool *pgxpool.Pool
}

func NewRefreshTokenRepositoryPostgres(pool *pgxpool.Pool) *RefreshTokenRepositoryPostgres {
	return &RefreshTokenRepositoryPostgres{pool: pool}
}

func (r *RefreshTokenRepositoryPostgres) Create(ctx context.Context, token *models.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (id, session_id, user_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}
	_, err := r.pool.Exec(ctx, query,
		token.ID, token.SessionID, token.UserID, token.TokenHash, token.ExpiresAt, token.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepositoryPostgres) FindByHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	query := `
		SELECT id, session_id, user_id, token_hash, expires_at, created_at, revoked_at, revoked_reason
		FROM refresh_tokens
		WHERE token_hash = $1
	`
	token := &models.RefreshToken{}
	err := r.pool.QueryRow(ctx, query, tokenHash).Scan(
		&token.ID, &token.SessionID, &token.UserID, &token.TokenHash,
		&token.ExpiresAt, &token.CreatedAt, &token.RevokedAt, &token.RevokedReason,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to find refresh token: %w", err)
	}
	return token, nil
}

func (r *RefreshTokenRepositoryPostgres) Revoke(ctx context.Context, id uuid.UUID, at time.Time, reason string) error {
	query := `
		UPDATE refresh_tokens SET revoked_at = $1, revoked_reason = $2
		WHERE id = $3 AND revoked_at IS NULL
	`
	result, err := r.pool.Exec(ctx, query, at, reason, id)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domainErrors.ErrInvalidRefreshToken
	}
	return nil
}

func (r *RefreshTokenRepositoryPostgres) RevokeBySessionID(ctx context.Context, sessionID uuid.UUID, at time.Time, reason string) (int64, error) {
	query := `
		UPDATE refresh_tokens SET revoked_at = $1, revoked_reason = $2
		WHERE session_id = $3 AND revoked_at IS NULL
	`
	result, err := r.pool.Exec(ctx, query, at, reason, sessionID)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke session refresh tokens: %w", err)
	}
	return result.RowsAffected(), nil
}

func (r *RefreshTokenRepositoryPostgres) RevokeAllByUserID(ctx context.Context, userID uuid.UUID, at time.Time, reason string) (int64, error) {
	query := `
		UPDATE refresh_tokens SET revoked_at = $1, revoked_reason = $2
		WHERE user_id = $3 AND revoked_at IS NULL
	`
	result, err := r.pool.Exec(ctx, query, at, reason, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke user refresh tokens: %w", err)
	}
	return result.RowsAffected(), nil
}

func (r *RefreshTokenRepositoryPostgres) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired refresh tokens: %w", err)
	}
	return result.RowsAffected(), nil
}

var _ repository.RefreshTokenRepository = (*RefreshTokenRepositoryPostgres)(nil)
