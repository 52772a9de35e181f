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

// VerificationCodeRepositoryPostgres implements repository.VerificationCodeRepository.
type VerificationCodeRepositoryPostgres struct {
	pool *pgxpool.Pool
}

func NewVerificationCodeRepositoryPostgres(pool *pgxpool.Pool) *VerificationCodeRepositoryPostgres {
	return &VerificationCodeRepositoryPostgres{pool: pool}
}

func (r *VerificationCodeRepositoryPostgres) Create(ctx context.Context, code *models.VerificationCode) error {
	query := `
		INSERT INTO verification_codes (id, user_id, type, code_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if code.CreatedAt.IsZero() {
		code.CreatedAt = time.Now()
	}
	_, err := r.pool.Exec(ctx, query,
		code.ID, code.UserID, code.Type, code.CodeHash, code.ExpiresAt, code.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create verification code: %w", err)
	}
	return nil
}

func (r *VerificationCodeRepositoryPostgres) FindActiveByHash(ctx context.Context, codeHash string, codeType models.VerificationCodeType) (*models.VerificationCode, error) {
	query := `
		SELECT id, user_id, type, code_hash, expires_at, created_at, used_at
		FROM verification_codes
		WHERE code_hash = $1 AND type = $2 AND used_at IS NULL AND expires_at > NOW()
	`
	code := &models.VerificationCode{}
	err := r.pool.QueryRow(ctx, query, codeHash, codeType).Scan(
		&code.ID, &code.UserID, &code.Type, &code.CodeHash,
		&code.ExpiresAt, &code.CreatedAt, &code.UsedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrVerificationCodeInvalid
		}
		return nil, fmt.Errorf("failed to find verification code: %w", err)
	}
	return code, nil
}

func (r *VerificationCodeRepositoryPostgres) MarkUsed(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE verification_codes SET used_at = $1 WHERE id = $2 AND used_at IS NULL`
	result, err := r.pool.Exec(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("failed to mark verification code used: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domainErrors.ErrVerificationCodeInvalid
	}
	return nil
}

func (r *VerificationCodeRepositoryPostgres) InvalidateAllForUser(ctx context.Context, userID uuid.UUID, codeType models.VerificationCodeType) error {
	query := `UPDATE verification_codes SET used_at = NOW() WHERE user_id = $1 AND type = $2 AND used_at IS NULL`
	if _, err := r.pool.Exec(ctx, query, userID, codeType); err != nil {
		return fmt.Errorf("failed to invalidate verification codes: %w", err)
	}
	return nil
}

var _ repository.VerificationCodeRepository = (*VerificationCodeRepositoryPostgres)(nil)
