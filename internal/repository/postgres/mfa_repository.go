package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/errors"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/models"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/repository"
)

// MFASecretRepositoryPostgres implements repository.MFASecretRepository.
type MFASecretRepositoryPostgres struct {
	pool *pgxpool.Pool
}

func NewMFASecretRepositoryPostgres(pool *pgxpool.Pool) *MFASecretRepositoryPostgres {
	return &MFASecretRepositoryPostgres{pool: pool}
}

func (r *MFASecretRepositoryPostgres) Create(ctx context.Context, secret *models.MFASecret) error {
	query := `
		INSERT INTO mfa_secrets (id, user_id, type, secret_encrypted, verified, failed_attempts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	`
	if secret.CreatedAt.IsZero() {
		secret.CreatedAt = time.Now()
	}
	_, err := r.pool.Exec(ctx, query,
		secret.ID, secret.UserID, secret.Type, secret.SecretEncrypted,
		secret.Verified, secret.FailedAttempts, secret.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domainErrors.Err2FAAlreadyEnabled
		}
		return fmt.Errorf("failed to create mfa secret: %w", err)
	}
	return nil
}

func (r *MFASecretRepositoryPostgres) Update(ctx context.Context, secret *models.MFASecret) error {
	query := `
		UPDATE mfa_secrets
		SET secret_encrypted = $1, verified = $2, failed_attempts = $3, updated_at = NOW()
		WHERE id = $4
	`
	result, err := r.pool.Exec(ctx, query,
		secret.SecretEncrypted, secret.Verified, secret.FailedAttempts, secret.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update mfa secret: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domainErrors.Err2FANotEnabled
	}
	return nil
}

func (r *MFASecretRepositoryPostgres) FindByUserIDAndType(ctx context.Context, userID uuid.UUID, mfaType models.MFAType) (*models.MFASecret, error) {
	query := `
		SELECT id, user_id, type, secret_encrypted, verified, failed_attempts, created_at, updated_at
		FROM mfa_secrets
		WHERE user_id = $1 AND type = $2
	`
	secret := &models.MFASecret{}
	err := r.pool.QueryRow(ctx, query, userID, mfaType).Scan(
		&secret.ID, &secret.UserID, &secret.Type, &secret.SecretEncrypted,
		&secret.Verified, &secret.FailedAttempts, &secret.CreatedAt, &secret.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.Err2FANotEnabled
		}
		return nil, fmt.Errorf("failed to find mfa secret: %w", err)
	}
	return secret, nil
}

func (r *MFASecretRepositoryPostgres) DeleteByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM mfa_secrets WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete mfa secrets: %w", err)
	}
	return result.RowsAffected(), nil
}

var _ repository.MFASecretRepository = (*MFASecretRepositoryPostgres)(nil)

// MFABackupCodeRepositoryPostgres implements repository.MFABackupCodeRepository.
type MFABackupCodeRepositoryPostgres struct {
	pool *pgxpool.Pool
}

func NewMFABackupCodeRepositoryPostgres(pool *pgxpool.Pool) *MFABackupCodeRepositoryPostgres {
	return &MFABackupCodeRepositoryPostgres{pool: pool}
}

func (r *MFABackupCodeRepositoryPostgres) CreateBatch(ctx context.Context, codes []*models.MFABackupCode) error {
	if len(codes) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `
		INSERT INTO mfa_backup_codes (id, user_id, code_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`
	now := time.Now()
	for _, code := range codes {
		if code.CreatedAt.IsZero() {
			code.CreatedAt = now
		}
		batch.Queue(query, code.ID, code.UserID, code.CodeHash, code.CreatedAt)
	}
	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range codes {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to create backup codes: %w", err)
		}
	}
	return nil
}

func (r *MFABackupCodeRepositoryPostgres) FindActiveByUserID(ctx context.Context, userID uuid.UUID) ([]*models.MFABackupCode, error) {
	query := `
		SELECT id, user_id, code_hash, used_at, created_at
		FROM mfa_backup_codes
		WHERE user_id = $1 AND used_at IS NULL
		ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query backup codes: %w", err)
	}
	defer rows.Close()

	var codes []*models.MFABackupCode
	for rows.Next() {
		code := &models.MFABackupCode{}
		if err := rows.Scan(&code.ID, &code.UserID, &code.CodeHash, &code.UsedAt, &code.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan backup code row: %w", err)
		}
		codes = append(codes, code)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating backup code rows: %w", err)
	}
	return codes, nil
}

func (r *MFABackupCodeRepositoryPostgres) CountActiveByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM mfa_backup_codes WHERE user_id = $1 AND used_at IS NULL`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count backup codes: %w", err)
	}
	return count, nil
}

func (r *MFABackupCodeRepositoryPostgres) MarkUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	query := `UPDATE mfa_backup_codes SET used_at = $1 WHERE id = $2 AND used_at IS NULL`
	result, err := r.pool.Exec(ctx, query, usedAt, id)
	if err != nil {
		return fmt.Errorf("failed to mark backup code used: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domainErrors.ErrInvalidBackupCode
	}
	return nil
}

func (r *MFABackupCodeRepositoryPostgres) DeleteByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM mfa_backup_codes WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete backup codes: %w", err)
	}
	return result.RowsAffected(), nil
}

var _ repository.MFABackupCodeRepository = (*MFABackupCodeRepositoryPostgres)(nil)
