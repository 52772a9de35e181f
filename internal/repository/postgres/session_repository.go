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

const sessionColumns = `id, user_id, ip_address, user_agent, device_info,
       expires_at, created_at, last_activity_at, terminated_at`

// SessionRepositoryPostgres implements repository.SessionRepository.
type SessionRepositoryPostgres struct {
	pool *pgxpool.Pool
}

func NewSessionRepositoryPostgres(pool *pgxpool.Pool) *SessionRepositoryPostgres {
	return &SessionRepositoryPostgres{pool: pool}
}

func (r *SessionRepositoryPostgres) Create(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (id, user_id, ip_address, user_agent, device_info,
		                      expires_at, created_at, last_activity_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	`
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	_, err := r.pool.Exec(ctx, query,
		session.ID, session.UserID, session.IPAddress, session.UserAgent,
		session.DeviceInfo, session.ExpiresAt, session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *SessionRepositoryPostgres) FindByID(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`
	session := &models.Session{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&session.ID, &session.UserID, &session.IPAddress, &session.UserAgent,
		&session.DeviceInfo, &session.ExpiresAt, &session.CreatedAt,
		&session.LastActivityAt, &session.TerminatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	return session, nil
}

func (r *SessionRepositoryPostgres) FindActiveByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE user_id = $1 AND terminated_at IS NULL AND expires_at > NOW()
		ORDER BY last_activity_at DESC
	`
	return r.queryMany(ctx, query, userID)
}

func (r *SessionRepositoryPostgres) CountActiveByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*) FROM sessions
		WHERE user_id = $1 AND terminated_at IS NULL AND expires_at > NOW()
	`
	var count int
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count active sessions: %w", err)
	}
	return count, nil
}

func (r *SessionRepositoryPostgres) FindOldestActiveByUserID(ctx context.Context, userID uuid.UUID, n int) ([]*models.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE user_id = $1 AND terminated_at IS NULL AND expires_at > NOW()
		ORDER BY last_activity_at ASC
		LIMIT $2
	`
	return r.queryMany(ctx, query, userID, n)
}

func (r *SessionRepositoryPostgres) Terminate(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE sessions SET terminated_at = $1 WHERE id = $2 AND terminated_at IS NULL`
	result, err := r.pool.Exec(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("failed to terminate session: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domainErrors.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepositoryPostgres) TerminateAllByUserID(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	query := `UPDATE sessions SET terminated_at = $1 WHERE user_id = $2 AND terminated_at IS NULL`
	result, err := r.pool.Exec(ctx, query, at, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to terminate user sessions: %w", err)
	}
	return result.RowsAffected(), nil
}

func (r *SessionRepositoryPostgres) TerminateAllExcept(ctx context.Context, userID uuid.UUID, keep uuid.UUID, at time.Time) (int64, error) {
	query := `UPDATE sessions SET terminated_at = $1 WHERE user_id = $2 AND id <> $3 AND terminated_at IS NULL`
	result, err := r.pool.Exec(ctx, query, at, userID, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to terminate user sessions: %w", err)
	}
	return result.RowsAffected(), nil
}

func (r *SessionRepositoryPostgres) UpdateLastActivity(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE sessions SET last_activity_at = $1 WHERE id = $2 AND terminated_at IS NULL`
	result, err := r.pool.Exec(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("failed to update session activity: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domainErrors.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepositoryPostgres) queryMany(ctx context.Context, query string, args ...interface{}) ([]*models.Session, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.Session
	for rows.Next() {
		session := &models.Session{}
		err := rows.Scan(
			&session.ID, &session.UserID, &session.IPAddress, &session.UserAgent,
			&session.DeviceInfo, &session.ExpiresAt, &session.CreatedAt,
			&session.LastActivityAt, &session.TerminatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating session rows: %w", err)
	}
	return sessions, nil
}

var _ repository.SessionRepository = (*SessionRepositoryPostgres)(nil)
