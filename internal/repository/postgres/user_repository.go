package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/errors"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/models"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/repository"
)

const userColumns = `id, username, email, password_hash, status,
       email_verified_at, last_login_at, failed_login_attempts, lockout_until,
       created_at, updated_at, deleted_at`

// UserRepositoryPostgres implements repository.UserRepository.
type UserRepositoryPostgres struct {
	pool *pgxpool.Pool
}

func NewUserRepositoryPostgres(pool *pgxpool.Pool) *UserRepositoryPostgres {
	return &UserRepositoryPostgres{pool: pool}
}

func (r *UserRepositoryPostgres) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, status,
		                   email_verified_at, failed_login_attempts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
	`
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	_, err := r.pool.Exec(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.Status,
		user.EmailVerifiedAt, user.FailedLoginAttempts, user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if strings.Contains(pgErr.ConstraintName, "users_email") {
				return domainErrors.ErrEmailExists
			}
			if strings.Contains(pgErr.ConstraintName, "users_username") {
				return domainErrors.ErrUsernameExists
			}
			return domainErrors.ErrDuplicateValue
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepositoryPostgres) findOne(ctx context.Context, where string, arg interface{}) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where + ` AND deleted_at IS NULL`
	user := &models.User{}
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Status,
		&user.EmailVerifiedAt, &user.LastLoginAt, &user.FailedLoginAttempts, &user.LockoutUntil,
		&user.CreatedAt, &user.UpdatedAt, &user.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func (r *UserRepositoryPostgres) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.findOne(ctx, "id = $1", id)
}

func (r *UserRepositoryPostgres) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email = $1", email)
}

func (r *UserRepositoryPostgres) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, "username = $1", username)
}

func (r *UserRepositoryPostgres) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET username = $1, email = $2, password_hash = $3, status = $4,
		    email_verified_at = $5, last_login_at = $6, failed_login_attempts = $7,
		    lockout_until = $8, updated_at = NOW()
		WHERE id = $9 AND deleted_at IS NULL
	`
	result, err := r.pool.Exec(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.Status,
		user.EmailVerifiedAt, user.LastLoginAt, user.FailedLoginAttempts,
		user.LockoutUntil, user.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domainErrors.ErrDuplicateValue
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domainErrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryPostgres) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE users SET deleted_at = NOW(), status = $1, updated_at = NOW()
		WHERE id = $2 AND deleted_at IS NULL
	`
	result, err := r.pool.Exec(ctx, query, models.UserStatusDeleted, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domainErrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryPostgres) UpdateStatus(ctx context.Context, id uuid.UUID, status models.UserStatus) error {
	return r.exec(ctx, `UPDATE users SET status = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL`, status, id)
}

func (r *UserRepositoryPostgres) SetEmailVerifiedAt(ctx context.Context, id uuid.UUID, verifiedAt time.Time) error {
	return r.exec(ctx, `UPDATE users SET email_verified_at = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL`, verifiedAt, id)
}

func (r *UserRepositoryPostgres) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.exec(ctx, `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL`, passwordHash, id)
}

// IncrementFailedLoginAttempts bumps the counter and returns the new value.
func (r *UserRepositoryPostgres) IncrementFailedLoginAttempts(ctx context.Context, id uuid.UUID) (int, error) {
	query := `
		UPDATE users SET failed_login_attempts = failed_login_attempts + 1, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING failed_login_attempts
	`
	var attempts int
	err := r.pool.QueryRow(ctx, query, id).Scan(&attempts)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domainErrors.ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to increment failed login attempts: %w", err)
	}
	return attempts, nil
}

func (r *UserRepositoryPostgres) ResetFailedLoginAttempts(ctx context.Context, id uuid.UUID) error {
	return r.exec(ctx, `UPDATE users SET failed_login_attempts = 0, lockout_until = NULL, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
}

func (r *UserRepositoryPostgres) SetLockout(ctx context.Context, id uuid.UUID, lockoutUntil *time.Time) error {
	return r.exec(ctx, `UPDATE users SET lockout_until = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL`, lockoutUntil, id)
}

func (r *UserRepositoryPostgres) UpdateLastLogin(ctx context.Context, id uuid.UUID, lastLoginAt time.Time) error {
	return r.exec(ctx, `UPDATE users SET last_login_at = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL`, lastLoginAt, id)
}

func (r *UserRepositoryPostgres) exec(ctx context.Context, query string, args ...interface{}) error {
	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domainErrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryPostgres) List(ctx context.Context, params models.ListUsersParams) ([]*models.User, int, error) {
	var users []*models.User
	var totalCount int

	conditions := []string{"deleted_at IS NULL"}
	args := []interface{}{}
	argCount := 1

	if params.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCount))
		args = append(args, params.Status)
		argCount++
	}
	if params.UsernameContains != "" {
		conditions = append(conditions, fmt.Sprintf("username ILIKE $%d", argCount))
		args = append(args, "%"+params.UsernameContains+"%")
		argCount++
	}
	if params.EmailContains != "" {
		conditions = append(conditions, fmt.Sprintf("email ILIKE $%d", argCount))
		args = append(args, "%"+params.EmailContains+"%")
		argCount++
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`+whereClause, args...).Scan(&totalCount)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}
	if totalCount == 0 {
		return users, 0, nil
	}

	query := `SELECT ` + userColumns + ` FROM users` + whereClause + ` ORDER BY created_at DESC`
	if params.PageSize > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, params.PageSize)
		argCount++
		if params.Page > 1 {
			query += fmt.Sprintf(" OFFSET $%d", argCount)
			args = append(args, (params.Page-1)*params.PageSize)
		}
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		user := &models.User{}
		err := rows.Scan(
			&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Status,
			&user.EmailVerifiedAt, &user.LastLoginAt, &user.FailedLoginAttempts, &user.LockoutUntil,
			&user.CreatedAt, &user.UpdatedAt, &user.DeletedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, user)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating user rows: %w", err)
	}

	return users, totalCount, nil
}

var _ repository.UserRepository = (*UserRepositoryPostgres)(nil)
