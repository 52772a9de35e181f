package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/errors"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/models"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/repository"
)

// GamificationRepositoryPostgres implements repository.GamificationRepository.
// Point entries are append-only; balances are derived by summing the ledger.
type GamificationRepositoryPostgres struct {
	pool *pgxpool.Pool
}

func NewGamificationRepositoryPostgres(pool *pgxpool.Pool) *GamificationRepositoryPostgres {
	return &GamificationRepositoryPostgres{pool: pool}
}

func (r *GamificationRepositoryPostgres) CreatePointEntry(ctx context.Context, entry *models.PointEntry) error {
	query := `
		INSERT INTO point_entries (id, user_id, points, reason, ref_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	_, err := r.pool.Exec(ctx, query,
		entry.ID, entry.UserID, entry.Points, entry.Reason, entry.RefID, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create point entry: %w", err)
	}
	return nil
}

func (r *GamificationRepositoryPostgres) SumPointsByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(points), 0) FROM point_entries WHERE user_id = $1`, userID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum points: %w", err)
	}
	return total, nil
}

func (r *GamificationRepositoryPostgres) ListPointEntries(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*models.PointEntry, int, error) {
	var totalCount int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM point_entries WHERE user_id = $1`, userID,
	).Scan(&totalCount)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count point entries: %w", err)
	}

	var entries []*models.PointEntry
	if totalCount == 0 {
		return entries, 0, nil
	}

	query := `
		SELECT id, user_id, points, reason, ref_id, created_at
		FROM point_entries WHERE user_id = $1 ORDER BY created_at DESC
	`
	args := []interface{}{userID}
	if pageSize > 0 {
		query += " LIMIT $2"
		args = append(args, pageSize)
		if page > 1 {
			query += " OFFSET $3"
			args = append(args, (page-1)*pageSize)
		}
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list point entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		entry := &models.PointEntry{}
		err := rows.Scan(&entry.ID, &entry.UserID, &entry.Points, &entry.Reason,
			&entry.RefID, &entry.CreatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan point entry row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating point entry rows: %w", err)
	}

	return entries, totalCount, nil
}

func (r *GamificationRepositoryPostgres) ListBadges(ctx context.Context) ([]*models.Badge, error) {
	query := `SELECT id, name, description, point_threshold, created_at FROM badges ORDER BY point_threshold`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list badges: %w", err)
	}
	defer rows.Close()

	var badges []*models.Badge
	for rows.Next() {
		badge := &models.Badge{}
		if err := rows.Scan(&badge.ID, &badge.Name, &badge.Description, &badge.PointThreshold, &badge.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan badge row: %w", err)
		}
		badges = append(badges, badge)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating badge rows: %w", err)
	}
	return badges, nil
}

func (r *GamificationRepositoryPostgres) CreateBadge(ctx context.Context, badge *models.Badge) error {
	query := `
		INSERT INTO badges (id, name, description, point_threshold, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if badge.CreatedAt.IsZero() {
		badge.CreatedAt = time.Now()
	}
	_, err := r.pool.Exec(ctx, query,
		badge.ID, badge.Name, badge.Description, badge.PointThreshold, badge.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domainErrors.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create badge: %w", err)
	}
	return nil
}

func (r *GamificationRepositoryPostgres) ListUserBadges(ctx context.Context, userID uuid.UUID) ([]*models.Badge, error) {
	query := `
		SELECT b.id, b.name, b.description, b.point_threshold, b.created_at
		FROM badges b
		JOIN user_badges ub ON ub.badge_id = b.id
		WHERE ub.user_id = $1
		ORDER BY ub.awarded_at
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user badges: %w", err)
	}
	defer rows.Close()

	var badges []*models.Badge
	for rows.Next() {
		badge := &models.Badge{}
		if err := rows.Scan(&badge.ID, &badge.Name, &badge.Description, &badge.PointThreshold, &badge.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan badge row: %w", err)
		}
		badges = append(badges, badge)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating badge rows: %w", err)
	}
	return badges, nil
}

// AwardBadge is idempotent: awarding an already held badge is a no-op.
func (r *GamificationRepositoryPostgres) AwardBadge(ctx context.Context, userID, badgeID uuid.UUID, at time.Time) error {
	query := `
		INSERT INTO user_badges (user_id, badge_id, awarded_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, badge_id) DO NOTHING
	`
	if _, err := r.pool.Exec(ctx, query, userID, badgeID, at); err != nil {
		return fmt.Errorf("failed to award badge: %w", err)
	}
	return nil
}

var _ repository.GamificationRepository = (*GamificationRepositoryPostgres)(nil)
