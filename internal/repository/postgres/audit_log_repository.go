package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/errors"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/models"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/repository"
)

const auditLogColumns = `id, actor_id, action, target_type, target_id,
       ip_address, user_agent, status, details, created_at`

// AuditLogRepositoryPostgres implements repository.AuditLogRepository.
// The audit trail is append-only so only Create and read methods exist.
type AuditLogRepositoryPostgres struct {
	pool *pgxpool.Pool
}

func NewAuditLogRepositoryPostgres(pool *pgxpool.Pool) *AuditLogRepositoryPostgres {
	return &AuditLogRepositoryPostgres{pool: pool}
}

func (r *AuditLogRepositoryPostgres) Create(ctx context.Context, entry *models.AuditLog) error {
	query := `
		INSERT INTO audit_logs (actor_id, action, target_type, target_id,
		                        ip_address, user_agent, status, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	err := r.pool.QueryRow(ctx, query,
		entry.ActorID, entry.Action, entry.TargetType, entry.TargetID,
		entry.IPAddress, entry.UserAgent, entry.Status, entry.Details, entry.CreatedAt,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("failed to create audit log entry: %w", err)
	}
	return nil
}

func (r *AuditLogRepositoryPostgres) FindByID(ctx context.Context, id int64) (*models.AuditLog, error) {
	query := `SELECT ` + auditLogColumns + ` FROM audit_logs WHERE id = $1`
	entry := &models.AuditLog{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&entry.ID, &entry.ActorID, &entry.Action, &entry.TargetType, &entry.TargetID,
		&entry.IPAddress, &entry.UserAgent, &entry.Status, &entry.Details, &entry.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find audit log entry: %w", err)
	}
	return entry, nil
}

func (r *AuditLogRepositoryPostgres) List(ctx context.Context, params models.ListAuditLogsParams) ([]*models.AuditLog, int, error) {
	conditions := []string{}
	args := []interface{}{}
	argCount := 1

	addCondition := func(expr string, value interface{}) {
		conditions = append(conditions, fmt.Sprintf(expr, argCount))
		args = append(args, value)
		argCount++
	}

	if params.ActorID != nil {
		addCondition("actor_id = $%d", *params.ActorID)
	}
	if params.Action != nil {
		addCondition("action = $%d", *params.Action)
	}
	if params.Status != nil {
		addCondition("status = $%d", *params.Status)
	}
	if params.DateFrom != nil {
		addCondition("created_at >= $%d", *params.DateFrom)
	}
	if params.DateTo != nil {
		addCondition("created_at <= $%d", *params.DateTo)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var totalCount int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM audit_logs`+whereClause, args...).Scan(&totalCount)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count audit log entries: %w", err)
	}

	var entries []*models.AuditLog
	if totalCount == 0 {
		return entries, 0, nil
	}

	query := `SELECT ` + auditLogColumns + ` FROM audit_logs` + whereClause + ` ORDER BY created_at DESC`
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
		return nil, 0, fmt.Errorf("failed to list audit log entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		entry := &models.AuditLog{}
		err := rows.Scan(
			&entry.ID, &entry.ActorID, &entry.Action, &entry.TargetType, &entry.TargetID,
			&entry.IPAddress, &entry.UserAgent, &entry.Status, &entry.Details, &entry.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan audit log row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating audit log rows: %w", err)
	}

	return entries, totalCount, nil
}

var _ repository.AuditLogRepository = (*AuditLogRepositoryPostgres)(nil)
