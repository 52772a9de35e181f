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

const eventColumns = `id, organizer_id, title, description, venue, mode, status,
       capacity, starts_at, ends_at, created_at, updated_at`

const registrationColumns = `id, event_id, user_id, mode, status, created_at, updated_at`

// EventRepositoryPostgres implements repository.EventRepository.
type EventRepositoryPostgres struct {
	pool *pgxpool.Pool
}

func NewEventRepositoryPostgres(pool *pgxpool.Pool) *EventRepositoryPostgres {
	return &EventRepositoryPostgres{pool: pool}
}

func (r *EventRepositoryPostgres) Create(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events (id, organizer_id, title, description, venue, mode, status,
		                    capacity, starts_at, ends_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
	`
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	_, err := r.pool.Exec(ctx, query,
		event.ID, event.OrganizerID, event.Title, event.Description, event.Venue,
		event.Mode, event.Status, event.Capacity, event.StartsAt, event.EndsAt,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *EventRepositoryPostgres) Update(ctx context.Context, event *models.Event) error {
	query := `
		UPDATE events
		SET title = $1, description = $2, venue = $3, mode = $4, capacity = $5,
		    starts_at = $6, ends_at = $7, updated_at = NOW()
		WHERE id = $8
	`
	result, err := r.pool.Exec(ctx, query,
		event.Title, event.Description, event.Venue, event.Mode, event.Capacity,
		event.StartsAt, event.EndsAt, event.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domainErrors.ErrEventNotFound
	}
	return nil
}

func (r *EventRepositoryPostgres) FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	event := &models.Event{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&event.ID, &event.OrganizerID, &event.Title, &event.Description, &event.Venue,
		&event.Mode, &event.Status, &event.Capacity, &event.StartsAt, &event.EndsAt,
		&event.CreatedAt, &event.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}
	return event, nil
}

func (r *EventRepositoryPostgres) List(ctx context.Context, params models.ListEventsParams) ([]*models.Event, int, error) {
	conditions := []string{}
	args := []interface{}{}
	argCount := 1

	if params.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCount))
		args = append(args, params.Status)
		argCount++
	}
	if params.OrganizerID != nil {
		conditions = append(conditions, fmt.Sprintf("organizer_id = $%d", argCount))
		args = append(args, *params.OrganizerID)
		argCount++
	}
	if params.From != nil {
		conditions = append(conditions, fmt.Sprintf("starts_at >= $%d", argCount))
		args = append(args, *params.From)
		argCount++
	}
	if params.To != nil {
		conditions = append(conditions, fmt.Sprintf("starts_at <= $%d", argCount))
		args = append(args, *params.To)
		argCount++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var totalCount int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM events`+whereClause, args...).Scan(&totalCount)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	var events []*models.Event
	if totalCount == 0 {
		return events, 0, nil
	}

	query := `SELECT ` + eventColumns + ` FROM events` + whereClause + ` ORDER BY starts_at`
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
		return nil, 0, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		event := &models.Event{}
		err := rows.Scan(
			&event.ID, &event.OrganizerID, &event.Title, &event.Description, &event.Venue,
			&event.Mode, &event.Status, &event.Capacity, &event.StartsAt, &event.EndsAt,
			&event.CreatedAt, &event.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, event)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating event rows: %w", err)
	}

	return events, totalCount, nil
}

func (r *EventRepositoryPostgres) UpdateStatus(ctx context.Context, id uuid.UUID, status models.EventStatus) error {
	query := `UPDATE events SET status = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update event status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domainErrors.ErrEventNotFound
	}
	return nil
}

func (r *EventRepositoryPostgres) CreateRegistration(ctx context.Context, reg *models.Registration) error {
	query := `
		INSERT INTO registrations (id, event_id, user_id, mode, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
	`
	if reg.CreatedAt.IsZero() {
		reg.CreatedAt = time.Now()
	}
	_, err := r.pool.Exec(ctx, query,
		reg.ID, reg.EventID, reg.UserID, reg.Mode, reg.Status, reg.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domainErrors.ErrAlreadyRegistered
		}
		return fmt.Errorf("failed to create registration: %w", err)
	}
	return nil
}

func (r *EventRepositoryPostgres) FindRegistration(ctx context.Context, eventID, userID uuid.UUID) (*models.Registration, error) {
	query := `
		SELECT ` + registrationColumns + ` FROM registrations
		WHERE event_id = $1 AND user_id = $2 AND status <> $3
	`
	reg := &models.Registration{}
	err := r.pool.QueryRow(ctx, query, eventID, userID, models.RegistrationStatusCancelled).Scan(
		&reg.ID, &reg.EventID, &reg.UserID, &reg.Mode, &reg.Status,
		&reg.CreatedAt, &reg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to find registration: %w", err)
	}
	return reg, nil
}

func (r *EventRepositoryPostgres) FindRegistrationByID(ctx context.Context, id uuid.UUID) (*models.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`
	reg := &models.Registration{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&reg.ID, &reg.EventID, &reg.UserID, &reg.Mode, &reg.Status,
		&reg.CreatedAt, &reg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to find registration: %w", err)
	}
	return reg, nil
}

func (r *EventRepositoryPostgres) CountConfirmedRegistrations(ctx context.Context, eventID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM registrations WHERE event_id = $1 AND status = $2`
	var count int
	err := r.pool.QueryRow(ctx, query, eventID, models.RegistrationStatusConfirmed).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count registrations: %w", err)
	}
	return count, nil
}

func (r *EventRepositoryPostgres) UpdateRegistrationStatus(ctx context.Context, id uuid.UUID, status models.RegistrationStatus) error {
	query := `UPDATE registrations SET status = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update registration status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domainErrors.ErrRegistrationNotFound
	}
	return nil
}

func (r *EventRepositoryPostgres) ListRegistrationsByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*models.Registration, int, error) {
	return r.listRegistrations(ctx, "user_id", userID, page, pageSize)
}

func (r *EventRepositoryPostgres) ListRegistrationsByEvent(ctx context.Context, eventID uuid.UUID, page, pageSize int) ([]*models.Registration, int, error) {
	return r.listRegistrations(ctx, "event_id", eventID, page, pageSize)
}

func (r *EventRepositoryPostgres) listRegistrations(ctx context.Context, column string, id uuid.UUID, page, pageSize int) ([]*models.Registration, int, error) {
	var totalCount int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM registrations WHERE `+column+` = $1`, id,
	).Scan(&totalCount)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count registrations: %w", err)
	}

	var regs []*models.Registration
	if totalCount == 0 {
		return regs, 0, nil
	}

	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE ` + column + ` = $1 ORDER BY created_at DESC`
	args := []interface{}{id}
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
		return nil, 0, fmt.Errorf("failed to list registrations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		reg := &models.Registration{}
		err := rows.Scan(
			&reg.ID, &reg.EventID, &reg.UserID, &reg.Mode, &reg.Status,
			&reg.CreatedAt, &reg.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan registration row: %w", err)
		}
		regs = append(regs, reg)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating registration rows: %w", err)
	}

	return regs, totalCount, nil
}

var _ repository.EventRepository = (*EventRepositoryPostgres)(nil)
