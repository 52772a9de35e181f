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

const speakerColumns = `id, user_id, full_name, bio, company, email, created_at, updated_at`

const contractColumns = `id, event_id, speaker_id, fee_cents, currency, terms, status,
       sent_at, signed_at, created_at, updated_at`

// SpeakerRepositoryPostgres implements repository.SpeakerRepository.
type SpeakerRepositoryPostgres struct {
	pool *pgxpool.Pool
}

func NewSpeakerRepositoryPostgres(pool *pgxpool.Pool) *SpeakerRepositoryPostgres {
	return &SpeakerRepositoryPostgres{pool: pool}
}

func (r *SpeakerRepositoryPostgres) CreateSpeaker(ctx context.Context, speaker *models.Speaker) error {
	query := `
		INSERT INTO speakers (id, user_id, full_name, bio, company, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	`
	if speaker.CreatedAt.IsZero() {
		speaker.CreatedAt = time.Now()
	}
	_, err := r.pool.Exec(ctx, query,
		speaker.ID, speaker.UserID, speaker.FullName, speaker.Bio,
		speaker.Company, speaker.Email, speaker.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create speaker: %w", err)
	}
	return nil
}

func (r *SpeakerRepositoryPostgres) UpdateSpeaker(ctx context.Context, speaker *models.Speaker) error {
	query := `
		UPDATE speakers
		SET full_name = $1, bio = $2, company = $3, email = $4, updated_at = NOW()
		WHERE id = $5
	`
	result, err := r.pool.Exec(ctx, query,
		speaker.FullName, speaker.Bio, speaker.Company, speaker.Email, speaker.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update speaker: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domainErrors.ErrSpeakerNotFound
	}
	return nil
}

func (r *SpeakerRepositoryPostgres) FindSpeakerByID(ctx context.Context, id uuid.UUID) (*models.Speaker, error) {
	query := `SELECT ` + speakerColumns + ` FROM speakers WHERE id = $1`
	speaker := &models.Speaker{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&speaker.ID, &speaker.UserID, &speaker.FullName, &speaker.Bio,
		&speaker.Company, &speaker.Email, &speaker.CreatedAt, &speaker.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrSpeakerNotFound
		}
		return nil, fmt.Errorf("failed to find speaker: %w", err)
	}
	return speaker, nil
}

func (r *SpeakerRepositoryPostgres) ListSpeakers(ctx context.Context, page, pageSize int) ([]*models.Speaker, int, error) {
	var totalCount int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM speakers`).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count speakers: %w", err)
	}

	var speakers []*models.Speaker
	if totalCount == 0 {
		return speakers, 0, nil
	}

	query := `SELECT ` + speakerColumns + ` FROM speakers ORDER BY full_name`
	args := []interface{}{}
	if pageSize > 0 {
		query += " LIMIT $1"
		args = append(args, pageSize)
		if page > 1 {
			query += " OFFSET $2"
			args = append(args, (page-1)*pageSize)
		}
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list speakers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		speaker := &models.Speaker{}
		err := rows.Scan(
			&speaker.ID, &speaker.UserID, &speaker.FullName, &speaker.Bio,
			&speaker.Company, &speaker.Email, &speaker.CreatedAt, &speaker.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan speaker row: %w", err)
		}
		speakers = append(speakers, speaker)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating speaker rows: %w", err)
	}

	return speakers, totalCount, nil
}

func (r *SpeakerRepositoryPostgres) CreateContract(ctx context.Context, contract *models.SpeakerContract) error {
	query := `
		INSERT INTO speaker_contracts (id, event_id, speaker_id, fee_cents, currency,
		                               terms, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
	`
	if contract.CreatedAt.IsZero() {
		contract.CreatedAt = time.Now()
	}
	_, err := r.pool.Exec(ctx, query,
		contract.ID, contract.EventID, contract.SpeakerID, contract.FeeCents,
		contract.Currency, contract.Terms, contract.Status, contract.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create contract: %w", err)
	}
	return nil
}

func (r *SpeakerRepositoryPostgres) FindContractByID(ctx context.Context, id uuid.UUID) (*models.SpeakerContract, error) {
	query := `SELECT ` + contractColumns + ` FROM speaker_contracts WHERE id = $1`
	contract := &models.SpeakerContract{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&contract.ID, &contract.EventID, &contract.SpeakerID, &contract.FeeCents,
		&contract.Currency, &contract.Terms, &contract.Status,
		&contract.SentAt, &contract.SignedAt, &contract.CreatedAt, &contract.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrContractNotFound
		}
		return nil, fmt.Errorf("failed to find contract: %w", err)
	}
	return contract, nil
}

func (r *SpeakerRepositoryPostgres) ListContractsByEvent(ctx context.Context, eventID uuid.UUID) ([]*models.SpeakerContract, error) {
	query := `SELECT ` + contractColumns + ` FROM speaker_contracts WHERE event_id = $1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	defer rows.Close()

	var contracts []*models.SpeakerContract
	for rows.Next() {
		contract := &models.SpeakerContract{}
		err := rows.Scan(
			&contract.ID, &contract.EventID, &contract.SpeakerID, &contract.FeeCents,
			&contract.Currency, &contract.Terms, &contract.Status,
			&contract.SentAt, &contract.SignedAt, &contract.CreatedAt, &contract.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contract row: %w", err)
		}
		contracts = append(contracts, contract)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contract rows: %w", err)
	}
	return contracts, nil
}

func (r *SpeakerRepositoryPostgres) UpdateContractStatus(ctx context.Context, id uuid.UUID, status models.ContractStatus, sentAt, signedAt *time.Time) error {
	query := `
		UPDATE speaker_contracts
		SET status = $1,
		    sent_at = COALESCE($2, sent_at),
		    signed_at = COALESCE($3, signed_at),
		    updated_at = NOW()
		WHERE id = $4
	`
	result, err := r.pool.Exec(ctx, query, status, sentAt, signedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update contract status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domainErrors.ErrContractNotFound
	}
	return nil
}

var _ repository.SpeakerRepository = (*SpeakerRepositoryPostgres)(nil)
