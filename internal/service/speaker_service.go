package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainErrors "github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/errors"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/models"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/repository"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/events"
)

// SpeakerService manages speaker profiles and the contract lifecycle:
// draft -> sent -> signed | declined, with cancellation rules depending on
// the current status and the event start time.
type SpeakerService struct {
	repo      repository.SpeakerRepository
	eventRepo repository.EventRepository
	publisher events.Publisher
	audit     *AuditService
	topic     string
	logger    *zap.Logger
}

func NewSpeakerService(
	repo repository.SpeakerRepository,
	eventRepo repository.EventRepository,
	publisher events.Publisher,
	audit *AuditService,
	platformTopic string,
	logger *zap.Logger,
) *SpeakerService {
	return &SpeakerService{
		repo:      repo,
		eventRepo: eventRepo,
		publisher: publisher,
		audit:     audit,
		topic:     platformTopic,
		logger:    logger,
	}
}

func (s *SpeakerService) CreateSpeaker(ctx context.Context, req models.CreateSpeakerRequest) (*models.Speaker, error) {
	speaker := &models.Speaker{
		ID:       uuid.New(),
		UserID:   req.UserID,
		FullName: req.FullName,
		Bio:      req.Bio,
		Company:  req.Company,
		Email:    req.Email,
	}
	if err := s.repo.CreateSpeaker(ctx, speaker); err != nil {
		return nil, err
	}
	return speaker, nil
}

func (s *SpeakerService) UpdateSpeaker(ctx context.Context, speaker *models.Speaker) error {
	return s.repo.UpdateSpeaker(ctx, speaker)
}

func (s *SpeakerService) GetSpeaker(ctx context.Context, id uuid.UUID) (*models.Speaker, error) {
	return s.repo.FindSpeakerByID(ctx, id)
}

func (s *SpeakerService) ListSpeakers(ctx context.Context, page, pageSize int) ([]*models.Speaker, int, error) {
	if pageSize <= 0 {
		pageSize = 50
	}
	if page <= 0 {
		page = 1
	}
	return s.repo.ListSpeakers(ctx, page, pageSize)
}

// requireEventOrganizer loads the event and verifies the actor organizes it.
// Admins pass regardless of ownership.
func (s *SpeakerService) requireEventOrganizer(ctx context.Context, actorID uuid.UUID, isAdmin bool, eventID uuid.UUID) (*models.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && event.OrganizerID != actorID {
		return nil, domainErrors.ErrForbidden
	}
	return event, nil
}

// requireContractSpeaker verifies the actor is the user account linked to the
// contract's speaker profile.
func (s *SpeakerService) requireContractSpeaker(ctx context.Context, actorID, speakerID uuid.UUID) error {
	speaker, err := s.repo.FindSpeakerByID(ctx, speakerID)
	if err != nil {
		return err
	}
	if speaker.UserID == nil || *speaker.UserID != actorID {
		return domainErrors.ErrForbidden
	}
	return nil
}

// CreateContract drafts an engagement between an event and a speaker. Only the
// event's organizer (or an admin) may draft contracts for it.
func (s *SpeakerService) CreateContract(ctx context.Context, actorID uuid.UUID, isAdmin bool, req models.CreateContractRequest) (*models.SpeakerContract, error) {
	if _, err := s.requireEventOrganizer(ctx, actorID, isAdmin, req.EventID); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindSpeakerByID(ctx, req.SpeakerID); err != nil {
		return nil, err
	}

	contract := &models.SpeakerContract{
		ID:        uuid.New(),
		EventID:   req.EventID,
		SpeakerID: req.SpeakerID,
		FeeCents:  req.FeeCents,
		Currency:  req.Currency,
		Terms:     req.Terms,
		Status:    models.ContractStatusDraft,
	}
	if err := s.repo.CreateContract(ctx, contract); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:    &actorID,
		Action:     AuditActionContractTransition,
		TargetType: models.AuditTargetTypeContract,
		TargetID:   contract.ID.String(),
		Status:     models.AuditLogStatusSuccess,
		Details:    map[string]interface{}{"to": string(models.ContractStatusDraft)},
	})
	return contract, nil
}

// GetContract returns a contract to its event organizer, the linked speaker
// or an admin.
func (s *SpeakerService) GetContract(ctx context.Context, actorID uuid.UUID, isAdmin bool, id uuid.UUID) (*models.SpeakerContract, error) {
	contract, err := s.repo.FindContractByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if isAdmin {
		return contract, nil
	}
	if _, err := s.requireEventOrganizer(ctx, actorID, false, contract.EventID); err == nil {
		return contract, nil
	} else if !errors.Is(err, domainErrors.ErrForbidden) {
		return nil, err
	}
	if err := s.requireContractSpeaker(ctx, actorID, contract.SpeakerID); err != nil {
		return nil, err
	}
	return contract, nil
}

func (s *SpeakerService) ListContractsByEvent(ctx context.Context, actorID uuid.UUID, isAdmin bool, eventID uuid.UUID) ([]*models.SpeakerContract, error) {
	if _, err := s.requireEventOrganizer(ctx, actorID, isAdmin, eventID); err != nil {
		return nil, err
	}
	return s.repo.ListContractsByEvent(ctx, eventID)
}

// SendContract moves a draft contract to sent. Organizer or admin only.
func (s *SpeakerService) SendContract(ctx context.Context, actorID uuid.UUID, isAdmin bool, contractID uuid.UUID) (*models.SpeakerContract, error) {
	now := time.Now()
	return s.transition(ctx, actorID, contractID, models.ContractStatusSent, events.TypeContractSent,
		func(c *models.SpeakerContract) error {
			if _, err := s.requireEventOrganizer(ctx, actorID, isAdmin, c.EventID); err != nil {
				return err
			}
			if c.Status != models.ContractStatusDraft {
				return domainErrors.ErrInvalidContractState
			}
			c.SentAt = &now
			return nil
		})
}

// SignContract moves a sent contract to signed. Only the user linked to the
// contract's speaker profile may sign.
func (s *SpeakerService) SignContract(ctx context.Context, actorID, contractID uuid.UUID) (*models.SpeakerContract, error) {
	now := time.Now()
	return s.transition(ctx, actorID, contractID, models.ContractStatusSigned, events.TypeContractSigned,
		func(c *models.SpeakerContract) error {
			if err := s.requireContractSpeaker(ctx, actorID, c.SpeakerID); err != nil {
				return err
			}
			if c.Status != models.ContractStatusSent {
				return domainErrors.ErrInvalidContractState
			}
			c.SignedAt = &now
			return nil
		})
}

// DeclineContract moves a sent contract to declined. Speaker only.
func (s *SpeakerService) DeclineContract(ctx context.Context, actorID, contractID uuid.UUID) (*models.SpeakerContract, error) {
	return s.transition(ctx, actorID, contractID, models.ContractStatusDeclined, "",
		func(c *models.SpeakerContract) error {
			if err := s.requireContractSpeaker(ctx, actorID, c.SpeakerID); err != nil {
				return err
			}
			if c.Status != models.ContractStatusSent {
				return domainErrors.ErrInvalidContractState
			}
			return nil
		})
}

// CancelContract withdraws a contract. Organizer or admin only; draft and sent
// contracts can always be cancelled, signed contracts only before the event
// starts.
func (s *SpeakerService) CancelContract(ctx context.Context, actorID uuid.UUID, isAdmin bool, contractID uuid.UUID) (*models.SpeakerContract, error) {
	return s.transition(ctx, actorID, contractID, models.ContractStatusCancelled, "",
		func(c *models.SpeakerContract) error {
			event, err := s.requireEventOrganizer(ctx, actorID, isAdmin, c.EventID)
			if err != nil {
				return err
			}
			switch c.Status {
			case models.ContractStatusDraft, models.ContractStatusSent:
				return nil
			case models.ContractStatusSigned:
				if !event.StartsAt.After(time.Now()) {
					return domainErrors.ErrInvalidContractState
				}
				return nil
			default:
				return domainErrors.ErrInvalidContractState
			}
		})
}

func (s *SpeakerService) transition(
	ctx context.Context,
	actorID, contractID uuid.UUID,
	to models.ContractStatus,
	eventType string,
	check func(*models.SpeakerContract) error,
) (*models.SpeakerContract, error) {
	contract, err := s.repo.FindContractByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	from := contract.Status
	if err := check(contract); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateContractStatus(ctx, contractID, to, contract.SentAt, contract.SignedAt); err != nil {
		return nil, err
	}
	contract.Status = to

	s.audit.Record(ctx, AuditEntry{
		ActorID:    &actorID,
		Action:     AuditActionContractTransition,
		TargetType: models.AuditTargetTypeContract,
		TargetID:   contractID.String(),
		Status:     models.AuditLogStatusSuccess,
		Details:    map[string]interface{}{"from": string(from), "to": string(to)},
	})
	if eventType != "" {
		if err := s.publisher.Publish(ctx, s.topic, eventType, contract.SpeakerID.String(),
			events.ContractPayload{
				ContractID: contract.ID.String(),
				EventID:    contract.EventID.String(),
				SpeakerID:  contract.SpeakerID.String(),
				Status:     string(to),
			}); err != nil {
			s.logger.Warn("failed to publish contract event", zap.Error(err))
		}
	}
	return contract, nil
}
