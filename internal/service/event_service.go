package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/config"
	domainErrors "github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/errors"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/models"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/repository"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/events"
)

// EventService manages the event lifecycle and attendee registrations.
type EventService struct {
	repo         repository.EventRepository
	gamification *GamificationService
	publisher    events.Publisher
	audit        *AuditService
	cfg          config.GamificationConfig
	topic        string
	logger       *zap.Logger
}

func NewEventService(
	repo repository.EventRepository,
	gamification *GamificationService,
	publisher events.Publisher,
	audit *AuditService,
	cfg config.GamificationConfig,
	platformTopic string,
	logger *zap.Logger,
) *EventService {
	return &EventService{
		repo:         repo,
		gamification: gamification,
		publisher:    publisher,
		audit:        audit,
		cfg:          cfg,
		topic:        platformTopic,
		logger:       logger,
	}
}

// Create stores a new draft event owned by organizerID.
func (s *EventService) Create(ctx context.Context, organizerID uuid.UUID, req models.CreateEventRequest) (*models.Event, error) {
	if !req.EndsAt.After(req.StartsAt) {
		return nil, domainErrors.ErrInvalidRequest
	}
	event := &models.Event{
		ID:          uuid.New(),
		OrganizerID: organizerID,
		Title:       req.Title,
		Description: req.Description,
		Venue:       req.Venue,
		Mode:        req.Mode,
		Status:      models.EventStatusDraft,
		Capacity:    req.Capacity,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:    &organizerID,
		Action:     AuditActionEventCreated,
		TargetType: models.AuditTargetTypeEvent,
		TargetID:   event.ID.String(),
		Status:     models.AuditLogStatusSuccess,
	})
	return event, nil
}

// Update edits a draft or published event. Only the organizer or an admin may
// edit; completed and cancelled events are immutable.
func (s *EventService) Update(ctx context.Context, actorID uuid.UUID, isAdmin bool, eventID uuid.UUID, req models.UpdateEventRequest) (*models.Event, error) {
	event, err := s.authorizedEvent(ctx, actorID, isAdmin, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status != models.EventStatusDraft && event.Status != models.EventStatusPublished {
		return nil, domainErrors.ErrInvalidRequest
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Venue != nil {
		event.Venue = *req.Venue
	}
	if req.Capacity != nil {
		event.Capacity = *req.Capacity
	}
	if req.StartsAt != nil {
		event.StartsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		event.EndsAt = *req.EndsAt
	}
	if !event.EndsAt.After(event.StartsAt) {
		return nil, domainErrors.ErrInvalidRequest
	}

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Publish opens a draft event for registration.
func (s *EventService) Publish(ctx context.Context, actorID uuid.UUID, isAdmin bool, eventID uuid.UUID) (*models.Event, error) {
	return s.transition(ctx, actorID, isAdmin, eventID, models.EventStatusDraft, models.EventStatusPublished,
		AuditActionEventPublished, events.TypeEventPublished)
}

// Cancel withdraws a draft or published event before it completes.
func (s *EventService) Cancel(ctx context.Context, actorID uuid.UUID, isAdmin bool, eventID uuid.UUID) (*models.Event, error) {
	event, err := s.authorizedEvent(ctx, actorID, isAdmin, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status != models.EventStatusDraft && event.Status != models.EventStatusPublished {
		return nil, domainErrors.ErrInvalidRequest
	}
	if err := s.repo.UpdateStatus(ctx, eventID, models.EventStatusCancelled); err != nil {
		return nil, err
	}
	event.Status = models.EventStatusCancelled

	s.audit.Record(ctx, AuditEntry{
		ActorID:    &actorID,
		Action:     AuditActionEventCancelled,
		TargetType: models.AuditTargetTypeEvent,
		TargetID:   eventID.String(),
		Status:     models.AuditLogStatusSuccess,
	})
	if err := s.publisher.Publish(ctx, s.topic, events.TypeEventCancelled, eventID.String(),
		events.EventLifecyclePayload{
			EventID:     eventID.String(),
			OrganizerID: event.OrganizerID.String(),
			Title:       event.Title,
		}); err != nil {
		s.logger.Warn("failed to publish event cancelled event", zap.Error(err))
	}
	return event, nil
}

// Complete marks a published event as finished once it has ended.
func (s *EventService) Complete(ctx context.Context, actorID uuid.UUID, isAdmin bool, eventID uuid.UUID) (*models.Event, error) {
	event, err := s.authorizedEvent(ctx, actorID, isAdmin, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status != models.EventStatusPublished {
		return nil, domainErrors.ErrInvalidRequest
	}
	if event.EndsAt.After(time.Now()) {
		return nil, domainErrors.ErrInvalidRequest
	}
	if err := s.repo.UpdateStatus(ctx, eventID, models.EventStatusCompleted); err != nil {
		return nil, err
	}
	event.Status = models.EventStatusCompleted

	s.audit.Record(ctx, AuditEntry{
		ActorID:    &actorID,
		Action:     AuditActionEventCompleted,
		TargetType: models.AuditTargetTypeEvent,
		TargetID:   eventID.String(),
		Status:     models.AuditLogStatusSuccess,
	})
	return event, nil
}

func (s *EventService) Get(ctx context.Context, eventID uuid.UUID) (*models.Event, error) {
	return s.repo.FindByID(ctx, eventID)
}

func (s *EventService) List(ctx context.Context, params models.ListEventsParams) ([]*models.Event, int, error) {
	if params.PageSize <= 0 {
		params.PageSize = 50
	}
	if params.Page <= 0 {
		params.Page = 1
	}
	return s.repo.List(ctx, params)
}

// Register signs a user up for a published event, enforcing capacity and
// participation mode, and grants registration loyalty points.
func (s *EventService) Register(ctx context.Context, eventID, userID uuid.UUID, mode models.ParticipationMode) (*models.Registration, error) {
	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if event.Status != models.EventStatusPublished {
		return nil, domainErrors.ErrEventNotPublished
	}
	if !event.StartsAt.After(now) {
		return nil, domainErrors.ErrEventStarted
	}
	if err := validateParticipationMode(event.Mode, mode); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindRegistration(ctx, eventID, userID); err == nil {
		return nil, domainErrors.ErrAlreadyRegistered
	} else if !errors.Is(err, domainErrors.ErrRegistrationNotFound) {
		return nil, err
	}

	if event.Capacity > 0 {
		confirmed, err := s.repo.CountConfirmedRegistrations(ctx, eventID)
		if err != nil {
			return nil, err
		}
		if confirmed >= event.Capacity {
			return nil, domainErrors.ErrEventFull
		}
	}

	reg := &models.Registration{
		ID:      uuid.New(),
		EventID: eventID,
		UserID:  userID,
		Mode:    mode,
		Status:  models.RegistrationStatusConfirmed,
	}
	if err := s.repo.CreateRegistration(ctx, reg); err != nil {
		return nil, err
	}

	refID := reg.ID.String()
	if err := s.gamification.GrantPoints(ctx, userID, s.cfg.RegistrationPoints, models.PointReasonRegistration, &refID); err != nil {
		s.logger.Error("failed to grant registration points",
			zap.String("registration_id", refID), zap.Error(err))
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:    &userID,
		Action:     AuditActionRegistrationCreated,
		TargetType: models.AuditTargetTypeRegistration,
		TargetID:   reg.ID.String(),
		Status:     models.AuditLogStatusSuccess,
	})
	if err := s.publisher.Publish(ctx, s.topic, events.TypeRegistrationCreated, userID.String(),
		events.RegistrationPayload{
			RegistrationID: reg.ID.String(),
			EventID:        eventID.String(),
			UserID:         userID.String(),
			Mode:           string(mode),
		}); err != nil {
		s.logger.Warn("failed to publish registration event", zap.Error(err))
	}
	return reg, nil
}

// CancelRegistration withdraws the caller's own confirmed registration.
// Registrations are only cancellable until the event starts.
func (s *EventService) CancelRegistration(ctx context.Context, eventID, userID uuid.UUID) error {
	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		return err
	}
	if !event.StartsAt.After(time.Now()) {
		return domainErrors.ErrEventStarted
	}
	reg, err := s.repo.FindRegistration(ctx, eventID, userID)
	if err != nil {
		return err
	}
	if reg.Status != models.RegistrationStatusConfirmed {
		return domainErrors.ErrInvalidRequest
	}
	if err := s.repo.UpdateRegistrationStatus(ctx, reg.ID, models.RegistrationStatusCancelled); err != nil {
		return err
	}
	s.audit.Record(ctx, AuditEntry{
		ActorID:    &userID,
		Action:     AuditActionRegistrationCancelled,
		TargetType: models.AuditTargetTypeRegistration,
		TargetID:   reg.ID.String(),
		Status:     models.AuditLogStatusSuccess,
	})
	return nil
}

// MarkAttended records attendance for a confirmed registration and grants
// attendance points. Organizer or admin only.
func (s *EventService) MarkAttended(ctx context.Context, actorID uuid.UUID, isAdmin bool, registrationID uuid.UUID) error {
	reg, err := s.repo.FindRegistrationByID(ctx, registrationID)
	if err != nil {
		return err
	}
	if _, err := s.authorizedEvent(ctx, actorID, isAdmin, reg.EventID); err != nil {
		return err
	}
	if reg.Status != models.RegistrationStatusConfirmed {
		return domainErrors.ErrInvalidRequest
	}
	if err := s.repo.UpdateRegistrationStatus(ctx, registrationID, models.RegistrationStatusAttended); err != nil {
		return err
	}

	refID := reg.ID.String()
	if err := s.gamification.GrantPoints(ctx, reg.UserID, s.cfg.AttendancePoints, models.PointReasonAttendance, &refID); err != nil {
		s.logger.Error("failed to grant attendance points",
			zap.String("registration_id", refID), zap.Error(err))
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:    &actorID,
		Action:     AuditActionAttendanceMarked,
		TargetType: models.AuditTargetTypeRegistration,
		TargetID:   registrationID.String(),
		Status:     models.AuditLogStatusSuccess,
	})
	if err := s.publisher.Publish(ctx, s.topic, events.TypeRegistrationAttended, reg.UserID.String(),
		events.RegistrationPayload{
			RegistrationID: reg.ID.String(),
			EventID:        reg.EventID.String(),
			UserID:         reg.UserID.String(),
			Mode:           string(reg.Mode),
		}); err != nil {
		s.logger.Warn("failed to publish attendance event", zap.Error(err))
	}
	return nil
}

func (s *EventService) ListRegistrationsByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*models.Registration, int, error) {
	return s.repo.ListRegistrationsByUser(ctx, userID, page, pageSize)
}

func (s *EventService) ListRegistrationsByEvent(ctx context.Context, actorID uuid.UUID, isAdmin bool, eventID uuid.UUID, page, pageSize int) ([]*models.Registration, int, error) {
	if _, err := s.authorizedEvent(ctx, actorID, isAdmin, eventID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListRegistrationsByEvent(ctx, eventID, page, pageSize)
}

func (s *EventService) transition(ctx context.Context, actorID uuid.UUID, isAdmin bool, eventID uuid.UUID, from, to models.EventStatus, auditAction, eventType string) (*models.Event, error) {
	event, err := s.authorizedEvent(ctx, actorID, isAdmin, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status != from {
		return nil, domainErrors.ErrInvalidRequest
	}
	if err := s.repo.UpdateStatus(ctx, eventID, to); err != nil {
		return nil, err
	}
	event.Status = to

	s.audit.Record(ctx, AuditEntry{
		ActorID:    &actorID,
		Action:     auditAction,
		TargetType: models.AuditTargetTypeEvent,
		TargetID:   eventID.String(),
		Status:     models.AuditLogStatusSuccess,
	})
	if err := s.publisher.Publish(ctx, s.topic, eventType, eventID.String(),
		events.EventLifecyclePayload{
			EventID:     eventID.String(),
			OrganizerID: event.OrganizerID.String(),
			Title:       event.Title,
		}); err != nil {
		s.logger.Warn("failed to publish event lifecycle event", zap.Error(err))
	}
	return event, nil
}

func (s *EventService) authorizedEvent(ctx context.Context, actorID uuid.UUID, isAdmin bool, eventID uuid.UUID) (*models.Event, error) {
	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && event.OrganizerID != actorID {
		return nil, domainErrors.ErrForbidden
	}
	return event, nil
}

func validateParticipationMode(eventMode models.EventMode, mode models.ParticipationMode) error {
	switch eventMode {
	case models.EventModeInPerson:
		if mode != models.ParticipationInPerson {
			return domainErrors.ErrInvalidParticipationMode
		}
	case models.EventModeVirtual:
		if mode != models.ParticipationVirtual {
			return domainErrors.ErrInvalidParticipationMode
		}
	case models.EventModeHybrid:
		// both modes allowed
	default:
		return domainErrors.ErrInvalidParticipationMode
	}
	return nil
}
