package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/config"
	domainErrors "github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/errors"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/models"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/repository"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/events"
)

// SessionService manages device sessions, including the per-user session cap.
type SessionService struct {
	sessions  repository.SessionRepository
	tokens    repository.RefreshTokenRepository
	publisher events.Publisher
	cfg       config.SecurityConfig
	topic     string
	logger    *zap.Logger
}

func NewSessionService(
	sessions repository.SessionRepository,
	tokens repository.RefreshTokenRepository,
	publisher events.Publisher,
	cfg config.SecurityConfig,
	authTopic string,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		sessions:  sessions,
		tokens:    tokens,
		publisher: publisher,
		cfg:       cfg,
		topic:     authTopic,
		logger:    logger,
	}
}

// Create opens a session for the user. When the user is at the session cap the
// least recently active sessions are evicted first.
func (s *SessionService) Create(ctx context.Context, req models.CreateSessionRequest) (*models.Session, error) {
	if s.cfg.MaxSessionsPerUser > 0 {
		count, err := s.sessions.CountActiveByUserID(ctx, req.UserID)
		if err != nil {
			return nil, err
		}
		if excess := count - s.cfg.MaxSessionsPerUser + 1; excess > 0 {
			oldest, err := s.sessions.FindOldestActiveByUserID(ctx, req.UserID, excess)
			if err != nil {
				return nil, err
			}
			now := time.Now()
			for _, old := range oldest {
				if err := s.terminate(ctx, old, now, "session_cap_evicted"); err != nil {
					return nil, err
				}
			}
		}
	}

	ttl := req.TTL
	if ttl <= 0 {
		ttl = s.cfg.SessionTTL
	}
	now := time.Now()
	session := &models.Session{
		ID:             uuid.New(),
		UserID:         req.UserID,
		IPAddress:      req.IPAddress,
		UserAgent:      req.UserAgent,
		DeviceInfo:     req.DeviceInfo,
		ExpiresAt:      now.Add(ttl),
		CreatedAt:      now,
		LastActivityAt: now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Get returns a session, validating ownership.
func (s *SessionService) Get(ctx context.Context, userID, sessionID uuid.UUID) (*models.Session, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, domainErrors.ErrForbidden
	}
	return session, nil
}

// ListActive returns the user's active sessions, most recently active first.
func (s *SessionService) ListActive(ctx context.Context, userID uuid.UUID) ([]*models.Session, error) {
	return s.sessions.FindActiveByUserID(ctx, userID)
}

// Terminate ends one session owned by userID and revokes its refresh tokens.
func (s *SessionService) Terminate(ctx context.Context, userID, sessionID uuid.UUID, reason string) error {
	session, err := s.Get(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	if session.TerminatedAt != nil {
		return domainErrors.ErrSessionRevoked
	}
	return s.terminate(ctx, session, time.Now(), reason)
}

// TerminateAll ends every active session for the user.
func (s *SessionService) TerminateAll(ctx context.Context, userID uuid.UUID, reason string) (int64, error) {
	now := time.Now()
	terminated, err := s.sessions.TerminateAllByUserID(ctx, userID, now)
	if err != nil {
		return 0, err
	}
	if _, err := s.tokens.RevokeAllByUserID(ctx, userID, now, reason); err != nil {
		return terminated, err
	}
	return terminated, nil
}

// TerminateAllExcept ends every active session except keep, used by
// "log out other devices".
func (s *SessionService) TerminateAllExcept(ctx context.Context, userID, keep uuid.UUID, reason string) (int64, error) {
	now := time.Now()
	active, err := s.sessions.FindActiveByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}
	var terminated int64
	for _, session := range active {
		if session.ID == keep {
			continue
		}
		if err := s.terminate(ctx, session, now, reason); err != nil {
			return terminated, err
		}
		terminated++
	}
	return terminated, nil
}

// Touch records session activity.
func (s *SessionService) Touch(ctx context.Context, sessionID uuid.UUID) error {
	return s.sessions.UpdateLastActivity(ctx, sessionID, time.Now())
}

// IsActive reports whether the session exists and is usable.
func (s *SessionService) IsActive(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return session.IsActive(time.Now()), nil
}

func (s *SessionService) terminate(ctx context.Context, session *models.Session, at time.Time, reason string) error {
	if err := s.sessions.Terminate(ctx, session.ID, at); err != nil {
		return fmt.Errorf("failed to terminate session %s: %w", session.ID, err)
	}
	if _, err := s.tokens.RevokeBySessionID(ctx, session.ID, at, reason); err != nil {
		return err
	}
	if err := s.publisher.Publish(ctx, s.topic, events.TypeSessionTerminated, session.UserID.String(),
		events.SessionTerminatedPayload{
			UserID:    session.UserID.String(),
			SessionID: session.ID.String(),
			Reason:    reason,
		}); err != nil {
		s.logger.Warn("failed to publish session terminated event",
			zap.String("session_id", session.ID.String()), zap.Error(err))
	}
	return nil
}
