package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/config"
	domainErrors "github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/errors"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/models"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/repository"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/events"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/infrastructure/security"

	"github.com/google/uuid"
)

// TokenService issues access/refresh token pairs, rotates refresh tokens and
// detects refresh token reuse.
type TokenService struct {
	tokens    repository.RefreshTokenRepository
	sessions  repository.SessionRepository
	roles     repository.RoleRepository
	users     repository.UserRepository
	jwt       AccessTokenManager
	blacklist TokenBlacklist
	publisher events.Publisher
	audit     *AuditService
	cfg       config.JWTConfig
	topic     string
	logger    *zap.Logger
}

func NewTokenService(
	tokens repository.RefreshTokenRepository,
	sessions repository.SessionRepository,
	roles repository.RoleRepository,
	users repository.UserRepository,
	jwt AccessTokenManager,
	blacklist TokenBlacklist,
	publisher events.Publisher,
	audit *AuditService,
	cfg config.JWTConfig,
	authTopic string,
	logger *zap.Logger,
) *TokenService {
	return &TokenService{
		tokens:    tokens,
		sessions:  sessions,
		roles:     roles,
		users:     users,
		jwt:       jwt,
		blacklist: blacklist,
		publisher: publisher,
		audit:     audit,
		cfg:       cfg,
		topic:     authTopic,
		logger:    logger,
	}
}

// IssuePair creates a signed access token and an opaque refresh token bound to
// the session. Only the refresh token's SHA-256 hash is persisted.
func (s *TokenService) IssuePair(ctx context.Context, user *models.User, sessionID uuid.UUID) (*models.TokenPair, error) {
	roles, err := s.roles.GetUserRoles(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	roleNames := make([]string, len(roles))
	for i, r := range roles {
		roleNames[i] = r.Name
	}
	permissions, err := s.roles.GetUserPermissions(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	accessToken, claims, err := s.jwt.GenerateAccessToken(
		user.ID.String(), user.Username, roleNames, permissions, sessionID.String())
	if err != nil {
		return nil, err
	}

	refreshValue, err := security.GenerateOpaqueToken(s.cfg.RefreshTokenByteLength)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	refresh := &models.RefreshToken{
		ID:        uuid.New(),
		SessionID: sessionID,
		UserID:    user.ID,
		TokenHash: security.HashToken(refreshValue),
		ExpiresAt: now.Add(s.jwt.RefreshTokenTTL()),
		CreatedAt: now,
	}
	if err := s.tokens.Create(ctx, refresh); err != nil {
		return nil, err
	}

	return &models.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshValue,
		TokenType:    "Bearer",
		ExpiresAt:    claims.ExpiresAt.Time,
	}, nil
}

// Refresh rotates a refresh token. Presenting an already rotated token is
// treated as theft: every token and session for the user is revoked.
func (s *TokenService) Refresh(ctx context.Context, refreshValue, ipAddress, userAgent string) (*models.TokenPair, *models.User, error) {
	stored, err := s.tokens.FindByHash(ctx, security.HashToken(refreshValue))
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	if stored.RevokedAt != nil {
		s.handleReuse(ctx, stored, ipAddress, userAgent)
		return nil, nil, domainErrors.ErrRefreshTokenReused
	}
	if !stored.ExpiresAt.After(now) {
		return nil, nil, domainErrors.ErrExpiredToken
	}

	session, err := s.sessions.FindByID(ctx, stored.SessionID)
	if err != nil {
		return nil, nil, err
	}
	if !session.IsActive(now) {
		if session.TerminatedAt != nil {
			return nil, nil, domainErrors.ErrSessionRevoked
		}
		return nil, nil, domainErrors.ErrSessionExpired
	}

	if err := s.tokens.Revoke(ctx, stored.ID, now, "rotated"); err != nil {
		return nil, nil, err
	}
	if err := s.sessions.UpdateLastActivity(ctx, session.ID, now); err != nil {
		return nil, nil, err
	}

	user, err := s.userForRefresh(ctx, stored.UserID)
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.IssuePair(ctx, user, session.ID)
	if err != nil {
		return nil, nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:    &user.ID,
		Action:     AuditActionTokenRefreshed,
		TargetType: models.AuditTargetTypeSession,
		TargetID:   session.ID.String(),
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Status:     models.AuditLogStatusSuccess,
	})
	return pair, user, nil
}

// Validate verifies an access token's signature and checks the JTI blacklist.
func (s *TokenService) Validate(ctx context.Context, accessToken string) (*security.Claims, error) {
	claims, err := s.jwt.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, err
	}
	blacklisted, err := s.blacklist.Contains(ctx, claims.ID)
	if err != nil {
		// Fail closed: an unavailable blacklist must not admit revoked tokens.
		return nil, err
	}
	if blacklisted {
		return nil, domainErrors.ErrRevokedToken
	}
	return claims, nil
}

// RevokeAccess blacklists the access token's JTI for its remaining lifetime.
func (s *TokenService) RevokeAccess(ctx context.Context, claims *security.Claims) error {
	remaining := time.Until(claims.ExpiresAt.Time)
	return s.blacklist.Add(ctx, claims.ID, remaining)
}

// JWKS exposes the public signing keys.
func (s *TokenService) JWKS() map[string]interface{} {
	return s.jwt.JWKS()
}

// CleanupExpired removes refresh tokens past their expiry.
func (s *TokenService) CleanupExpired(ctx context.Context) (int64, error) {
	return s.tokens.DeleteExpired(ctx, time.Now())
}

func (s *TokenService) handleReuse(ctx context.Context, stored *models.RefreshToken, ipAddress, userAgent string) {
	now := time.Now()
	s.logger.Warn("refresh token reuse detected",
		zap.String("user_id", stored.UserID.String()),
		zap.String("session_id", stored.SessionID.String()))

	if _, err := s.tokens.RevokeAllByUserID(ctx, stored.UserID, now, "reuse_detected"); err != nil {
		s.logger.Error("failed to revoke tokens after reuse", zap.Error(err))
	}
	if _, err := s.sessions.TerminateAllByUserID(ctx, stored.UserID, now); err != nil {
		s.logger.Error("failed to terminate sessions after reuse", zap.Error(err))
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:    &stored.UserID,
		Action:     AuditActionTokenReuse,
		TargetType: models.AuditTargetTypeSession,
		TargetID:   stored.SessionID.String(),
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Status:     models.AuditLogStatusFailure,
	})
	if err := s.publisher.Publish(ctx, s.topic, events.TypeTokenReuseDetected, stored.UserID.String(),
		events.TokenReusePayload{
			UserID:    stored.UserID.String(),
			SessionID: stored.SessionID.String(),
		}); err != nil {
		s.logger.Warn("failed to publish token reuse event", zap.Error(err))
	}
}

func (s *TokenService) userForRefresh(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Status != models.UserStatusActive {
		return nil, domainErrors.ErrUserBlocked
	}
	return user, nil
}
