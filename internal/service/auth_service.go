package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/config"
	domainErrors "github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/errors"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/models"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/repository"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/events"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/infrastructure/security"
)

// RequestMeta carries caller context for auditing and session tracking.
type RequestMeta struct {
	IPAddress  string
	UserAgent  string
	DeviceInfo json.RawMessage
}

// AuthService implements registration, login with optional 2FA, lockout,
// logout and the password recovery flows.
type AuthService struct {
	users      repository.UserRepository
	codes      repository.VerificationCodeRepository
	mfaSecrets repository.MFASecretRepository
	roles      repository.RoleRepository
	hasher     PasswordHasher
	tokens     *TokenService
	sessions   *SessionService
	twoFactor  *TwoFactorService
	challenges ChallengeStore
	publisher  events.Publisher
	audit      *AuditService
	jwtCfg     config.JWTConfig
	lockout    config.LockoutConfig
	topic      string
	logger     *zap.Logger
}

func NewAuthService(
	users repository.UserRepository,
	codes repository.VerificationCodeRepository,
	mfaSecrets repository.MFASecretRepository,
	roles repository.RoleRepository,
	hasher PasswordHasher,
	tokens *TokenService,
	sessions *SessionService,
	twoFactor *TwoFactorService,
	challenges ChallengeStore,
	publisher events.Publisher,
	audit *AuditService,
	jwtCfg config.JWTConfig,
	lockout config.LockoutConfig,
	authTopic string,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		codes:      codes,
		mfaSecrets: mfaSecrets,
		roles:      roles,
		hasher:     hasher,
		tokens:     tokens,
		sessions:   sessions,
		twoFactor:  twoFactor,
		challenges: challenges,
		publisher:  publisher,
		audit:      audit,
		jwtCfg:     jwtCfg,
		lockout:    lockout,
		topic:      authTopic,
		logger:     logger,
	}
}

// Register creates a pending account, assigns the default role and issues an
// email verification code. The plain code is returned for delivery.
func (s *AuthService) Register(ctx context.Context, req models.CreateUserRequest, meta RequestMeta) (*models.User, string, error) {
	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Status:       models.UserStatusPendingVerification,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	if role, err := s.roles.FindRoleByName(ctx, models.RoleAttendee); err != nil {
		s.logger.Error("default role missing", zap.Error(err))
	} else if err := s.roles.AssignRoleToUser(ctx, user.ID, role.ID); err != nil {
		return nil, "", err
	}

	code, err := s.issueVerificationCode(ctx, user.ID, models.VerificationCodeTypeEmail, s.jwtCfg.VerificationCodeTTL)
	if err != nil {
		return nil, "", err
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:    &user.ID,
		Action:     AuditActionRegister,
		TargetType: models.AuditTargetTypeUser,
		TargetID:   user.ID.String(),
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
		Status:     models.AuditLogStatusSuccess,
	})
	if err := s.publisher.Publish(ctx, s.topic, events.TypeUserRegistered, user.ID.String(),
		events.UserRegisteredPayload{
			UserID:   user.ID.String(),
			Username: user.Username,
			Email:    user.Email,
		}); err != nil {
		s.logger.Warn("failed to publish user registered event", zap.Error(err))
	}

	return user, code, nil
}

// VerifyEmail activates an account using a verification code.
func (s *AuthService) VerifyEmail(ctx context.Context, code string, meta RequestMeta) error {
	stored, err := s.codes.FindActiveByHash(ctx, security.HashToken(code), models.VerificationCodeTypeEmail)
	if err != nil {
		return err
	}

	now := time.Now()
	if err := s.codes.MarkUsed(ctx, stored.ID, now); err != nil {
		return err
	}
	if err := s.users.SetEmailVerifiedAt(ctx, stored.UserID, now); err != nil {
		return err
	}
	if err := s.users.UpdateStatus(ctx, stored.UserID, models.UserStatusActive); err != nil {
		return err
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:    &stored.UserID,
		Action:     AuditActionEmailVerified,
		TargetType: models.AuditTargetTypeUser,
		TargetID:   stored.UserID.String(),
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
		Status:     models.AuditLogStatusSuccess,
	})
	if err := s.publisher.Publish(ctx, s.topic, events.TypeUserEmailVerified, stored.UserID.String(),
		events.UserRegisteredPayload{UserID: stored.UserID.String()}); err != nil {
		s.logger.Warn("failed to publish email verified event", zap.Error(err))
	}
	return nil
}

// Login authenticates by email and password. When the account has verified
// 2FA, a short-lived challenge token is returned alongside Err2FARequired
// instead of a token pair.
func (s *AuthService) Login(ctx context.Context, email, password string, meta RequestMeta) (*models.LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrUserNotFound) {
			s.recordLoginFailure(ctx, nil, meta, "unknown_email")
			return nil, domainErrors.ErrInvalidCredentials
		}
		return nil, err
	}

	now := time.Now()
	switch {
	case user.Status == models.UserStatusBlocked:
		s.recordLoginFailure(ctx, &user.ID, meta, "blocked")
		return nil, domainErrors.ErrUserBlocked
	case user.Status == models.UserStatusDeleted:
		s.recordLoginFailure(ctx, &user.ID, meta, "deleted")
		return nil, domainErrors.ErrInvalidCredentials
	case user.IsLockedOut(now):
		s.recordLoginFailure(ctx, &user.ID, meta, "locked_out")
		return nil, domainErrors.ErrUserLockedOut
	}

	match, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !match {
		return nil, s.registerFailedAttempt(ctx, user, meta)
	}

	if user.Status == models.UserStatusPendingVerification {
		s.recordLoginFailure(ctx, &user.ID, meta, "email_not_verified")
		return nil, domainErrors.ErrEmailNotVerified
	}

	if err := s.users.ResetFailedLoginAttempts(ctx, user.ID); err != nil {
		return nil, err
	}

	secret, err := s.mfaSecrets.FindByUserIDAndType(ctx, user.ID, models.MFATypeTOTP)
	if err != nil && !errors.Is(err, domainErrors.Err2FANotEnabled) {
		return nil, err
	}
	if secret != nil && secret.Verified {
		challenge, err := security.GenerateOpaqueToken(32)
		if err != nil {
			return nil, err
		}
		if err := s.challenges.Put(ctx, challenge, user.ID, s.jwtCfg.MFAChallengeTTL); err != nil {
			return nil, err
		}
		return &models.LoginResult{TwoFactorRequired: true, ChallengeToken: challenge},
			domainErrors.Err2FARequired
	}

	return s.completeLogin(ctx, user, meta)
}

// CompleteTwoFactorLogin exchanges a challenge token plus a TOTP or backup
// code for a token pair.
func (s *AuthService) CompleteTwoFactorLogin(ctx context.Context, challengeToken, code string, meta RequestMeta) (*models.LoginResult, error) {
	userID, err := s.challenges.Consume(ctx, challengeToken)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsLockedOut(time.Now()) {
		return nil, domainErrors.ErrUserLockedOut
	}

	if err := s.twoFactor.ValidateLoginCode(ctx, userID, code); err != nil {
		s.audit.Record(ctx, AuditEntry{
			ActorID:    &userID,
			Action:     AuditAction2FAFailed,
			TargetType: models.AuditTargetTypeUser,
			TargetID:   userID.String(),
			IPAddress:  meta.IPAddress,
			UserAgent:  meta.UserAgent,
			Status:     models.AuditLogStatusFailure,
		})
		return nil, err
	}

	return s.completeLogin(ctx, user, meta)
}

// Logout terminates the caller's session and blacklists the access token.
func (s *AuthService) Logout(ctx context.Context, claims *security.Claims, meta RequestMeta) error {
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return domainErrors.ErrInvalidToken
	}
	sessionID, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return domainErrors.ErrInvalidToken
	}

	if err := s.tokens.RevokeAccess(ctx, claims); err != nil {
		return err
	}
	if err := s.sessions.Terminate(ctx, userID, sessionID, "logout"); err != nil {
		if !errors.Is(err, domainErrors.ErrSessionRevoked) && !errors.Is(err, domainErrors.ErrSessionNotFound) {
			return err
		}
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:    &userID,
		Action:     AuditActionLogout,
		TargetType: models.AuditTargetTypeSession,
		TargetID:   claims.SessionID,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
		Status:     models.AuditLogStatusSuccess,
	})
	if err := s.publisher.Publish(ctx, s.topic, events.TypeUserLoggedOut, claims.UserID,
		events.SessionTerminatedPayload{
			UserID:    claims.UserID,
			SessionID: claims.SessionID,
			Reason:    "logout",
		}); err != nil {
		s.logger.Warn("failed to publish logout event", zap.Error(err))
	}
	return nil
}

// LogoutAll terminates every session and revokes every refresh token.
func (s *AuthService) LogoutAll(ctx context.Context, claims *security.Claims, meta RequestMeta) error {
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return domainErrors.ErrInvalidToken
	}
	if err := s.tokens.RevokeAccess(ctx, claims); err != nil {
		return err
	}
	if _, err := s.sessions.TerminateAll(ctx, userID, "logout_all"); err != nil {
		return err
	}
	s.audit.Record(ctx, AuditEntry{
		ActorID:    &userID,
		Action:     AuditActionLogoutAll,
		TargetType: models.AuditTargetTypeUser,
		TargetID:   claims.UserID,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
		Status:     models.AuditLogStatusSuccess,
	})
	return nil
}

// ForgotPassword issues a password reset code. A missing account is not
// revealed to the caller; the empty string is returned instead.
func (s *AuthService) ForgotPassword(ctx context.Context, email string, meta RequestMeta) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrUserNotFound) {
			return "", nil
		}
		return "", err
	}

	if err := s.codes.InvalidateAllForUser(ctx, user.ID, models.VerificationCodeTypePasswordReset); err != nil {
		return "", err
	}
	code, err := s.issueVerificationCode(ctx, user.ID, models.VerificationCodeTypePasswordReset, s.jwtCfg.PasswordResetTTL)
	if err != nil {
		return "", err
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:    &user.ID,
		Action:     AuditActionPasswordResetReq,
		TargetType: models.AuditTargetTypeUser,
		TargetID:   user.ID.String(),
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
		Status:     models.AuditLogStatusSuccess,
	})
	if err := s.publisher.Publish(ctx, s.topic, events.TypePasswordResetReq, user.ID.String(),
		events.PasswordChangedPayload{UserID: user.ID.String()}); err != nil {
		s.logger.Warn("failed to publish password reset event", zap.Error(err))
	}
	return code, nil
}

// ResetPassword completes recovery: the code is consumed, the password is
// replaced and every session is terminated.
func (s *AuthService) ResetPassword(ctx context.Context, code, newPassword string, meta RequestMeta) error {
	stored, err := s.codes.FindActiveByHash(ctx, security.HashToken(code), models.VerificationCodeTypePasswordReset)
	if err != nil {
		return err
	}

	now := time.Now()
	if err := s.codes.MarkUsed(ctx, stored.ID, now); err != nil {
		return err
	}
	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, stored.UserID, passwordHash); err != nil {
		return err
	}
	if err := s.users.ResetFailedLoginAttempts(ctx, stored.UserID); err != nil {
		return err
	}
	if _, err := s.sessions.TerminateAll(ctx, stored.UserID, "password_reset"); err != nil {
		return err
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:    &stored.UserID,
		Action:     AuditActionPasswordReset,
		TargetType: models.AuditTargetTypeUser,
		TargetID:   stored.UserID.String(),
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
		Status:     models.AuditLogStatusSuccess,
	})
	if err := s.publisher.Publish(ctx, s.topic, events.TypePasswordChanged, stored.UserID.String(),
		events.PasswordChangedPayload{UserID: stored.UserID.String()}); err != nil {
		s.logger.Warn("failed to publish password changed event", zap.Error(err))
	}
	return nil
}

// ChangePassword replaces the password for an authenticated user and logs
// out every other device.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string, currentSessionID uuid.UUID, meta RequestMeta) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	match, err := s.hasher.Verify(currentPassword, user.PasswordHash)
	if err != nil {
		return err
	}
	if !match {
		return domainErrors.ErrInvalidPassword
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, userID, passwordHash); err != nil {
		return err
	}
	if _, err := s.sessions.TerminateAllExcept(ctx, userID, currentSessionID, "password_changed"); err != nil {
		return err
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:    &userID,
		Action:     AuditActionPasswordChanged,
		TargetType: models.AuditTargetTypeUser,
		TargetID:   userID.String(),
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
		Status:     models.AuditLogStatusSuccess,
	})
	if err := s.publisher.Publish(ctx, s.topic, events.TypePasswordChanged, userID.String(),
		events.PasswordChangedPayload{UserID: userID.String()}); err != nil {
		s.logger.Warn("failed to publish password changed event", zap.Error(err))
	}
	return nil
}

func (s *AuthService) completeLogin(ctx context.Context, user *models.User, meta RequestMeta) (*models.LoginResult, error) {
	sessionReq := models.CreateSessionRequest{
		UserID:     user.ID,
		DeviceInfo: meta.DeviceInfo,
	}
	if meta.IPAddress != "" {
		sessionReq.IPAddress = &meta.IPAddress
	}
	if meta.UserAgent != "" {
		sessionReq.UserAgent = &meta.UserAgent
	}
	session, err := s.sessions.Create(ctx, sessionReq)
	if err != nil {
		return nil, err
	}

	pair, err := s.tokens.IssuePair(ctx, user, session.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	if roles, err := s.roles.GetUserRoles(ctx, user.ID); err == nil {
		user.Roles = roles
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:    &user.ID,
		Action:     AuditActionLogin,
		TargetType: models.AuditTargetTypeSession,
		TargetID:   session.ID.String(),
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
		Status:     models.AuditLogStatusSuccess,
	})
	if err := s.publisher.Publish(ctx, s.topic, events.TypeUserLoggedIn, user.ID.String(),
		events.UserLoggedInPayload{
			UserID:    user.ID.String(),
			SessionID: session.ID.String(),
			IPAddress: meta.IPAddress,
		}); err != nil {
		s.logger.Warn("failed to publish login event", zap.Error(err))
	}

	resp := user.ToResponse()
	return &models.LoginResult{User: &resp, Tokens: pair}, nil
}

func (s *AuthService) registerFailedAttempt(ctx context.Context, user *models.User, meta RequestMeta) error {
	attempts, err := s.users.IncrementFailedLoginAttempts(ctx, user.ID)
	if err != nil {
		return err
	}

	if s.lockout.MaxFailedAttempts > 0 && attempts >= s.lockout.MaxFailedAttempts {
		until := time.Now().Add(s.lockout.LockoutDuration)
		if err := s.users.SetLockout(ctx, user.ID, &until); err != nil {
			return err
		}
		s.audit.Record(ctx, AuditEntry{
			ActorID:    &user.ID,
			Action:     AuditActionLockout,
			TargetType: models.AuditTargetTypeUser,
			TargetID:   user.ID.String(),
			IPAddress:  meta.IPAddress,
			UserAgent:  meta.UserAgent,
			Status:     models.AuditLogStatusFailure,
			Details:    map[string]interface{}{"attempts": attempts},
		})
		if err := s.publisher.Publish(ctx, s.topic, events.TypeUserLockedOut, user.ID.String(),
			events.UserLockedOutPayload{UserID: user.ID.String(), LockoutUntil: until}); err != nil {
			s.logger.Warn("failed to publish lockout event", zap.Error(err))
		}
		return domainErrors.ErrUserLockedOut
	}

	s.recordLoginFailure(ctx, &user.ID, meta, "bad_password")
	return domainErrors.ErrInvalidCredentials
}

func (s *AuthService) recordLoginFailure(ctx context.Context, userID *uuid.UUID, meta RequestMeta, reason string) {
	entry := AuditEntry{
		ActorID:    userID,
		Action:     AuditActionLoginFailed,
		TargetType: models.AuditTargetTypeUser,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
		Status:     models.AuditLogStatusFailure,
		Details:    map[string]interface{}{"reason": reason},
	}
	payload := events.UserLoginFailedPayload{Reason: reason, IPAddress: meta.IPAddress}
	subject := ""
	if userID != nil {
		entry.TargetID = userID.String()
		payload.UserID = userID.String()
		subject = userID.String()
	}
	s.audit.Record(ctx, entry)
	if err := s.publisher.Publish(ctx, s.topic, events.TypeUserLoginFailed, subject, payload); err != nil {
		s.logger.Warn("failed to publish login failed event", zap.Error(err))
	}
}

func (s *AuthService) issueVerificationCode(ctx context.Context, userID uuid.UUID, codeType models.VerificationCodeType, ttl time.Duration) (string, error) {
	code, err := security.GenerateOpaqueToken(32)
	if err != nil {
		return "", err
	}
	record := &models.VerificationCode{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      codeType,
		CodeHash:  security.HashToken(code),
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := s.codes.Create(ctx, record); err != nil {
		return "", err
	}
	return code, nil
}
