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
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/infrastructure/security"
)

// TwoFactorService manages TOTP enrollment, verification and backup codes.
// Secrets are stored encrypted and stay unusable until the user confirms
// enrollment with a valid code.
type TwoFactorService struct {
	secrets   repository.MFASecretRepository
	backup    repository.MFABackupCodeRepository
	users     repository.UserRepository
	totp      TOTPProvider
	encryptor SecretEncryptor
	hasher    PasswordHasher
	publisher events.Publisher
	audit     *AuditService
	cfg       config.MFAConfig
	topic     string
	logger    *zap.Logger
}

func NewTwoFactorService(
	secrets repository.MFASecretRepository,
	backup repository.MFABackupCodeRepository,
	users repository.UserRepository,
	totp TOTPProvider,
	encryptor SecretEncryptor,
	hasher PasswordHasher,
	publisher events.Publisher,
	audit *AuditService,
	cfg config.MFAConfig,
	authTopic string,
	logger *zap.Logger,
) *TwoFactorService {
	return &TwoFactorService{
		secrets:   secrets,
		backup:    backup,
		users:     users,
		totp:      totp,
		encryptor: encryptor,
		hasher:    hasher,
		publisher: publisher,
		audit:     audit,
		cfg:       cfg,
		topic:     authTopic,
		logger:    logger,
	}
}

// Enroll starts TOTP enrollment. An unverified prior enrollment is replaced;
// a verified one must be disabled first.
func (s *TwoFactorService) Enroll(ctx context.Context, userID uuid.UUID) (*models.MFAEnrollment, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.secrets.FindByUserIDAndType(ctx, userID, models.MFATypeTOTP)
	if err != nil && !errors.Is(err, domainErrors.Err2FANotEnabled) {
		return nil, err
	}
	if existing != nil && existing.Verified {
		return nil, domainErrors.Err2FAAlreadyEnabled
	}

	secret, otpAuthURL, err := s.totp.GenerateSecret(user.Email)
	if err != nil {
		return nil, err
	}
	encrypted, err := s.encryptor.Encrypt(secret)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		existing.SecretEncrypted = encrypted
		existing.Verified = false
		existing.FailedAttempts = 0
		if err := s.secrets.Update(ctx, existing); err != nil {
			return nil, err
		}
	} else {
		record := &models.MFASecret{
			ID:              uuid.New(),
			UserID:          userID,
			Type:            models.MFATypeTOTP,
			SecretEncrypted: encrypted,
		}
		if err := s.secrets.Create(ctx, record); err != nil {
			return nil, err
		}
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:    &userID,
		Action:     AuditAction2FAEnrolled,
		TargetType: models.AuditTargetTypeUser,
		TargetID:   userID.String(),
		Status:     models.AuditLogStatusSuccess,
	})
	return &models.MFAEnrollment{Secret: secret, OTPAuthURL: otpAuthURL}, nil
}

// ConfirmEnrollment verifies the first TOTP code, marks the secret usable and
// returns freshly generated backup codes. The plain codes are shown once.
func (s *TwoFactorService) ConfirmEnrollment(ctx context.Context, userID uuid.UUID, code string) ([]string, error) {
	record, err := s.secrets.FindByUserIDAndType(ctx, userID, models.MFATypeTOTP)
	if err != nil {
		return nil, err
	}
	if record.Verified {
		return nil, domainErrors.Err2FAAlreadyEnabled
	}

	secret, err := s.encryptor.Decrypt(record.SecretEncrypted)
	if err != nil {
		return nil, err
	}
	valid, err := s.totp.ValidateCode(secret, code)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, domainErrors.ErrInvalid2FACode
	}

	record.Verified = true
	record.FailedAttempts = 0
	if err := s.secrets.Update(ctx, record); err != nil {
		return nil, err
	}

	codes, err := s.rotateBackupCodes(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:    &userID,
		Action:     AuditAction2FAEnabled,
		TargetType: models.AuditTargetTypeUser,
		TargetID:   userID.String(),
		Status:     models.AuditLogStatusSuccess,
	})
	if err := s.publisher.Publish(ctx, s.topic, events.Type2FAEnabled, userID.String(),
		events.TwoFactorPayload{UserID: userID.String()}); err != nil {
		s.logger.Warn("failed to publish 2fa enabled event", zap.Error(err))
	}
	return codes, nil
}

// Disable removes 2FA after password confirmation.
func (s *TwoFactorService) Disable(ctx context.Context, userID uuid.UUID, password string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	match, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return err
	}
	if !match {
		return domainErrors.ErrInvalidPassword
	}

	deleted, err := s.secrets.DeleteByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return domainErrors.Err2FANotEnabled
	}
	if _, err := s.backup.DeleteByUserID(ctx, userID); err != nil {
		return err
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:    &userID,
		Action:     AuditAction2FADisabled,
		TargetType: models.AuditTargetTypeUser,
		TargetID:   userID.String(),
		Status:     models.AuditLogStatusSuccess,
	})
	if err := s.publisher.Publish(ctx, s.topic, events.Type2FADisabled, userID.String(),
		events.TwoFactorPayload{UserID: userID.String()}); err != nil {
		s.logger.Warn("failed to publish 2fa disabled event", zap.Error(err))
	}
	return nil
}

// ValidateLoginCode accepts either a current TOTP code or an unused backup
// code. A matched backup code is consumed. Each failed attempt increments a
// per-secret counter; once the limit is reached further attempts are refused
// until a successful validation resets the counter.
func (s *TwoFactorService) ValidateLoginCode(ctx context.Context, userID uuid.UUID, code string) error {
	record, err := s.secrets.FindByUserIDAndType(ctx, userID, models.MFATypeTOTP)
	if err != nil {
		return err
	}
	if !record.Verified {
		return domainErrors.ErrMFANotVerified
	}
	if record.FailedAttempts >= s.maxFailedAttempts() {
		return domainErrors.ErrRateLimited
	}

	secret, err := s.encryptor.Decrypt(record.SecretEncrypted)
	if err != nil {
		return err
	}
	valid, err := s.totp.ValidateCode(secret, code)
	if err != nil {
		return err
	}
	if valid {
		return s.clearFailedAttempts(ctx, record)
	}

	if err := s.consumeBackupCode(ctx, userID, code); err == nil {
		return s.clearFailedAttempts(ctx, record)
	} else if !errors.Is(err, domainErrors.ErrInvalidBackupCode) {
		return err
	}

	record.FailedAttempts++
	if err := s.secrets.Update(ctx, record); err != nil {
		s.logger.Error("failed to persist 2fa attempt counter",
			zap.String("user_id", userID.String()), zap.Error(err))
	}
	return domainErrors.ErrInvalid2FACode
}

func (s *TwoFactorService) maxFailedAttempts() int {
	if s.cfg.MaxFailedAttempts > 0 {
		return s.cfg.MaxFailedAttempts
	}
	return 5
}

func (s *TwoFactorService) clearFailedAttempts(ctx context.Context, record *models.MFASecret) error {
	if record.FailedAttempts == 0 {
		return nil
	}
	record.FailedAttempts = 0
	return s.secrets.Update(ctx, record)
}

// RegenerateBackupCodes replaces all backup codes after password confirmation.
func (s *TwoFactorService) RegenerateBackupCodes(ctx context.Context, userID uuid.UUID, password string) ([]string, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	match, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !match {
		return nil, domainErrors.ErrInvalidPassword
	}

	record, err := s.secrets.FindByUserIDAndType(ctx, userID, models.MFATypeTOTP)
	if err != nil {
		return nil, err
	}
	if !record.Verified {
		return nil, domainErrors.ErrMFANotVerified
	}

	codes, err := s.rotateBackupCodes(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, AuditEntry{
		ActorID:    &userID,
		Action:     AuditActionBackupCodesRotated,
		TargetType: models.AuditTargetTypeUser,
		TargetID:   userID.String(),
		Status:     models.AuditLogStatusSuccess,
	})
	return codes, nil
}

// Status reports whether 2FA is enabled and how many backup codes remain.
func (s *TwoFactorService) Status(ctx context.Context, userID uuid.UUID) (enabled bool, backupCodesLeft int, err error) {
	record, err := s.secrets.FindByUserIDAndType(ctx, userID, models.MFATypeTOTP)
	if err != nil {
		if errors.Is(err, domainErrors.Err2FANotEnabled) {
			return false, 0, nil
		}
		return false, 0, err
	}
	if !record.Verified {
		return false, 0, nil
	}
	count, err := s.backup.CountActiveByUserID(ctx, userID)
	if err != nil {
		return true, 0, err
	}
	return true, count, nil
}

func (s *TwoFactorService) rotateBackupCodes(ctx context.Context, userID uuid.UUID) ([]string, error) {
	if _, err := s.backup.DeleteByUserID(ctx, userID); err != nil {
		return nil, err
	}

	count := s.cfg.BackupCodeCount
	if count <= 0 {
		count = 10
	}
	plain := make([]string, 0, count)
	records := make([]*models.MFABackupCode, 0, count)
	for i := 0; i < count; i++ {
		code, err := security.GenerateBackupCode()
		if err != nil {
			return nil, err
		}
		hash, err := s.hasher.Hash(code)
		if err != nil {
			return nil, err
		}
		plain = append(plain, code)
		records = append(records, &models.MFABackupCode{
			ID:       uuid.New(),
			UserID:   userID,
			CodeHash: hash,
		})
	}
	if err := s.backup.CreateBatch(ctx, records); err != nil {
		return nil, err
	}
	return plain, nil
}

func (s *TwoFactorService) consumeBackupCode(ctx context.Context, userID uuid.UUID, code string) error {
	active, err := s.backup.FindActiveByUserID(ctx, userID)
	if err != nil {
		return err
	}
	for _, candidate := range active {
		match, err := s.hasher.Verify(code, candidate.CodeHash)
		if err != nil {
			return err
		}
		if match {
			return s.backup.MarkUsed(ctx, candidate.ID, time.Now())
		}
	}
	return domainErrors.ErrInvalidBackupCode
}
