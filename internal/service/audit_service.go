package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/models"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/repository"
)

// Audit actions recorded by the platform.
const (
	AuditActionRegister           = "auth.register"
	AuditActionEmailVerified      = "auth.email_verified"
	AuditActionLogin              = "auth.login"
	AuditActionLoginFailed        = "auth.login_failed"
	AuditActionLockout            = "auth.lockout"
	AuditActionLogout             = "auth.logout"
	AuditActionLogoutAll          = "auth.logout_all"
	AuditActionTokenRefreshed     = "auth.token_refreshed"
	AuditActionTokenReuse         = "auth.token_reuse_detected"
	AuditActionPasswordChanged    = "auth.password_changed"
	AuditActionPasswordResetReq   = "auth.password_reset_requested"
	AuditActionPasswordReset      = "auth.password_reset"
	AuditAction2FAEnrolled        = "auth.2fa_enrolled"
	AuditAction2FAEnabled         = "auth.2fa_enabled"
	AuditAction2FADisabled        = "auth.2fa_disabled"
	AuditAction2FAFailed          = "auth.2fa_failed"
	AuditActionBackupCodesRotated = "auth.backup_codes_rotated"
	AuditActionSessionTerminated  = "auth.session_terminated"

	AuditActionRoleCreated     = "rbac.role_created"
	AuditActionRoleUpdated     = "rbac.role_updated"
	AuditActionRoleDeleted     = "rbac.role_deleted"
	AuditActionRoleAssigned    = "rbac.role_assigned"
	AuditActionRoleRemoved     = "rbac.role_removed"
	AuditActionUserBlocked     = "admin.user_blocked"
	AuditActionUserUnblocked   = "admin.user_unblocked"
	AuditActionUserDeleted     = "admin.user_deleted"
	AuditActionSessionsRevoked = "admin.sessions_revoked"
	AuditActionSettingUpserted = "admin.setting_upserted"
	AuditActionSettingDeleted  = "admin.setting_deleted"

	AuditActionEventCreated          = "platform.event_created"
	AuditActionEventPublished        = "platform.event_published"
	AuditActionEventCancelled        = "platform.event_cancelled"
	AuditActionEventCompleted        = "platform.event_completed"
	AuditActionRegistrationCreated   = "platform.registration_created"
	AuditActionRegistrationCancelled = "platform.registration_cancelled"
	AuditActionAttendanceMarked      = "platform.attendance_marked"
	AuditActionContractTransition    = "platform.contract_transition"
)

// AuditEntry is the write-side input for one audit record.
type AuditEntry struct {
	ActorID    *uuid.UUID
	Action     string
	TargetType string
	TargetID   string
	IPAddress  string
	UserAgent  string
	Status     models.AuditLogStatus
	Details    map[string]interface{}
}

// AuditService writes the append-only audit trail. Recording failures are
// logged but never propagated, so audit outages cannot block logins.
type AuditService struct {
	repo   repository.AuditLogRepository
	logger *zap.Logger
}

func NewAuditService(repo repository.AuditLogRepository, logger *zap.Logger) *AuditService {
	return &AuditService{repo: repo, logger: logger}
}

// Record persists one audit entry.
func (s *AuditService) Record(ctx context.Context, entry AuditEntry) {
	log := &models.AuditLog{
		ActorID: entry.ActorID,
		Action:  entry.Action,
		Status:  entry.Status,
	}
	if entry.TargetType != "" {
		log.TargetType = &entry.TargetType
	}
	if entry.TargetID != "" {
		log.TargetID = &entry.TargetID
	}
	if entry.IPAddress != "" {
		log.IPAddress = &entry.IPAddress
	}
	if entry.UserAgent != "" {
		log.UserAgent = &entry.UserAgent
	}
	if len(entry.Details) > 0 {
		details, err := json.Marshal(entry.Details)
		if err != nil {
			s.logger.Error("failed to marshal audit details",
				zap.String("action", entry.Action), zap.Error(err))
		} else {
			log.Details = details
		}
	}

	if err := s.repo.Create(ctx, log); err != nil {
		s.logger.Error("failed to record audit entry",
			zap.String("action", entry.Action), zap.Error(err))
	}
}

// Get returns a single audit record.
func (s *AuditService) Get(ctx context.Context, id int64) (*models.AuditLog, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns a filtered page of the audit trail.
func (s *AuditService) List(ctx context.Context, params models.ListAuditLogsParams) ([]*models.AuditLog, int, error) {
	if params.PageSize <= 0 {
		params.PageSize = 50
	}
	if params.Page <= 0 {
		params.Page = 1
	}
	return s.repo.List(ctx, params)
}
