package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/models"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/repository"
)

// UserService covers account lookup and the admin moderation operations.
type UserService struct {
	users    repository.UserRepository
	roles    repository.RoleRepository
	sessions *SessionService
	audit    *AuditService
	logger   *zap.Logger
}

func NewUserService(
	users repository.UserRepository,
	roles repository.RoleRepository,
	sessions *SessionService,
	audit *AuditService,
	logger *zap.Logger,
) *UserService {
	return &UserService{users: users, roles: roles, sessions: sessions, audit: audit, logger: logger}
}

// Get returns a user with roles loaded.
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	roles, err := s.roles.GetUserRoles(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Roles = roles
	return user, nil
}

func (s *UserService) List(ctx context.Context, params models.ListUsersParams) ([]*models.User, int, error) {
	if params.PageSize <= 0 {
		params.PageSize = 50
	}
	if params.Page <= 0 {
		params.Page = 1
	}
	return s.users.List(ctx, params)
}

// Block suspends an account and terminates all of its sessions.
func (s *UserService) Block(ctx context.Context, actorID, userID uuid.UUID) error {
	if err := s.users.UpdateStatus(ctx, userID, models.UserStatusBlocked); err != nil {
		return err
	}
	if _, err := s.sessions.TerminateAll(ctx, userID, "account_blocked"); err != nil {
		return err
	}
	s.audit.Record(ctx, AuditEntry{
		ActorID:    &actorID,
		Action:     AuditActionUserBlocked,
		TargetType: models.AuditTargetTypeUser,
		TargetID:   userID.String(),
		Status:     models.AuditLogStatusSuccess,
	})
	return nil
}

// Unblock reinstates a blocked account and clears any lockout.
func (s *UserService) Unblock(ctx context.Context, actorID, userID uuid.UUID) error {
	if err := s.users.UpdateStatus(ctx, userID, models.UserStatusActive); err != nil {
		return err
	}
	if err := s.users.ResetFailedLoginAttempts(ctx, userID); err != nil {
		return err
	}
	s.audit.Record(ctx, AuditEntry{
		ActorID:    &actorID,
		Action:     AuditActionUserUnblocked,
		TargetType: models.AuditTargetTypeUser,
		TargetID:   userID.String(),
		Status:     models.AuditLogStatusSuccess,
	})
	return nil
}

// RevokeSessions terminates every active session of the target account
// without touching the account status.
func (s *UserService) RevokeSessions(ctx context.Context, actorID, userID uuid.UUID) (int64, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return 0, err
	}
	revoked, err := s.sessions.TerminateAll(ctx, userID, "admin_revoked")
	if err != nil {
		return 0, err
	}
	s.audit.Record(ctx, AuditEntry{
		ActorID:    &actorID,
		Action:     AuditActionSessionsRevoked,
		TargetType: models.AuditTargetTypeUser,
		TargetID:   userID.String(),
		Status:     models.AuditLogStatusSuccess,
		Details:    map[string]interface{}{"sessions": revoked},
	})
	return revoked, nil
}

// Delete soft-deletes an account and terminates all of its sessions.
func (s *UserService) Delete(ctx context.Context, actorID, userID uuid.UUID) error {
	if _, err := s.sessions.TerminateAll(ctx, userID, "account_deleted"); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	s.audit.Record(ctx, AuditEntry{
		ActorID:    &actorID,
		Action:     AuditActionUserDeleted,
		TargetType: models.AuditTargetTypeUser,
		TargetID:   userID.String(),
		Status:     models.AuditLogStatusSuccess,
	})
	return nil
}
