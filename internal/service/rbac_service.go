package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainErrors "github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/errors"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/models"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/repository"
)

// RBACService manages roles, permissions and user assignments. System roles
// can have their permissions adjusted but cannot be renamed or deleted.
type RBACService struct {
	roles  repository.RoleRepository
	users  repository.UserRepository
	audit  *AuditService
	logger *zap.Logger
}

func NewRBACService(roles repository.RoleRepository, users repository.UserRepository, audit *AuditService, logger *zap.Logger) *RBACService {
	return &RBACService{roles: roles, users: users, audit: audit, logger: logger}
}

func (s *RBACService) CreateRole(ctx context.Context, actorID uuid.UUID, req models.CreateRoleRequest) (*models.Role, error) {
	role := &models.Role{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.roles.CreateRole(ctx, role); err != nil {
		return nil, err
	}
	if len(req.Permissions) > 0 {
		if err := s.setPermissionsByName(ctx, role.ID, req.Permissions); err != nil {
			return nil, err
		}
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:    &actorID,
		Action:     AuditActionRoleCreated,
		TargetType: models.AuditTargetTypeRole,
		TargetID:   role.ID.String(),
		Status:     models.AuditLogStatusSuccess,
		Details:    map[string]interface{}{"name": role.Name},
	})
	return s.GetRole(ctx, role.ID)
}

func (s *RBACService) UpdateRole(ctx context.Context, actorID, roleID uuid.UUID, req models.UpdateRoleRequest) (*models.Role, error) {
	role, err := s.roles.FindRoleByID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	if req.Description != nil {
		if role.IsSystem {
			return nil, domainErrors.ErrSystemRole
		}
		role.Description = *req.Description
		if err := s.roles.UpdateRole(ctx, role); err != nil {
			return nil, err
		}
	}
	if req.Permissions != nil {
		if err := s.setPermissionsByName(ctx, roleID, req.Permissions); err != nil {
			return nil, err
		}
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:    &actorID,
		Action:     AuditActionRoleUpdated,
		TargetType: models.AuditTargetTypeRole,
		TargetID:   roleID.String(),
		Status:     models.AuditLogStatusSuccess,
	})
	return s.GetRole(ctx, roleID)
}

func (s *RBACService) DeleteRole(ctx context.Context, actorID, roleID uuid.UUID) error {
	role, err := s.roles.FindRoleByID(ctx, roleID)
	if err != nil {
		return err
	}
	if role.IsSystem {
		return domainErrors.ErrSystemRole
	}
	if err := s.roles.DeleteRole(ctx, roleID); err != nil {
		return err
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:    &actorID,
		Action:     AuditActionRoleDeleted,
		TargetType: models.AuditTargetTypeRole,
		TargetID:   roleID.String(),
		Status:     models.AuditLogStatusSuccess,
		Details:    map[string]interface{}{"name": role.Name},
	})
	return nil
}

// GetRole returns a role with its permissions loaded.
func (s *RBACService) GetRole(ctx context.Context, roleID uuid.UUID) (*models.Role, error) {
	role, err := s.roles.FindRoleByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	perms, err := s.roles.GetRolePermissions(ctx, roleID)
	if err != nil {
		return nil, err
	}
	role.Permissions = perms
	return role, nil
}

func (s *RBACService) ListRoles(ctx context.Context) ([]*models.Role, error) {
	return s.roles.ListRoles(ctx)
}

func (s *RBACService) ListPermissions(ctx context.Context) ([]*models.Permission, error) {
	return s.roles.ListPermissions(ctx)
}

// AssignRole grants roleName to the user.
func (s *RBACService) AssignRole(ctx context.Context, actorID, userID uuid.UUID, roleName string) error {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}
	role, err := s.roles.FindRoleByName(ctx, roleName)
	if err != nil {
		return err
	}
	if err := s.roles.AssignRoleToUser(ctx, userID, role.ID); err != nil {
		return err
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:    &actorID,
		Action:     AuditActionRoleAssigned,
		TargetType: models.AuditTargetTypeUser,
		TargetID:   userID.String(),
		Status:     models.AuditLogStatusSuccess,
		Details:    map[string]interface{}{"role": roleName},
	})
	return nil
}

// RemoveRole revokes roleName from the user.
func (s *RBACService) RemoveRole(ctx context.Context, actorID, userID uuid.UUID, roleName string) error {
	role, err := s.roles.FindRoleByName(ctx, roleName)
	if err != nil {
		return err
	}
	if err := s.roles.RemoveRoleFromUser(ctx, userID, role.ID); err != nil {
		return err
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:    &actorID,
		Action:     AuditActionRoleRemoved,
		TargetType: models.AuditTargetTypeUser,
		TargetID:   userID.String(),
		Status:     models.AuditLogStatusSuccess,
		Details:    map[string]interface{}{"role": roleName},
	})
	return nil
}

func (s *RBACService) GetUserRoles(ctx context.Context, userID uuid.UUID) ([]models.Role, error) {
	return s.roles.GetUserRoles(ctx, userID)
}

func (s *RBACService) GetUserPermissions(ctx context.Context, userID uuid.UUID) ([]string, error) {
	return s.roles.GetUserPermissions(ctx, userID)
}

func (s *RBACService) setPermissionsByName(ctx context.Context, roleID uuid.UUID, names []string) error {
	ids := make([]uuid.UUID, 0, len(names))
	for _, name := range names {
		perm, err := s.roles.FindPermissionByName(ctx, name)
		if err != nil {
			return err
		}
		ids = append(ids, perm.ID)
	}
	return s.roles.SetRolePermissions(ctx, roleID, ids)
}
