package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/models"
)

// RoleRepository persists roles, permissions and their assignments.
type RoleRepository interface {
	CreateRole(ctx context.Context, role *models.Role) error
	UpdateRole(ctx context.Context, role *models.Role) error
	DeleteRole(ctx context.Context, id uuid.UUID) error
	FindRoleByID(ctx context.Context, id uuid.UUID) (*models.Role, error)
	FindRoleByName(ctx context.Context, name string) (*models.Role, error)
	ListRoles(ctx context.Context) ([]*models.Role, error)

	ListPermissions(ctx context.Context) ([]*models.Permission, error)
	FindPermissionByName(ctx context.Context, name string) (*models.Permission, error)
	SetRolePermissions(ctx context.Context, roleID uuid.UUID, permissionIDs []uuid.UUID) error
	GetRolePermissions(ctx context.Context, roleID uuid.UUID) ([]models.Permission, error)

	AssignRoleToUser(ctx context.Context, userID, roleID uuid.UUID) error
	RemoveRoleFromUser(ctx context.Context, userID, roleID uuid.UUID) error
	GetUserRoles(ctx context.Context, userID uuid.UUID) ([]models.Role, error)
	GetUserPermissions(ctx context.Context, userID uuid.UUID) ([]string, error)
}
