package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domainErrors "github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/errors"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/models"
)

type rbacFixture struct {
	roles *MockRoleRepository
	users *MockUserRepository
	audit *MockAuditLogRepository
	svc   *RBACService
}

func newRBACFixture() *rbacFixture {
	f := &rbacFixture{
		roles: new(MockRoleRepository),
		users: new(MockUserRepository),
		audit: new(MockAuditLogRepository),
	}
	f.audit.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()
	logger := zap.NewNop()
	f.svc = NewRBACService(f.roles, f.users, NewAuditService(f.audit, logger), logger)
	return f
}

func TestRBACCreateRoleWithPermissions(t *testing.T) {
	f := newRBACFixture()
	actorID := uuid.New()
	perm := &models.Permission{ID: uuid.New(), Name: "events.create"}

	f.roles.On("CreateRole", mock.Anything, mock.MatchedBy(func(r *models.Role) bool {
		return r.Name == "moderator"
	})).Return(nil)
	f.roles.On("FindPermissionByName", mock.Anything, "events.create").Return(perm, nil)
	f.roles.On("SetRolePermissions", mock.Anything, mock.Anything, []uuid.UUID{perm.ID}).Return(nil)
	f.roles.On("FindRoleByID", mock.Anything, mock.Anything).
		Return(&models.Role{ID: uuid.New(), Name: "moderator"}, nil)
	f.roles.On("GetRolePermissions", mock.Anything, mock.Anything).
		Return([]models.Permission{*perm}, nil)

	role, err := f.svc.CreateRole(context.Background(), actorID, models.CreateRoleRequest{
		Name:        "moderator",
		Description: "content moderation",
		Permissions: []string{"events.create"},
	})
	require.NoError(t, err)
	require.Len(t, role.Permissions, 1)
	assert.Equal(t, "events.create", role.Permissions[0].Name)
	f.roles.AssertExpectations(t)
}

func TestRBACUpdateSystemRoleDescriptionRejected(t *testing.T) {
	f := newRBACFixture()
	roleID := uuid.New()
	f.roles.On("FindRoleByID", mock.Anything, roleID).
		Return(&models.Role{ID: roleID, Name: models.RoleAdmin, IsSystem: true}, nil)

	desc := "renamed"
	_, err := f.svc.UpdateRole(context.Background(), uuid.New(), roleID, models.UpdateRoleRequest{Description: &desc})
	assert.ErrorIs(t, err, domainErrors.ErrSystemRole)
	f.roles.AssertNotCalled(t, "UpdateRole", mock.Anything, mock.Anything)
}

func TestRBACUpdateSystemRolePermissionsAllowed(t *testing.T) {
	f := newRBACFixture()
	roleID := uuid.New()
	perm := &models.Permission{ID: uuid.New(), Name: "events.register"}

	f.roles.On("FindRoleByID", mock.Anything, roleID).
		Return(&models.Role{ID: roleID, Name: models.RoleOrganizer, IsSystem: true}, nil)
	f.roles.On("FindPermissionByName", mock.Anything, "events.register").Return(perm, nil)
	f.roles.On("SetRolePermissions", mock.Anything, roleID, []uuid.UUID{perm.ID}).Return(nil)
	f.roles.On("GetRolePermissions", mock.Anything, roleID).
		Return([]models.Permission{*perm}, nil)

	role, err := f.svc.UpdateRole(context.Background(), uuid.New(), roleID, models.UpdateRoleRequest{
		Permissions: []string{"events.register"},
	})
	require.NoError(t, err)
	assert.Len(t, role.Permissions, 1)
	f.roles.AssertExpectations(t)
}

func TestRBACDeleteSystemRoleRejected(t *testing.T) {
	f := newRBACFixture()
	roleID := uuid.New()
	f.roles.On("FindRoleByID", mock.Anything, roleID).
		Return(&models.Role{ID: roleID, Name: models.RoleAttendee, IsSystem: true}, nil)

	err := f.svc.DeleteRole(context.Background(), uuid.New(), roleID)
	assert.ErrorIs(t, err, domainErrors.ErrSystemRole)
	f.roles.AssertNotCalled(t, "DeleteRole", mock.Anything, mock.Anything)
}

func TestRBACDeleteCustomRole(t *testing.T) {
	f := newRBACFixture()
	roleID := uuid.New()
	f.roles.On("FindRoleByID", mock.Anything, roleID).
		Return(&models.Role{ID: roleID, Name: "moderator"}, nil)
	f.roles.On("DeleteRole", mock.Anything, roleID).Return(nil)

	require.NoError(t, f.svc.DeleteRole(context.Background(), uuid.New(), roleID))
	f.roles.AssertExpectations(t)
}

func TestRBACAssignRole(t *testing.T) {
	f := newRBACFixture()
	userID := uuid.New()
	role := &models.Role{ID: uuid.New(), Name: models.RoleOrganizer, IsSystem: true}

	f.users.On("FindByID", mock.Anything, userID).Return(activeTestUser(), nil)
	f.roles.On("FindRoleByName", mock.Anything, models.RoleOrganizer).Return(role, nil)
	f.roles.On("AssignRoleToUser", mock.Anything, userID, role.ID).Return(nil)

	require.NoError(t, f.svc.AssignRole(context.Background(), uuid.New(), userID, models.RoleOrganizer))
	f.roles.AssertExpectations(t)
}

func TestRBACAssignRoleUnknownUser(t *testing.T) {
	f := newRBACFixture()
	userID := uuid.New()
	f.users.On("FindByID", mock.Anything, userID).Return(nil, domainErrors.ErrUserNotFound)

	err := f.svc.AssignRole(context.Background(), uuid.New(), userID, models.RoleOrganizer)
	assert.ErrorIs(t, err, domainErrors.ErrUserNotFound)
	f.roles.AssertNotCalled(t, "AssignRoleToUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestRBACRemoveRole(t *testing.T) {
	f := newRBACFixture()
	userID := uuid.New()
	role := &models.Role{ID: uuid.New(), Name: "moderator"}

	f.roles.On("FindRoleByName", mock.Anything, "moderator").Return(role, nil)
	f.roles.On("RemoveRoleFromUser", mock.Anything, userID, role.ID).Return(nil)

	require.NoError(t, f.svc.RemoveRole(context.Background(), uuid.New(), userID, "moderator"))
	f.roles.AssertExpectations(t)
}
