package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/config"
	domainErrors "github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/errors"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/models"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/events"
)

type userServiceFixture struct {
	users        *MockUserRepository
	roles        *MockRoleRepository
	sessionsRepo *MockSessionRepository
	tokensRepo   *MockRefreshTokenRepository
	audit        *MockAuditLogRepository
	svc          *UserService
}

func newUserServiceFixture() *userServiceFixture {
	f := &userServiceFixture{
		users:        new(MockUserRepository),
		roles:        new(MockRoleRepository),
		sessionsRepo: new(MockSessionRepository),
		tokensRepo:   new(MockRefreshTokenRepository),
		audit:        new(MockAuditLogRepository),
	}
	f.audit.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()
	logger := zap.NewNop()
	sessions := NewSessionService(f.sessionsRepo, f.tokensRepo, events.NoopPublisher{},
		config.SecurityConfig{SessionTTL: 720 * time.Hour}, "auth-topic", logger)
	f.svc = NewUserService(f.users, f.roles, sessions, NewAuditService(f.audit, logger), logger)
	return f
}

func TestUserServiceGetLoadsRoles(t *testing.T) {
	f := newUserServiceFixture()
	user := activeTestUser()

	f.users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	f.roles.On("GetUserRoles", mock.Anything, user.ID).
		Return([]models.Role{{ID: uuid.New(), Name: models.RoleOrganizer}}, nil)

	got, err := f.svc.Get(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, got.Roles, 1)
	assert.Equal(t, models.RoleOrganizer, got.Roles[0].Name)
}

func TestUserServiceListDefaultsPagination(t *testing.T) {
	f := newUserServiceFixture()
	f.users.On("List", mock.Anything, mock.MatchedBy(func(p models.ListUsersParams) bool {
		return p.Page == 1 && p.PageSize == 50
	})).Return([]*models.User{}, 0, nil)

	_, _, err := f.svc.List(context.Background(), models.ListUsersParams{})
	require.NoError(t, err)
	f.users.AssertExpectations(t)
}

func TestUserServiceBlockTerminatesSessions(t *testing.T) {
	f := newUserServiceFixture()
	userID := uuid.New()

	f.users.On("UpdateStatus", mock.Anything, userID, models.UserStatusBlocked).Return(nil)
	f.sessionsRepo.On("TerminateAllByUserID", mock.Anything, userID, mock.Anything).
		Return(int64(2), nil)
	f.tokensRepo.On("RevokeAllByUserID", mock.Anything, userID, mock.Anything, "account_blocked").
		Return(int64(2), nil)

	require.NoError(t, f.svc.Block(context.Background(), uuid.New(), userID))
	f.sessionsRepo.AssertExpectations(t)
	f.tokensRepo.AssertExpectations(t)
}

func TestUserServiceRevokeSessions(t *testing.T) {
	f := newUserServiceFixture()
	user := activeTestUser()

	f.users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	f.sessionsRepo.On("TerminateAllByUserID", mock.Anything, user.ID, mock.Anything).
		Return(int64(3), nil)
	f.tokensRepo.On("RevokeAllByUserID", mock.Anything, user.ID, mock.Anything, "admin_revoked").
		Return(int64(3), nil)

	revoked, err := f.svc.RevokeSessions(context.Background(), uuid.New(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), revoked)
	f.sessionsRepo.AssertExpectations(t)
	f.tokensRepo.AssertExpectations(t)
}

func TestUserServiceRevokeSessionsUnknownUser(t *testing.T) {
	f := newUserServiceFixture()
	userID := uuid.New()
	f.users.On("FindByID", mock.Anything, userID).Return(nil, domainErrors.ErrUserNotFound)

	_, err := f.svc.RevokeSessions(context.Background(), uuid.New(), userID)
	assert.ErrorIs(t, err, domainErrors.ErrUserNotFound)
	f.sessionsRepo.AssertNotCalled(t, "TerminateAllByUserID", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserServiceUnblockClearsLockout(t *testing.T) {
	f := newUserServiceFixture()
	userID := uuid.New()

	f.users.On("UpdateStatus", mock.Anything, userID, models.UserStatusActive).Return(nil)
	f.users.On("ResetFailedLoginAttempts", mock.Anything, userID).Return(nil)

	require.NoError(t, f.svc.Unblock(context.Background(), uuid.New(), userID))
	f.users.AssertExpectations(t)
}

func TestUserServiceDelete(t *testing.T) {
	f := newUserServiceFixture()
	userID := uuid.New()

	f.sessionsRepo.On("TerminateAllByUserID", mock.Anything, userID, mock.Anything).
		Return(int64(1), nil)
	f.tokensRepo.On("RevokeAllByUserID", mock.Anything, userID, mock.Anything, "account_deleted").
		Return(int64(1), nil)
	f.users.On("Delete", mock.Anything, userID).Return(nil)

	require.NoError(t, f.svc.Delete(context.Background(), uuid.New(), userID))
	f.users.AssertExpectations(t)
}
