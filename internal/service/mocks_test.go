package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	domainErrors "github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/errors"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/models"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/infrastructure/security"
)

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockUserRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.UserStatus) error {
	return m.Called(ctx, id, status).Error(0)
}
func (m *MockUserRepository) SetEmailVerifiedAt(ctx context.Context, id uuid.UUID, verifiedAt time.Time) error {
	return m.Called(ctx, id, verifiedAt).Error(0)
}
func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}
func (m *MockUserRepository) IncrementFailedLoginAttempts(ctx context.Context, id uuid.UUID) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}
func (m *MockUserRepository) ResetFailedLoginAttempts(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockUserRepository) SetLockout(ctx context.Context, id uuid.UUID, lockoutUntil *time.Time) error {
	return m.Called(ctx, id, lockoutUntil).Error(0)
}
func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, lastLoginAt time.Time) error {
	return m.Called(ctx, id, lastLoginAt).Error(0)
}
func (m *MockUserRepository) List(ctx context.Context, params models.ListUsersParams) ([]*models.User, int, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.User), args.Int(1), args.Error(2)
}

type MockSessionRepository struct{ mock.Mock }

func (m *MockSessionRepository) Create(ctx context.Context, session *models.Session) error {
	return m.Called(ctx, session).Error(0)
}
func (m *MockSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}
func (m *MockSessionRepository) FindActiveByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Session, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Session), args.Error(1)
}
func (m *MockSessionRepository) CountActiveByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}
func (m *MockSessionRepository) FindOldestActiveByUserID(ctx context.Context, userID uuid.UUID, n int) ([]*models.Session, error) {
	args := m.Called(ctx, userID, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Session), args.Error(1)
}
func (m *MockSessionRepository) Terminate(ctx context.Context, id uuid.UUID, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}
func (m *MockSessionRepository) TerminateAllByUserID(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	args := m.Called(ctx, userID, at)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockSessionRepository) TerminateAllExcept(ctx context.Context, userID uuid.UUID, keep uuid.UUID, at time.Time) (int64, error) {
	args := m.Called(ctx, userID, keep, at)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockSessionRepository) UpdateLastActivity(ctx context.Context, id uuid.UUID, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

type MockRefreshTokenRepository struct{ mock.Mock }

func (m *MockRefreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	return m.Called(ctx, token).Error(0)
}
func (m *MockRefreshTokenRepository) FindByHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshToken), args.Error(1)
}
func (m *MockRefreshTokenRepository) Revoke(ctx context.Context, id uuid.UUID, at time.Time, reason string) error {
	return m.Called(ctx, id, at, reason).Error(0)
}
func (m *MockRefreshTokenRepository) RevokeBySessionID(ctx context.Context, sessionID uuid.UUID, at time.Time, reason string) (int64, error) {
	args := m.Called(ctx, sessionID, at, reason)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockRefreshTokenRepository) RevokeAllByUserID(ctx context.Context, userID uuid.UUID, at time.Time, reason string) (int64, error) {
	args := m.Called(ctx, userID, at, reason)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockRefreshTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

type MockVerificationCodeRepository struct{ mock.Mock }

func (m *MockVerificationCodeRepository) Create(ctx context.Context, code *models.VerificationCode) error {
	return m.Called(ctx, code).Error(0)
}
func (m *MockVerificationCodeRepository) FindActiveByHash(ctx context.Context, codeHash string, codeType models.VerificationCodeType) (*models.VerificationCode, error) {
	args := m.Called(ctx, codeHash, codeType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VerificationCode), args.Error(1)
}
func (m *MockVerificationCodeRepository) MarkUsed(ctx context.Context, id uuid.UUID, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}
func (m *MockVerificationCodeRepository) InvalidateAllForUser(ctx context.Context, userID uuid.UUID, codeType models.VerificationCodeType) error {
	return m.Called(ctx, userID, codeType).Error(0)
}

type MockMFASecretRepository struct{ mock.Mock }

func (m *MockMFASecretRepository) Create(ctx context.Context, secret *models.MFASecret) error {
	return m.Called(ctx, secret).Error(0)
}
func (m *MockMFASecretRepository) Update(ctx context.Context, secret *models.MFASecret) error {
	return m.Called(ctx, secret).Error(0)
}
func (m *MockMFASecretRepository) FindByUserIDAndType(ctx context.Context, userID uuid.UUID, mfaType models.MFAType) (*models.MFASecret, error) {
	args := m.Called(ctx, userID, mfaType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MFASecret), args.Error(1)
}
func (m *MockMFASecretRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockMFABackupCodeRepository struct{ mock.Mock }

func (m *MockMFABackupCodeRepository) CreateBatch(ctx context.Context, codes []*models.MFABackupCode) error {
	return m.Called(ctx, codes).Error(0)
}
func (m *MockMFABackupCodeRepository) FindActiveByUserID(ctx context.Context, userID uuid.UUID) ([]*models.MFABackupCode, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MFABackupCode), args.Error(1)
}
func (m *MockMFABackupCodeRepository) CountActiveByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}
func (m *MockMFABackupCodeRepository) MarkUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	return m.Called(ctx, id, usedAt).Error(0)
}
func (m *MockMFABackupCodeRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockRoleRepository struct{ mock.Mock }

func (m *MockRoleRepository) CreateRole(ctx context.Context, role *models.Role) error {
	return m.Called(ctx, role).Error(0)
}
func (m *MockRoleRepository) UpdateRole(ctx context.Context, role *models.Role) error {
	return m.Called(ctx, role).Error(0)
}
func (m *MockRoleRepository) DeleteRole(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockRoleRepository) FindRoleByID(ctx context.Context, id uuid.UUID) (*models.Role, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Role), args.Error(1)
}
func (m *MockRoleRepository) FindRoleByName(ctx context.Context, name string) (*models.Role, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Role), args.Error(1)
}
func (m *MockRoleRepository) ListRoles(ctx context.Context) ([]*models.Role, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Role), args.Error(1)
}
func (m *MockRoleRepository) ListPermissions(ctx context.Context) ([]*models.Permission, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Permission), args.Error(1)
}
func (m *MockRoleRepository) FindPermissionByName(ctx context.Context, name string) (*models.Permission, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Permission), args.Error(1)
}
func (m *MockRoleRepository) SetRolePermissions(ctx context.Context, roleID uuid.UUID, permissionIDs []uuid.UUID) error {
	return m.Called(ctx, roleID, permissionIDs).Error(0)
}
func (m *MockRoleRepository) GetRolePermissions(ctx context.Context, roleID uuid.UUID) ([]models.Permission, error) {
	args := m.Called(ctx, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Permission), args.Error(1)
}
func (m *MockRoleRepository) AssignRoleToUser(ctx context.Context, userID, roleID uuid.UUID) error {
	return m.Called(ctx, userID, roleID).Error(0)
}
func (m *MockRoleRepository) RemoveRoleFromUser(ctx context.Context, userID, roleID uuid.UUID) error {
	return m.Called(ctx, userID, roleID).Error(0)
}
func (m *MockRoleRepository) GetUserRoles(ctx context.Context, userID uuid.UUID) ([]models.Role, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Role), args.Error(1)
}
func (m *MockRoleRepository) GetUserPermissions(ctx context.Context, userID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockAuditLogRepository struct{ mock.Mock }

func (m *MockAuditLogRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	return m.Called(ctx, entry).Error(0)
}
func (m *MockAuditLogRepository) FindByID(ctx context.Context, id int64) (*models.AuditLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuditLog), args.Error(1)
}
func (m *MockAuditLogRepository) List(ctx context.Context, params models.ListAuditLogsParams) ([]*models.AuditLog, int, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.AuditLog), args.Int(1), args.Error(2)
}

type MockEventRepository struct{ mock.Mock }

func (m *MockEventRepository) Create(ctx context.Context, event *models.Event) error {
	return m.Called(ctx, event).Error(0)
}
func (m *MockEventRepository) Update(ctx context.Context, event *models.Event) error {
	return m.Called(ctx, event).Error(0)
}
func (m *MockEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}
func (m *MockEventRepository) List(ctx context.Context, params models.ListEventsParams) ([]*models.Event, int, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Event), args.Int(1), args.Error(2)
}
func (m *MockEventRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.EventStatus) error {
	return m.Called(ctx, id, status).Error(0)
}
func (m *MockEventRepository) CreateRegistration(ctx context.Context, reg *models.Registration) error {
	return m.Called(ctx, reg).Error(0)
}
func (m *MockEventRepository) FindRegistration(ctx context.Context, eventID, userID uuid.UUID) (*models.Registration, error) {
	args := m.Called(ctx, eventID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Registration), args.Error(1)
}
func (m *MockEventRepository) FindRegistrationByID(ctx context.Context, id uuid.UUID) (*models.Registration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Registration), args.Error(1)
}
func (m *MockEventRepository) CountConfirmedRegistrations(ctx context.Context, eventID uuid.UUID) (int, error) {
	args := m.Called(ctx, eventID)
	return args.Int(0), args.Error(1)
}
func (m *MockEventRepository) UpdateRegistrationStatus(ctx context.Context, id uuid.UUID, status models.RegistrationStatus) error {
	return m.Called(ctx, id, status).Error(0)
}
func (m *MockEventRepository) ListRegistrationsByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*models.Registration, int, error) {
	args := m.Called(ctx, userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Registration), args.Int(1), args.Error(2)
}
func (m *MockEventRepository) ListRegistrationsByEvent(ctx context.Context, eventID uuid.UUID, page, pageSize int) ([]*models.Registration, int, error) {
	args := m.Called(ctx, eventID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Registration), args.Int(1), args.Error(2)
}

type MockSpeakerRepository struct{ mock.Mock }

func (m *MockSpeakerRepository) CreateSpeaker(ctx context.Context, speaker *models.Speaker) error {
	return m.Called(ctx, speaker).Error(0)
}
func (m *MockSpeakerRepository) UpdateSpeaker(ctx context.Context, speaker *models.Speaker) error {
	return m.Called(ctx, speaker).Error(0)
}
func (m *MockSpeakerRepository) FindSpeakerByID(ctx context.Context, id uuid.UUID) (*models.Speaker, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Speaker), args.Error(1)
}
func (m *MockSpeakerRepository) ListSpeakers(ctx context.Context, page, pageSize int) ([]*models.Speaker, int, error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Speaker), args.Int(1), args.Error(2)
}
func (m *MockSpeakerRepository) CreateContract(ctx context.Context, contract *models.SpeakerContract) error {
	return m.Called(ctx, contract).Error(0)
}
func (m *MockSpeakerRepository) FindContractByID(ctx context.Context, id uuid.UUID) (*models.SpeakerContract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SpeakerContract), args.Error(1)
}
func (m *MockSpeakerRepository) ListContractsByEvent(ctx context.Context, eventID uuid.UUID) ([]*models.SpeakerContract, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SpeakerContract), args.Error(1)
}
func (m *MockSpeakerRepository) UpdateContractStatus(ctx context.Context, id uuid.UUID, status models.ContractStatus, sentAt, signedAt *time.Time) error {
	return m.Called(ctx, id, status, sentAt, signedAt).Error(0)
}

type MockGamificationRepository struct{ mock.Mock }

func (m *MockGamificationRepository) CreatePointEntry(ctx context.Context, entry *models.PointEntry) error {
	return m.Called(ctx, entry).Error(0)
}
func (m *MockGamificationRepository) SumPointsByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}
func (m *MockGamificationRepository) ListPointEntries(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*models.PointEntry, int, error) {
	args := m.Called(ctx, userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.PointEntry), args.Int(1), args.Error(2)
}
func (m *MockGamificationRepository) ListBadges(ctx context.Context) ([]*models.Badge, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Badge), args.Error(1)
}
func (m *MockGamificationRepository) CreateBadge(ctx context.Context, badge *models.Badge) error {
	return m.Called(ctx, badge).Error(0)
}
func (m *MockGamificationRepository) ListUserBadges(ctx context.Context, userID uuid.UUID) ([]*models.Badge, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Badge), args.Error(1)
}
func (m *MockGamificationRepository) AwardBadge(ctx context.Context, userID, badgeID uuid.UUID, at time.Time) error {
	return m.Called(ctx, userID, badgeID, at).Error(0)
}

type MockSettingsRepository struct{ mock.Mock }

func (m *MockSettingsRepository) GetSetting(ctx context.Context, key string) (*models.SystemSetting, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SystemSetting), args.Error(1)
}
func (m *MockSettingsRepository) ListSettings(ctx context.Context) ([]*models.SystemSetting, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SystemSetting), args.Error(1)
}
func (m *MockSettingsRepository) UpsertSetting(ctx context.Context, setting *models.SystemSetting) error {
	return m.Called(ctx, setting).Error(0)
}
func (m *MockSettingsRepository) DeleteSetting(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}
func (m *MockSettingsRepository) GetPreferences(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserPreferences), args.Error(1)
}
func (m *MockSettingsRepository) UpsertPreferences(ctx context.Context, prefs *models.UserPreferences) error {
	return m.Called(ctx, prefs).Error(0)
}

// fakeHasher is a deterministic stand-in for the argon2id hasher.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (fakeHasher) Verify(password, encodedHash string) (bool, error) {
	return encodedHash == "hashed:"+password, nil
}

// fakeTokenManager issues predictable token strings.
type fakeTokenManager struct {
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func newFakeTokenManager() *fakeTokenManager {
	return &fakeTokenManager{accessTTL: 15 * time.Minute, refreshTTL: 720 * time.Hour}
}

func (f *fakeTokenManager) GenerateAccessToken(userID, username string, roles, permissions []string, sessionID string) (string, *security.Claims, error) {
	claims := &security.Claims{
		UserID:      userID,
		Username:    username,
		Roles:       roles,
		Permissions: permissions,
		SessionID:   sessionID,
	}
	claims.ID = uuid.NewString()
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(f.accessTTL))
	return "access-token-" + claims.ID, claims, nil
}

func (f *fakeTokenManager) ValidateAccessToken(token string) (*security.Claims, error) {
	if !strings.HasPrefix(token, "access-token-") {
		return nil, domainErrors.ErrInvalidToken
	}
	claims := &security.Claims{}
	claims.ID = strings.TrimPrefix(token, "access-token-")
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(f.accessTTL))
	return claims, nil
}

func (f *fakeTokenManager) AccessTokenTTL() time.Duration  { return f.accessTTL }
func (f *fakeTokenManager) RefreshTokenTTL() time.Duration { return f.refreshTTL }
func (f *fakeTokenManager) JWKS() map[string]interface{} {
	return map[string]interface{}{"keys": []map[string]interface{}{{"kty": "RSA"}}}
}

// fakeBlacklist is an in-memory token blacklist.
type fakeBlacklist struct {
	mu      sync.Mutex
	entries map[string]bool
	err     error
}

func newFakeBlacklist() *fakeBlacklist { return &fakeBlacklist{entries: map[string]bool{}} }

func (b *fakeBlacklist) Add(_ context.Context, jti string, _ time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.entries[jti] = true
	return nil
}

func (b *fakeBlacklist) Contains(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return false, b.err
	}
	return b.entries[jti], nil
}

// capturingPublisher records every published event for assertions.
type capturingPublisher struct {
	mu        sync.Mutex
	published []publishedEventRecord
}

type publishedEventRecord struct {
	Topic     string
	EventType string
	Subject   string
	Payload   interface{}
}

func newCapturingPublisher() *capturingPublisher { return &capturingPublisher{} }

func (p *capturingPublisher) Publish(_ context.Context, topic, eventType, subject string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, publishedEventRecord{
		Topic: topic, EventType: eventType, Subject: subject, Payload: payload,
	})
	return nil
}

func (p *capturingPublisher) Close() error { return nil }

func (p *capturingPublisher) eventsOfType(eventType string) []publishedEventRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	var matched []publishedEventRecord
	for _, rec := range p.published {
		if rec.EventType == eventType {
			matched = append(matched, rec)
		}
	}
	return matched
}

// fakeChallengeStore is an in-memory 2FA challenge store.
type fakeChallengeStore struct {
	mu         sync.Mutex
	challenges map[string]uuid.UUID
}

func newFakeChallengeStore() *fakeChallengeStore {
	return &fakeChallengeStore{challenges: map[string]uuid.UUID{}}
}

func (s *fakeChallengeStore) Put(_ context.Context, token string, userID uuid.UUID, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges[token] = userID
	return nil
}

func (s *fakeChallengeStore) Consume(_ context.Context, token string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.challenges[token]
	if !ok {
		return uuid.Nil, domainErrors.ErrInvalidToken
	}
	delete(s.challenges, token)
	return userID, nil
}

// fakeTOTP accepts one configured code per secret.
type fakeTOTP struct {
	validCode string
}

func (f *fakeTOTP) GenerateSecret(accountName string) (string, string, error) {
	return "FAKESECRET", fmt.Sprintf("otpauth://totp/TradeConnect:%s?secret=FAKESECRET", accountName), nil
}

func (f *fakeTOTP) ValidateCode(_, code string) (bool, error) {
	return code == f.validCode, nil
}

// fakeEncryptor is a reversible stand-in for AES-GCM.
type fakeEncryptor struct{}

func (fakeEncryptor) Encrypt(plainText string) (string, error) { return "enc:" + plainText, nil }
func (fakeEncryptor) Decrypt(cipherText string) (string, error) {
	if !strings.HasPrefix(cipherText, "enc:") {
		return "", fmt.Errorf("malformed ciphertext")
	}
	return strings.TrimPrefix(cipherText, "enc:"), nil
}
