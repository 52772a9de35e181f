package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/models"
)

// EventRepository persists events and registrations.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, event *models.Event) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	List(ctx context.Context, params models.ListEventsParams) ([]*models.Event, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.EventStatus) error

	CreateRegistration(ctx context.Context, reg *models.Registration) error
	FindRegistration(ctx context.Context, eventID, userID uuid.UUID) (*models.Registration, error)
	FindRegistrationByID(ctx context.Context, id uuid.UUID) (*models.Registration, error)
	CountConfirmedRegistrations(ctx context.Context, eventID uuid.UUID) (int, error)
	UpdateRegistrationStatus(ctx context.Context, id uuid.UUID, status models.RegistrationStatus) error
	ListRegistrationsByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*models.Registration, int, error)
	ListRegistrationsByEvent(ctx context.Context, eventID uuid.UUID, page, pageSize int) ([]*models.Registration, int, error)
}

// SpeakerRepository persists speaker profiles and contracts.
type SpeakerRepository interface {
	CreateSpeaker(ctx context.Context, speaker *models.Speaker) error
	UpdateSpeaker(ctx context.Context, speaker *models.Speaker) error
	FindSpeakerByID(ctx context.Context, id uuid.UUID) (*models.Speaker, error)
	ListSpeakers(ctx context.Context, page, pageSize int) ([]*models.Speaker, int, error)

	CreateContract(ctx context.Context, contract *models.SpeakerContract) error
	FindContractByID(ctx context.Context, id uuid.UUID) (*models.SpeakerContract, error)
	ListContractsByEvent(ctx context.Context, eventID uuid.UUID) ([]*models.SpeakerContract, error)
	UpdateContractStatus(ctx context.Context, id uuid.UUID, status models.ContractStatus, sentAt, signedAt *time.Time) error
}

// GamificationRepository persists the loyalty point ledger and badges.
type GamificationRepository interface {
	CreatePointEntry(ctx context.Context, entry *models.PointEntry) error
	SumPointsByUserID(ctx context.Context, userID uuid.UUID) (int, error)
	ListPointEntries(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*models.PointEntry, int, error)

	ListBadges(ctx context.Context) ([]*models.Badge, error)
	CreateBadge(ctx context.Context, badge *models.Badge) error
	ListUserBadges(ctx context.Context, userID uuid.UUID) ([]*models.Badge, error)
	AwardBadge(ctx context.Context, userID, badgeID uuid.UUID, at time.Time) error
}

// SettingsRepository persists system settings and user preferences.
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (*models.SystemSetting, error)
	ListSettings(ctx context.Context) ([]*models.SystemSetting, error)
	UpsertSetting(ctx context.Context, setting *models.SystemSetting) error
	DeleteSetting(ctx context.Context, key string) error

	GetPreferences(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error)
	UpsertPreferences(ctx context.Context, prefs *models.UserPreferences) error
}
