package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainErrors "github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/errors"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/models"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/repository"
)

// SettingsService manages system settings and per-user preferences.
type SettingsService struct {
	repo   repository.SettingsRepository
	audit  *AuditService
	logger *zap.Logger
}

func NewSettingsService(repo repository.SettingsRepository, audit *AuditService, logger *zap.Logger) *SettingsService {
	return &SettingsService{repo: repo, audit: audit, logger: logger}
}

func (s *SettingsService) GetSetting(ctx context.Context, key string) (*models.SystemSetting, error) {
	return s.repo.GetSetting(ctx, key)
}

func (s *SettingsService) ListSettings(ctx context.Context) ([]*models.SystemSetting, error) {
	return s.repo.ListSettings(ctx)
}

// UpsertSetting writes a setting after validating the value against its
// declared type.
func (s *SettingsService) UpsertSetting(ctx context.Context, actorID uuid.UUID, setting *models.SystemSetting) error {
	if err := validateSettingValue(setting.Type, setting.Value); err != nil {
		return err
	}
	setting.UpdatedBy = &actorID
	if err := s.repo.UpsertSetting(ctx, setting); err != nil {
		return err
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:    &actorID,
		Action:     AuditActionSettingUpserted,
		TargetType: models.AuditTargetTypeSetting,
		TargetID:   setting.Key,
		Status:     models.AuditLogStatusSuccess,
	})
	return nil
}

func (s *SettingsService) DeleteSetting(ctx context.Context, actorID uuid.UUID, key string) error {
	if err := s.repo.DeleteSetting(ctx, key); err != nil {
		return err
	}
	s.audit.Record(ctx, AuditEntry{
		ActorID:    &actorID,
		Action:     AuditActionSettingDeleted,
		TargetType: models.AuditTargetTypeSetting,
		TargetID:   key,
		Status:     models.AuditLogStatusSuccess,
	})
	return nil
}

// GetPreferences returns the user's preferences, falling back to defaults
// when nothing has been saved.
func (s *SettingsService) GetPreferences(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error) {
	prefs, err := s.repo.GetPreferences(ctx, userID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return models.DefaultPreferences(userID), nil
		}
		return nil, err
	}
	return prefs, nil
}

// UpdatePreferences applies a partial update over the current preferences.
func (s *SettingsService) UpdatePreferences(ctx context.Context, userID uuid.UUID, req models.UpdatePreferencesRequest) (*models.UserPreferences, error) {
	prefs, err := s.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Locale != nil {
		prefs.Locale = *req.Locale
	}
	if req.Timezone != nil {
		prefs.Timezone = *req.Timezone
	}
	if req.EmailNotifications != nil {
		prefs.EmailNotifications = *req.EmailNotifications
	}
	if req.EventReminders != nil {
		prefs.EventReminders = *req.EventReminders
	}

	if err := s.repo.UpsertPreferences(ctx, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

func validateSettingValue(settingType models.SettingType, value string) error {
	switch settingType {
	case models.SettingTypeString:
		return nil
	case models.SettingTypeInt:
		if _, err := strconv.Atoi(value); err != nil {
			return invalidSettingValue("value is not a valid integer")
		}
	case models.SettingTypeBool:
		if _, err := strconv.ParseBool(value); err != nil {
			return invalidSettingValue("value is not a valid boolean")
		}
	case models.SettingTypeJSON:
		if !json.Valid([]byte(value)) {
			return invalidSettingValue("value is not valid JSON")
		}
	default:
		return invalidSettingValue("unknown setting type")
	}
	return nil
}

func invalidSettingValue(message string) error {
	return domainErrors.NewAppError(domainErrors.ErrInvalidRequest, message,
		http.StatusBadRequest, "invalid_setting_value")
}
