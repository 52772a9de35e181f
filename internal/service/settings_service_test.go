package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domainErrors "github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/errors"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/models"
)

func newSettingsFixture() (*MockSettingsRepository, *SettingsService) {
	repo := new(MockSettingsRepository)
	audit := new(MockAuditLogRepository)
	audit.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()
	logger := zap.NewNop()
	return repo, NewSettingsService(repo, NewAuditService(audit, logger), logger)
}

func TestSettingsUpsertValidatesType(t *testing.T) {
	repo, svc := newSettingsFixture()
	actorID := uuid.New()

	cases := []struct {
		name    string
		setting models.SystemSetting
		wantErr bool
	}{
		{"string", models.SystemSetting{Key: "banner", Value: "welcome", Type: models.SettingTypeString}, false},
		{"int", models.SystemSetting{Key: "max_events", Value: "25", Type: models.SettingTypeInt}, false},
		{"bad int", models.SystemSetting{Key: "max_events", Value: "lots", Type: models.SettingTypeInt}, true},
		{"bool", models.SystemSetting{Key: "maintenance", Value: "true", Type: models.SettingTypeBool}, false},
		{"bad bool", models.SystemSetting{Key: "maintenance", Value: "yep", Type: models.SettingTypeBool}, true},
		{"json", models.SystemSetting{Key: "features", Value: `{"beta":true}`, Type: models.SettingTypeJSON}, false},
		{"bad json", models.SystemSetting{Key: "features", Value: `{beta`, Type: models.SettingTypeJSON}, true},
		{"unknown type", models.SystemSetting{Key: "x", Value: "1", Type: models.SettingType("float")}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setting := tc.setting
			if tc.wantErr {
				err := svc.UpsertSetting(context.Background(), actorID, &setting)
				assert.ErrorIs(t, err, domainErrors.ErrInvalidRequest)
				return
			}
			repo.On("UpsertSetting", mock.Anything, &setting).Return(nil).Once()
			require.NoError(t, svc.UpsertSetting(context.Background(), actorID, &setting))
			assert.Equal(t, actorID, *setting.UpdatedBy)
		})
	}
	repo.AssertExpectations(t)
}

func TestSettingsUpsertInvalidValueCarriesStatus(t *testing.T) {
	_, svc := newSettingsFixture()

	err := svc.UpsertSetting(context.Background(), uuid.New(), &models.SystemSetting{
		Key: "max_events", Value: "lots", Type: models.SettingTypeInt,
	})
	var appErr *domainErrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
	assert.Equal(t, "invalid_setting_value", appErr.Code)
}

func TestSettingsDelete(t *testing.T) {
	repo, svc := newSettingsFixture()
	repo.On("DeleteSetting", mock.Anything, "banner").Return(nil)

	require.NoError(t, svc.DeleteSetting(context.Background(), uuid.New(), "banner"))
	repo.AssertExpectations(t)
}

func TestSettingsGetPreferencesFallsBackToDefaults(t *testing.T) {
	repo, svc := newSettingsFixture()
	userID := uuid.New()
	repo.On("GetPreferences", mock.Anything, userID).Return(nil, domainErrors.ErrNotFound)

	prefs, err := svc.GetPreferences(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, userID, prefs.UserID)
	assert.Equal(t, "en", prefs.Locale)
	assert.Equal(t, "UTC", prefs.Timezone)
	assert.True(t, prefs.EmailNotifications)
}

func TestSettingsUpdatePreferencesPartial(t *testing.T) {
	repo, svc := newSettingsFixture()
	userID := uuid.New()
	current := &models.UserPreferences{
		UserID:             userID,
		Locale:             "en",
		Timezone:           "UTC",
		EmailNotifications: true,
		EventReminders:     true,
	}
	repo.On("GetPreferences", mock.Anything, userID).Return(current, nil)
	repo.On("UpsertPreferences", mock.Anything, mock.MatchedBy(func(p *models.UserPreferences) bool {
		return p.Locale == "de" && p.Timezone == "UTC" && !p.EmailNotifications
	})).Return(nil)

	locale := "de"
	notifications := false
	prefs, err := svc.UpdatePreferences(context.Background(), userID, models.UpdatePreferencesRequest{
		Locale:             &locale,
		EmailNotifications: &notifications,
	})
	require.NoError(t, err)
	assert.Equal(t, "de", prefs.Locale)
	assert.True(t, prefs.EventReminders)
	repo.AssertExpectations(t)
}

func TestSettingsUpdatePreferencesFirstWrite(t *testing.T) {
	repo, svc := newSettingsFixture()
	userID := uuid.New()
	repo.On("GetPreferences", mock.Anything, userID).Return(nil, domainErrors.ErrNotFound)
	repo.On("UpsertPreferences", mock.Anything, mock.MatchedBy(func(p *models.UserPreferences) bool {
		return p.UserID == userID && p.Timezone == "Europe/Berlin"
	})).Return(nil)

	tz := "Europe/Berlin"
	prefs, err := svc.UpdatePreferences(context.Background(), userID, models.UpdatePreferencesRequest{Timezone: &tz})
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", prefs.Timezone)
}
