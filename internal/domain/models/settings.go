package models

import (
	"time"

	"github.com/google/uuid"
)

// SettingType constrains how a system setting value is interpreted.
type SettingType string

const (
	SettingTypeString SettingType = "string"
	SettingTypeInt    SettingType = "int"
	SettingTypeBool   SettingType = "bool"
	SettingTypeJSON   SettingType = "json"
)

// SystemSetting is a typed key/value pair controlling platform behaviour.
type SystemSetting struct {
	Key       string      `json:"key" db:"key"`
	Value     string      `json:"value" db:"value"`
	Type      SettingType `json:"type" db:"type"`
	UpdatedBy *uuid.UUID  `json:"updated_by,omitempty" db:"updated_by"`
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"`
}

// UserPreferences is a per-user preference document stored as JSONB.
type UserPreferences struct {
	UserID             uuid.UUID `json:"user_id" db:"user_id"`
	Locale             string    `json:"locale" db:"locale"`
	Timezone           string    `json:"timezone" db:"timezone"`
	EmailNotifications bool      `json:"email_notifications" db:"email_notifications"`
	EventReminders     bool      `json:"event_reminders" db:"event_reminders"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// DefaultPreferences returns the preference document used before a user
// saves anything.
func DefaultPreferences(userID uuid.UUID) *UserPreferences {
	return &UserPreferences{
		UserID:             userID,
		Locale:             "en",
		Timezone:           "UTC",
		EmailNotifications: true,
		EventReminders:     true,
	}
}

// UpdatePreferencesRequest carries a partial preference update.
type UpdatePreferencesRequest struct {
	Locale             *string `json:"locale,omitempty"`
	Timezone           *string `json:"timezone,omitempty"`
	EmailNotifications *bool   `json:"email_notifications,omitempty"`
	EventReminders     *bool   `json:"event_reminders,omitempty"`
}
