package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/errors"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/models"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/repository"
)

// SettingsRepositoryPostgres implements repository.SettingsRepository.
type SettingsRepositoryPostgres struct {
	pool *pgxpool.Pool
}

func NewSettingsRepositoryPostgres(pool *pgxpool.Pool) *SettingsRepositoryPostgres {
	return &SettingsRepositoryPostgres{pool: pool}
}

func (r *SettingsRepositoryPostgres) GetSetting(ctx context.Context, key string) (*models.SystemSetting, error) {
	query := `SELECT key, value, type, updated_by, updated_at FROM system_settings WHERE key = $1`
	setting := &models.SystemSetting{}
	err := r.pool.QueryRow(ctx, query, key).Scan(
		&setting.Key, &setting.Value, &setting.Type, &setting.UpdatedBy, &setting.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrSettingNotFound
		}
		return nil, fmt.Errorf("failed to get setting: %w", err)
	}
	return setting, nil
}

func (r *SettingsRepositoryPostgres) ListSettings(ctx context.Context) ([]*models.SystemSetting, error) {
	query := `SELECT key, value, type, updated_by, updated_at FROM system_settings ORDER BY key`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer rows.Close()

	var settings []*models.SystemSetting
	for rows.Next() {
		setting := &models.SystemSetting{}
		if err := rows.Scan(&setting.Key, &setting.Value, &setting.Type, &setting.UpdatedBy, &setting.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan setting row: %w", err)
		}
		settings = append(settings, setting)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating setting rows: %w", err)
	}
	return settings, nil
}

func (r *SettingsRepositoryPostgres) UpsertSetting(ctx context.Context, setting *models.SystemSetting) error {
	query := `
		INSERT INTO system_settings (key, value, type, updated_by, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, type = EXCLUDED.type,
		    updated_by = EXCLUDED.updated_by, updated_at = NOW()
	`
	_, err := r.pool.Exec(ctx, query, setting.Key, setting.Value, setting.Type, setting.UpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to upsert setting: %w", err)
	}
	return nil
}

func (r *SettingsRepositoryPostgres) DeleteSetting(ctx context.Context, key string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM system_settings WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("failed to delete setting: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domainErrors.ErrSettingNotFound
	}
	return nil
}

// GetPreferences returns pgx.ErrNoRows mapped to ErrNotFound; callers fall
// back to models.DefaultPreferences.
func (r *SettingsRepositoryPostgres) GetPreferences(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error) {
	query := `
		SELECT user_id, locale, timezone, email_notifications, event_reminders, updated_at
		FROM user_preferences WHERE user_id = $1
	`
	prefs := &models.UserPreferences{}
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&prefs.UserID, &prefs.Locale, &prefs.Timezone,
		&prefs.EmailNotifications, &prefs.EventReminders, &prefs.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}
	return prefs, nil
}

func (r *SettingsRepositoryPostgres) UpsertPreferences(ctx context.Context, prefs *models.UserPreferences) error {
	query := `
		INSERT INTO user_preferences (user_id, locale, timezone, email_notifications, event_reminders, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET locale = EXCLUDED.locale, timezone = EXCLUDED.timezone,
		    email_notifications = EXCLUDED.email_notifications,
		    event_reminders = EXCLUDED.event_reminders, updated_at = NOW()
	`
	_, err := r.pool.Exec(ctx, query,
		prefs.UserID, prefs.Locale, prefs.Timezone,
		prefs.EmailNotifications, prefs.EventReminders,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert preferences: %w", err)
	}
	return nil
}

var _ repository.SettingsRepository = (*SettingsRepositoryPostgres)(nil)
