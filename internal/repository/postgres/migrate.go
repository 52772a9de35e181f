package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/config"
)

// RunMigrations applies all pending migrations from sourcePath.
func RunMigrations(cfg config.DatabaseConfig, sourcePath string) error {
	m, err := migrate.New("file://"+sourcePath, cfg.DSN())
	if err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}
