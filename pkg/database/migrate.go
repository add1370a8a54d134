package database

import (
	"errors"
	"fmt"

	"flight-booking/pkg/utils"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Migrate applies pending migrations from path (e.g. "file://migrations").
// It returns the schema version after the run.
func Migrate(path string, config utils.DatabaseConfig) (uint, error) {
	m, err := migrate.New(path, URL(config))
	if err != nil {
		return 0, fmt.Errorf("open migrations %s: %w", path, err)
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("apply migrations: %w", err)
	}

	version, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, fmt.Errorf("read migration version: %w", err)
	}
	return version, nil
}
