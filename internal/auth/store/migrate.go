package store

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// RunMigrations applies every pending migration found at the root of fsys
// through driver and returns the resulting schema version. The driver is
// left open; it wraps the store's own connection.
func RunMigrations(fsys fs.FS, driverName string, driver database.Driver) (uint, error) {
	source, err := iofs.New(fsys, ".")
	if err != nil {
		return 0, fmt.Errorf("open migrations: %w", err)
	}

	instance, err := migrate.NewWithInstance("iofs", source, driverName, driver)
	if err != nil {
		return 0, fmt.Errorf("init migrate: %w", err)
	}

	if err := instance.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("migrate up: %w", err)
	}

	version, dirty, err := instance.Version()
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("schema version %d is dirty", version)
	}
	return version, nil
}
