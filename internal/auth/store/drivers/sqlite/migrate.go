package sqlite

import (
	"github.com/aussiebroadwan/logind/internal/auth/store"
	"github.com/aussiebroadwan/logind/internal/auth/store/drivers/sqlite/migrations"

	"github.com/golang-migrate/migrate/v4/database/sqlite"
)

// ApplyMigrations applies any pending migrations embedded in the binary.
func (m *Store) ApplyMigrations() error {
	driver, err := sqlite.WithInstance(m.db, &sqlite.Config{})
	if err != nil {
		return err
	}

	_, err = store.RunMigrations(migrations.Migrations, "sqlite", driver)
	return err
}
