package postgres

import (
	"github.com/aussiebroadwan/logind/internal/auth/store"
	"github.com/aussiebroadwan/logind/internal/auth/store/drivers/postgres/migrations"

	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
)

// ApplyMigrations applies any pending migrations embedded in the binary.
func (s *Store) ApplyMigrations() error {
	driver, err := migratepgx.WithInstance(s.db, &migratepgx.Config{})
	if err != nil {
		return err
	}

	_, err = store.RunMigrations(migrations.Migrations, "pgx5", driver)
	return err
}
