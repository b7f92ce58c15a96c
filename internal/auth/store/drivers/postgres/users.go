package postgres

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/logind/internal/auth/domain"
)

type usersRepo struct {
	db *sql.DB
}

func scanUser(row *sql.Row) (domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash); err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, user_name, password_hash FROM users WHERE id = $1`, id))
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, user_name, password_hash FROM users WHERE user_name = $1`, username))
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (user_name, password_hash) VALUES ($1, $2) RETURNING id`,
		u.Username, u.PasswordHash,
	).Scan(&id)
	if err != nil {
		return 0, mapConstraint(err)
	}
	return id, nil
}
