package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/logind/internal/auth/domain"
)

type usersRepo struct {
	db *sql.DB
}

const userColumns = `id, user_name, password_hash`

func scanUser(row *sql.Row) (domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash); err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE user_name = ?`, username))
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (user_name, password_hash) VALUES (?, ?)`,
		u.Username, u.PasswordHash,
	)
	if err != nil {
		return 0, mapConstraint(err)
	}
	return res.LastInsertId()
}
