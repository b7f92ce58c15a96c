package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/logind/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres, redis, memory) implement this. It exposes sub-repositories to keep
// concerns tidy and testable.
//
// Every operation is a single atomic statement (or script), so there is no
// transaction API.
type Store interface {
	Users() Users
	RefreshTokens() RefreshTokens

	// ApplyMigrations brings the schema up to date. A no-op for schemaless
	// drivers.
	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the backend is still reachable.
	Ping(ctx context.Context) error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id int64) (domain.User, error)

	// GetUserByUsername is used during login.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user and returns the assigned id. u.ID is
	// ignored. Returns ErrAlreadyExists when the username is taken.
	CreateUser(ctx context.Context, u domain.User) (int64, error)
}

type RefreshTokens interface {
	// CreateRefreshToken stores a new refresh token record and returns the
	// assigned id. t.ID is ignored. Returns ErrAlreadyExists when the token
	// string is already present.
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) (int64, error)

	// GetRefreshTokenByToken returns the record holding the given token.
	GetRefreshTokenByToken(ctx context.Context, token string) (domain.RefreshToken, error)

	// RevokeRefreshToken marks the token revoked if it exists and is not
	// already revoked. Reports whether this call changed the record. Unknown
	// tokens are not an error.
	RevokeRefreshToken(ctx context.Context, token string) (bool, error)

	// DeleteExpiredRefreshTokens removes records whose expires_at is before
	// the given instant and returns how many were removed.
	DeleteExpiredRefreshTokens(ctx context.Context, before time.Time) (int64, error)
}
