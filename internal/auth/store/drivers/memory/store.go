// Package memory is an in-process store driver. Data lives only as long as
// the process; it backs tests and throwaway local runs (DB_URL=memory://).
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aussiebroadwan/logind/internal/auth/domain"
	"github.com/aussiebroadwan/logind/internal/auth/store"
)

type Store struct {
	mu sync.RWMutex

	nextUserID  int64
	users       map[int64]domain.User
	userByName  map[string]int64
	nextTokenID int64
	tokens      map[string]domain.RefreshToken
}

func NewStore() *Store {
	return &Store{
		users:      make(map[int64]domain.User),
		userByName: make(map[string]int64),
		tokens:     make(map[string]domain.RefreshToken),
	}
}

func (s *Store) Users() store.Users                 { return (*usersRepo)(s) }
func (s *Store) RefreshTokens() store.RefreshTokens { return (*refreshTokensRepo)(s) }

func (s *Store) ApplyMigrations() error         { return nil }
func (s *Store) Close() error                   { return nil }
func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

// DeleteUser removes a user without touching their refresh tokens. Only
// useful in tests that need a token whose owner no longer exists.
func (s *Store) DeleteUser(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		delete(s.userByName, u.Username)
		delete(s.users, id)
	}
}

type usersRepo Store

func (r *usersRepo) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	return u, nil
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.userByName[username]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	return r.users[id], nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.userByName[u.Username]; ok {
		return 0, store.ErrAlreadyExists
	}
	r.nextUserID++
	u.ID = r.nextUserID
	r.users[u.ID] = u
	r.userByName[u.Username] = u.ID
	return u.ID, nil
}

type refreshTokensRepo Store

func (r *refreshTokensRepo) CreateRefreshToken(ctx context.Context, t domain.RefreshToken) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tokens[t.Token]; ok {
		return 0, store.ErrAlreadyExists
	}
	r.nextTokenID++
	t.ID = r.nextTokenID
	t.ExpiresAt = t.ExpiresAt.UTC()
	r.tokens[t.Token] = t
	return t.ID, nil
}

func (r *refreshTokensRepo) GetRefreshTokenByToken(ctx context.Context, token string) (domain.RefreshToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tokens[token]
	if !ok {
		return domain.RefreshToken{}, store.ErrNotFound
	}
	return t, nil
}

func (r *refreshTokensRepo) RevokeRefreshToken(ctx context.Context, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	if !ok || t.Revoked {
		return false, nil
	}
	t.Revoked = true
	r.tokens[token] = t
	return true, nil
}

func (r *refreshTokensRepo) DeleteExpiredRefreshTokens(ctx context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for k, t := range r.tokens {
		if t.ExpiresAt.Before(before) {
			delete(r.tokens, k)
			n++
		}
	}
	return n, nil
}
