package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/logind/internal/auth/domain"
	"github.com/aussiebroadwan/logind/internal/auth/store"
	"github.com/aussiebroadwan/logind/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/logind/pkg/cryptox"
	"github.com/aussiebroadwan/logind/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testSecret = "service-test-secret"

// fakeClock is a settable time source shared by the services under test.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newAuthService(s store.Store, clock *fakeClock) *AuthService {
	return &AuthService{
		Store:  s,
		Signer: jwtx.NewSignerHS256(testSecret),
		RefreshTokens: &RefreshTokenManager{
			Store: s,
			TTL:   jwtx.DefaultRefreshTokenTTL,
			Now:   clock.Now,
		},
		AccessTTL: jwtx.DefaultAccessTokenTTL,
		Now:       clock.Now,
		Algorithm: cryptox.AlgArgon2id,
	}
}

func newSQLiteStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())
	return s
}

// createUser inserts a user with an argon2id hash, which is much quicker to
// verify than bcrypt at production cost.
func createUser(t *testing.T, s store.Store, username, password string) int64 {
	t.Helper()
	hash, err := cryptox.HashPasswordWith(cryptox.AlgArgon2id, password)
	require.NoError(t, err)
	id, err := s.Users().CreateUser(context.Background(), domain.User{Username: username, PasswordHash: hash})
	require.NoError(t, err)
	return id
}

func verifyAccess(t *testing.T, token string, clock *fakeClock) jwtx.Claims {
	t.Helper()
	claims, err := jwtx.NewVerifierHS256(testSecret, jwtx.WithClock(clock.Now)).Verify(token)
	require.NoError(t, err)
	return claims
}
