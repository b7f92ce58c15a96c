// Package storetest is a conformance suite every store driver runs from its
// own tests.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/logind/internal/auth/domain"
	"github.com/aussiebroadwan/logind/internal/auth/store"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh, migrated, empty store. Cleanup is the factory's
// job (t.Cleanup).
type Factory func(t *testing.T) store.Store

// Run executes the whole suite against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("Users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("RefreshTokens", func(t *testing.T) { testRefreshTokens(t, newStore(t)) })
	t.Run("ConcurrentRevoke", func(t *testing.T) { testConcurrentRevoke(t, newStore(t)) })
	t.Run("DeleteExpired", func(t *testing.T) { testDeleteExpired(t, newStore(t)) })
	t.Run("Ping", func(t *testing.T) {
		require.NoError(t, newStore(t).Ping(context.Background()))
	})
}

func testUsers(t *testing.T, s store.Store) {
	ctx := context.Background()

	id, err := s.Users().CreateUser(ctx, domain.User{Username: "alice", PasswordHash: "hash-a"})
	require.NoError(t, err)
	require.NotZero(t, id)

	t.Run("get by username", func(t *testing.T) {
		u, err := s.Users().GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, domain.User{ID: id, Username: "alice", PasswordHash: "hash-a"}, u)
	})

	t.Run("get by id", func(t *testing.T) {
		u, err := s.Users().GetUserByID(ctx, id)
		require.NoError(t, err)
		require.Equal(t, "alice", u.Username)
	})

	t.Run("username is case sensitive", func(t *testing.T) {
		_, err := s.Users().GetUserByUsername(ctx, "Alice")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := s.Users().GetUserByUsername(ctx, "nobody")
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = s.Users().GetUserByID(ctx, id+1000)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("username with NUL byte", func(t *testing.T) {
		_, err := s.Users().GetUserByUsername(ctx, "ali\x00ce")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := s.Users().CreateUser(ctx, domain.User{Username: "alice", PasswordHash: "other"})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("ids are distinct", func(t *testing.T) {
		id2, err := s.Users().CreateUser(ctx, domain.User{Username: "bob", PasswordHash: "hash-b"})
		require.NoError(t, err)
		require.NotEqual(t, id, id2)
	})
}

func createUser(t *testing.T, s store.Store, name string) int64 {
	t.Helper()
	id, err := s.Users().CreateUser(context.Background(), domain.User{Username: name, PasswordHash: "x"})
	require.NoError(t, err)
	return id
}

func testRefreshTokens(t *testing.T, s store.Store) {
	ctx := context.Background()
	userID := createUser(t, s, "alice")
	expires := time.Now().Add(7 * 24 * time.Hour).UTC().Truncate(time.Second)

	id, err := s.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
		UserID:    userID,
		Token:     "00112233445566778899aabbccddeeff",
		ExpiresAt: expires,
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	t.Run("get", func(t *testing.T) {
		got, err := s.RefreshTokens().GetRefreshTokenByToken(ctx, "00112233445566778899aabbccddeeff")
		require.NoError(t, err)
		require.Equal(t, id, got.ID)
		require.Equal(t, userID, got.UserID)
		require.False(t, got.Revoked)
		require.True(t, expires.Equal(got.ExpiresAt), "expires_at round trip: want %v got %v", expires, got.ExpiresAt)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := s.RefreshTokens().GetRefreshTokenByToken(ctx, "ffffffffffffffffffffffffffffffff")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("duplicate token", func(t *testing.T) {
		_, err := s.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
			UserID:    userID,
			Token:     "00112233445566778899aabbccddeeff",
			ExpiresAt: expires,
		})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("revoke", func(t *testing.T) {
		changed, err := s.RefreshTokens().RevokeRefreshToken(ctx, "00112233445566778899aabbccddeeff")
		require.NoError(t, err)
		require.True(t, changed)

		got, err := s.RefreshTokens().GetRefreshTokenByToken(ctx, "00112233445566778899aabbccddeeff")
		require.NoError(t, err)
		require.True(t, got.Revoked)

		changed, err = s.RefreshTokens().RevokeRefreshToken(ctx, "00112233445566778899aabbccddeeff")
		require.NoError(t, err)
		require.False(t, changed)
	})

	t.Run("owner is not enforced", func(t *testing.T) {
		_, err := s.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
			UserID:    987654,
			Token:     "dangling-owner",
			ExpiresAt: expires,
		})
		require.NoError(t, err)

		got, err := s.RefreshTokens().GetRefreshTokenByToken(ctx, "dangling-owner")
		require.NoError(t, err)
		_, err = s.Users().GetUserByID(ctx, got.UserID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("token with NUL byte", func(t *testing.T) {
		_, err := s.RefreshTokens().GetRefreshTokenByToken(ctx, "0011\x002233")
		require.ErrorIs(t, err, store.ErrNotFound)

		changed, err := s.RefreshTokens().RevokeRefreshToken(ctx, "0011\x002233")
		require.NoError(t, err)
		require.False(t, changed)
	})

	t.Run("revoke unknown", func(t *testing.T) {
		changed, err := s.RefreshTokens().RevokeRefreshToken(ctx, "does-not-exist")
		require.NoError(t, err)
		require.False(t, changed)
	})
}

func testConcurrentRevoke(t *testing.T, s store.Store) {
	ctx := context.Background()
	userID := createUser(t, s, "alice")

	const token = "0123456789abcdef0123456789abcdef"
	_, err := s.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	const workers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		changes int
		errs    []error
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			changed, err := s.RefreshTokens().RevokeRefreshToken(ctx, token)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
			}
			if changed {
				changes++
			}
		}()
	}
	wg.Wait()

	require.Empty(t, errs)
	require.Equal(t, 1, changes)

	got, err := s.RefreshTokens().GetRefreshTokenByToken(ctx, token)
	require.NoError(t, err)
	require.True(t, got.Revoked)
}

func testDeleteExpired(t *testing.T, s store.Store) {
	ctx := context.Background()
	userID := createUser(t, s, "alice")
	now := time.Now().UTC().Truncate(time.Second)

	for i, offset := range []time.Duration{-48 * time.Hour, -2 * time.Hour, time.Hour} {
		_, err := s.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
			UserID:    userID,
			Token:     fmt.Sprintf("token-%d", i),
			ExpiresAt: now.Add(offset),
		})
		require.NoError(t, err)
	}

	n, err := s.RefreshTokens().DeleteExpiredRefreshTokens(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	_, err = s.RefreshTokens().GetRefreshTokenByToken(ctx, "token-0")
	require.ErrorIs(t, err, store.ErrNotFound)

	for _, tok := range []string{"token-1", "token-2"} {
		_, err := s.RefreshTokens().GetRefreshTokenByToken(ctx, tok)
		require.NoError(t, err)
	}
}
