package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aussiebroadwan/logind/internal/auth/domain"
	"github.com/aussiebroadwan/logind/internal/auth/store"
	redisstore "github.com/aussiebroadwan/logind/internal/auth/store/drivers/redis"
	"github.com/aussiebroadwan/logind/internal/auth/store/storetest"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newMiniredisStore(t *testing.T) (*redisstore.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := redisstore.NewStore(rdb, redisstore.DefaultPrefix)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestRedisStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s, _ := newMiniredisStore(t)
		return s
	})
}

func TestKeyLayout(t *testing.T) {
	ctx := context.Background()
	s, mr := newMiniredisStore(t)

	id, err := s.Users().CreateUser(ctx, domain.User{Username: "alice", PasswordHash: "h"})
	require.NoError(t, err)
	require.Equal(t, int64(1), id)

	expires := time.Unix(1_800_000_000, 0)
	_, err = s.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
		UserID:    id,
		Token:     "abc",
		ExpiresAt: expires,
	})
	require.NoError(t, err)

	require.Equal(t, "alice", mr.HGet("auth:user:1", "user_name"))
	got, err := mr.Get("auth:user_name:alice")
	require.NoError(t, err)
	require.Equal(t, "1", got)

	require.Equal(t, "1", mr.HGet("auth:refresh_token:abc", "user_id"))
	require.Equal(t, "0", mr.HGet("auth:refresh_token:abc", "revoked"))

	score, err := mr.ZScore("auth:refresh_tokens:expiry", "abc")
	require.NoError(t, err)
	require.Equal(t, float64(expires.UnixMicro()), score)
}

func TestOpenFromURL(t *testing.T) {
	mr := miniredis.RunT(t)

	s, err := redisstore.Open(context.Background(), "redis://"+mr.Addr()+"/0", "test:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Ping(context.Background()))
}
