package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aussiebroadwan/logind/internal/auth/domain"
	"github.com/aussiebroadwan/logind/internal/auth/store"
	"github.com/aussiebroadwan/logind/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestHousekeepingCleanup(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	s := newSQLiteStore(t)
	userID := createUser(t, s, "alice", "secret123")

	for i, offset := range []time.Duration{-10 * 24 * time.Hour, -2 * 24 * time.Hour, time.Hour} {
		_, err := s.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
			UserID:    userID,
			Token:     fmt.Sprintf("t%d", i),
			ExpiresAt: clock.Now().Add(offset),
		})
		require.NoError(t, err)
	}

	hk := NewHousekeepingService(s, slogx.Discard(), time.Minute, 7*24*time.Hour)
	hk.Now = clock.Now

	require.Equal(t, int64(1), hk.Cleanup(ctx))

	_, err := s.RefreshTokens().GetRefreshTokenByToken(ctx, "t0")
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.RefreshTokens().GetRefreshTokenByToken(ctx, "t1")
	require.NoError(t, err)

	require.Equal(t, int64(0), hk.Cleanup(ctx))
}

func TestHousekeepingStartStop(t *testing.T) {
	hk := NewHousekeepingService(newSQLiteStore(t), slogx.Discard(), 0, time.Hour)
	require.Equal(t, time.Hour, hk.Interval)

	hk.Start()
	hk.Stop()
}

func TestHousekeepingStopWithoutStart(t *testing.T) {
	hk := NewHousekeepingService(newSQLiteStore(t), slogx.Discard(), time.Minute, time.Hour)

	hk.Stop()
	hk.Start()
	hk.Stop()
	hk.Stop()
}

func TestHousekeepingStartAfterStopIsNoop(t *testing.T) {
	hk := NewHousekeepingService(newSQLiteStore(t), slogx.Discard(), time.Minute, time.Hour)

	hk.Start()
	hk.Stop()

	require.NotPanics(t, func() {
		hk.Start()
		hk.Stop()
	})
	require.True(t, hk.stopped.Load())
}
