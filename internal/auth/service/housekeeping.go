package service

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/aussiebroadwan/logind/internal/auth/store"
)

// HousekeepingService periodically purges refresh tokens that expired longer
// than Retention ago. Revoked and expired rows are otherwise kept forever, so
// this only runs when a retention window is configured.
type HousekeepingService struct {
	Store     store.Store
	Logger    *slog.Logger
	Interval  time.Duration
	Retention time.Duration
	Now       func() time.Time

	// Internal channels for lifecycle management
	stopCh  chan struct{}
	doneCh  chan struct{}
	started atomic.Bool
	stopped atomic.Bool
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(
	store store.Store,
	logger *slog.Logger,
	interval, retention time.Duration,
) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:     store,
		Logger:    logger,
		Interval:  interval,
		Retention: retention,
		Now:       time.Now,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start begins the background worker that periodically runs cleanup.
// A service runs at most once: Start after Stop is a no-op.
// This is non-blocking and should be called after the database is ready.
// Call Stop() to gracefully shutdown the worker.
func (s *HousekeepingService) Start() {
	if s.stopped.Load() || !s.started.CompareAndSwap(false, true) {
		return
	}
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval, "retention", s.Retention)
}

// Stop gracefully shuts down the background worker.
// Blocks until the worker has finished any in-progress cleanup. Stopping a
// service that was never started is a no-op.
func (s *HousekeepingService) Stop() {
	if !s.started.Load() || !s.stopped.CompareAndSwap(false, true) {
		return
	}
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup deletes refresh tokens whose expiry is older than now - Retention
// and returns how many were removed.
func (s *HousekeepingService) Cleanup(ctx context.Context) int64 {
	cutoff := s.Now().UTC().Add(-s.Retention)
	s.Logger.Debug("starting housekeeping cleanup", "cutoff", cutoff)

	n, err := s.Store.RefreshTokens().DeleteExpiredRefreshTokens(ctx, cutoff)
	if err != nil {
		s.Logger.Error("failed to delete expired refresh tokens", "error", err)
		return 0
	}

	s.Logger.Info("housekeeping cleanup completed", "deleted_refresh_tokens", n)
	return n
}
