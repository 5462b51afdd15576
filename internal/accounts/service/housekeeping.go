package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/marinoscar/accountd/internal/accounts/store"
)

// HousekeepingService periodically cleans up expired database records to
// prevent unbounded growth of refresh_tokens and signing_keys. It is storage
// hygiene only; correctness never depends on it running.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	// RevokedRetention is how long revoked refresh rows are kept before
	// deletion. Keeping them for a while is what lets reuse detection fire
	// on a replayed secret.
	RevokedRetention time.Duration

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given
// interval and retention window. Zero or negative values get defaults
// (1 hour interval, 30 day retention).
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval, retention time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}

	return &HousekeepingService{
		Store:            st,
		Logger:           logger,
		Interval:         interval,
		RevokedRetention: retention,
		stopCh:           make(chan struct{}),
		doneCh:           make(chan struct{}),
	}
}

// Start begins the background worker that periodically runs cleanup.
// This is non-blocking and should be called after the database is ready.
// Call Stop() to gracefully shutdown the worker.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop gracefully shuts down the background worker.
// Blocks until the worker has finished any in-progress cleanup.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

// run is the main background worker loop.
func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.Sweep(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Sweep(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Sweep performs the actual deletion of stale records. Each deletion is
// independent - failures in one won't stop the others.
func (s *HousekeepingService) Sweep(ctx context.Context) {
	s.Logger.Info("starting housekeeping sweep")

	var completed int

	if err := s.Store.RefreshTokens().DeleteExpiredRefreshTokens(ctx); err != nil {
		s.Logger.Error("failed to delete expired refresh tokens", "error", err)
	} else {
		s.Logger.Debug("deleted expired refresh tokens")
		completed++
	}

	cutoff := time.Now().Add(-s.RevokedRetention)
	if err := s.Store.RefreshTokens().DeleteRevokedRefreshTokensBefore(ctx, cutoff); err != nil {
		s.Logger.Error("failed to delete old revoked refresh tokens", "error", err)
	} else {
		s.Logger.Debug("deleted old revoked refresh tokens")
		completed++
	}

	// Clean expired signing keys (for persistent key mode)
	if err := s.Store.SigningKeys().DeleteExpiredSigningKeys(ctx); err != nil {
		s.Logger.Error("failed to delete expired signing keys", "error", err)
	} else {
		s.Logger.Debug("deleted expired signing keys")
		completed++
	}

	s.Logger.Info("housekeeping sweep completed", "successful_cleanups", completed)
}
