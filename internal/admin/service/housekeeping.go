package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/teolmungchi/admin-gateway/internal/admin/store"
)

// HousekeepingService periodically purges dead session registry rows and old
// login audit entries to prevent unbounded database growth.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	// SessionMaxAge mirrors the session validity; rows whose last renewal is
	// older than this can never resolve again and are safe to drop.
	SessionMaxAge time.Duration

	// AuditRetention is how long login audit rows are kept.
	AuditRetention time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service. Zero durations fall
// back to one hour interval, 30 day session age, 90 day audit retention.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:          st,
		Logger:         logger,
		Interval:       interval,
		SessionMaxAge:  30 * 24 * time.Hour,
		AuditRetention: 90 * 24 * time.Hour,
		stopCh:         make(chan struct{}),
		doneCh:         make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop to shut down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop gracefully shuts down the worker, blocking until any in-progress
// cleanup finishes.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// cleanup deletes stale rows. Each deletion is independent; a failure in one
// won't stop the others.
func (s *HousekeepingService) cleanup() {
	ctx := context.Background()
	now := time.Now().UTC()

	if n, err := s.Store.Sessions().DeleteSessionsRenewedBefore(ctx, now.Add(-s.SessionMaxAge)); err != nil {
		s.Logger.Error("failed to purge stale sessions", "error", err)
	} else if n > 0 {
		s.Logger.Info("purged stale sessions", "deleted", n)
	}

	if n, err := s.Store.LoginAudit().DeleteAttemptsBefore(ctx, now.Add(-s.AuditRetention)); err != nil {
		s.Logger.Error("failed to purge login audit", "error", err)
	} else if n > 0 {
		s.Logger.Info("purged login audit rows", "deleted", n)
	}
}
