package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/rcs/internal/rcs/store"
)

// HousekeepingService periodically deletes expired idempotency claims. Lookups
// already ignore expired claims, so this only bounds table growth.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration
	Now      func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService returns nil when interval is not positive, which
// disables housekeeping entirely.
func NewHousekeepingService(s store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		return nil
	}
	return &HousekeepingService{
		Store:    s,
		Logger:   logger,
		Interval: interval,
		Now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the worker in the background. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	if s == nil {
		return
	}
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until an in-progress cleanup has finished.
func (s *HousekeepingService) Stop() {
	if s == nil {
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

	for {
		select {
		case <-ticker.C:
			_, _ = s.RunOnce(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// RunOnce deletes the claims expired at the current time.
func (s *HousekeepingService) RunOnce(ctx context.Context) (int64, error) {
	n, err := s.Store.IdempotencyKeys().DeleteExpiredIdempotencyKeys(ctx, s.Now().UTC())
	if err != nil {
		s.Logger.Error("failed to delete expired idempotency keys", "error", err)
		return 0, err
	}
	s.Logger.Debug("deleted expired idempotency keys", "count", n)
	return n, nil
}
