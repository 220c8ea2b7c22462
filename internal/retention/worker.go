// Package retention periodically deletes conversations past the
// configured age.
package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Purger abstracts the store operation the sweeper needs.
type Purger interface {
	PurgeOlderThan(days int) (int64, error)
}

// Sweeper deletes conversations older than a fixed number of days on a
// timer.
type Sweeper struct {
	store    Purger
	days     int
	interval time.Duration
	logger   *slog.Logger
}

// NewSweeper creates a Sweeper keeping records for the given number of
// days. If interval is <= 0, it defaults to one hour.
func NewSweeper(store Purger, days int, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{
		store:    store,
		days:     days,
		interval: interval,
		logger:   slog.Default(),
	}
}

// Run sweeps on every tick until ctx is cancelled. A sweep runs
// immediately on start.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if _, err := s.RunOnce(); err != nil {
			s.logger.Error("retention sweep failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunOnce performs a single sweep and returns how many records were
// deleted.
func (s *Sweeper) RunOnce() (int64, error) {
	deleted, err := s.store.PurgeOlderThan(s.days)
	if err != nil {
		return 0, fmt.Errorf("purging conversations older than %d days: %w", s.days, err)
	}
	if deleted > 0 {
		s.logger.Info("retention sweep deleted conversations", "older_than_days", s.days, "deleted", deleted)
	}
	return deleted, nil
}
