package valuation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/adify/rewards/internal/config"
)

var ErrRefreshInProgress = errors.New("valuation refresh already running")

type Refresher interface {
	RefreshAll(ctx context.Context, at time.Time) (int, error)
}

// Scheduler runs the refresher on a fixed interval. Runs never overlap; a
// trigger that arrives while one is in flight is dropped.
type Scheduler struct {
	refresher Refresher
	interval  time.Duration
	timeout   time.Duration
	running   *semaphore.Weighted
	now       func() time.Time
}

func NewScheduler(refresher Refresher, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = config.DefaultRefreshInterval
	}
	return &Scheduler{
		refresher: refresher,
		interval:  interval,
		timeout:   config.ValuationRefreshTimeout,
		running:   semaphore.NewWeighted(1),
		now:       time.Now,
	}
}

// Start refreshes once immediately and then on every tick until ctx is done.
func (s *Scheduler) Start(ctx context.Context) {
	slog.Info("Valuation scheduler started",
		slog.String("type", "job"),
		slog.Duration("interval", s.interval),
	)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			slog.Info("Valuation scheduler stopped", slog.String("type", "job"))
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if _, err := s.RunOnce(ctx); err != nil {
		level := slog.LevelError
		if errors.Is(err, ErrRefreshInProgress) {
			level = slog.LevelWarn
		}
		slog.Log(ctx, level, "Scheduled valuation refresh did not complete",
			slog.String("type", "job"),
			slog.Any("error", err),
		)
	}
}

// RunOnce performs a single refresh unless one is already running.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	if !s.running.TryAcquire(1) {
		return 0, ErrRefreshInProgress
	}
	defer s.running.Release(1)

	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.refresher.RefreshAll(runCtx, s.now())
}
