package pools

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/adify/rewards/internal/config"
)

type MonthlyBuilder interface {
	BuildMonthlyPools(ctx context.Context, month string) (*BuildResult, error)
}

// Scheduler builds the previous month's pools once that month has closed. It
// checks on every tick and remembers the last month it built successfully.
type Scheduler struct {
	builder  MonthlyBuilder
	interval time.Duration
	now      func() time.Time

	mu        sync.Mutex
	lastBuilt string
}

func NewScheduler(builder MonthlyBuilder, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = config.DefaultBuildCheckInterval
	}
	return &Scheduler{
		builder:  builder,
		interval: interval,
		now:      time.Now,
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	slog.Info("Revenue pool scheduler started",
		slog.String("type", "job"),
		slog.Duration("interval", s.interval),
	)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			slog.Info("Revenue pool scheduler stopped", slog.String("type", "job"))
			return
		case <-ticker.C:
			s.Check(ctx)
		}
	}
}

// Check builds the previous month unless it was already built by this scheduler.
func (s *Scheduler) Check(ctx context.Context) {
	month := PreviousMonth(s.now())

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastBuilt == month {
		return
	}

	buildCtx, cancel := context.WithTimeout(ctx, config.PoolBuildTimeout)
	defer cancel()

	if _, err := s.builder.BuildMonthlyPools(buildCtx, month); err != nil {
		slog.Error("Scheduled pool build failed",
			slog.String("type", "job"),
			slog.String("month", month),
			slog.Any("error", err),
		)
		return
	}
	s.lastBuilt = month
}
