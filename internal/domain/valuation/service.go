package valuation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/errgroup"

	"github.com/adify/rewards/internal/config"
)

type Service struct {
	calc     *Calculator
	repo     Repository
	cache    *lru.Cache
	cacheTTL time.Duration
	workers  int
	observer Observer
	now      func() time.Time
}

type cachedValuation struct {
	valuation *Valuation
	storedAt  time.Time
}

func NewService(calc *Calculator, repo Repository, cacheSize int, cacheTTL time.Duration, workers int, observer Observer) (*Service, error) {
	if cacheSize <= 0 {
		cacheSize = config.DefaultCacheSize
	}
	if cacheTTL <= 0 {
		cacheTTL = config.DefaultCacheTTL
	}
	if workers <= 0 {
		workers = config.DefaultValuationWorkers
	}
	if observer == nil {
		observer = Observers{}
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create valuation cache: %w", err)
	}
	return &Service{
		calc:     calc,
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		workers:  workers,
		observer: observer,
		now:      time.Now,
	}, nil
}

// Refresh calculates one country and appends the snapshot.
func (s *Service) Refresh(ctx context.Context, country string, at time.Time) (*Valuation, error) {
	v, err := s.calc.Calculate(ctx, country, at)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveSnapshot(ctx, v.Snapshot()); err != nil {
		return nil, fmt.Errorf("failed to save valuation for %s: %w", v.CountryCode, err)
	}

	s.remember(v.CountryCode, v)
	s.observer.ValuationStored(v)
	return v, nil
}

// RefreshAll recalculates every country seen in the impression log. A failing
// country is logged and skipped; the count covers persisted snapshots only.
func (s *Service) RefreshAll(ctx context.Context, at time.Time) (int, error) {
	start := time.Now()

	countries, err := s.repo.ActiveCountries(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list countries: %w", err)
	}

	var (
		stored atomic.Int64
		mu     sync.Mutex
		failed []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, country := range countries {
		if strings.TrimSpace(country) == "" {
			continue
		}
		country := country
		g.Go(func() error {
			v, err := s.Refresh(gctx, country, at)
			if err != nil {
				slog.Error("Failed to refresh valuation",
					slog.String("type", "job"),
					slog.String("country", country),
					slog.Any("error", err),
				)
				mu.Lock()
				failed = append(failed, country)
				mu.Unlock()
				return nil
			}
			stored.Add(1)
			slog.Debug("Valuation refreshed",
				slog.String("type", "job"),
				slog.String("country", v.CountryCode),
				slog.String("value", v.ValuePer100Coins.StringFixed(config.ValuationScale)),
				slog.String("trend", string(v.Trend)),
			)
			return nil
		})
	}
	_ = g.Wait()

	report := RefreshReport{
		Countries: len(countries),
		Stored:    int(stored.Load()),
		Failed:    failed,
		Took:      time.Since(start),
	}
	s.observer.RefreshCompleted(report)

	slog.Info("Valuation refresh finished",
		slog.String("type", "job"),
		slog.Int("countries", report.Countries),
		slog.Int("stored", report.Stored),
		slog.Int("failed", len(report.Failed)),
		slog.Duration("took", report.Took),
	)
	return report.Stored, ctx.Err()
}

// Latest returns the newest valuation for a country: cached, then persisted,
// then calculated on the fly without being stored.
func (s *Service) Latest(ctx context.Context, country string, at time.Time) (*Valuation, error) {
	country = strings.ToUpper(strings.TrimSpace(country))
	if v, ok := s.cached(country); ok {
		return v, nil
	}

	snapshot, err := s.repo.LatestSnapshot(ctx, country)
	if err != nil {
		slog.Warn("Failed to load valuation snapshot",
			slog.String("type", "db"),
			slog.String("country", country),
			slog.Any("error", err),
		)
	}
	if snapshot != nil {
		v := FromSnapshot(snapshot)
		s.remember(country, v)
		return v, nil
	}

	return s.calc.Calculate(ctx, country, at)
}

// cached returns a valuation younger than the cache TTL. Older entries are
// dropped so snapshots written by other processes are picked up.
func (s *Service) cached(country string) (*Valuation, bool) {
	raw, ok := s.cache.Get(country)
	if !ok {
		return nil, false
	}
	entry := raw.(cachedValuation)
	if s.now().Sub(entry.storedAt) >= s.cacheTTL {
		s.cache.Remove(country)
		return nil, false
	}
	return entry.valuation, true
}

func (s *Service) remember(country string, v *Valuation) {
	s.cache.Add(country, cachedValuation{valuation: v, storedAt: s.now()})
}

func (s *Service) All(ctx context.Context) ([]*Valuation, error) {
	snapshots, err := s.repo.LatestSnapshots(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list valuations: %w", err)
	}
	out := make([]*Valuation, 0, len(snapshots))
	for _, snap := range snapshots {
		out = append(out, FromSnapshot(snap))
	}
	return out, nil
}
