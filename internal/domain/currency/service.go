package currency

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/shopspring/decimal"

	"github.com/adify/rewards/internal/config"
	"github.com/adify/rewards/internal/gateways/database/models"
)

// Source records which tier of the lookup chain produced a rate.
type Source string

const (
	SourceSame      Source = "same"
	SourcePersisted Source = "persisted"
	SourceStatic    Source = "static"
	SourceIdentity  Source = "identity"
)

type Rate struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Value  decimal.Decimal `json:"value"`
	Source Source          `json:"source"`
}

// Convert applies the rate to an amount in the From currency.
func (r Rate) Convert(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(r.Value)
}

var (
	ErrInvalidRate         = errors.New("exchange rate must be positive")
	ErrInvalidCurrencyPair = errors.New("invalid currency pair")
)

// tier is one step of the lookup chain. ok=false hands over to the next tier.
type tier func(ctx context.Context, from, to string, asOf time.Time) (decimal.Decimal, Source, bool)

type Service struct {
	repo     Repository
	cache    *lru.Cache
	cacheTTL time.Duration
	now      func() time.Time
}

type cachedRate struct {
	value    decimal.Decimal
	storedAt time.Time
}

// NewService builds the lookup chain. repo may be nil, in which case only the
// static table and the identity fallback are consulted. Persisted rates are
// cached for at most cacheTTL.
func NewService(repo Repository, cacheSize int, cacheTTL time.Duration) (*Service, error) {
	if cacheSize <= 0 {
		cacheSize = config.DefaultCacheSize
	}
	if cacheTTL <= 0 {
		cacheTTL = config.DefaultCacheTTL
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate cache: %w", err)
	}
	return &Service{repo: repo, cache: cache, cacheTTL: cacheTTL, now: time.Now}, nil
}

func (s *Service) CurrencyForCountry(country string) Currency {
	return ForCountry(country)
}

// ExchangeRate resolves from→to as of the given time: same currency, then the
// newest persisted rate, then the static table, then 1. It never fails.
func (s *Service) ExchangeRate(ctx context.Context, from, to string, asOf time.Time) Rate {
	return s.resolve(ctx, from, to, asOf, s.sameTier, s.persistedTier, s.staticTier)
}

// FallbackRate skips persisted rates and uses only the static table and identity.
func (s *Service) FallbackRate(from, to string) Rate {
	return s.resolve(context.Background(), from, to, time.Time{}, s.sameTier, s.staticTier)
}

func (s *Service) resolve(ctx context.Context, from, to string, asOf time.Time, tiers ...tier) Rate {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	for _, t := range tiers {
		if value, source, ok := t(ctx, from, to, asOf); ok {
			return Rate{From: from, To: to, Value: value, Source: source}
		}
	}

	slog.Warn("No exchange rate found, using identity",
		slog.String("from", from),
		slog.String("to", to),
	)
	return Rate{From: from, To: to, Value: decimal.NewFromInt(1), Source: SourceIdentity}
}

func (s *Service) sameTier(_ context.Context, from, to string, _ time.Time) (decimal.Decimal, Source, bool) {
	if from == to {
		return decimal.NewFromInt(1), SourceSame, true
	}
	return decimal.Zero, "", false
}

func (s *Service) persistedTier(ctx context.Context, from, to string, asOf time.Time) (decimal.Decimal, Source, bool) {
	if s.repo == nil {
		return decimal.Zero, "", false
	}

	key := cacheKey(from, to, asOf)
	if raw, ok := s.cache.Get(key); ok {
		entry := raw.(cachedRate)
		if s.now().Sub(entry.storedAt) < s.cacheTTL {
			return entry.value, SourcePersisted, true
		}
		s.cache.Remove(key)
	}

	rate, err := s.repo.LatestRate(ctx, from, to, asOf)
	if err != nil {
		slog.Warn("Persisted exchange rate unavailable, falling back",
			slog.String("type", "db"),
			slog.String("pair", pairKey(from, to)),
			slog.Any("error", err),
		)
		return decimal.Zero, "", false
	}
	if rate == nil || !rate.Rate.IsPositive() {
		return decimal.Zero, "", false
	}

	s.cache.Add(key, cachedRate{value: rate.Rate, storedAt: s.now()})
	return rate.Rate, SourcePersisted, true
}

func (s *Service) staticTier(_ context.Context, from, to string, _ time.Time) (decimal.Decimal, Source, bool) {
	if rate, ok := StaticRate(from, to); ok {
		return rate, SourceStatic, true
	}
	return decimal.Zero, "", false
}

// RecordRate persists a rate and drops cached lookups so it takes effect immediately.
func (s *Service) RecordRate(ctx context.Context, base, target string, value decimal.Decimal, effective time.Time) (*models.ExchangeRate, error) {
	if s.repo == nil {
		return nil, errors.New("no exchange rate repository configured")
	}
	if !value.IsPositive() {
		return nil, ErrInvalidRate
	}
	base, target = strings.ToUpper(strings.TrimSpace(base)), strings.ToUpper(strings.TrimSpace(target))
	if len(base) != 3 || len(target) != 3 {
		return nil, fmt.Errorf("%w %q-%q", ErrInvalidCurrencyPair, base, target)
	}
	if effective.IsZero() {
		effective = time.Now()
	}

	rate := &models.ExchangeRate{
		BaseCurrency:   base,
		TargetCurrency: target,
		Rate:           value,
		EffectiveDate:  effective,
		CreatedAt:      time.Now(),
	}
	if err := s.repo.SaveRate(ctx, rate); err != nil {
		return nil, fmt.Errorf("failed to save exchange rate: %w", err)
	}

	s.cache.Purge()
	slog.Info("Exchange rate recorded",
		slog.String("pair", pairKey(base, target)),
		slog.String("rate", value.String()),
		slog.Time("effective", effective),
	)
	return rate, nil
}

// cacheKey buckets lookups by day; persisted rates are effective per date.
func cacheKey(from, to string, asOf time.Time) string {
	return pairKey(from, to) + "@" + asOf.UTC().Format("2006-01-02")
}
