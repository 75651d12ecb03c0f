package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/adify/rewards/internal/config"
	"github.com/adify/rewards/internal/domain/currency"
	"github.com/adify/rewards/internal/domain/pools"
	"github.com/adify/rewards/internal/domain/valuation"
	"github.com/adify/rewards/internal/gateways/database"
	"github.com/adify/rewards/internal/gateways/database/repositories"
	"github.com/adify/rewards/internal/gateways/notify"
	"github.com/adify/rewards/internal/gateways/reports"
	"github.com/adify/rewards/internal/metrics"
)

// services is the wired object graph shared by every subcommand.
type services struct {
	db      *database.DB
	metrics *metrics.Metrics
	notify  *notify.Notifier

	poolRepo   repositories.PoolRepository
	currency   *currency.Service
	valuations *valuation.Service
	refresher  *valuation.Scheduler
	builder    *pools.Builder
	poolCheck  *pools.Scheduler
	distribute *pools.Distributor
}

func newServices(ctx context.Context, cfg *config.Config) (*services, error) {
	start := time.Now()
	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	slog.Info("Database connected",
		slog.String("type", "db"),
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(start)))

	s := &services{db: db, metrics: metrics.New()}
	if s.notify, err = notify.NewDiscordNotifier(cfg.Notify); err != nil {
		db.Close()
		return nil, err
	}

	bunDB := db.BunDB()
	s.poolRepo = repositories.NewPoolRepository(bunDB)
	ledger := repositories.NewLedgerRepository(bunDB)

	s.currency, err = currency.NewService(repositories.NewExchangeRateRepository(bunDB), cfg.Valuation.CacheSize, cfg.Valuation.CacheTTL.Duration)
	if err != nil {
		s.close(ctx)
		return nil, fmt.Errorf("failed to create currency service: %w", err)
	}

	valuationObservers := valuation.Observers{s.metrics}
	poolObservers := pools.Observers{s.metrics}
	if s.notify != nil {
		valuationObservers = append(valuationObservers, s.notify)
		poolObservers = append(poolObservers, s.notify)
	}
	reporter, err := reports.NewS3Reporter(ctx, cfg.Reports, ledger)
	if err != nil {
		s.close(ctx)
		return nil, err
	}
	if reporter != nil {
		poolObservers = append(poolObservers, reporter)
	}

	valuationRepo := repositories.NewValuationRepository(bunDB)
	calcCfg := valuation.DefaultCalculatorConfig()
	calcCfg.WindowDays = cfg.Valuation.WindowDays
	calcCfg.SettlementCurrency = cfg.Pools.SettlementCurrency
	calc := valuation.NewCalculator(valuationRepo, s.currency, calcCfg)

	s.valuations, err = valuation.NewService(calc, valuationRepo, cfg.Valuation.CacheSize, cfg.Valuation.CacheTTL.Duration, cfg.Valuation.Workers, valuationObservers)
	if err != nil {
		s.close(ctx)
		return nil, fmt.Errorf("failed to create valuation service: %w", err)
	}
	s.refresher = valuation.NewScheduler(s.valuations, cfg.Valuation.RefreshInterval.Duration)

	shares := pools.Shares{
		User:     decimal.NewFromFloat(cfg.Pools.UserShare),
		Platform: decimal.NewFromFloat(cfg.Pools.PlatformShare),
	}
	s.builder, err = pools.NewBuilder(s.poolRepo, shares, poolObservers)
	if err != nil {
		s.close(ctx)
		return nil, err
	}
	s.poolCheck = pools.NewScheduler(s.builder, cfg.Pools.BuildCheckInterval.Duration)

	s.distribute = pools.NewDistributor(s.poolRepo, ledger, s.currency, pools.DistributorConfig{
		SettlementCurrency:    cfg.Pools.SettlementCurrency,
		DefaultBetaMultiplier: decimal.NewFromFloat(cfg.Pools.DefaultBetaMultiplier),
		BatchSize:             cfg.Distribution.BatchSize,
		MaxRunDuration:        cfg.Distribution.MaxRunDuration.Duration,
		ClaimLease:            cfg.Distribution.ClaimLease.Duration,
	}, poolObservers)

	return s, nil
}

func (s *services) close(ctx context.Context) {
	s.notify.Close(ctx)
	s.db.Close()
}
