package valuation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/adify/rewards/internal/config"
)

type CalculatorConfig struct {
	WindowDays         int
	SettlementCurrency string
	DefaultValuePer100 decimal.Decimal
}

func DefaultCalculatorConfig() CalculatorConfig {
	return CalculatorConfig{
		WindowDays:         config.DefaultValuationWindowDays,
		SettlementCurrency: config.SettlementCurrency,
		DefaultValuePer100: decimal.RequireFromString(config.DefaultValuePer100Coins),
	}
}

type Calculator struct {
	repo  Repository
	rates RateProvider
	cfg   CalculatorConfig
}

func NewCalculator(repo Repository, rates RateProvider, cfg CalculatorConfig) *Calculator {
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = config.DefaultValuationWindowDays
	}
	if cfg.SettlementCurrency == "" {
		cfg.SettlementCurrency = config.SettlementCurrency
	}
	if !cfg.DefaultValuePer100.IsPositive() {
		cfg.DefaultValuePer100 = decimal.RequireFromString(config.DefaultValuePer100Coins)
	}
	return &Calculator{repo: repo, rates: rates, cfg: cfg}
}

// Calculate values 100 coins for a country from the trailing window of completed
// rewarded impressions ending at `at`.
func (c *Calculator) Calculate(ctx context.Context, country string, at time.Time) (*Valuation, error) {
	country = strings.ToUpper(strings.TrimSpace(country))
	local := c.rates.CurrencyForCountry(country)

	from := at.AddDate(0, 0, -c.cfg.WindowDays)
	totals, err := c.repo.RevenueTotals(ctx, country, from, at)
	if err != nil {
		return nil, fmt.Errorf("failed to load revenue totals for %s: %w", country, err)
	}

	v := &Valuation{
		CountryCode:     country,
		CurrencyCode:    local.Code,
		CurrencySymbol:  local.Symbol,
		ImpressionCount: totals.ImpressionCount,
		CalculatedAt:    at,
	}

	if totals.ImpressionCount == 0 || !totals.Coins.IsPositive() || !totals.Revenue.IsPositive() {
		rate := c.rates.FallbackRate(c.cfg.SettlementCurrency, local.Code)
		v.ValuePer100Coins = rate.Convert(c.cfg.DefaultValuePer100).Round(config.ValuationScale)
		v.Source = SourceDefault
		v.RateSource = rate.Source
		v.Trend = TrendStable
		v.ChangePercent = decimal.Zero
		return v, nil
	}

	rate := c.rates.ExchangeRate(ctx, c.cfg.SettlementCurrency, local.Code, at)
	v.ValuePer100Coins = ValuePer100Coins(totals.Revenue, totals.Coins, rate.Value)
	v.Source = SourceComputed
	v.RateSource = rate.Source

	var previous *decimal.Decimal
	snapshot, err := c.repo.LatestSnapshot(ctx, country)
	if err != nil {
		slog.Warn("Previous valuation unavailable, reporting stable trend",
			slog.String("type", "db"),
			slog.String("country", country),
			slog.Any("error", err),
		)
	} else if snapshot != nil {
		previous = &snapshot.ValuePer100Coins
	}
	v.Trend, v.ChangePercent = ComputeTrend(previous, v.ValuePer100Coins)
	return v, nil
}
