package valuation

import (
	"context"
	"time"

	"github.com/adify/rewards/internal/domain/currency"
	"github.com/adify/rewards/internal/gateways/database/models"
)

type Repository interface {
	RevenueTotals(ctx context.Context, country string, from, to time.Time) (models.RevenueTotals, error)
	ActiveCountries(ctx context.Context) ([]string, error)
	LatestSnapshot(ctx context.Context, country string) (*models.CoinValuation, error)
	LatestSnapshots(ctx context.Context) ([]*models.CoinValuation, error)
	SaveSnapshot(ctx context.Context, snapshot *models.CoinValuation) error
}

type RateProvider interface {
	CurrencyForCountry(country string) currency.Currency
	ExchangeRate(ctx context.Context, from, to string, asOf time.Time) currency.Rate
	FallbackRate(from, to string) currency.Rate
}

type Observer interface {
	ValuationStored(v *Valuation)
	RefreshCompleted(report RefreshReport)
}

type Observers []Observer

func (o Observers) ValuationStored(v *Valuation) {
	for _, obs := range o {
		obs.ValuationStored(v)
	}
}

func (o Observers) RefreshCompleted(report RefreshReport) {
	for _, obs := range o {
		obs.RefreshCompleted(report)
	}
}
