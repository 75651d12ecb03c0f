package pools

import (
	"context"
	"time"

	"github.com/adify/rewards/internal/domain/currency"
	"github.com/adify/rewards/internal/gateways/database/models"
)

type Repository interface {
	MonthlyTotals(ctx context.Context, from, to time.Time) ([]models.RevenueTotals, error)
	CreatePool(ctx context.Context, pool *models.RevenuePool) (bool, error)
	GetPool(ctx context.Context, id int64) (*models.RevenuePool, error)
	ListPools(ctx context.Context, month string) ([]*models.RevenuePool, error)
	ListPoolsByCountry(ctx context.Context, country string) ([]*models.RevenuePool, error)
	ClaimPool(ctx context.Context, id int64, token string, now, leaseUntil time.Time) (bool, error)
	ReleaseClaim(ctx context.Context, id int64, token string) error
	CompletePool(ctx context.Context, id int64, token string, now time.Time) (bool, error)
	UserCoins(ctx context.Context, country string, from, to time.Time) ([]models.UserCoins, error)
}

type Ledger interface {
	Settle(ctx context.Context, settlement *models.Settlement) (string, error)
}

type RateProvider interface {
	CurrencyForCountry(country string) currency.Currency
	ExchangeRate(ctx context.Context, from, to string, asOf time.Time) currency.Rate
}

type Observer interface {
	PoolsBuilt(result *BuildResult)
	// PoolDistributed fires when a pool completes and when a run pauses on its
	// budget; result.Completed tells them apart.
	PoolDistributed(pool *models.RevenuePool, result *DistributionResult)
}

type Observers []Observer

func (o Observers) PoolsBuilt(result *BuildResult) {
	for _, obs := range o {
		obs.PoolsBuilt(result)
	}
}

func (o Observers) PoolDistributed(pool *models.RevenuePool, result *DistributionResult) {
	for _, obs := range o {
		obs.PoolDistributed(pool, result)
	}
}
