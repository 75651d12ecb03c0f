package pools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/adify/rewards/internal/config"
	"github.com/adify/rewards/internal/gateways/database/models"
)

// Shares is the revenue split between users and the platform. The two parts sum to 1.
type Shares struct {
	User     decimal.Decimal
	Platform decimal.Decimal
}

func DefaultShares() Shares {
	return Shares{
		User:     decimal.NewFromFloat(config.DefaultUserShare),
		Platform: decimal.NewFromFloat(config.DefaultPlatformShare),
	}
}

func (s Shares) Validate() error {
	if s.User.IsNegative() || s.Platform.IsNegative() || !s.User.Add(s.Platform).Equal(decimal.NewFromInt(1)) {
		return fmt.Errorf("invalid revenue shares %s/%s: must be non-negative and sum to 1", s.User, s.Platform)
	}
	return nil
}

// SplitRevenue rounds the user share to 8 places and gives the remainder to the
// platform, so the parts always add back to total.
func SplitRevenue(total, userRatio decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	user := total.Mul(userRatio).Round(config.ShareScale)
	return user, total.Sub(user)
}

// ConversionRate is the cash one coin earns from the user share, or 0 without coins.
func ConversionRate(userShare, coins decimal.Decimal) decimal.Decimal {
	if !coins.IsPositive() {
		return decimal.Zero
	}
	return userShare.DivRound(coins, config.ConversionRateScale)
}

type BuildResult struct {
	Month   string                `json:"month"`
	Created []*models.RevenuePool `json:"created"`
	Skipped []string              `json:"skipped"`
}

type Builder struct {
	repo     Repository
	shares   Shares
	observer Observer
}

func NewBuilder(repo Repository, shares Shares, observer Observer) (*Builder, error) {
	if err := shares.Validate(); err != nil {
		return nil, err
	}
	if observer == nil {
		observer = Observers{}
	}
	return &Builder{repo: repo, shares: shares, observer: observer}, nil
}

// BuildMonthlyPools creates one pending pool per country with rewarded revenue in
// the month. Countries that already have a pool for the month are skipped.
func (b *Builder) BuildMonthlyPools(ctx context.Context, month string) (*BuildResult, error) {
	start, end, err := MonthBounds(month)
	if err != nil {
		return nil, err
	}

	totals, err := b.repo.MonthlyTotals(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate revenue for %s: %w", month, err)
	}

	result := &BuildResult{
		Month:   month,
		Created: make([]*models.RevenuePool, 0, len(totals)),
		Skipped: make([]string, 0),
	}
	for _, t := range totals {
		userShare, platformShare := SplitRevenue(t.Revenue, b.shares.User)
		pool := &models.RevenuePool{
			Month:           month,
			CountryCode:     t.CountryCode,
			TotalRevenue:    t.Revenue,
			UserShare:       userShare,
			PlatformShare:   platformShare,
			TotalCoins:      t.Coins,
			ConversionRate:  ConversionRate(userShare, t.Coins),
			ImpressionCount: t.ImpressionCount,
			Status:          models.PoolStatusPending,
			PeriodStart:     start,
			PeriodEnd:       end,
			CashDistributed: decimal.Zero,
		}

		created, err := b.repo.CreatePool(ctx, pool)
		if err != nil {
			return result, fmt.Errorf("failed to create pool %s/%s: %w", month, t.CountryCode, err)
		}
		if !created {
			result.Skipped = append(result.Skipped, t.CountryCode)
			continue
		}
		result.Created = append(result.Created, pool)
	}

	slog.Info("Revenue pools built",
		slog.String("type", "job"),
		slog.String("month", month),
		slog.Int("created", len(result.Created)),
		slog.Int("skipped", len(result.Skipped)),
	)
	b.observer.PoolsBuilt(result)
	return result, nil
}
