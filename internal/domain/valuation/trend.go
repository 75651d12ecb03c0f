package valuation

import (
	"github.com/shopspring/decimal"

	"github.com/adify/rewards/internal/config"
)

var (
	coinsPerQuote = decimal.NewFromInt(config.CoinsPerQuote)
	hundred       = decimal.NewFromInt(100)
	stableBand    = decimal.NewFromInt(config.StableBandPct)
)

// ValuePer100Coins converts summed revenue and coins into the value of 100 coins
// in the target currency, rounded to 4 places. coins must be positive.
func ValuePer100Coins(revenue, coins, rate decimal.Decimal) decimal.Decimal {
	return revenue.Mul(coinsPerQuote).Mul(rate).Div(coins).Round(config.ValuationScale)
}

// ComputeTrend compares the new value with the previous snapshot. Moves under
// 1% either way are stable. A missing or zero previous value is stable at 0.
func ComputeTrend(previous *decimal.Decimal, current decimal.Decimal) (Trend, decimal.Decimal) {
	if previous == nil || previous.IsZero() {
		return TrendStable, decimal.Zero
	}

	change := current.Sub(*previous).Div(*previous).Mul(hundred).Round(config.ChangeScale)
	switch {
	case change.Abs().LessThan(stableBand):
		return TrendStable, change
	case change.IsPositive():
		return TrendUp, change
	default:
		return TrendDown, change
	}
}
