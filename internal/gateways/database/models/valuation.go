package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// CoinValuation is an append-only snapshot of what 100 coins are worth in a country.
type CoinValuation struct {
	bun.BaseModel `bun:"table:coin_valuations,alias:cv"`

	ID               int64           `bun:"id,pk,autoincrement"`
	CountryCode      string          `bun:"country_code,notnull"`
	ValuePer100Coins decimal.Decimal `bun:"value_per_100_coins,type:numeric(20,4),notnull"`
	CurrencyCode     string          `bun:"currency_code,notnull"`
	Trend            string          `bun:"trend,notnull"`
	ChangePercent    decimal.Decimal `bun:"change_percent,type:numeric(12,2),notnull"`
	Source           string          `bun:"source,notnull"`
	RateSource       string          `bun:"rate_source,notnull"`
	ImpressionCount  int64           `bun:"impression_count,notnull"`
	CalculatedAt     time.Time       `bun:"calculated_at,notnull,default:current_timestamp"`
}
