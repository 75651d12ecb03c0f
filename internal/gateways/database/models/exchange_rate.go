package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type ExchangeRate struct {
	bun.BaseModel `bun:"table:exchange_rates,alias:er"`

	ID             int64           `bun:"id,pk,autoincrement"`
	BaseCurrency   string          `bun:"base_currency,notnull"`
	TargetCurrency string          `bun:"target_currency,notnull"`
	Rate           decimal.Decimal `bun:"rate,type:numeric(20,8),notnull"`
	EffectiveDate  time.Time       `bun:"effective_date,notnull"`
	CreatedAt      time.Time       `bun:"created_at,notnull,default:current_timestamp"`
}
