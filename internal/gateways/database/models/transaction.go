package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Transaction is an immutable ledger row. IdempotencyKey is unique.
type Transaction struct {
	bun.BaseModel `bun:"table:transactions,alias:t"`

	ID             int64           `bun:"id,pk,autoincrement"`
	UserID         string          `bun:"user_id,notnull"`
	Type           string          `bun:"type,notnull"`
	PoolID         int64           `bun:"pool_id,nullzero"`
	CoinsAmount    decimal.Decimal `bun:"coins_amount,type:numeric(38,0),notnull"`
	CashAmount     decimal.Decimal `bun:"cash_amount,type:numeric(20,8),notnull"`
	CurrencyCode   string          `bun:"currency_code,notnull"`
	LocalAmount    decimal.Decimal `bun:"local_amount,type:numeric(20,4),notnull"`
	LocalCurrency  string          `bun:"local_currency,notnull"`
	ExchangeRate   decimal.Decimal `bun:"exchange_rate,type:numeric(20,8),notnull"`
	RateSource     string          `bun:"rate_source,notnull"`
	IdempotencyKey string          `bun:"idempotency_key,notnull"`
	Metadata       map[string]any  `bun:"metadata,type:jsonb"`
	CreatedAt      time.Time       `bun:"created_at,notnull,default:current_timestamp"`
}

// RevenueShareKey identifies the single ledger entry a pool may create for a user.
func RevenueShareKey(poolID int64, userID string) string {
	return fmt.Sprintf("revenue_pool:%d:user:%s", poolID, userID)
}

const (
	SettleApplied        = "applied"
	SettleAlreadyApplied = "already_applied"
	SettleUserMissing    = "user_missing"
)

// Settlement is one user's share of a pool, applied atomically with its ledger row.
type Settlement struct {
	Transaction Transaction
	// BetaBonus is the part of CashAmount paid above the plain share.
	BetaBonus decimal.Decimal
}
