package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// User carries the balances this service settles into. Profiles are owned elsewhere.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID                 string              `bun:"id,pk"`
	CountryCode        string              `bun:"country_code"`
	CoinBalance        decimal.Decimal     `bun:"coin_balance,type:numeric(38,0),notnull,default:0"`
	CashBalance        decimal.Decimal     `bun:"cash_balance,type:numeric(20,8),notnull,default:0"`
	TotalCashEarned    decimal.Decimal     `bun:"total_cash_earned,type:numeric(20,8),notnull,default:0"`
	TotalCoinsRedeemed decimal.Decimal     `bun:"total_coins_redeemed,type:numeric(38,0),notnull,default:0"`
	IsBetaUser         bool                `bun:"is_beta_user,notnull,default:false"`
	BetaMultiplier     decimal.NullDecimal `bun:"beta_multiplier,type:numeric(6,3)"`
	CreatedAt          time.Time           `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt          time.Time           `bun:"updated_at,notnull,default:current_timestamp"`
}

// BetaDebt accumulates the cash paid to beta users above their plain share.
type BetaDebt struct {
	bun.BaseModel `bun:"table:beta_debts,alias:bd"`

	UserID      string          `bun:"user_id,pk"`
	CoinsEarned decimal.Decimal `bun:"coins_earned,type:numeric(38,0),notnull,default:0"`
	CashDebt    decimal.Decimal `bun:"cash_debt,type:numeric(20,8),notnull,default:0"`
	UpdatedAt   time.Time       `bun:"updated_at,notnull,default:current_timestamp"`
}
