package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// AdImpression is written by the ad-serving flow and never mutated here.
type AdImpression struct {
	bun.BaseModel `bun:"table:ad_impressions,alias:ai"`

	ID               int64           `bun:"id,pk,autoincrement"`
	UserID           string          `bun:"user_id,notnull"`
	CountryCode      string          `bun:"country_code,notnull"`
	AdType           string          `bun:"ad_type,notnull"`
	AdZone           string          `bun:"ad_zone"`
	EstimatedRevenue decimal.Decimal `bun:"estimated_revenue,type:numeric(20,8),notnull"`
	CoinsAwarded     int64           `bun:"coins_awarded,notnull"`
	Completed        bool            `bun:"completed,notnull,default:false"`
	CreatedAt        time.Time       `bun:"created_at,notnull,default:current_timestamp"`
}

// RevenueTotals aggregates impressions for one country over a window.
type RevenueTotals struct {
	CountryCode     string          `bun:"country_code"`
	Revenue         decimal.Decimal `bun:"revenue"`
	Coins           decimal.Decimal `bun:"coins"`
	ImpressionCount int64           `bun:"impression_count"`
}

// UserCoins is the per-user coin total inside a pool window, joined with the
// user's beta settings. Exists is false when no user row matches.
type UserCoins struct {
	UserID         string              `bun:"user_id"`
	Coins          decimal.Decimal     `bun:"coins"`
	Exists         bool                `bun:"user_exists"`
	IsBetaUser     bool                `bun:"is_beta_user"`
	BetaMultiplier decimal.NullDecimal `bun:"beta_multiplier"`
}
