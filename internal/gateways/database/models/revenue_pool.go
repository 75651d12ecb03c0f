package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

const (
	PoolStatusPending      = "pending"
	PoolStatusDistributing = "distributing"
	PoolStatusCompleted    = "completed"
)

// RevenuePool is one month of revenue for one country. (month, country_code) is unique.
type RevenuePool struct {
	bun.BaseModel `bun:"table:revenue_pools,alias:rp"`

	ID              int64           `bun:"id,pk,autoincrement" json:"id"`
	Month           string          `bun:"month,notnull" json:"month"`
	CountryCode     string          `bun:"country_code,notnull" json:"countryCode"`
	TotalRevenue    decimal.Decimal `bun:"total_revenue,type:numeric(20,8),notnull" json:"totalRevenue"`
	UserShare       decimal.Decimal `bun:"user_share,type:numeric(20,8),notnull" json:"userShare"`
	PlatformShare   decimal.Decimal `bun:"platform_share,type:numeric(20,8),notnull" json:"platformShare"`
	TotalCoins      decimal.Decimal `bun:"total_coins,type:numeric(38,0),notnull" json:"totalCoins"`
	ConversionRate  decimal.Decimal `bun:"conversion_rate,type:numeric(24,12),notnull" json:"conversionRate"`
	ImpressionCount int64           `bun:"impression_count,notnull" json:"impressionCount"`
	Status          string          `bun:"status,notnull,default:'pending'" json:"status"`
	PeriodStart     time.Time       `bun:"period_start,notnull" json:"periodStart"`
	PeriodEnd       time.Time       `bun:"period_end,notnull" json:"periodEnd"`
	ClaimToken      string          `bun:"claim_token,nullzero" json:"-"`
	ClaimExpiresAt  time.Time       `bun:"claim_expires_at,nullzero" json:"-"`
	UsersSettled    int64           `bun:"users_settled,notnull,default:0" json:"usersSettled"`
	CashDistributed decimal.Decimal `bun:"cash_distributed,type:numeric(20,8),notnull,default:0" json:"cashDistributed"`
	DistributedAt   time.Time       `bun:"distributed_at,nullzero" json:"distributedAt,omitempty"`
	CreatedAt       time.Time       `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt       time.Time       `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
}
