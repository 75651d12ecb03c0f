package config

import "time"

// Database and Performance Constants
const (
	DefaultQueryTimeout     = 30 * time.Second
	BatchQueryTimeout       = 60 * time.Second
	SettlementTxTimeout     = 15 * time.Second
	NetworkDialTimeout      = 5 * time.Second
	NetworkMaxRetries       = 3
	NetworkRetryInterval    = time.Second
	ValuationRefreshTimeout = 30 * time.Minute
	PoolBuildTimeout        = 10 * time.Minute
	NotifyTimeout           = 10 * time.Second
	ReportUploadTimeout     = 30 * time.Second
	ShutdownTimeout         = 15 * time.Second
)

// Valuation Constants
const (
	DefaultRefreshInterval     = 6 * time.Hour
	DefaultValuationWindowDays = 30
	DefaultValuationWorkers    = 4
	DefaultCacheSize           = 256
	DefaultCacheTTL            = 5 * time.Minute

	// Fallback value of 100 coins, in the settlement currency.
	DefaultValuePer100Coins = "1.00"

	ValuationScale = 4
	ChangeScale    = 2
	StableBandPct  = 1
	CoinsPerQuote  = 100
)

// Revenue Pool Constants
const (
	SettlementCurrency        = "USD"
	DefaultUserShare          = 0.85
	DefaultPlatformShare      = 0.15
	DefaultBetaMultiplier     = 1.5
	DefaultBuildCheckInterval = time.Hour

	ShareScale          = 8
	ConversionRateScale = 12
	CashScale           = 8

	MonthLayout = "2006-01"
)

// Distribution Constants
const (
	DefaultDistributionBatchSize = 5000
	DefaultDistributionMaxRun    = 10 * time.Minute
	DefaultClaimLease            = 15 * time.Minute
)

// Ad Types
const (
	AdTypeRewarded = "rewarded"
)

// Ledger Transaction Types
const (
	TransactionTypeRevenueShare = "revenue_share"
)

// API Constants
const (
	DefaultAPIPort      = 8080
	AppName             = "Adify Rewards"
	DefaultReportPrefix = "revenue-pools"

	AdminRateLimit       = 60
	AdminRateLimitWindow = time.Minute
)
