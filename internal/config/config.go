package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log          LogConfig          `toml:"log"`
	DB           DBConfig           `toml:"db"`
	API          APIConfig          `toml:"api"`
	Valuation    ValuationConfig    `toml:"valuation"`
	Pools        PoolsConfig        `toml:"pools"`
	Distribution DistributionConfig `toml:"distribution"`
	Notify       NotifyConfig       `toml:"notify"`
	Reports      ReportsConfig      `toml:"reports"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

type DBConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	Database     string `toml:"database"`
	PoolSize     int    `toml:"pool_size"`
	MaxIdleConns int    `toml:"max_idle_conns"`
	MaxLifetime  int    `toml:"max_lifetime"`
}

type APIConfig struct {
	Host       string `toml:"host"`
	Port       int    `toml:"port"`
	AdminToken string `toml:"admin_token"`
}

// Addr is the listen address for the admin API.
func (c APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type ValuationConfig struct {
	RefreshInterval Duration `toml:"refresh_interval"`
	WindowDays      int      `toml:"window_days"`
	Workers         int      `toml:"workers"`
	CacheSize       int      `toml:"cache_size"`
	// CacheTTL is how long a cached valuation or rate is served before the
	// store is read again.
	CacheTTL Duration `toml:"cache_ttl"`
}

type PoolsConfig struct {
	UserShare             float64  `toml:"user_share"`
	PlatformShare         float64  `toml:"platform_share"`
	SettlementCurrency    string   `toml:"settlement_currency"`
	DefaultBetaMultiplier float64  `toml:"default_beta_multiplier"`
	BuildCheckInterval    Duration `toml:"build_check_interval"`
}

type DistributionConfig struct {
	BatchSize      int      `toml:"batch_size"`
	MaxRunDuration Duration `toml:"max_run_duration"`
	ClaimLease     Duration `toml:"claim_lease"`
}

type NotifyConfig struct {
	DiscordWebhookURL string `toml:"discord_webhook_url"`
}

type ReportsConfig struct {
	Key      string `toml:"key"`
	Secret   string `toml:"secret"`
	Region   string `toml:"region"`
	Endpoint string `toml:"endpoint"`
	Bucket   string `toml:"bucket"`
	Prefix   string `toml:"prefix"`
}

// Enabled reports whether settlement reports should be uploaded.
func (c ReportsConfig) Enabled() bool {
	return c.Bucket != "" && c.Key != "" && c.Secret != ""
}

// Duration decodes TOML strings like "6h" or "30m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

var ErrInvalidShares = errors.New("user_share and platform_share must be non-negative and sum to 1")

// Validate fills unset values with defaults and rejects inconsistent settings.
func (c *Config) Validate() error {
	if c.API.Port == 0 {
		c.API.Port = DefaultAPIPort
	}

	if c.Valuation.RefreshInterval.Duration <= 0 {
		c.Valuation.RefreshInterval.Duration = DefaultRefreshInterval
	}
	if c.Valuation.WindowDays <= 0 {
		c.Valuation.WindowDays = DefaultValuationWindowDays
	}
	if c.Valuation.Workers <= 0 {
		c.Valuation.Workers = DefaultValuationWorkers
	}
	if c.Valuation.CacheSize <= 0 {
		c.Valuation.CacheSize = DefaultCacheSize
	}
	if c.Valuation.CacheTTL.Duration <= 0 {
		c.Valuation.CacheTTL.Duration = DefaultCacheTTL
	}

	if c.Pools.UserShare == 0 && c.Pools.PlatformShare == 0 {
		c.Pools.UserShare = DefaultUserShare
		c.Pools.PlatformShare = DefaultPlatformShare
	}
	if c.Pools.UserShare < 0 || c.Pools.PlatformShare < 0 {
		return ErrInvalidShares
	}
	sum := decimal.NewFromFloat(c.Pools.UserShare).Add(decimal.NewFromFloat(c.Pools.PlatformShare))
	if !sum.Equal(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: got %s", ErrInvalidShares, sum)
	}
	if c.Pools.SettlementCurrency == "" {
		c.Pools.SettlementCurrency = SettlementCurrency
	}
	if c.Pools.DefaultBetaMultiplier <= 0 {
		c.Pools.DefaultBetaMultiplier = DefaultBetaMultiplier
	}
	if c.Pools.BuildCheckInterval.Duration <= 0 {
		c.Pools.BuildCheckInterval.Duration = DefaultBuildCheckInterval
	}

	if c.Distribution.BatchSize <= 0 {
		c.Distribution.BatchSize = DefaultDistributionBatchSize
	}
	if c.Distribution.MaxRunDuration.Duration <= 0 {
		c.Distribution.MaxRunDuration.Duration = DefaultDistributionMaxRun
	}
	if c.Distribution.ClaimLease.Duration <= 0 {
		c.Distribution.ClaimLease.Duration = DefaultClaimLease
	}
	if c.Distribution.ClaimLease.Duration < c.Distribution.MaxRunDuration.Duration {
		return fmt.Errorf("claim_lease (%s) must not be shorter than max_run_duration (%s)",
			c.Distribution.ClaimLease, c.Distribution.MaxRunDuration)
	}

	if c.Reports.Prefix == "" {
		c.Reports.Prefix = DefaultReportPrefix
	}
	return nil
}

// Default returns a validated configuration with every default applied.
func Default() *Config {
	cfg := &Config{
		Log: LogConfig{Level: slog.LevelInfo, Format: "text"},
		DB: DBConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Database: "adify",
			PoolSize: 10,
		},
		API: APIConfig{Host: "0.0.0.0"},
	}
	_ = cfg.Validate()
	return cfg
}
