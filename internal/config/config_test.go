package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[log]
level = "debug"

[db]
host = "db.internal"
port = 5433
user = "adify"
password = "secret"
database = "rewards"
pool_size = 20

[valuation]
refresh_interval = "3h"
workers = 8
cache_ttl = "90s"

[pools]
user_share = 0.8
platform_share = 0.2

[distribution]
batch_size = 100
max_run_duration = "1m"
claim_lease = "5m"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, 5433, cfg.DB.Port)
	assert.Equal(t, 3*time.Hour, cfg.Valuation.RefreshInterval.Duration)
	assert.Equal(t, 8, cfg.Valuation.Workers)
	assert.Equal(t, 90*time.Second, cfg.Valuation.CacheTTL.Duration)
	assert.Equal(t, DefaultValuationWindowDays, cfg.Valuation.WindowDays)
	assert.Equal(t, 0.8, cfg.Pools.UserShare)
	assert.Equal(t, SettlementCurrency, cfg.Pools.SettlementCurrency)
	assert.Equal(t, DefaultBetaMultiplier, cfg.Pools.DefaultBetaMultiplier)
	assert.Equal(t, 100, cfg.Distribution.BatchSize)
	assert.Equal(t, 5*time.Minute, cfg.Distribution.ClaimLease.Duration)
	assert.Equal(t, DefaultAPIPort, cfg.API.Port)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{
			name: "custom shares",
			mutate: func(c *Config) {
				c.Pools.UserShare = 0.7
				c.Pools.PlatformShare = 0.3
			},
		},
		{
			name: "shares do not sum to one",
			mutate: func(c *Config) {
				c.Pools.UserShare = 0.9
				c.Pools.PlatformShare = 0.2
			},
			wantErr: true,
		},
		{
			name: "negative share",
			mutate: func(c *Config) {
				c.Pools.UserShare = 1.1
				c.Pools.PlatformShare = -0.1
			},
			wantErr: true,
		},
		{
			name: "lease shorter than run budget",
			mutate: func(c *Config) {
				c.Distribution.MaxRunDuration.Duration = time.Hour
				c.Distribution.ClaimLease.Duration = time.Minute
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Greater(t, cfg.Distribution.BatchSize, 0)
			assert.Equal(t, DefaultRefreshInterval, cfg.Valuation.RefreshInterval.Duration)
			assert.Equal(t, DefaultCacheTTL, cfg.Valuation.CacheTTL.Duration)
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultUserShare, cfg.Pools.UserShare)
	assert.Equal(t, DefaultPlatformShare, cfg.Pools.PlatformShare)
	assert.Equal(t, "0.0.0.0:8080", cfg.API.Addr())
	assert.False(t, cfg.Reports.Enabled())
}
