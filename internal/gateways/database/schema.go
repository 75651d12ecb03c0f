package database

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/adify/rewards/internal/gateways/database/models"
)

const schemaVersion = 1

var schemaModels = []any{
	(*models.User)(nil),
	(*models.AdImpression)(nil),
	(*models.CoinValuation)(nil),
	(*models.ExchangeRate)(nil),
	(*models.RevenuePool)(nil),
	(*models.Transaction)(nil),
	(*models.BetaDebt)(nil),
}

var schemaIndexes = []string{
	"CREATE INDEX IF NOT EXISTS idx_ad_impressions_country_time ON ad_impressions(country_code, created_at) WHERE completed AND ad_type = 'rewarded';",
	"CREATE INDEX IF NOT EXISTS idx_ad_impressions_user ON ad_impressions(user_id);",
	"CREATE INDEX IF NOT EXISTS idx_coin_valuations_country_time ON coin_valuations(country_code, calculated_at DESC);",
	"CREATE INDEX IF NOT EXISTS idx_exchange_rates_pair_date ON exchange_rates(base_currency, target_currency, effective_date DESC);",
	"CREATE UNIQUE INDEX IF NOT EXISTS idx_revenue_pools_month_country ON revenue_pools(month, country_code);",
	"CREATE INDEX IF NOT EXISTS idx_revenue_pools_status ON revenue_pools(status);",
	"CREATE UNIQUE INDEX IF NOT EXISTS idx_transactions_idempotency_key ON transactions(idempotency_key);",
	"CREATE INDEX IF NOT EXISTS idx_transactions_pool ON transactions(pool_id) WHERE pool_id IS NOT NULL;",
	"CREATE INDEX IF NOT EXISTS idx_transactions_user ON transactions(user_id, created_at DESC);",
}

// InitializeSchema creates every table and index the service needs. It is safe to run repeatedly.
func (db *DB) InitializeSchema(ctx context.Context) error {
	for _, model := range schemaModels {
		if _, err := db.bunDB.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table for %T: %w", model, err)
		}
	}

	for _, idx := range schemaIndexes {
		if _, err := db.ExecWithLog(ctx, idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	if err := db.ensureAppMeta(ctx); err != nil {
		return fmt.Errorf("failed to create app_meta: %w", err)
	}
	if err := db.setAppMeta(ctx, "schema_version", strconv.Itoa(schemaVersion)); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}

	slog.Info("Database schema initialized",
		slog.String("type", "db"),
		slog.Int("schema_version", schemaVersion),
		slog.Int("tables", len(schemaModels)),
	)
	return nil
}

// SchemaVersion returns the recorded schema version, or 0 if none was recorded.
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	if err := db.ensureAppMeta(ctx); err != nil {
		return 0, err
	}
	var v string
	err := db.pool.QueryRow(ctx, `SELECT value FROM app_meta WHERE key = $1`, "schema_version").Scan(&v)
	if err != nil {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func (db *DB) ensureAppMeta(ctx context.Context) error {
	_, err := db.ExecWithLog(ctx, `CREATE TABLE IF NOT EXISTS app_meta (key TEXT PRIMARY KEY, value TEXT)`)
	return err
}

func (db *DB) setAppMeta(ctx context.Context, key, value string) error {
	_, err := db.ExecWithLog(ctx, `INSERT INTO app_meta(key, value) VALUES($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, value)
	return err
}
