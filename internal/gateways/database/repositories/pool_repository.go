package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/adify/rewards/internal/config"
	"github.com/adify/rewards/internal/gateways/database/models"
)

type PoolRepository interface {
	MonthlyTotals(ctx context.Context, from, to time.Time) ([]models.RevenueTotals, error)
	CreatePool(ctx context.Context, pool *models.RevenuePool) (bool, error)
	GetPool(ctx context.Context, id int64) (*models.RevenuePool, error)
	ListPools(ctx context.Context, month string) ([]*models.RevenuePool, error)
	ListPoolsByCountry(ctx context.Context, country string) ([]*models.RevenuePool, error)
	ClaimPool(ctx context.Context, id int64, token string, now, leaseUntil time.Time) (bool, error)
	ReleaseClaim(ctx context.Context, id int64, token string) error
	CompletePool(ctx context.Context, id int64, token string, now time.Time) (bool, error)
	UserCoins(ctx context.Context, country string, from, to time.Time) ([]models.UserCoins, error)
}

type poolRepository struct {
	*BaseRepository
}

func NewPoolRepository(db *bun.DB) PoolRepository {
	return &poolRepository{BaseRepository: NewBaseRepository(db)}
}

// MonthlyTotals groups rewarded impressions in [from, to) by country.
func (r *poolRepository) MonthlyTotals(ctx context.Context, from, to time.Time) ([]models.RevenueTotals, error) {
	ctx, cancel := r.WithCustomTimeout(ctx, config.BatchQueryTimeout)
	defer cancel()

	var totals []models.RevenueTotals
	err := r.db.NewSelect().
		Model((*models.AdImpression)(nil)).
		ColumnExpr("ai.country_code AS country_code").
		ColumnExpr("COALESCE(SUM(ai.estimated_revenue), 0) AS revenue").
		ColumnExpr("COALESCE(SUM(ai.coins_awarded), 0) AS coins").
		ColumnExpr("COUNT(*) AS impression_count").
		Where("ai.ad_type = ?", config.AdTypeRewarded).
		Where("ai.country_code <> ''").
		Where("ai.created_at >= ?", from).
		Where("ai.created_at < ?", to).
		GroupExpr("ai.country_code").
		OrderExpr("ai.country_code ASC").
		Scan(ctx, &totals)
	if err != nil {
		return nil, r.HandleError("monthly_totals", "ad_impression", err)
	}
	return totals, nil
}

// CreatePool inserts a pending pool and reports false when (month, country) already exists.
func (r *poolRepository) CreatePool(ctx context.Context, pool *models.RevenuePool) (bool, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	now := time.Now()
	pool.CountryCode = strings.ToUpper(pool.CountryCode)
	if pool.Status == "" {
		pool.Status = models.PoolStatusPending
	}
	pool.CreatedAt = now
	pool.UpdatedAt = now

	res, err := r.db.NewInsert().
		Model(pool).
		On("CONFLICT (month, country_code) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, r.HandleErrorWithID("create_pool", "revenue_pool", pool.Month+"/"+pool.CountryCode, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, r.HandleError("create_pool", "revenue_pool", err)
	}
	return affected > 0, nil
}

func (r *poolRepository) GetPool(ctx context.Context, id int64) (*models.RevenuePool, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	pool := new(models.RevenuePool)
	err := r.db.NewSelect().
		Model(pool).
		Where("rp.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("get_pool", "revenue_pool", id, err)
	}
	return pool, nil
}

// ListPools returns the pools of one month, or the most recent pools when month is empty.
func (r *poolRepository) ListPools(ctx context.Context, month string) ([]*models.RevenuePool, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var pools []*models.RevenuePool
	q := r.db.NewSelect().Model(&pools)
	if month != "" {
		q = q.Where("rp.month = ?", month)
	} else {
		q = q.Limit(200)
	}
	err := q.OrderExpr("rp.month DESC, rp.country_code ASC").Scan(ctx)
	if err != nil {
		return nil, r.HandleError("list_pools", "revenue_pool", err)
	}
	return pools, nil
}

func (r *poolRepository) ListPoolsByCountry(ctx context.Context, country string) ([]*models.RevenuePool, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var pools []*models.RevenuePool
	err := r.db.NewSelect().
		Model(&pools).
		Where("rp.country_code = ?", strings.ToUpper(country)).
		OrderExpr("rp.month DESC").
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("list_pools", "revenue_pool", country, err)
	}
	return pools, nil
}

// ClaimPool moves a pool to distributing for the holder of token. It succeeds for
// pending pools and for distributing pools whose previous lease has lapsed.
func (r *poolRepository) ClaimPool(ctx context.Context, id int64, token string, now, leaseUntil time.Time) (bool, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res, err := claimPoolQuery(r.db, id, token, now, leaseUntil).Exec(ctx)
	if err != nil {
		return false, r.HandleErrorWithID("claim_pool", "revenue_pool", id, err)
	}
	affected, _ := res.RowsAffected()
	return affected == 1, nil
}

func claimPoolQuery(db bun.IDB, id int64, token string, now, leaseUntil time.Time) *bun.UpdateQuery {
	return db.NewUpdate().
		Model((*models.RevenuePool)(nil)).
		Set("status = ?", models.PoolStatusDistributing).
		Set("claim_token = ?", token).
		Set("claim_expires_at = ?", leaseUntil).
		Set("updated_at = ?", now).
		Where("id = ?", id).
		WhereGroup(" AND ", func(q *bun.UpdateQuery) *bun.UpdateQuery {
			return q.
				Where("status = ?", models.PoolStatusPending).
				WhereGroup(" OR ", func(q *bun.UpdateQuery) *bun.UpdateQuery {
					return q.
						Where("status = ?", models.PoolStatusDistributing).
						WhereGroup(" AND ", func(q *bun.UpdateQuery) *bun.UpdateQuery {
							return q.
								Where("claim_expires_at IS NULL").
								WhereOr("claim_expires_at < ?", now)
						})
				})
		})
}

// ReleaseClaim drops the lease but keeps the pool distributing so the next run resumes it.
func (r *poolRepository) ReleaseClaim(ctx context.Context, id int64, token string) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.db.NewUpdate().
		Model((*models.RevenuePool)(nil)).
		Set("claim_token = NULL").
		Set("claim_expires_at = NULL").
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Where("claim_token = ?", token).
		Where("status = ?", models.PoolStatusDistributing).
		Exec(ctx)
	return r.HandleErrorWithID("release_claim", "revenue_pool", id, err)
}

// CompletePool marks the pool completed and stamps totals from the ledger. It only
// applies while token still holds the claim.
func (r *poolRepository) CompletePool(ctx context.Context, id int64, token string, now time.Time) (bool, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res, err := r.db.NewUpdate().
		Model((*models.RevenuePool)(nil)).
		Set("status = ?", models.PoolStatusCompleted).
		Set("distributed_at = ?", now).
		Set("updated_at = ?", now).
		Set("claim_token = NULL").
		Set("claim_expires_at = NULL").
		Set("users_settled = (SELECT COUNT(*) FROM transactions AS t WHERE t.pool_id = ?)", id).
		Set("cash_distributed = (SELECT COALESCE(SUM(t.cash_amount), 0) FROM transactions AS t WHERE t.pool_id = ?)", id).
		Where("id = ?", id).
		Where("status = ?", models.PoolStatusDistributing).
		Where("claim_token = ?", token).
		Exec(ctx)
	if err != nil {
		return false, r.HandleErrorWithID("complete_pool", "revenue_pool", id, err)
	}
	affected, _ := res.RowsAffected()
	return affected == 1, nil
}

// UserCoins groups the rewarded coins each user earned in [from, to) for a country.
func (r *poolRepository) UserCoins(ctx context.Context, country string, from, to time.Time) ([]models.UserCoins, error) {
	ctx, cancel := r.WithCustomTimeout(ctx, config.BatchQueryTimeout)
	defer cancel()

	var coins []models.UserCoins
	err := r.db.NewSelect().
		Model((*models.AdImpression)(nil)).
		ColumnExpr("ai.user_id AS user_id").
		ColumnExpr("SUM(ai.coins_awarded) AS coins").
		ColumnExpr("(u.id IS NOT NULL) AS user_exists").
		ColumnExpr("COALESCE(u.is_beta_user, FALSE) AS is_beta_user").
		ColumnExpr("u.beta_multiplier AS beta_multiplier").
		Join("LEFT JOIN users AS u ON u.id = ai.user_id").
		Where("ai.country_code = ?", strings.ToUpper(country)).
		Where("ai.ad_type = ?", config.AdTypeRewarded).
		Where("ai.created_at >= ?", from).
		Where("ai.created_at < ?", to).
		GroupExpr("ai.user_id, u.id, u.is_beta_user, u.beta_multiplier").
		Having("SUM(ai.coins_awarded) > 0").
		OrderExpr("ai.user_id ASC").
		Scan(ctx, &coins)
	if err != nil {
		return nil, r.HandleErrorWithID("user_coins", "ad_impression", country, err)
	}
	return coins, nil
}
