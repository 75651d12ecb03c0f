package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/adify/rewards/internal/config"
	"github.com/adify/rewards/internal/gateways/database/models"
)

type ValuationRepository interface {
	RevenueTotals(ctx context.Context, country string, from, to time.Time) (models.RevenueTotals, error)
	ActiveCountries(ctx context.Context) ([]string, error)
	LatestSnapshot(ctx context.Context, country string) (*models.CoinValuation, error)
	LatestSnapshots(ctx context.Context) ([]*models.CoinValuation, error)
	SaveSnapshot(ctx context.Context, snapshot *models.CoinValuation) error
}

type valuationRepository struct {
	*BaseRepository
}

func NewValuationRepository(db *bun.DB) ValuationRepository {
	return &valuationRepository{BaseRepository: NewBaseRepository(db)}
}

// RevenueTotals sums completed rewarded impressions in (from, to].
func (r *valuationRepository) RevenueTotals(ctx context.Context, country string, from, to time.Time) (models.RevenueTotals, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	totals := models.RevenueTotals{CountryCode: country}
	err := r.db.NewSelect().
		Model((*models.AdImpression)(nil)).
		ColumnExpr("COALESCE(SUM(ai.estimated_revenue), 0) AS revenue").
		ColumnExpr("COALESCE(SUM(ai.coins_awarded), 0) AS coins").
		ColumnExpr("COUNT(*) AS impression_count").
		Where("ai.country_code = ?", country).
		Where("ai.ad_type = ?", config.AdTypeRewarded).
		Where("ai.completed = TRUE").
		Where("ai.created_at > ?", from).
		Where("ai.created_at <= ?", to).
		Scan(ctx, &totals.Revenue, &totals.Coins, &totals.ImpressionCount)
	if err != nil {
		return totals, r.HandleErrorWithID("revenue_totals", "ad_impression", country, err)
	}
	return totals, nil
}

func (r *valuationRepository) ActiveCountries(ctx context.Context) ([]string, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var countries []string
	err := r.db.NewSelect().
		Model((*models.AdImpression)(nil)).
		ColumnExpr("DISTINCT ai.country_code").
		Where("ai.country_code IS NOT NULL").
		Where("ai.country_code <> ''").
		OrderExpr("ai.country_code ASC").
		Scan(ctx, &countries)
	if err != nil {
		return nil, r.HandleError("active_countries", "ad_impression", err)
	}
	return countries, nil
}

// LatestSnapshot returns nil without error when the country has no snapshot yet.
func (r *valuationRepository) LatestSnapshot(ctx context.Context, country string) (*models.CoinValuation, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	snapshot := new(models.CoinValuation)
	err := r.db.NewSelect().
		Model(snapshot).
		Where("cv.country_code = ?", country).
		OrderExpr("cv.calculated_at DESC, cv.id DESC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, r.HandleErrorWithID("latest_snapshot", "coin_valuation", country, err)
	}
	return snapshot, nil
}

func (r *valuationRepository) LatestSnapshots(ctx context.Context) ([]*models.CoinValuation, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var snapshots []*models.CoinValuation
	err := r.db.NewSelect().
		Model(&snapshots).
		DistinctOn("cv.country_code").
		OrderExpr("cv.country_code ASC, cv.calculated_at DESC, cv.id DESC").
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("latest_snapshots", "coin_valuation", err)
	}
	return snapshots, nil
}

func (r *valuationRepository) SaveSnapshot(ctx context.Context, snapshot *models.CoinValuation) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	if snapshot.CalculatedAt.IsZero() {
		snapshot.CalculatedAt = time.Now()
	}
	_, err := r.db.NewInsert().Model(snapshot).Exec(ctx)
	return r.HandleErrorWithID("save_snapshot", "coin_valuation", snapshot.CountryCode, err)
}
