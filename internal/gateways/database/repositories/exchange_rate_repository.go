package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/adify/rewards/internal/gateways/database/models"
)

type ExchangeRateRepository interface {
	LatestRate(ctx context.Context, base, target string, asOf time.Time) (*models.ExchangeRate, error)
	SaveRate(ctx context.Context, rate *models.ExchangeRate) error
}

type exchangeRateRepository struct {
	*BaseRepository
}

func NewExchangeRateRepository(db *bun.DB) ExchangeRateRepository {
	return &exchangeRateRepository{BaseRepository: NewBaseRepository(db)}
}

// LatestRate returns the newest rate effective at or before asOf, or nil when none exists.
func (r *exchangeRateRepository) LatestRate(ctx context.Context, base, target string, asOf time.Time) (*models.ExchangeRate, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	rate := new(models.ExchangeRate)
	err := r.db.NewSelect().
		Model(rate).
		Where("er.base_currency = ?", strings.ToUpper(base)).
		Where("er.target_currency = ?", strings.ToUpper(target)).
		Where("er.effective_date <= ?", asOf).
		OrderExpr("er.effective_date DESC, er.id DESC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, r.HandleErrorWithID("latest_rate", "exchange_rate", base+"-"+target, err)
	}
	return rate, nil
}

func (r *exchangeRateRepository) SaveRate(ctx context.Context, rate *models.ExchangeRate) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	rate.BaseCurrency = strings.ToUpper(rate.BaseCurrency)
	rate.TargetCurrency = strings.ToUpper(rate.TargetCurrency)
	_, err := r.db.NewInsert().Model(rate).Exec(ctx)
	return r.HandleErrorWithID("save_rate", "exchange_rate", rate.BaseCurrency+"-"+rate.TargetCurrency, err)
}
