package currency

import (
	"context"
	"time"

	"github.com/adify/rewards/internal/gateways/database/models"
)

type Repository interface {
	LatestRate(ctx context.Context, base, target string, asOf time.Time) (*models.ExchangeRate, error)
	SaveRate(ctx context.Context, rate *models.ExchangeRate) error
}
