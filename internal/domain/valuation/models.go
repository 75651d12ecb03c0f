package valuation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/adify/rewards/internal/domain/currency"
	"github.com/adify/rewards/internal/gateways/database/models"
)

type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// Source tells whether a valuation came from impression data or the default.
type Source string

const (
	SourceComputed Source = "computed"
	SourceDefault  Source = "default"
)

type Valuation struct {
	CountryCode      string          `json:"countryCode"`
	ValuePer100Coins decimal.Decimal `json:"valuePer100Coins"`
	CurrencyCode     string          `json:"currencyCode"`
	CurrencySymbol   string          `json:"currencySymbol"`
	Trend            Trend           `json:"trend"`
	ChangePercent    decimal.Decimal `json:"changePercent"`
	Source           Source          `json:"source"`
	RateSource       currency.Source `json:"rateSource"`
	ImpressionCount  int64           `json:"impressionCount"`
	CalculatedAt     time.Time       `json:"calculatedAt"`
}

func (v *Valuation) Snapshot() *models.CoinValuation {
	return &models.CoinValuation{
		CountryCode:      v.CountryCode,
		ValuePer100Coins: v.ValuePer100Coins,
		CurrencyCode:     v.CurrencyCode,
		Trend:            string(v.Trend),
		ChangePercent:    v.ChangePercent,
		Source:           string(v.Source),
		RateSource:       string(v.RateSource),
		ImpressionCount:  v.ImpressionCount,
		CalculatedAt:     v.CalculatedAt,
	}
}

func FromSnapshot(s *models.CoinValuation) *Valuation {
	return &Valuation{
		CountryCode:      s.CountryCode,
		ValuePer100Coins: s.ValuePer100Coins,
		CurrencyCode:     s.CurrencyCode,
		CurrencySymbol:   currency.ForCountry(s.CountryCode).Symbol,
		Trend:            Trend(s.Trend),
		ChangePercent:    s.ChangePercent,
		Source:           Source(s.Source),
		RateSource:       currency.Source(s.RateSource),
		ImpressionCount:  s.ImpressionCount,
		CalculatedAt:     s.CalculatedAt,
	}
}

// RefreshReport summarises one pass of the scheduled updater.
type RefreshReport struct {
	Countries int           `json:"countries"`
	Stored    int           `json:"stored"`
	Failed    []string      `json:"failed,omitempty"`
	Took      time.Duration `json:"took"`
}
