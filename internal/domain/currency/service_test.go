package currency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/adify/rewards/internal/domain/currency/mock"
	"github.com/adify/rewards/internal/gateways/database/models"
)

func newService(t *testing.T, repo Repository) *Service {
	t.Helper()
	s, err := NewService(repo, 16, time.Hour)
	require.NoError(t, err)
	return s
}

func TestForCountry(t *testing.T) {
	tests := []struct {
		country string
		want    Currency
	}{
		{country: "ZA", want: Currency{Code: "ZAR", Symbol: "R"}},
		{country: "ng", want: Currency{Code: "NGN", Symbol: "₦"}},
		{country: " GB ", want: Currency{Code: "GBP", Symbol: "£"}},
		{country: "US", want: USD},
		{country: "XX", want: USD},
		{country: "", want: USD},
	}

	for _, tt := range tests {
		t.Run(tt.country, func(t *testing.T) {
			assert.Equal(t, tt.want, ForCountry(tt.country))
		})
	}
}

func TestExchangeRate_SameCurrency(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	s := newService(t, repo)

	rate := s.ExchangeRate(context.Background(), "zar", "ZAR", time.Now())
	assert.True(t, rate.Value.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, SourceSame, rate.Source)
}

func TestExchangeRate_Persisted(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	asOf := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	repo.EXPECT().
		LatestRate(gomock.Any(), "USD", "ZAR", asOf).
		Return(&models.ExchangeRate{BaseCurrency: "USD", TargetCurrency: "ZAR", Rate: decimal.RequireFromString("19.1")}, nil).
		Times(1)

	s := newService(t, repo)
	for i := 0; i < 2; i++ {
		rate := s.ExchangeRate(context.Background(), "USD", "ZAR", asOf)
		assert.Equal(t, SourcePersisted, rate.Source)
		assert.Equal(t, "19.1", rate.Value.String())
	}
}

func TestExchangeRate_ExpiredEntryReloads(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	asOf := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	gomock.InOrder(
		repo.EXPECT().LatestRate(gomock.Any(), "USD", "ZAR", asOf).
			Return(&models.ExchangeRate{Rate: decimal.RequireFromString("19.1")}, nil),
		repo.EXPECT().LatestRate(gomock.Any(), "USD", "ZAR", asOf).
			Return(&models.ExchangeRate{Rate: decimal.RequireFromString("18.7")}, nil),
	)

	clock := asOf
	s := newService(t, repo)
	s.now = func() time.Time { return clock }

	assert.Equal(t, "19.1", s.ExchangeRate(context.Background(), "USD", "ZAR", asOf).Value.String())

	clock = clock.Add(30 * time.Minute)
	assert.Equal(t, "19.1", s.ExchangeRate(context.Background(), "USD", "ZAR", asOf).Value.String())

	clock = clock.Add(time.Hour)
	rate := s.ExchangeRate(context.Background(), "USD", "ZAR", asOf)
	assert.Equal(t, SourcePersisted, rate.Source)
	assert.Equal(t, "18.7", rate.Value.String())
}

func TestExchangeRate_FallsBackToStatic(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)

	repo.EXPECT().LatestRate(gomock.Any(), "USD", "ZAR", gomock.Any()).Return(nil, nil)
	repo.EXPECT().LatestRate(gomock.Any(), "USD", "NGN", gomock.Any()).Return(nil, errors.New("connection refused"))

	s := newService(t, repo)

	rate := s.ExchangeRate(context.Background(), "USD", "ZAR", time.Now())
	assert.Equal(t, SourceStatic, rate.Source)
	assert.Equal(t, "18.5", rate.Value.String())

	rate = s.ExchangeRate(context.Background(), "USD", "NGN", time.Now())
	assert.Equal(t, SourceStatic, rate.Source)
	assert.Equal(t, "1550", rate.Value.String())
}

// Unknown pairs silently resolve to 1. This keeps payouts flowing but can
// misprice a currency nobody has tabulated.
func TestExchangeRate_IdentityFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	repo.EXPECT().LatestRate(gomock.Any(), "USD", "XYZ", gomock.Any()).Return(nil, nil)

	s := newService(t, repo)
	rate := s.ExchangeRate(context.Background(), "USD", "XYZ", time.Now())
	assert.Equal(t, SourceIdentity, rate.Source)
	assert.True(t, rate.Value.Equal(decimal.NewFromInt(1)))
}

func TestFallbackRate_SkipsPersisted(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	s := newService(t, repo)

	rate := s.FallbackRate("USD", "ZAR")
	assert.Equal(t, SourceStatic, rate.Source)
	assert.Equal(t, "18.5", rate.Value.String())

	rate = s.FallbackRate("USD", "USD")
	assert.Equal(t, SourceSame, rate.Source)
}

func TestExchangeRate_NilRepository(t *testing.T) {
	s := newService(t, nil)
	rate := s.ExchangeRate(context.Background(), "USD", "GBP", time.Now())
	assert.Equal(t, SourceStatic, rate.Source)
	assert.Equal(t, "0.79", rate.Value.String())
}

func TestRecordRate(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	asOf := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	gomock.InOrder(
		repo.EXPECT().LatestRate(gomock.Any(), "USD", "KES", asOf).Return(nil, nil),
		repo.EXPECT().SaveRate(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, r *models.ExchangeRate) error {
			assert.Equal(t, "USD", r.BaseCurrency)
			assert.Equal(t, "KES", r.TargetCurrency)
			return nil
		}),
		repo.EXPECT().LatestRate(gomock.Any(), "USD", "KES", asOf).
			Return(&models.ExchangeRate{Rate: decimal.RequireFromString("130.5")}, nil),
	)

	s := newService(t, repo)
	assert.Equal(t, SourceStatic, s.ExchangeRate(context.Background(), "USD", "KES", asOf).Source)

	_, err := s.RecordRate(context.Background(), "usd", "kes", decimal.RequireFromString("130.5"), asOf)
	require.NoError(t, err)

	rate := s.ExchangeRate(context.Background(), "USD", "KES", asOf)
	assert.Equal(t, SourcePersisted, rate.Source)
	assert.Equal(t, "130.5", rate.Value.String())
}

func TestRecordRate_Invalid(t *testing.T) {
	s := newService(t, mock.NewMockRepository(gomock.NewController(t)))

	_, err := s.RecordRate(context.Background(), "USD", "ZAR", decimal.Zero, time.Now())
	assert.ErrorIs(t, err, ErrInvalidRate)

	_, err = s.RecordRate(context.Background(), "US", "ZAR", decimal.NewFromInt(2), time.Now())
	assert.ErrorIs(t, err, ErrInvalidCurrencyPair)
}

func TestRateConvert(t *testing.T) {
	rate := Rate{From: "USD", To: "ZAR", Value: decimal.RequireFromString("18.5"), Source: SourceStatic}
	assert.Equal(t, "37", rate.Convert(decimal.NewFromInt(2)).String())
}
