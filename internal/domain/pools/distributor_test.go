package pools

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adify/rewards/internal/domain/currency"
	"github.com/adify/rewards/internal/gateways/database/models"
)

var fixedNow = time.Date(2024, 2, 3, 10, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type distributedRecorder struct {
	results []*DistributionResult
}

func (r *distributedRecorder) PoolsBuilt(*BuildResult) {}

func (r *distributedRecorder) PoolDistributed(_ *models.RevenuePool, result *DistributionResult) {
	r.results = append(r.results, result)
}

func seedPool(f *fakeStore, country, rate string, status string) int64 {
	start, end, _ := MonthBounds("2024-01")
	pool := &models.RevenuePool{
		Month:          "2024-01",
		CountryCode:    country,
		TotalRevenue:   d("10"),
		ConversionRate: d(rate),
		Status:         status,
		PeriodStart:    start,
		PeriodEnd:      end,
	}
	_, _ = f.CreatePool(context.Background(), pool)
	return pool.ID
}

func newTestDistributor(t *testing.T, f *fakeStore, cfg DistributorConfig, obs Observer) *Distributor {
	t.Helper()
	rates, err := currency.NewService(nil, 8, time.Hour)
	require.NoError(t, err)

	dist := NewDistributor(f, f, rates, cfg, obs)
	dist.now = func() time.Time { return fixedNow }
	n := 0
	dist.newToken = func() string {
		n++
		return fmt.Sprintf("token-%d", n)
	}
	return dist
}

func TestNewClaimToken_UniqueWithinInstant(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		seen[newClaimToken(fixedNow)] = struct{}{}
	}
	assert.Len(t, seen, 1000)
}

func TestCashForCoins(t *testing.T) {
	assert.Equal(t, "2.00", CashForCoins(d("1000"), d("0.002"), d("1")).StringFixed(2))
	assert.Equal(t, "3.00", CashForCoins(d("1000"), d("0.002"), d("1.5")).StringFixed(2))
	assert.Equal(t, "0.33333333", CashForCoins(d("1"), d("0.333333333333"), d("1")).String())
}

func TestDistribute_CreditsUsers(t *testing.T) {
	f := newFakeStore()
	id := seedPool(f, "ZA", "0.002", models.PoolStatusPending)
	f.addUser("regular", 1000, false, "")
	f.addUser("beta-default", 1000, true, "")
	f.addUser("beta-custom", 1000, true, "2")
	f.userCoins["ZA"] = []models.UserCoins{
		{UserID: "beta-custom", Coins: d("1000")},
		{UserID: "beta-default", Coins: d("1000")},
		{UserID: "regular", Coins: d("1000")},
	}
	obs := &distributedRecorder{}

	result, err := newTestDistributor(t, f, DistributorConfig{}, obs).Distribute(context.Background(), id)
	require.NoError(t, err)

	assert.True(t, result.Completed)
	assert.Equal(t, 3, result.UsersSettled)
	assert.Equal(t, "9.00", result.CashDistributed.StringFixed(2))
	assert.Equal(t, "3000", result.CoinsRedeemed.String())
	assert.Equal(t, "ZAR", result.LocalCurrency)
	assert.Equal(t, currency.SourceStatic, result.RateSource)

	assert.Equal(t, "2.00", f.cash("regular").StringFixed(2))
	assert.Equal(t, "3.00", f.cash("beta-default").StringFixed(2))
	assert.Equal(t, "4.00", f.cash("beta-custom").StringFixed(2))
	assert.True(t, f.coins("regular").IsZero())

	assert.Equal(t, "1.00", f.betaDebt["beta-default"].StringFixed(2))
	assert.Equal(t, "2.00", f.betaDebt["beta-custom"].StringFixed(2))
	_, hasDebt := f.betaDebt["regular"]
	assert.False(t, hasDebt)

	entry := f.ledger[models.RevenueShareKey(id, "regular")]
	assert.Equal(t, id, entry.PoolID)
	assert.Equal(t, "37.0000", entry.LocalAmount.StringFixed(4))
	assert.Equal(t, "ZAR", entry.LocalCurrency)

	p := f.pool(id)
	assert.Equal(t, models.PoolStatusCompleted, p.Status)
	assert.Equal(t, fixedNow, p.DistributedAt)
	assert.Equal(t, int64(3), p.UsersSettled)
	require.Len(t, obs.results, 1)
}

func TestDistribute_CompletedPoolIsRejected(t *testing.T) {
	f := newFakeStore()
	id := seedPool(f, "US", "0.002", models.PoolStatusPending)
	f.addUser("u1", 1000, false, "")
	f.userCoins["US"] = []models.UserCoins{{UserID: "u1", Coins: d("1000")}}
	dist := newTestDistributor(t, f, DistributorConfig{}, nil)

	_, err := dist.Distribute(context.Background(), id)
	require.NoError(t, err)
	cashAfterFirst := f.cash("u1")

	_, err = dist.Distribute(context.Background(), id)
	require.ErrorIs(t, err, ErrAlreadyDistributed)
	assert.True(t, f.cash("u1").Equal(cashAfterFirst))
	assert.Len(t, f.ledger, 1)
	assert.Equal(t, models.PoolStatusCompleted, f.pool(id).Status)
}

func TestDistribute_PoolNotFound(t *testing.T) {
	_, err := newTestDistributor(t, newFakeStore(), DistributorConfig{}, nil).Distribute(context.Background(), 99)
	require.ErrorIs(t, err, ErrPoolNotFound)
	assert.False(t, IsRetryable(err))
}

func TestDistribute_LiveClaimBlocksSecondRun(t *testing.T) {
	f := newFakeStore()
	id := seedPool(f, "US", "0.002", models.PoolStatusPending)
	f.pools[id].Status = models.PoolStatusDistributing
	f.pools[id].ClaimToken = "someone-else"
	f.pools[id].ClaimExpiresAt = fixedNow.Add(time.Minute)

	_, err := newTestDistributor(t, f, DistributorConfig{}, nil).Distribute(context.Background(), id)
	require.ErrorIs(t, err, ErrDistributionInProgress)
	assert.True(t, IsRetryable(err))
	assert.Equal(t, "someone-else", f.pool(id).ClaimToken)
}

func TestDistribute_ExpiredClaimIsTakenOver(t *testing.T) {
	f := newFakeStore()
	id := seedPool(f, "US", "0.002", models.PoolStatusPending)
	f.pools[id].Status = models.PoolStatusDistributing
	f.pools[id].ClaimToken = "crashed-run"
	f.pools[id].ClaimExpiresAt = fixedNow.Add(-time.Minute)
	f.addUser("u1", 1000, false, "")
	f.userCoins["US"] = []models.UserCoins{{UserID: "u1", Coins: d("1000")}}

	result, err := newTestDistributor(t, f, DistributorConfig{}, nil).Distribute(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, result.Completed)
	assert.Equal(t, models.PoolStatusCompleted, f.pool(id).Status)
}

func TestDistribute_ResumesAfterPartialRun(t *testing.T) {
	f := newFakeStore()
	id := seedPool(f, "US", "0.002", models.PoolStatusPending)
	for _, u := range []string{"a", "b", "c"} {
		f.addUser(u, 500, false, "")
		f.userCoins["US"] = append(f.userCoins["US"], models.UserCoins{UserID: u, Coins: d("500")})
	}
	rec := &distributedRecorder{}
	dist := newTestDistributor(t, f, DistributorConfig{BatchSize: 2}, rec)

	result, err := dist.Distribute(context.Background(), id)
	require.ErrorIs(t, err, ErrDistributionIncomplete)
	assert.Equal(t, 2, result.UsersSettled)
	assert.Equal(t, 1, result.UsersRemaining)
	require.Len(t, rec.results, 1)
	assert.False(t, rec.results[0].Completed)
	p := f.pool(id)
	assert.Equal(t, models.PoolStatusDistributing, p.Status)
	assert.Empty(t, p.ClaimToken)

	result, err = dist.Distribute(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 1, result.UsersSettled)
	assert.Equal(t, 2, result.UsersAlreadySettled)
	require.Len(t, rec.results, 2)
	assert.True(t, rec.results[1].Completed)

	for _, u := range []string{"a", "b", "c"} {
		assert.Equal(t, "1.00", f.cash(u).StringFixed(2), u)
	}
	assert.Equal(t, int64(3), f.pool(id).UsersSettled)
	assert.Equal(t, "3.00", f.pool(id).CashDistributed.StringFixed(2))
}

func TestDistribute_LedgerFailureLeavesPoolResumable(t *testing.T) {
	f := newFakeStore()
	id := seedPool(f, "US", "0.002", models.PoolStatusPending)
	f.addUser("a", 1000, false, "")
	f.addUser("b", 1000, false, "")
	f.userCoins["US"] = []models.UserCoins{{UserID: "a", Coins: d("1000")}, {UserID: "b", Coins: d("1000")}}
	f.failOnce["b"] = errors.New("deadlock detected")
	dist := newTestDistributor(t, f, DistributorConfig{}, nil)

	_, err := dist.Distribute(context.Background(), id)
	require.Error(t, err)
	assert.True(t, IsRetryable(err))
	assert.Equal(t, "2.00", f.cash("a").StringFixed(2))
	assert.True(t, f.cash("b").IsZero())
	assert.Equal(t, models.PoolStatusDistributing, f.pool(id).Status)

	_, err = dist.Distribute(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "2.00", f.cash("a").StringFixed(2))
	assert.Equal(t, "2.00", f.cash("b").StringFixed(2))
}

func TestDistribute_SkipsMissingUsers(t *testing.T) {
	f := newFakeStore()
	id := seedPool(f, "US", "0.002", models.PoolStatusPending)
	f.addUser("known", 1000, false, "")
	f.userCoins["US"] = []models.UserCoins{
		{UserID: "ghost", Coins: d("1000")},
		{UserID: "known", Coins: d("1000")},
	}

	result, err := newTestDistributor(t, f, DistributorConfig{}, nil).Distribute(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 1, result.UsersSettled)
	assert.Equal(t, 1, result.UsersSkipped)
	assert.Len(t, f.ledger, 1)
}

func TestDistribute_CancelledContext(t *testing.T) {
	f := newFakeStore()
	id := seedPool(f, "US", "0.002", models.PoolStatusPending)
	f.addUser("a", 1000, false, "")
	f.userCoins["US"] = []models.UserCoins{{UserID: "a", Coins: d("1000")}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestDistributor(t, f, DistributorConfig{}, nil).Distribute(ctx, id)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.ledger)
	assert.Equal(t, models.PoolStatusDistributing, f.pool(id).Status)
	assert.Empty(t, f.pool(id).ClaimToken)
}
