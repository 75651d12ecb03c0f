package pools

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/adify/rewards/internal/gateways/database/models"
	"github.com/adify/rewards/internal/gateways/database/repositories"
)

// fakeStore keeps pools, balances and the ledger in memory with the same
// conditional-update semantics as the database repositories.
type fakeStore struct {
	mu        sync.Mutex
	pools     map[int64]*models.RevenuePool
	userCoins map[string][]models.UserCoins
	users     map[string]*models.User
	ledger    map[string]models.Transaction
	betaDebt  map[string]decimal.Decimal
	failOnce  map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		pools:     map[int64]*models.RevenuePool{},
		userCoins: map[string][]models.UserCoins{},
		users:     map[string]*models.User{},
		ledger:    map[string]models.Transaction{},
		betaDebt:  map[string]decimal.Decimal{},
		failOnce:  map[string]error{},
	}
}

func (f *fakeStore) addUser(id string, coins int64, beta bool, multiplier string) {
	u := &models.User{
		ID:          id,
		CoinBalance: decimal.NewFromInt(coins),
		CashBalance: decimal.Zero,
		IsBetaUser:  beta,
	}
	if multiplier != "" {
		u.BetaMultiplier = decimal.NewNullDecimal(decimal.RequireFromString(multiplier))
	}
	f.users[id] = u
}

func (f *fakeStore) cash(id string) decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id].CashBalance
}

func (f *fakeStore) coins(id string) decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id].CoinBalance
}

func (f *fakeStore) pool(id int64) models.RevenuePool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.pools[id]
}

func (f *fakeStore) MonthlyTotals(context.Context, time.Time, time.Time) ([]models.RevenueTotals, error) {
	return nil, errors.New("not used")
}

func (f *fakeStore) CreatePool(_ context.Context, pool *models.RevenuePool) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.pools {
		if p.Month == pool.Month && p.CountryCode == pool.CountryCode {
			return false, nil
		}
	}
	pool.ID = int64(len(f.pools) + 1)
	cp := *pool
	f.pools[pool.ID] = &cp
	return true, nil
}

func (f *fakeStore) GetPool(_ context.Context, id int64) (*models.RevenuePool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.pools[id]
	if !ok {
		return nil, &repositories.NotFoundError{Entity: "revenue_pool", ID: id}
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) ListPools(context.Context, string) ([]*models.RevenuePool, error) {
	return nil, errors.New("not used")
}

func (f *fakeStore) ListPoolsByCountry(context.Context, string) ([]*models.RevenuePool, error) {
	return nil, errors.New("not used")
}

func (f *fakeStore) ClaimPool(_ context.Context, id int64, token string, now, leaseUntil time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.pools[id]
	if !ok {
		return false, nil
	}
	claimable := p.Status == models.PoolStatusPending ||
		(p.Status == models.PoolStatusDistributing && (p.ClaimExpiresAt.IsZero() || p.ClaimExpiresAt.Before(now)))
	if !claimable {
		return false, nil
	}
	p.Status = models.PoolStatusDistributing
	p.ClaimToken = token
	p.ClaimExpiresAt = leaseUntil
	return true, nil
}

func (f *fakeStore) ReleaseClaim(_ context.Context, id int64, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.pools[id]; ok && p.ClaimToken == token && p.Status == models.PoolStatusDistributing {
		p.ClaimToken = ""
		p.ClaimExpiresAt = time.Time{}
	}
	return nil
}

func (f *fakeStore) CompletePool(_ context.Context, id int64, token string, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.pools[id]
	if !ok || p.Status != models.PoolStatusDistributing || p.ClaimToken != token {
		return false, nil
	}
	settled, cash := int64(0), decimal.Zero
	for _, tx := range f.ledger {
		if tx.PoolID == id {
			settled++
			cash = cash.Add(tx.CashAmount)
		}
	}
	p.Status = models.PoolStatusCompleted
	p.DistributedAt = now
	p.ClaimToken = ""
	p.ClaimExpiresAt = time.Time{}
	p.UsersSettled = settled
	p.CashDistributed = cash
	return true, nil
}

func (f *fakeStore) UserCoins(_ context.Context, country string, _, _ time.Time) ([]models.UserCoins, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := make([]models.UserCoins, 0, len(f.userCoins[country]))
	for _, row := range f.userCoins[country] {
		u, ok := f.users[row.UserID]
		row.Exists = ok
		if ok {
			row.IsBetaUser = u.IsBetaUser
			row.BetaMultiplier = u.BetaMultiplier
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (f *fakeStore) Settle(_ context.Context, s *models.Settlement) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entry := s.Transaction
	if err, ok := f.failOnce[entry.UserID]; ok {
		delete(f.failOnce, entry.UserID)
		return "", err
	}
	if _, ok := f.ledger[entry.IdempotencyKey]; ok {
		return models.SettleAlreadyApplied, nil
	}
	u, ok := f.users[entry.UserID]
	if !ok {
		return models.SettleUserMissing, nil
	}

	f.ledger[entry.IdempotencyKey] = entry
	u.CoinBalance = u.CoinBalance.Sub(entry.CoinsAmount)
	u.CashBalance = u.CashBalance.Add(entry.CashAmount)
	u.TotalCashEarned = u.TotalCashEarned.Add(entry.CashAmount)
	if s.BetaBonus.IsPositive() {
		f.betaDebt[entry.UserID] = f.betaDebt[entry.UserID].Add(s.BetaBonus)
	}
	return models.SettleApplied, nil
}
