package pools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adify/rewards/internal/config"
	"github.com/adify/rewards/internal/domain/currency"
	"github.com/adify/rewards/internal/gateways/database/models"
	"github.com/adify/rewards/internal/gateways/database/repositories"
)

type DistributorConfig struct {
	SettlementCurrency    string
	DefaultBetaMultiplier decimal.Decimal
	BatchSize             int
	MaxRunDuration        time.Duration
	ClaimLease            time.Duration
}

func DefaultDistributorConfig() DistributorConfig {
	return DistributorConfig{
		SettlementCurrency:    config.SettlementCurrency,
		DefaultBetaMultiplier: decimal.NewFromFloat(config.DefaultBetaMultiplier),
		BatchSize:             config.DefaultDistributionBatchSize,
		MaxRunDuration:        config.DefaultDistributionMaxRun,
		ClaimLease:            config.DefaultClaimLease,
	}
}

type DistributionResult struct {
	PoolID              int64           `json:"poolId"`
	Month               string          `json:"month"`
	CountryCode         string          `json:"countryCode"`
	Completed           bool            `json:"completed"`
	UsersSettled        int             `json:"usersSettled"`
	UsersAlreadySettled int             `json:"usersAlreadySettled"`
	UsersSkipped        int             `json:"usersSkipped"`
	UsersRemaining      int             `json:"usersRemaining"`
	CoinsRedeemed       decimal.Decimal `json:"coinsRedeemed"`
	CashDistributed     decimal.Decimal `json:"cashDistributed"`
	LocalCurrency       string          `json:"localCurrency"`
	ExchangeRate        decimal.Decimal `json:"exchangeRate"`
	RateSource          currency.Source `json:"rateSource"`
	StartedAt           time.Time       `json:"startedAt"`
	FinishedAt          time.Time       `json:"finishedAt"`
}

// CashForCoins is coins × rate × multiplier, rounded to 8 places.
func CashForCoins(coins, rate, multiplier decimal.Decimal) decimal.Decimal {
	return coins.Mul(rate).Mul(multiplier).Round(config.CashScale)
}

type Distributor struct {
	repo     Repository
	ledger   Ledger
	rates    RateProvider
	cfg      DistributorConfig
	observer Observer
	now      func() time.Time
	newToken func() string
}

func NewDistributor(repo Repository, ledger Ledger, rates RateProvider, cfg DistributorConfig, observer Observer) *Distributor {
	defaults := DefaultDistributorConfig()
	if cfg.SettlementCurrency == "" {
		cfg.SettlementCurrency = defaults.SettlementCurrency
	}
	if !cfg.DefaultBetaMultiplier.IsPositive() {
		cfg.DefaultBetaMultiplier = defaults.DefaultBetaMultiplier
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaults.BatchSize
	}
	if cfg.MaxRunDuration <= 0 {
		cfg.MaxRunDuration = defaults.MaxRunDuration
	}
	if cfg.ClaimLease <= 0 {
		cfg.ClaimLease = defaults.ClaimLease
	}
	if observer == nil {
		observer = Observers{}
	}
	return &Distributor{
		repo:     repo,
		ledger:   ledger,
		rates:    rates,
		cfg:      cfg,
		observer: observer,
		now:      time.Now,
		newToken: func() string { return newClaimToken(time.Now()) },
	}
}

// newClaimToken is time-ordered by its snowflake prefix and unique by its
// random suffix, even for claims taken in the same millisecond.
func newClaimToken(now time.Time) string {
	return snowflake.New(now).String() + "-" + uuid.NewString()
}

// Distribute pays every user their share of the pool. Each user is settled in its
// own transaction keyed by (pool, user), so an interrupted run can be resumed by
// calling Distribute again. ErrDistributionIncomplete reports that the run budget
// ran out before every user was settled.
func (d *Distributor) Distribute(ctx context.Context, poolID int64) (*DistributionResult, error) {
	pool, err := d.repo.GetPool(ctx, poolID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %d", ErrPoolNotFound, poolID)
		}
		return nil, fmt.Errorf("failed to load pool %d: %w", poolID, err)
	}
	if pool.Status == models.PoolStatusCompleted {
		return nil, fmt.Errorf("%w: pool %d", ErrAlreadyDistributed, poolID)
	}

	startedAt := d.now()
	token := d.newToken()
	claimed, err := d.repo.ClaimPool(ctx, poolID, token, startedAt, startedAt.Add(d.cfg.ClaimLease))
	if err != nil {
		return nil, fmt.Errorf("failed to claim pool %d: %w", poolID, err)
	}
	if !claimed {
		if current, err := d.repo.GetPool(ctx, poolID); err == nil && current.Status == models.PoolStatusCompleted {
			return nil, fmt.Errorf("%w: pool %d", ErrAlreadyDistributed, poolID)
		}
		return nil, fmt.Errorf("%w: pool %d", ErrDistributionInProgress, poolID)
	}

	completed := false
	defer func() {
		if completed {
			return
		}
		if err := d.repo.ReleaseClaim(context.WithoutCancel(ctx), poolID, token); err != nil {
			slog.Error("Failed to release pool claim",
				slog.String("type", "db"),
				slog.Int64("pool_id", poolID),
				slog.Any("error", err),
			)
		}
	}()

	local := d.rates.CurrencyForCountry(pool.CountryCode)
	rate := d.rates.ExchangeRate(ctx, d.cfg.SettlementCurrency, local.Code, pool.PeriodEnd)
	result := &DistributionResult{
		PoolID:          pool.ID,
		Month:           pool.Month,
		CountryCode:     pool.CountryCode,
		CoinsRedeemed:   decimal.Zero,
		CashDistributed: decimal.Zero,
		LocalCurrency:   local.Code,
		ExchangeRate:    rate.Value,
		RateSource:      rate.Source,
		StartedAt:       startedAt,
	}

	users, err := d.repo.UserCoins(ctx, pool.CountryCode, pool.PeriodStart, pool.PeriodEnd)
	if err != nil {
		return result, fmt.Errorf("failed to load user coins for pool %d: %w", poolID, err)
	}

	deadline := startedAt.Add(d.cfg.MaxRunDuration)
	applied := 0
	for i, u := range users {
		if err := ctx.Err(); err != nil {
			result.UsersRemaining = len(users) - i
			return d.finish(result), err
		}
		if applied >= d.cfg.BatchSize || d.now().After(deadline) {
			result.UsersRemaining = len(users) - i
			slog.Warn("Distribution budget exhausted, pool left resumable",
				slog.String("type", "job"),
				slog.Int64("pool_id", poolID),
				slog.Int("settled", result.UsersSettled),
				slog.Int("remaining", result.UsersRemaining),
			)
			d.observer.PoolDistributed(pool, d.finish(result))
			return result, fmt.Errorf("%w: pool %d", ErrDistributionIncomplete, poolID)
		}

		if !u.Exists {
			slog.Warn("Skipping revenue share for unknown user",
				slog.String("type", "job"),
				slog.Int64("pool_id", poolID),
				slog.String("user_id", u.UserID),
			)
			result.UsersSkipped++
			continue
		}

		settlement := d.settlementFor(pool, u, local, rate)
		outcome, err := d.ledger.Settle(ctx, settlement)
		if err != nil {
			result.UsersRemaining = len(users) - i
			return d.finish(result), fmt.Errorf("failed to settle user %s in pool %d: %w", u.UserID, poolID, err)
		}

		switch outcome {
		case models.SettleApplied:
			applied++
			result.UsersSettled++
			result.CoinsRedeemed = result.CoinsRedeemed.Add(settlement.Transaction.CoinsAmount)
			result.CashDistributed = result.CashDistributed.Add(settlement.Transaction.CashAmount)
		case models.SettleAlreadyApplied:
			result.UsersAlreadySettled++
		case models.SettleUserMissing:
			applied++
			result.UsersSkipped++
			slog.Warn("User disappeared before settlement",
				slog.String("type", "job"),
				slog.Int64("pool_id", poolID),
				slog.String("user_id", u.UserID),
			)
		}
	}

	ok, err := d.repo.CompletePool(ctx, poolID, token, d.now())
	if err != nil {
		return d.finish(result), fmt.Errorf("failed to complete pool %d: %w", poolID, err)
	}
	if !ok {
		return d.finish(result), fmt.Errorf("%w: claim on pool %d was lost", ErrDistributionInProgress, poolID)
	}
	completed = true
	result.Completed = true
	d.finish(result)

	pool.Status = models.PoolStatusCompleted
	pool.DistributedAt = result.FinishedAt
	slog.Info("Revenue pool distributed",
		slog.String("type", "job"),
		slog.Int64("pool_id", poolID),
		slog.String("month", pool.Month),
		slog.String("country", pool.CountryCode),
		slog.Int("settled", result.UsersSettled),
		slog.Int("already_settled", result.UsersAlreadySettled),
		slog.Int("skipped", result.UsersSkipped),
		slog.String("cash", result.CashDistributed.StringFixed(config.CashScale)),
	)
	d.observer.PoolDistributed(pool, result)
	return result, nil
}

func (d *Distributor) finish(result *DistributionResult) *DistributionResult {
	result.FinishedAt = d.now()
	return result
}

func (d *Distributor) multiplierFor(u models.UserCoins) decimal.Decimal {
	if !u.IsBetaUser {
		return decimal.NewFromInt(1)
	}
	if u.BetaMultiplier.Valid && u.BetaMultiplier.Decimal.IsPositive() {
		return u.BetaMultiplier.Decimal
	}
	return d.cfg.DefaultBetaMultiplier
}

func (d *Distributor) settlementFor(pool *models.RevenuePool, u models.UserCoins, local currency.Currency, rate currency.Rate) *models.Settlement {
	multiplier := d.multiplierFor(u)
	cash := CashForCoins(u.Coins, pool.ConversionRate, multiplier)
	base := CashForCoins(u.Coins, pool.ConversionRate, decimal.NewFromInt(1))

	return &models.Settlement{
		Transaction: models.Transaction{
			UserID:         u.UserID,
			Type:           config.TransactionTypeRevenueShare,
			PoolID:         pool.ID,
			CoinsAmount:    u.Coins,
			CashAmount:     cash,
			CurrencyCode:   d.cfg.SettlementCurrency,
			LocalAmount:    rate.Convert(cash).Round(config.ValuationScale),
			LocalCurrency:  local.Code,
			ExchangeRate:   rate.Value,
			RateSource:     string(rate.Source),
			IdempotencyKey: models.RevenueShareKey(pool.ID, u.UserID),
			Metadata: map[string]any{
				"month":           pool.Month,
				"country":         pool.CountryCode,
				"conversion_rate": pool.ConversionRate.String(),
				"multiplier":      multiplier.String(),
			},
		},
		BetaBonus: cash.Sub(base),
	}
}

// IsRetryable reports whether a distribution error leaves the pool resumable.
func IsRetryable(err error) bool {
	return err != nil &&
		!errors.Is(err, ErrAlreadyDistributed) &&
		!errors.Is(err, ErrPoolNotFound)
}
