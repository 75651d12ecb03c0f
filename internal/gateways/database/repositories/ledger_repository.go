package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/adify/rewards/internal/gateways/database/models"
	"github.com/adify/rewards/internal/logger"
)

type LedgerRepository interface {
	Settle(ctx context.Context, settlement *models.Settlement) (string, error)
	PoolTransactions(ctx context.Context, poolID int64) ([]*models.Transaction, error)
}

var (
	errAlreadyApplied = errors.New("ledger entry already applied")
	errUserMissing    = errors.New("user missing")
)

type ledgerRepository struct {
	*BaseRepository
	txm *TransactionManager
}

func NewLedgerRepository(db *bun.DB) LedgerRepository {
	return &ledgerRepository{
		BaseRepository: NewBaseRepository(db),
		txm:            NewTransactionManager(db),
	}
}

// Settle appends the ledger row and applies the balance change in one transaction.
// A row whose idempotency key already exists leaves every balance untouched.
func (r *ledgerRepository) Settle(ctx context.Context, settlement *models.Settlement) (string, error) {
	entry := settlement.Transaction
	now := time.Now()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}

	qlog := logger.NewQueryLogger("settle", "transaction")
	err := r.txm.WithTransaction(ctx, SettlementOptions(), func(ctx context.Context, tx bun.Tx) error {
		res, err := ledgerInsertQuery(tx, &entry).Exec(ctx)
		if err != nil {
			return fmt.Errorf("insert ledger entry: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return errAlreadyApplied
		}

		res, err = tx.NewUpdate().
			Model((*models.User)(nil)).
			Set("coin_balance = coin_balance - ?", entry.CoinsAmount).
			Set("cash_balance = cash_balance + ?", entry.CashAmount).
			Set("total_cash_earned = total_cash_earned + ?", entry.CashAmount).
			Set("total_coins_redeemed = total_coins_redeemed + ?", entry.CoinsAmount).
			Set("updated_at = ?", now).
			Where("id = ?", entry.UserID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("update user balance: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return errUserMissing
		}

		if settlement.BetaBonus.IsPositive() {
			_, err = tx.NewInsert().
				Model(&models.BetaDebt{
					UserID:      entry.UserID,
					CoinsEarned: entry.CoinsAmount,
					CashDebt:    settlement.BetaBonus,
					UpdatedAt:   now,
				}).
				On("CONFLICT (user_id) DO UPDATE").
				Set("coins_earned = bd.coins_earned + EXCLUDED.coins_earned").
				Set("cash_debt = bd.cash_debt + EXCLUDED.cash_debt").
				Set("updated_at = EXCLUDED.updated_at").
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("accrue beta debt: %w", err)
			}
		}
		return nil
	})

	switch {
	case errors.Is(err, errAlreadyApplied):
		qlog.Log(nil, 0)
		return models.SettleAlreadyApplied, nil
	case errors.Is(err, errUserMissing):
		qlog.Log(nil, 0)
		return models.SettleUserMissing, nil
	case err != nil:
		qlog.Log(err, 0)
		return "", r.HandleErrorWithID("settle", "transaction", entry.IdempotencyKey, err)
	}
	qlog.Log(nil, 1)
	settlement.Transaction = entry
	return models.SettleApplied, nil
}

// ledgerInsertQuery leaves the id to the bigserial column and turns a repeated
// idempotency key into a no-op insert.
func ledgerInsertQuery(db bun.IDB, entry *models.Transaction) *bun.InsertQuery {
	return db.NewInsert().
		Model(entry).
		On("CONFLICT (idempotency_key) DO NOTHING").
		Returning("NULL")
}

func (r *ledgerRepository) PoolTransactions(ctx context.Context, poolID int64) ([]*models.Transaction, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var entries []*models.Transaction
	err := r.db.NewSelect().
		Model(&entries).
		Where("t.pool_id = ?", poolID).
		OrderExpr("t.user_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("pool_transactions", "transaction", poolID, err)
	}
	return entries, nil
}
