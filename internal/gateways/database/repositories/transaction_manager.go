package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"

	"github.com/adify/rewards/internal/config"
)

type TransactionOptions struct {
	IsolationLevel sql.IsolationLevel
	Timeout        time.Duration
	// Attempts bounds how often a transient failure (serialization, deadlock) is retried.
	Attempts int
}

// SettlementOptions is used for ledger writes: each settlement is small and
// concurrent distributors may touch the same beta debt row.
func SettlementOptions() *TransactionOptions {
	return &TransactionOptions{
		IsolationLevel: sql.LevelReadCommitted,
		Timeout:        config.SettlementTxTimeout,
		Attempts:       config.NetworkMaxRetries,
	}
}

// TransactionManager runs a balance mutation and its ledger row as one unit.
type TransactionManager struct {
	db *bun.DB
}

func NewTransactionManager(db *bun.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

func (tm *TransactionManager) WithTransaction(ctx context.Context, opts *TransactionOptions, fn func(context.Context, bun.Tx) error) error {
	if opts == nil {
		opts = SettlementOptions()
	}
	attempts := max(opts.Attempts, 1)

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = tm.run(ctx, opts, fn)
		if err == nil || !IsTransient(err) {
			return err
		}
		slog.Warn("Retrying transaction",
			slog.String("type", "db"),
			slog.Int("attempt", attempt),
			slog.Any("error", err))
	}
	return err
}

func (tm *TransactionManager) run(ctx context.Context, opts *TransactionOptions, fn func(context.Context, bun.Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	tx, err := tm.db.BeginTx(ctx, &sql.TxOptions{Isolation: opts.IsolationLevel})
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
