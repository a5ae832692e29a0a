package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/statement-ledger/internal/platform/persistence"
)

// runInTx runs fn in a database transaction, rolling back on error or panic.
// Domain errors returned by fn pass through unchanged so callers can still
// match on them after the rollback.
func runInTx(ctx context.Context, db persistence.TxBeginner, fn func(tx pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(ctx) // Attempt rollback on panic
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	return tx.Commit(ctx)
}
