package usecase

import (
	"context"
	"fmt"
)

// runInTx begins a transaction, runs fn and commits. Any error rolls the
// transaction back. When retrier is set the whole attempt is retried.
func runInTx(ctx context.Context, txManager TransactionManager, retrier Retrier, fn func(ctx context.Context, tx Transaction) error) error {
	attempt := func() error {
		tx, err := txManager.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback(ctx)

		if err := fn(ctx, tx); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit transaction: %w", err)
		}

		return nil
	}

	if retrier == nil {
		return attempt()
	}

	return retrier.Retry(ctx, attempt)
}
