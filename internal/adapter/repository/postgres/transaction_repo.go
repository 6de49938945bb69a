package postgres

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/infrastructure/postgres/generated"
	"github.com/iho/bankcore/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	queries *generated.Queries
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db generated.DBTX) *TransactionRepository {
	return &TransactionRepository{queries: generated.New(db)}
}

// Append inserts a ledger entry.
func (r *TransactionRepository) Append(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return err
	}

	err = generated.New(pgxTx).CreateTransaction(ctx, generated.CreateTransactionParams{
		ID:                        txn.ID,
		AccountID:                 txn.AccountID,
		AccountNumber:             txn.AccountNumber,
		CounterpartyAccountNumber: stringToPgText(txn.CounterpartyAccountNumber),
		Description:               txn.Description,
		TransactionType:           string(txn.Type),
		Direction:                 string(txn.Direction),
		Amount:                    decimalToNumeric(txn.Amount),
		BalanceAfter:              decimalToNumeric(txn.BalanceAfter),
		AccountVersion:            txn.AccountVersion,
		CreatedAt:                 timeToPgTimestamptz(txn.CreatedAt),
	})
	if _, ok := constraintViolation(err, pgErrForeignKeyViolation); ok {
		return domain.ErrAccountNotFound
	}

	return err
}

// ListByAccount returns an account's entries in [start, end], oldest first.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID string, start, end time.Time) ([]*domain.Transaction, error) {
	rows, err := r.queries.ListTransactionsByAccount(ctx, generated.ListTransactionsByAccountParams{
		AccountID: accountID,
		StartAt:   timeToPgTimestamptz(start),
		EndAt:     timeToPgTimestamptz(end),
	})
	if err != nil {
		return nil, err
	}

	return rowsToTransactions(rows), nil
}

// List returns all entries, newest first.
func (r *TransactionRepository) List(ctx context.Context, limit, offset int) ([]*domain.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx, generated.ListTransactionsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	return rowsToTransactions(rows), nil
}

// CountByAccounts counts the entries of the given accounts inside tx.
func (r *TransactionRepository) CountByAccounts(ctx context.Context, tx usecase.Transaction, accountIDs []string) (int64, error) {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return 0, err
	}

	return generated.New(pgxTx).CountTransactionsByAccounts(ctx, accountIDs)
}

// SumByAccount returns credits minus debits of an account.
func (r *TransactionRepository) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	total, err := r.queries.SumTransactionsByAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	return toDecimal(total)
}

func rowsToTransactions(rows []generated.Transaction) []*domain.Transaction {
	txns := make([]*domain.Transaction, 0, len(rows))
	for _, row := range rows {
		txns = append(txns, &domain.Transaction{
			ID:                        row.ID,
			AccountID:                 row.AccountID,
			AccountNumber:             row.AccountNumber,
			CounterpartyAccountNumber: row.CounterpartyAccountNumber.String,
			Description:               row.Description,
			Type:                      domain.TransactionType(row.TransactionType),
			Direction:                 domain.Direction(row.Direction),
			Amount:                    numericToDecimal(row.Amount),
			BalanceAfter:              numericToDecimal(row.BalanceAfter),
			AccountVersion:            row.AccountVersion,
			CreatedAt:                 row.CreatedAt.Time,
		})
	}

	return txns
}
