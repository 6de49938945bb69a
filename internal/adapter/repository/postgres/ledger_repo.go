package postgres

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/bankcore/internal/infrastructure/postgres/generated"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	queries *generated.Queries
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db generated.DBTX) *LedgerRepository {
	return &LedgerRepository{queries: generated.New(db)}
}

// CheckConsistency returns the sum of all balances and the signed sum of all entries.
func (r *LedgerRepository) CheckConsistency(ctx context.Context) (totalBalance decimal.Decimal, totalLedger decimal.Decimal, err error) {
	result, err := r.queries.CheckLedgerConsistency(ctx)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	totalBalance, err = toDecimal(result.TotalAccountBalance)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	totalLedger, err = toDecimal(result.TotalLedgerAmount)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return totalBalance, totalLedger, nil
}
