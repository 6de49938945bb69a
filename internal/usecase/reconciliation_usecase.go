package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/infrastructure/metrics"
)

// ErrInconsistentLedger is returned when balances and ledger totals disagree.
var ErrInconsistentLedger = errors.New("ledger is inconsistent: balances do not match entries")

// ReconciliationUseCase compares account balances with their ledger.
type ReconciliationUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	ledgerRepo  TransactionRepository
	totals      LedgerRepository
	metrics     *metrics.Metrics
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	ledgerRepo TransactionRepository,
	totals LedgerRepository,
	m *metrics.Metrics,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		totals:      totals,
		metrics:     m,
	}
}

// ReconciliationResult represents the result of a reconciliation check
type ReconciliationResult struct {
	AccountNumber     string
	RecordedBalance   decimal.Decimal
	CalculatedBalance decimal.Decimal
	Difference        decimal.Decimal
	IsReconciled      bool
	LastChecked       time.Time
}

// ReconcileAccount compares the stored balance with the signed sum of the
// account's ledger entries. The account is locked while both are read.
func (uc *ReconciliationUseCase) ReconcileAccount(ctx context.Context, number string) (*ReconciliationResult, error) {
	var result *ReconciliationResult

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	err := runInTx(ctx, uc.txManager, nil, func(ctx context.Context, tx Transaction) error {
		accounts, err := uc.accountRepo.GetByNumbersForUpdate(ctx, tx, []string{number})
		if err != nil {
			return err
		}

		if len(accounts) == 0 {
			return domain.ErrAccountNotFound
		}

		account := accounts[0]

		calculated, err := uc.ledgerRepo.SumByAccount(ctx, account.ID)
		if err != nil {
			return err
		}

		diff := account.Balance.Sub(calculated)
		result = &ReconciliationResult{
			AccountNumber:     account.Number,
			RecordedBalance:   account.Balance,
			CalculatedBalance: calculated,
			Difference:        diff,
			IsReconciled:      diff.IsZero(),
			LastChecked:       time.Now().UTC(),
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// ReconcileAllAccounts reconciles all accounts in the system
func (uc *ReconciliationUseCase) ReconcileAllAccounts(ctx context.Context) ([]*ReconciliationResult, error) {
	var results []*ReconciliationResult

	for offset := 0; ; offset += reconciliationPageSize {
		accounts, err := uc.accountRepo.List(ctx, reconciliationPageSize, offset)
		if err != nil {
			return nil, err
		}

		for _, account := range accounts {
			result, err := uc.ReconcileAccount(ctx, account.Number)
			if err != nil {
				return nil, fmt.Errorf("failed to reconcile account %s: %w", account.Number, err)
			}

			results = append(results, result)
		}

		if len(accounts) < reconciliationPageSize {
			break
		}
	}

	return results, nil
}

// CheckLedgerConsistency verifies that all balances together equal the
// signed sum of the whole ledger.
func (uc *ReconciliationUseCase) CheckLedgerConsistency(ctx context.Context) error {
	totalBalance, totalLedger, err := uc.totals.CheckConsistency(ctx)
	if err != nil {
		return err
	}

	if !totalBalance.Equal(totalLedger) {
		return fmt.Errorf(
			"%w: balances=%s ledger=%s difference=%s",
			ErrInconsistentLedger,
			totalBalance.String(),
			totalLedger.String(),
			totalBalance.Sub(totalLedger).String(),
		)
	}

	return nil
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	TotalAccounts      int
	ReconciledAccounts int
	Discrepancies      []*ReconciliationResult
	LedgerConsistent   bool
	CheckedAt          time.Time
}

// GenerateReport reconciles every account and the ledger totals.
func (uc *ReconciliationUseCase) GenerateReport(ctx context.Context) (*ReconciliationReport, error) {
	results, err := uc.ReconcileAllAccounts(ctx)
	if err != nil {
		return nil, err
	}

	ledgerErr := uc.CheckLedgerConsistency(ctx)
	if ledgerErr != nil && !errors.Is(ledgerErr, ErrInconsistentLedger) {
		return nil, ledgerErr
	}

	report := &ReconciliationReport{
		TotalAccounts:    len(results),
		Discrepancies:    make([]*ReconciliationResult, 0),
		LedgerConsistent: ledgerErr == nil,
		CheckedAt:        time.Now().UTC(),
	}

	for _, result := range results {
		if result.IsReconciled {
			report.ReconciledAccounts++
		} else {
			report.Discrepancies = append(report.Discrepancies, result)
		}
	}

	if uc.metrics != nil {
		uc.metrics.ReconciliationDiscrepancies.Set(float64(len(report.Discrepancies)))
	}

	return report, nil
}
