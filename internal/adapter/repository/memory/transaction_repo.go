package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	store *Store
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(store *Store) *TransactionRepository {
	return &TransactionRepository{store: store}
}

func copyTransaction(t *domain.Transaction) *domain.Transaction {
	c := *t
	return &c
}

// Append stages a ledger entry.
func (r *TransactionRepository) Append(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}

	stored := copyTransaction(txn)

	return t.enqueue(mutation{
		check: func(s *Store) error {
			if _, ok := s.accounts[stored.AccountID]; !ok {
				return domain.ErrAccountNotFound
			}

			return nil
		},
		apply: func(s *Store) {
			s.ledger = append(s.ledger, stored)
			s.byAccount[stored.AccountID] = append(s.byAccount[stored.AccountID], stored)
		},
	})
}

// ListByAccount returns entries in [start, end], oldest first.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID string, start, end time.Time) ([]*domain.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	entries := make([]*domain.Transaction, 0)
	for _, e := range r.store.byAccount[accountID] {
		if e.CreatedAt.Before(start) || e.CreatedAt.After(end) {
			continue
		}

		entries = append(entries, copyTransaction(e))
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.Before(entries[j].CreatedAt)
		}

		return entries[i].AccountVersion < entries[j].AccountVersion
	})

	return entries, nil
}

// List returns all entries, newest first.
func (r *TransactionRepository) List(ctx context.Context, limit, offset int) ([]*domain.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	entries := make([]*domain.Transaction, 0, len(r.store.ledger))
	for i := len(r.store.ledger) - 1; i >= 0; i-- {
		entries = append(entries, copyTransaction(r.store.ledger[i]))
	}

	return paginate(entries, limit, offset), nil
}

// CountByAccounts counts committed entries of the given accounts.
func (r *TransactionRepository) CountByAccounts(ctx context.Context, tx usecase.Transaction, accountIDs []string) (int64, error) {
	if _, err := asTx(tx); err != nil {
		return 0, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var n int64
	for _, id := range accountIDs {
		n += int64(len(r.store.byAccount[id]))
	}

	return n, nil
}

// SumByAccount returns credits minus debits of an account.
func (r *TransactionRepository) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	sum := decimal.Zero
	for _, e := range r.store.byAccount[accountID] {
		sum = sum.Add(e.SignedAmount())
	}

	return sum, nil
}

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	store *Store
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(store *Store) *LedgerRepository {
	return &LedgerRepository{store: store}
}

// CheckConsistency returns the total of balances and of signed entries.
func (r *LedgerRepository) CheckConsistency(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	totalBalance := decimal.Zero
	for _, a := range r.store.accounts {
		totalBalance = totalBalance.Add(a.Balance)
	}

	totalLedger := decimal.Zero
	for _, e := range r.store.ledger {
		totalLedger = totalLedger.Add(e.SignedAmount())
	}

	return totalBalance, totalLedger, nil
}
