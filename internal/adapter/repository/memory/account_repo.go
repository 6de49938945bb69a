package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	store *Store
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

func copyAccount(a *domain.Account) *domain.Account {
	c := *a
	return &c
}

// Create stages a new account.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}

	stored := copyAccount(account)

	check := func(s *Store) error {
		if _, ok := s.accounts[stored.ID]; ok {
			return domain.ErrDuplicateAccount
		}

		if _, ok := s.accountsByNumber[stored.Number]; ok {
			return domain.ErrDuplicateAccount
		}

		if _, ok := s.clients[stored.ClientID]; !ok {
			return domain.ErrClientNotFound
		}

		return nil
	}

	r.store.mu.RLock()
	err = check(r.store)
	r.store.mu.RUnlock()

	if err != nil {
		return err
	}

	return t.enqueue(mutation{
		check: check,
		apply: func(s *Store) {
			s.accounts[stored.ID] = stored
			s.accountsByNumber[stored.Number] = stored.ID
		},
	})
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	a, ok := r.store.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	return copyAccount(a), nil
}

// GetByNumber retrieves an account by number.
func (r *AccountRepository) GetByNumber(ctx context.Context, number string) (*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.accountsByNumber[number]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	return copyAccount(r.store.accounts[id]), nil
}

// GetByNumbersForUpdate locks the existing accounts among numbers in
// ascending order and returns their committed state.
func (r *AccountRepository) GetByNumbersForUpdate(ctx context.Context, tx usecase.Transaction, numbers []string) ([]*domain.Account, error) {
	t, err := asTx(tx)
	if err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	existing := make([]string, 0, len(numbers))
	for _, n := range numbers {
		if _, ok := r.store.accountsByNumber[n]; ok {
			existing = append(existing, n)
		}
	}
	r.store.mu.RUnlock()

	if err := t.lock(ctx, existing); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	accounts := make([]*domain.Account, 0, len(existing))
	for _, n := range existing {
		// Deleted while we waited for the lock.
		id, ok := r.store.accountsByNumber[n]
		if !ok {
			continue
		}

		accounts = append(accounts, copyAccount(r.store.accounts[id]))
	}

	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Number < accounts[j].Number })

	return accounts, nil
}

// UpdateBalance stages a balance change.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, version int64, updatedAt time.Time) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}

	return t.enqueue(mutation{
		check: func(s *Store) error {
			if _, ok := s.accounts[id]; !ok {
				return domain.ErrAccountNotFound
			}

			return nil
		},
		apply: func(s *Store) {
			a := s.accounts[id]
			a.Balance = balance
			a.Version = version
			a.UpdatedAt = updatedAt
		},
	})
}

// ExistsByNumber reports whether an account number is taken.
func (r *AccountRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	_, ok := r.store.accountsByNumber[number]

	return ok, nil
}

// ListByClient lists a client's accounts, oldest first.
func (r *AccountRepository) ListByClient(ctx context.Context, clientID string) ([]*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	accounts := make([]*domain.Account, 0)
	for _, a := range r.store.accounts {
		if a.ClientID == clientID {
			accounts = append(accounts, copyAccount(a))
		}
	}

	sortAccounts(accounts)

	return accounts, nil
}

// List lists accounts with pagination, oldest first.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	accounts := make([]*domain.Account, 0, len(r.store.accounts))
	for _, a := range r.store.accounts {
		accounts = append(accounts, copyAccount(a))
	}

	sortAccounts(accounts)

	return paginate(accounts, limit, offset), nil
}

// DeleteByClient stages the removal of all accounts owned by clientID.
func (r *AccountRepository) DeleteByClient(ctx context.Context, tx usecase.Transaction, clientID string) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}

	return t.enqueue(mutation{
		check: func(s *Store) error {
			for id, a := range s.accounts {
				if a.ClientID == clientID && len(s.byAccount[id]) > 0 {
					return domain.ErrClientHasHistory
				}
			}

			return nil
		},
		apply: func(s *Store) {
			for id, a := range s.accounts {
				if a.ClientID == clientID {
					delete(s.accountsByNumber, a.Number)
					delete(s.accounts, id)
				}
			}
		},
	})
}

func sortAccounts(accounts []*domain.Account) {
	sort.Slice(accounts, func(i, j int) bool {
		if !accounts[i].CreatedAt.Equal(accounts[j].CreatedAt) {
			return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
		}

		return accounts[i].ID < accounts[j].ID
	})
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}

	end := offset + limit
	if end > len(items) {
		end = len(items)
	}

	return items[offset:end]
}
