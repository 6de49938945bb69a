package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankcore/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByNumber(ctx context.Context, number string) (*domain.Account, error)
	// GetByNumbersForUpdate locks the accounts in ascending number order.
	// Missing numbers are absent from the result.
	GetByNumbersForUpdate(ctx context.Context, tx Transaction, numbers []string) ([]*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, version int64, updatedAt time.Time) error
	ExistsByNumber(ctx context.Context, number string) (bool, error)
	ListByClient(ctx context.Context, clientID string) ([]*domain.Account, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
	DeleteByClient(ctx context.Context, tx Transaction, clientID string) error
}

// ClientRepository defines data access for clients.
type ClientRepository interface {
	Create(ctx context.Context, tx Transaction, client *domain.Client) error
	Update(ctx context.Context, tx Transaction, client *domain.Client) error
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	GetStatus(ctx context.Context, tx Transaction, id string) (domain.ClientStatus, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.ClientStatus, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Client, error)
	Delete(ctx context.Context, tx Transaction, id string) error
}

// TransactionRepository is the append-only ledger.
type TransactionRepository interface {
	Append(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	// ListByAccount returns entries with start <= CreatedAt <= end in
	// ascending (CreatedAt, AccountVersion) order.
	ListByAccount(ctx context.Context, accountID string, start, end time.Time) ([]*domain.Transaction, error)
	// List returns all entries newest first.
	List(ctx context.Context, limit, offset int) ([]*domain.Transaction, error)
	CountByAccounts(ctx context.Context, tx Transaction, accountIDs []string) (int64, error)
	SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error)
}

// LedgerRepository defines data access for ledger-wide checks.
type LedgerRepository interface {
	// CheckConsistency returns the sum of all balances and the signed sum
	// of all ledger entries.
	CheckConsistency(ctx context.Context) (totalBalance, totalLedger decimal.Decimal, err error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
}

// Transaction represents a unit of work on a store.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// AccountNumberGenerator generates candidate account numbers.
// Uniqueness is checked by the caller.
type AccountNumberGenerator interface {
	Generate() string
}

// IdempotencyPending is stored under a claimed key until its request completes.
const IdempotencyPending = "processing"

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request did not complete.
	Release(ctx context.Context, key string) error
}
