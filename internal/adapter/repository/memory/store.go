// Package memory is an in-process implementation of the repositories.
//
// Writes made inside a Tx are buffered and applied at Commit under the
// store's write lock, so readers see a balance change together with its
// ledger entry or not at all. Accounts are locked for update with one
// weighted semaphore per account number; locks are held until the Tx ends.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/usecase"
)

// ErrTxDone is returned when a finished transaction is used.
var ErrTxDone = errors.New("memory: transaction already committed or rolled back")

var errForeignTx = errors.New("memory: transaction does not belong to the memory store")

// Store holds all state of the memory backend.
type Store struct {
	mu sync.RWMutex

	clients        map[string]*domain.Client
	clientsByEmail map[string]string

	accounts         map[string]*domain.Account
	accountsByNumber map[string]string

	ledger    []*domain.Transaction
	byAccount map[string][]*domain.Transaction

	outbox []*domain.OutboxEvent

	lockMu sync.Mutex
	locks  map[string]*semaphore.Weighted
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		clients:          make(map[string]*domain.Client),
		clientsByEmail:   make(map[string]string),
		accounts:         make(map[string]*domain.Account),
		accountsByNumber: make(map[string]string),
		byAccount:        make(map[string][]*domain.Transaction),
		locks:            make(map[string]*semaphore.Weighted),
	}
}

func (s *Store) lockFor(number string) *semaphore.Weighted {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()

	l, ok := s.locks[number]
	if !ok {
		l = semaphore.NewWeighted(1)
		s.locks[number] = l
	}

	return l
}

// TxManager implements usecase.TransactionManager.
type TxManager struct {
	store *Store
}

// NewTxManager creates a new TxManager.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Begin starts a new transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &Tx{store: m.store, held: make(map[string]*semaphore.Weighted)}, nil
}

// mutation is a buffered write. check runs against committed state before
// any apply of the same Tx.
type mutation struct {
	check func(s *Store) error
	apply func(s *Store)
}

// Tx is a unit of work on the memory store.
type Tx struct {
	store *Store

	mu        sync.Mutex
	done      bool
	held      map[string]*semaphore.Weighted
	mutations []mutation
}

func asTx(tx usecase.Transaction) (*Tx, error) {
	t, ok := tx.(*Tx)
	if !ok {
		return nil, errForeignTx
	}

	return t, nil
}

func (t *Tx) enqueue(m mutation) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return ErrTxDone
	}

	t.mutations = append(t.mutations, m)

	return nil
}

// lock acquires the exclusive lock of each number in ascending order.
func (t *Tx) lock(ctx context.Context, numbers []string) error {
	sorted := append([]string(nil), numbers...)
	sort.Strings(sorted)

	for _, n := range sorted {
		t.mu.Lock()
		if t.done {
			t.mu.Unlock()
			return ErrTxDone
		}
		_, already := t.held[n]
		t.mu.Unlock()

		if already {
			continue
		}

		l := t.store.lockFor(n)
		if err := l.Acquire(ctx, 1); err != nil {
			return err
		}

		t.mu.Lock()
		t.held[n] = l
		t.mu.Unlock()
	}

	return nil
}

// Commit applies all buffered writes atomically and releases the locks.
func (t *Tx) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return ErrTxDone
	}

	defer t.finish()

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range t.mutations {
		if m.check == nil {
			continue
		}

		if err := m.check(s); err != nil {
			return err
		}
	}

	for _, m := range t.mutations {
		m.apply(s)
	}

	return nil
}

// Rollback discards buffered writes and releases the locks.
// Rolling back a finished transaction is a no-op.
func (t *Tx) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return nil
	}

	t.finish()

	return nil
}

// finish must be called with t.mu held.
func (t *Tx) finish() {
	t.done = true
	t.mutations = nil

	for n, l := range t.held {
		l.Release(1)
		delete(t.held, n)
	}
}
