package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/bankcore/internal/domain"
)

type fixture struct {
	store    *Store
	txm      *TxManager
	accounts *AccountRepository
	clients  *ClientRepository
	ledger   *TransactionRepository
	outbox   *OutboxRepository
}

func newFixture() *fixture {
	s := NewStore()

	return &fixture{
		store:    s,
		txm:      NewTxManager(s),
		accounts: NewAccountRepository(s),
		clients:  NewClientRepository(s),
		ledger:   NewTransactionRepository(s),
		outbox:   NewOutboxRepository(s),
	}
}

func (f *fixture) seed(t *testing.T, clientID, accountID, number string) {
	t.Helper()

	ctx := context.Background()
	now := time.Now().UTC()

	tx, err := f.txm.Begin(ctx)
	require.NoError(t, err)

	require.NoError(t, f.clients.Create(ctx, tx, &domain.Client{
		ID: clientID, FirstName: "A", LastName: "B", Email: clientID + "@example.com",
		Status: domain.ClientStatusActive, CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, tx.Commit(ctx))

	tx, err = f.txm.Begin(ctx)
	require.NoError(t, err)

	require.NoError(t, f.accounts.Create(ctx, tx, &domain.Account{
		ID: accountID, Number: number, Type: domain.AccountTypeChecking, ClientID: clientID,
		Balance: decimal.Zero, CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, tx.Commit(ctx))
}

func TestTx_CommitAppliesAllWrites(t *testing.T) {
	f := newFixture()
	f.seed(t, "c1", "a1", "N1")
	ctx := context.Background()

	tx, err := f.txm.Begin(ctx)
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, f.ledger.Append(ctx, tx, &domain.Transaction{
		ID: "t1", AccountID: "a1", AccountNumber: "N1", Type: domain.TransactionTypeDeposit,
		Direction: domain.DirectionCredit, Amount: decimal.NewFromInt(10), BalanceAfter: decimal.NewFromInt(10),
		AccountVersion: 1, CreatedAt: now,
	}))
	require.NoError(t, f.accounts.UpdateBalance(ctx, tx, "a1", decimal.NewFromInt(10), 1, now))

	// Buffered writes are invisible before commit.
	a, err := f.accounts.GetByNumber(ctx, "N1")
	require.NoError(t, err)
	assert.True(t, a.Balance.IsZero())

	require.NoError(t, tx.Commit(ctx))

	a, err = f.accounts.GetByNumber(ctx, "N1")
	require.NoError(t, err)
	assert.True(t, a.Balance.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, int64(1), a.Version)

	sum, err := f.ledger.SumByAccount(ctx, "a1")
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.NewFromInt(10)))
}

func TestTx_RollbackDiscardsWrites(t *testing.T) {
	f := newFixture()
	f.seed(t, "c1", "a1", "N1")
	ctx := context.Background()

	tx, err := f.txm.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, f.accounts.UpdateBalance(ctx, tx, "a1", decimal.NewFromInt(99), 1, time.Now()))
	require.NoError(t, tx.Rollback(ctx))

	a, err := f.accounts.GetByNumber(ctx, "N1")
	require.NoError(t, err)
	assert.True(t, a.Balance.IsZero())

	assert.ErrorIs(t, tx.Commit(ctx), ErrTxDone)
	assert.NoError(t, tx.Rollback(ctx))
	assert.ErrorIs(t, f.accounts.UpdateBalance(ctx, tx, "a1", decimal.NewFromInt(1), 2, time.Now()), ErrTxDone)
}

func TestTx_FailedCheckAppliesNothing(t *testing.T) {
	f := newFixture()
	f.seed(t, "c1", "a1", "N1")
	ctx := context.Background()

	tx, err := f.txm.Begin(ctx)
	require.NoError(t, err)

	require.NoError(t, f.accounts.UpdateBalance(ctx, tx, "a1", decimal.NewFromInt(5), 1, time.Now()))
	require.NoError(t, f.accounts.UpdateBalance(ctx, tx, "missing", decimal.NewFromInt(5), 1, time.Now()))

	assert.ErrorIs(t, tx.Commit(ctx), domain.ErrAccountNotFound)

	a, err := f.accounts.GetByNumber(ctx, "N1")
	require.NoError(t, err)
	assert.True(t, a.Balance.IsZero())
}

func TestAccountRepository_GetByNumbersForUpdateBlocks(t *testing.T) {
	f := newFixture()
	f.seed(t, "c1", "a1", "N1")
	f.seed(t, "c2", "a2", "N2")
	ctx := context.Background()

	first, err := f.txm.Begin(ctx)
	require.NoError(t, err)

	locked, err := f.accounts.GetByNumbersForUpdate(ctx, first, []string{"N2", "N1", "NX"})
	require.NoError(t, err)
	require.Len(t, locked, 2)
	assert.Equal(t, "N1", locked[0].Number)
	assert.Equal(t, "N2", locked[1].Number)

	second, err := f.txm.Begin(ctx)
	require.NoError(t, err)

	waitCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()

	_, err = f.accounts.GetByNumbersForUpdate(waitCtx, second, []string{"N1"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	acquired := make(chan error, 1)
	go func() {
		_, err := f.accounts.GetByNumbersForUpdate(ctx, second, []string{"N1"})
		acquired <- err
	}()

	require.NoError(t, first.Commit(ctx))

	select {
	case err := <-acquired:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("lock was not released on commit")
	}

	require.NoError(t, second.Rollback(ctx))
}

func TestAccountRepository_DuplicateNumber(t *testing.T) {
	f := newFixture()
	f.seed(t, "c1", "a1", "N1")
	ctx := context.Background()

	tx, err := f.txm.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	err = f.accounts.Create(ctx, tx, &domain.Account{ID: "a2", Number: "N1", ClientID: "c1"})
	assert.ErrorIs(t, err, domain.ErrDuplicateAccount)

	err = f.accounts.Create(ctx, tx, &domain.Account{ID: "a3", Number: "N3", ClientID: "nobody"})
	assert.ErrorIs(t, err, domain.ErrClientNotFound)
}

func TestAccountRepository_ReturnsCopies(t *testing.T) {
	f := newFixture()
	f.seed(t, "c1", "a1", "N1")
	ctx := context.Background()

	a, err := f.accounts.GetByID(ctx, "a1")
	require.NoError(t, err)
	a.Balance = decimal.NewFromInt(1000)

	again, err := f.accounts.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.True(t, again.Balance.IsZero())
}

func TestClientRepository_EmailUniqueness(t *testing.T) {
	f := newFixture()
	f.seed(t, "c1", "a1", "N1")
	f.seed(t, "c2", "a2", "N2")
	ctx := context.Background()

	tx, err := f.txm.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	c, err := f.clients.GetByID(ctx, "c2")
	require.NoError(t, err)
	c.Email = "c1@example.com"

	assert.ErrorIs(t, f.clients.Update(ctx, tx, c), domain.ErrDuplicateEmail)
}

func TestAccountRepository_DeleteByClientWithHistory(t *testing.T) {
	f := newFixture()
	f.seed(t, "c1", "a1", "N1")
	ctx := context.Background()

	tx, err := f.txm.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, f.ledger.Append(ctx, tx, &domain.Transaction{
		ID: "t1", AccountID: "a1", AccountNumber: "N1", Type: domain.TransactionTypeDeposit,
		Direction: domain.DirectionCredit, Amount: decimal.NewFromInt(1), CreatedAt: time.Now(),
	}))
	require.NoError(t, tx.Commit(ctx))

	tx, err = f.txm.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, f.accounts.DeleteByClient(ctx, tx, "c1"))
	assert.ErrorIs(t, tx.Commit(ctx), domain.ErrClientHasHistory)

	_, err = f.accounts.GetByNumber(ctx, "N1")
	assert.NoError(t, err)
}

func TestOutboxRepository_PublishFlow(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tx, err := f.txm.Begin(ctx)
	require.NoError(t, err)

	for _, id := range []string{"e1", "e2", "e3"} {
		require.NoError(t, f.outbox.Create(ctx, tx, &domain.OutboxEvent{ID: id, EventType: domain.EventTypeDeposited}))
	}
	require.NoError(t, tx.Commit(ctx))

	events, err := f.outbox.GetUnpublished(ctx, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "e1", events[0].ID)

	require.NoError(t, f.outbox.MarkPublished(ctx, "e1", time.Now()))

	events, err = f.outbox.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "e2", events[0].ID)
}
