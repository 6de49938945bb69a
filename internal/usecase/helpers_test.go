package usecase_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/bankcore/internal/adapter/repository/memory"
	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/usecase"
)

type seqGenerator struct {
	prefix string
	n      atomic.Int64
}

func (g *seqGenerator) Generate() string {
	return fmt.Sprintf("%s%08d", g.prefix, g.n.Add(1))
}

// bank wires every use case on top of a fresh memory store.
type bank struct {
	store          *memory.Store
	accountRepo    *memory.AccountRepository
	clientRepo     *memory.ClientRepository
	ledgerRepo     *memory.TransactionRepository
	outboxRepo     *memory.OutboxRepository
	engine         *usecase.TransactionUseCase
	clients        *usecase.ClientUseCase
	accounts       *usecase.AccountUseCase
	statements     *usecase.StatementUseCase
	gate           *usecase.ClientStatusGate
	reconciliation *usecase.ReconciliationUseCase
}

func newBank(t *testing.T) *bank {
	t.Helper()

	store := memory.NewStore()
	txManager := memory.NewTxManager(store)
	accountRepo := memory.NewAccountRepository(store)
	clientRepo := memory.NewClientRepository(store)
	ledgerRepo := memory.NewTransactionRepository(store)
	outboxRepo := memory.NewOutboxRepository(store)
	idGen := &seqGenerator{prefix: "ID"}
	numberGen := &seqGenerator{prefix: "BK"}

	engine := usecase.NewTransactionUseCase(txManager, accountRepo, clientRepo, ledgerRepo, outboxRepo, idGen, nil, nil)

	return &bank{
		store:          store,
		accountRepo:    accountRepo,
		clientRepo:     clientRepo,
		ledgerRepo:     ledgerRepo,
		outboxRepo:     outboxRepo,
		engine:         engine,
		clients:        usecase.NewClientUseCase(txManager, clientRepo, accountRepo, ledgerRepo, idGen, nil),
		accounts:       usecase.NewAccountUseCase(txManager, accountRepo, clientRepo, idGen, numberGen, 0, nil),
		statements:     usecase.NewStatementUseCase(accountRepo, clientRepo, engine),
		gate:           usecase.NewClientStatusGate(accountRepo, clientRepo),
		reconciliation: usecase.NewReconciliationUseCase(txManager, accountRepo, ledgerRepo, memory.NewLedgerRepository(store), nil),
	}
}

var clientSeq atomic.Int64

func (b *bank) newClient(t *testing.T) *domain.Client {
	t.Helper()

	n := clientSeq.Add(1)

	client, err := b.clients.CreateClient(context.Background(), usecase.ClientProfile{
		FirstName: "Ada",
		LastName:  fmt.Sprintf("Lovelace%d", n),
		Email:     fmt.Sprintf("ada%d@example.com", n),
	})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}

	return client
}

// openAccount creates a client with one checking account funded with balance.
func (b *bank) openAccount(t *testing.T, balance int64) *domain.Account {
	t.Helper()

	return b.openAccountFor(t, b.newClient(t), balance)
}

func (b *bank) openAccountFor(t *testing.T, client *domain.Client, balance int64) *domain.Account {
	t.Helper()

	ctx := context.Background()

	account, err := b.accounts.CreateAccount(ctx, usecase.CreateAccountInput{
		ClientID: client.ID,
		Type:     domain.AccountTypeChecking,
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	if balance > 0 {
		if _, err := b.engine.Deposit(ctx, usecase.DepositInput{
			AccountNumber: account.Number,
			Amount:        decimal.NewFromInt(balance),
		}); err != nil {
			t.Fatalf("fund account: %v", err)
		}
	}

	return account
}

func (b *bank) balance(t *testing.T, number string) decimal.Decimal {
	t.Helper()

	account, err := b.accountRepo.GetByNumber(context.Background(), number)
	if err != nil {
		t.Fatalf("get account %s: %v", number, err)
	}

	return account.Balance
}

func (b *bank) entryCount(t *testing.T, number string) int {
	t.Helper()

	account, err := b.accountRepo.GetByNumber(context.Background(), number)
	if err != nil {
		t.Fatalf("get account %s: %v", number, err)
	}

	n, err := b.ledgerRepo.CountByAccounts(context.Background(), mustBegin(t, b.store), []string{account.ID})
	if err != nil {
		t.Fatalf("count entries: %v", err)
	}

	return int(n)
}

func mustBegin(t *testing.T, store *memory.Store) usecase.Transaction {
	t.Helper()

	tx, err := memory.NewTxManager(store).Begin(context.Background())
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	t.Cleanup(func() { _ = tx.Rollback(context.Background()) })

	return tx
}

func assertBalance(t *testing.T, b *bank, number string, want int64) {
	t.Helper()

	if got := b.balance(t, number); !got.Equal(decimal.NewFromInt(want)) {
		t.Fatalf("account %s: expected balance %d, got %s", number, want, got)
	}
}
