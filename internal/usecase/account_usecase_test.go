package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/usecase"
	"github.com/iho/bankcore/internal/usecase/mocks"
)

func TestAccountUseCase_CreateAccount(t *testing.T) {
	b := newBank(t)
	ctx := context.Background()
	client := b.newClient(t)

	account, err := b.accounts.CreateAccount(ctx, usecase.CreateAccountInput{ClientID: client.ID, Type: domain.AccountTypeSavings})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !account.Balance.IsZero() || account.Version != 0 {
		t.Errorf("expected fresh account, got %+v", account)
	}

	if account.Number == "" || account.ClientID != client.ID || account.Type != domain.AccountTypeSavings {
		t.Errorf("unexpected account %+v", account)
	}

	details, err := b.accounts.GetAccount(ctx, account.Number)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if details.OwnerName != client.FullName() {
		t.Errorf("expected owner %q, got %q", client.FullName(), details.OwnerName)
	}
}

func TestAccountUseCase_CreateAccountRejections(t *testing.T) {
	b := newBank(t)
	ctx := context.Background()
	client := b.newClient(t)

	if _, err := b.accounts.CreateAccount(ctx, usecase.CreateAccountInput{ClientID: client.ID, Type: "CRYPTO"}); !errors.Is(err, domain.ErrInvalidAccountType) {
		t.Errorf("expected ErrInvalidAccountType, got %v", err)
	}

	if _, err := b.accounts.CreateAccount(ctx, usecase.CreateAccountInput{ClientID: "missing", Type: domain.AccountTypeChecking}); !errors.Is(err, domain.ErrClientNotFound) {
		t.Errorf("expected ErrClientNotFound, got %v", err)
	}

	if _, err := b.clients.SuspendClient(ctx, client.ID); err != nil {
		t.Fatalf("suspend: %v", err)
	}

	if _, err := b.accounts.CreateAccount(ctx, usecase.CreateAccountInput{ClientID: client.ID, Type: domain.AccountTypeChecking}); !errors.Is(err, domain.ErrClientSuspended) {
		t.Errorf("expected ErrClientSuspended, got %v", err)
	}
}

func TestAccountUseCase_CreateAccountRetriesTakenNumbers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	txManager := mocks.NewMockTransactionManager(ctrl)
	tx := mocks.NewMockTransaction(ctrl)
	accountRepo := mocks.NewMockAccountRepository(ctrl)
	clientRepo := mocks.NewMockClientRepository(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)
	numberGen := mocks.NewMockAccountNumberGenerator(ctrl)

	clientRepo.EXPECT().GetByID(gomock.Any(), "c-1").Return(&domain.Client{ID: "c-1", Status: domain.ClientStatusActive}, nil)

	gomock.InOrder(
		numberGen.EXPECT().Generate().Return("BK1"),
		numberGen.EXPECT().Generate().Return("BK2"),
		numberGen.EXPECT().Generate().Return("BK3"),
	)

	accountRepo.EXPECT().ExistsByNumber(gomock.Any(), "BK1").Return(true, nil)
	accountRepo.EXPECT().ExistsByNumber(gomock.Any(), "BK2").Return(false, nil)
	accountRepo.EXPECT().ExistsByNumber(gomock.Any(), "BK3").Return(false, nil)

	idGen.EXPECT().Generate().Return("acc-id").Times(2)
	txManager.EXPECT().Begin(gomock.Any()).Return(tx, nil).Times(2)

	// BK2 is taken concurrently between the check and the insert.
	gomock.InOrder(
		accountRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).Return(domain.ErrDuplicateAccount),
		accountRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).Return(nil),
	)

	tx.EXPECT().Commit(gomock.Any()).Return(nil)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil).Times(2)

	uc := usecase.NewAccountUseCase(txManager, accountRepo, clientRepo, idGen, numberGen, 5, nil)

	account, err := uc.CreateAccount(context.Background(), usecase.CreateAccountInput{ClientID: "c-1", Type: domain.AccountTypeChecking})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if account.Number != "BK3" || !account.Balance.Equal(decimal.Zero) {
		t.Errorf("unexpected account %+v", account)
	}
}

func TestAccountUseCase_CreateAccountGivesUp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accountRepo := mocks.NewMockAccountRepository(ctrl)
	clientRepo := mocks.NewMockClientRepository(ctrl)
	numberGen := mocks.NewMockAccountNumberGenerator(ctrl)

	clientRepo.EXPECT().GetByID(gomock.Any(), "c-1").Return(&domain.Client{ID: "c-1", Status: domain.ClientStatusActive}, nil)
	numberGen.EXPECT().Generate().Return("BK1").Times(3)
	accountRepo.EXPECT().ExistsByNumber(gomock.Any(), "BK1").Return(true, nil).Times(3)

	uc := usecase.NewAccountUseCase(nil, accountRepo, clientRepo, nil, numberGen, 3, nil)

	_, err := uc.CreateAccount(context.Background(), usecase.CreateAccountInput{ClientID: "c-1", Type: domain.AccountTypeChecking})
	if !errors.Is(err, usecase.ErrAccountNumberUnavailable) {
		t.Fatalf("expected ErrAccountNumberUnavailable, got %v", err)
	}
}

func TestAccountUseCase_ListAccounts(t *testing.T) {
	b := newBank(t)
	ctx := context.Background()
	client := b.newClient(t)
	b.openAccountFor(t, client, 0)
	b.openAccountFor(t, client, 0)
	b.openAccount(t, 0)

	all, err := b.accounts.ListAccounts(ctx, usecase.ListAccountsInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(all) != 3 {
		t.Errorf("expected 3 accounts, got %d", len(all))
	}

	owned, err := b.accounts.ListAccountsByClient(ctx, client.ID)
	if err != nil {
		t.Fatalf("list by client: %v", err)
	}

	if len(owned) != 2 {
		t.Errorf("expected 2 accounts, got %d", len(owned))
	}

	if _, err := b.accounts.ListAccountsByClient(ctx, "missing"); !errors.Is(err, domain.ErrClientNotFound) {
		t.Errorf("expected ErrClientNotFound, got %v", err)
	}
}

func TestClientStatusGate_StatusOf(t *testing.T) {
	b := newBank(t)
	ctx := context.Background()
	client := b.newClient(t)
	account := b.openAccountFor(t, client, 0)

	status, err := b.gate.StatusOf(ctx, account.Number)
	if err != nil || status != domain.ClientStatusActive {
		t.Fatalf("expected ACTIVE, got %s (%v)", status, err)
	}

	if _, err := b.clients.SuspendClient(ctx, client.ID); err != nil {
		t.Fatalf("suspend: %v", err)
	}

	status, err = b.gate.StatusOf(ctx, account.Number)
	if err != nil || status != domain.ClientStatusSuspended {
		t.Fatalf("expected SUSPENDED, got %s (%v)", status, err)
	}

	if _, err := b.gate.StatusOf(ctx, "missing"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}
