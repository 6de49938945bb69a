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

// ErrAccountNumberUnavailable is returned when no unused account number was found.
var ErrAccountNumberUnavailable = errors.New("could not allocate an unused account number")

// AccountUseCase handles account business logic.
type AccountUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	clientRepo  ClientRepository
	idGen       IDGenerator
	numberGen   AccountNumberGenerator
	attempts    int
	metrics     *metrics.Metrics
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	clientRepo ClientRepository,
	idGen IDGenerator,
	numberGen AccountNumberGenerator,
	attempts int,
	m *metrics.Metrics,
) *AccountUseCase {
	if attempts <= 0 {
		attempts = DefaultAccountNumberAttempts
	}

	return &AccountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		clientRepo:  clientRepo,
		idGen:       idGen,
		numberGen:   numberGen,
		attempts:    attempts,
		metrics:     m,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	ClientID string
	Type     domain.AccountType
}

// CreateAccount opens a zero-balance account for an active client.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if !input.Type.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAccountType, input.Type)
	}

	client, err := uc.clientRepo.GetByID(ctx, input.ClientID)
	if err != nil {
		return nil, err
	}

	if client.IsSuspended() {
		return nil, domain.ErrClientSuspended
	}

	for i := 0; i < uc.attempts; i++ {
		number := uc.numberGen.Generate()

		exists, err := uc.accountRepo.ExistsByNumber(ctx, number)
		if err != nil {
			return nil, err
		}

		if exists {
			continue
		}

		now := time.Now().UTC().Truncate(time.Microsecond)
		account := &domain.Account{
			ID:        uc.idGen.Generate(),
			Number:    number,
			Type:      input.Type,
			ClientID:  client.ID,
			Balance:   decimal.Zero,
			Version:   0,
			CreatedAt: now,
			UpdatedAt: now,
		}

		err = runInTx(ctx, uc.txManager, nil, func(ctx context.Context, tx Transaction) error {
			return uc.accountRepo.Create(ctx, tx, account)
		})
		if errors.Is(err, domain.ErrDuplicateAccount) {
			// Lost a race for the same number.
			continue
		}

		if err != nil {
			return nil, err
		}

		if uc.metrics != nil {
			uc.metrics.AccountsCreated.Inc()
		}

		return account, nil
	}

	return nil, ErrAccountNumberUnavailable
}

// AccountDetails is an account together with its owner's name.
type AccountDetails struct {
	Account   *domain.Account
	OwnerName string
}

// GetAccount retrieves an account by number.
func (uc *AccountUseCase) GetAccount(ctx context.Context, number string) (*AccountDetails, error) {
	account, err := uc.accountRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	client, err := uc.clientRepo.GetByID(ctx, account.ClientID)
	if err != nil {
		return nil, err
	}

	return &AccountDetails{Account: account, OwnerName: client.FullName()}, nil
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.accountRepo.List(ctx, limit, offset)
}

// ListAccountsByClient lists the accounts owned by a client.
func (uc *AccountUseCase) ListAccountsByClient(ctx context.Context, clientID string) ([]*domain.Account, error) {
	if _, err := uc.clientRepo.GetByID(ctx, clientID); err != nil {
		return nil, err
	}

	return uc.accountRepo.ListByClient(ctx, clientID)
}
