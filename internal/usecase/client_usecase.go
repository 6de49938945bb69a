package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/infrastructure/metrics"
)

// ClientUseCase handles client administration.
type ClientUseCase struct {
	txManager   TransactionManager
	clientRepo  ClientRepository
	accountRepo AccountRepository
	ledgerRepo  TransactionRepository
	idGen       IDGenerator
	metrics     *metrics.Metrics
}

// NewClientUseCase creates a new ClientUseCase.
func NewClientUseCase(
	txManager TransactionManager,
	clientRepo ClientRepository,
	accountRepo AccountRepository,
	ledgerRepo TransactionRepository,
	idGen IDGenerator,
	m *metrics.Metrics,
) *ClientUseCase {
	return &ClientUseCase{
		txManager:   txManager,
		clientRepo:  clientRepo,
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		idGen:       idGen,
		metrics:     m,
	}
}

// ClientProfile holds the editable fields of a client.
type ClientProfile struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Address     string
	Nationality string
	Gender      string
	BirthDate   *time.Time
}

func (p ClientProfile) validate() error {
	if err := domain.ValidateName("first_name", p.FirstName); err != nil {
		return err
	}

	if err := domain.ValidateName("last_name", p.LastName); err != nil {
		return err
	}

	return domain.ValidateEmail(p.Email)
}

func (p ClientProfile) applyTo(c *domain.Client) {
	c.FirstName = strings.TrimSpace(p.FirstName)
	c.LastName = strings.TrimSpace(p.LastName)
	c.Email = strings.ToLower(strings.TrimSpace(p.Email))
	c.Phone = p.Phone
	c.Address = p.Address
	c.Nationality = p.Nationality
	c.Gender = p.Gender
	c.BirthDate = p.BirthDate
}

// CreateClient registers a new active client.
func (uc *ClientUseCase) CreateClient(ctx context.Context, input ClientProfile) (*domain.Client, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	client := &domain.Client{
		ID:        uc.idGen.Generate(),
		Status:    domain.ClientStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	input.applyTo(client)

	err := runInTx(ctx, uc.txManager, nil, func(ctx context.Context, tx Transaction) error {
		return uc.clientRepo.Create(ctx, tx, client)
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ClientsCreated.Inc()
	}

	return client, nil
}

// UpdateClient replaces a client's profile. Status is never changed here.
func (uc *ClientUseCase) UpdateClient(ctx context.Context, id string, input ClientProfile) (*domain.Client, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	client, err := uc.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	input.applyTo(client)
	client.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)

	err = runInTx(ctx, uc.txManager, nil, func(ctx context.Context, tx Transaction) error {
		return uc.clientRepo.Update(ctx, tx, client)
	})
	if err != nil {
		return nil, err
	}

	return client, nil
}

// ClientWithAccounts is a client and the accounts it owns.
type ClientWithAccounts struct {
	Client   *domain.Client
	Accounts []*domain.Account
}

// GetClient retrieves a client with its accounts.
func (uc *ClientUseCase) GetClient(ctx context.Context, id string) (*ClientWithAccounts, error) {
	client, err := uc.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	accounts, err := uc.accountRepo.ListByClient(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ClientWithAccounts{Client: client, Accounts: accounts}, nil
}

// ListClientsInput represents input for listing clients.
type ListClientsInput struct {
	Limit  int
	Offset int
}

// ListClients lists clients with pagination.
func (uc *ClientUseCase) ListClients(ctx context.Context, input ListClientsInput) ([]*domain.Client, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.clientRepo.List(ctx, limit, offset)
}

// SuspendClient blocks a client from initiating operations.
func (uc *ClientUseCase) SuspendClient(ctx context.Context, id string) (*domain.Client, error) {
	return uc.setStatus(ctx, id, domain.ClientStatusSuspended)
}

// ActivateClient lifts a suspension.
func (uc *ClientUseCase) ActivateClient(ctx context.Context, id string) (*domain.Client, error) {
	return uc.setStatus(ctx, id, domain.ClientStatusActive)
}

func (uc *ClientUseCase) setStatus(ctx context.Context, id string, status domain.ClientStatus) (*domain.Client, error) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	err := runInTx(ctx, uc.txManager, nil, func(ctx context.Context, tx Transaction) error {
		return uc.clientRepo.UpdateStatus(ctx, tx, id, status, now)
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ClientStatusChanges.WithLabelValues(string(status)).Inc()
	}

	return uc.clientRepo.GetByID(ctx, id)
}

// DeleteClient removes a client and its accounts. Clients whose accounts
// carry ledger entries cannot be deleted.
func (uc *ClientUseCase) DeleteClient(ctx context.Context, id string) error {
	if _, err := uc.clientRepo.GetByID(ctx, id); err != nil {
		return err
	}

	accounts, err := uc.accountRepo.ListByClient(ctx, id)
	if err != nil {
		return err
	}

	numbers := make([]string, 0, len(accounts))
	for _, a := range accounts {
		numbers = append(numbers, a.Number)
	}
	sort.Strings(numbers)

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	return runInTx(ctx, uc.txManager, nil, func(ctx context.Context, tx Transaction) error {
		ids := make([]string, 0, len(numbers))

		if len(numbers) > 0 {
			// Lock the accounts so no operation commits between the check and the delete.
			locked, err := uc.accountRepo.GetByNumbersForUpdate(ctx, tx, numbers)
			if err != nil {
				return err
			}

			for _, a := range locked {
				ids = append(ids, a.ID)
			}
		}

		if len(ids) > 0 {
			count, err := uc.ledgerRepo.CountByAccounts(ctx, tx, ids)
			if err != nil {
				return err
			}

			if count > 0 {
				return domain.ErrClientHasHistory
			}
		}

		if err := uc.accountRepo.DeleteByClient(ctx, tx, id); err != nil {
			return err
		}

		return uc.clientRepo.Delete(ctx, tx, id)
	})
}
