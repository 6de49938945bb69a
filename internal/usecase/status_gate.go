package usecase

import (
	"context"

	"github.com/iho/bankcore/internal/domain"
)

// ClientStatusGate answers whether the owner of an account may initiate operations.
type ClientStatusGate struct {
	accountRepo AccountRepository
	clientRepo  ClientRepository
}

// NewClientStatusGate creates a new ClientStatusGate.
func NewClientStatusGate(accountRepo AccountRepository, clientRepo ClientRepository) *ClientStatusGate {
	return &ClientStatusGate{
		accountRepo: accountRepo,
		clientRepo:  clientRepo,
	}
}

// StatusOf returns the status of the client owning accountNumber.
func (g *ClientStatusGate) StatusOf(ctx context.Context, accountNumber string) (domain.ClientStatus, error) {
	account, err := g.accountRepo.GetByNumber(ctx, accountNumber)
	if err != nil {
		return "", err
	}

	client, err := g.clientRepo.GetByID(ctx, account.ClientID)
	if err != nil {
		return "", err
	}

	return client.Status, nil
}
