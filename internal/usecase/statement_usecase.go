package usecase

import (
	"context"
	"time"

	"github.com/iho/bankcore/internal/domain"
)

// OpStatement names statement failures.
const OpStatement = "statement"

// HistoryReader reads an account's ledger window.
type HistoryReader interface {
	History(ctx context.Context, input HistoryInput) ([]*domain.Transaction, error)
}

// StatementUseCase renders account statements.
type StatementUseCase struct {
	accountRepo AccountRepository
	clientRepo  ClientRepository
	history     HistoryReader
}

// NewStatementUseCase creates a new StatementUseCase.
func NewStatementUseCase(accountRepo AccountRepository, clientRepo ClientRepository, history HistoryReader) *StatementUseCase {
	return &StatementUseCase{
		accountRepo: accountRepo,
		clientRepo:  clientRepo,
		history:     history,
	}
}

// StatementInput represents an inclusive statement period.
type StatementInput struct {
	AccountNumber string
	Start         time.Time
	End           time.Time
}

// Statement renders the account's statement for the period as plain text.
func (uc *StatementUseCase) Statement(ctx context.Context, input StatementInput) (string, error) {
	entries, err := uc.history.History(ctx, HistoryInput(input))
	if err != nil {
		return "", err
	}

	account, err := uc.accountRepo.GetByNumber(ctx, input.AccountNumber)
	if err != nil {
		return "", &domain.OperationError{Op: OpStatement, AccountNumber: input.AccountNumber, Err: err}
	}

	client, err := uc.clientRepo.GetByID(ctx, account.ClientID)
	if err != nil {
		return "", &domain.OperationError{Op: OpStatement, AccountNumber: input.AccountNumber, Err: err}
	}

	return domain.RenderStatement(domain.Statement{
		HolderName:   client.FullName(),
		Account:      account,
		Start:        input.Start,
		End:          input.End,
		Transactions: entries,
	}), nil
}
