package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/infrastructure/metrics"
)

// Operation names used in errors and metrics.
const (
	OpDeposit  = "deposit"
	OpWithdraw = "withdraw"
	OpTransfer = "transfer"
	OpHistory  = "history"
)

// TransactionUseCase is the transaction engine. It mutates balances and
// appends ledger entries as one atomic unit per operation.
type TransactionUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	clientRepo  ClientRepository
	ledgerRepo  TransactionRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
	retrier     Retrier
	metrics     *metrics.Metrics
	clock       func() time.Time
}

// NewTransactionUseCase creates a new TransactionUseCase.
// retrier and m may be nil.
func NewTransactionUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	clientRepo ClientRepository,
	ledgerRepo TransactionRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	retrier Retrier,
	m *metrics.Metrics,
) *TransactionUseCase {
	return &TransactionUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		clientRepo:  clientRepo,
		ledgerRepo:  ledgerRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
		retrier:     retrier,
		metrics:     m,
		clock:       time.Now,
	}
}

// DepositInput represents input for a deposit.
type DepositInput struct {
	AccountNumber string
	Amount        decimal.Decimal
	Description   string
}

// WithdrawInput represents input for a withdrawal.
type WithdrawInput struct {
	AccountNumber string
	Amount        decimal.Decimal
	Description   string
}

// TransferInput represents input for a transfer.
type TransferInput struct {
	SourceAccountNumber string
	TargetAccountNumber string
	Amount              decimal.Decimal
	Description         string
}

// TransferResult holds both legs of a committed transfer.
type TransferResult struct {
	Debit  *domain.Transaction
	Credit *domain.Transaction
}

// HistoryInput represents an inclusive history window.
type HistoryInput struct {
	AccountNumber string
	Start         time.Time
	End           time.Time
}

// Deposit credits an account.
func (uc *TransactionUseCase) Deposit(ctx context.Context, input DepositInput) (*domain.Transaction, error) {
	start := time.Now()

	txn, err := uc.deposit(ctx, input)
	uc.observe(OpDeposit, input.Amount, start, err)

	if err != nil {
		return nil, &domain.OperationError{Op: OpDeposit, AccountNumber: input.AccountNumber, Amount: input.Amount, Err: err}
	}

	return txn, nil
}

func (uc *TransactionUseCase) deposit(ctx context.Context, input DepositInput) (*domain.Transaction, error) {
	// Reject bad input before taking any lock.
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	description := input.Description
	if description == "" {
		description = domain.DefaultDepositDescription
	}

	var entry *domain.Transaction

	err := uc.inUnit(ctx, func(ctx context.Context, tx Transaction) error {
		accounts, err := uc.lockAccounts(ctx, tx, input.AccountNumber)
		if err != nil {
			return err
		}

		account := accounts[input.AccountNumber]
		if account == nil {
			return domain.ErrAccountNotFound
		}

		if err := uc.ensureActive(ctx, tx, account); err != nil {
			return err
		}

		entry, err = uc.post(ctx, tx, account, posting{
			txnType:     domain.TransactionTypeDeposit,
			direction:   domain.DirectionCredit,
			amount:      input.Amount,
			description: description,
		})
		if err != nil {
			return err
		}

		return uc.publish(ctx, tx, account.ID, domain.EventTypeDeposited, movementEvent(entry).Payload(), entry.CreatedAt)
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// Withdraw debits an account. The balance never goes below zero.
func (uc *TransactionUseCase) Withdraw(ctx context.Context, input WithdrawInput) (*domain.Transaction, error) {
	start := time.Now()

	txn, err := uc.withdraw(ctx, input)
	uc.observe(OpWithdraw, input.Amount, start, err)

	if err != nil {
		return nil, &domain.OperationError{Op: OpWithdraw, AccountNumber: input.AccountNumber, Amount: input.Amount, Err: err}
	}

	return txn, nil
}

func (uc *TransactionUseCase) withdraw(ctx context.Context, input WithdrawInput) (*domain.Transaction, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	description := input.Description
	if description == "" {
		description = domain.DefaultWithdrawalDescription
	}

	var entry *domain.Transaction

	err := uc.inUnit(ctx, func(ctx context.Context, tx Transaction) error {
		accounts, err := uc.lockAccounts(ctx, tx, input.AccountNumber)
		if err != nil {
			return err
		}

		account := accounts[input.AccountNumber]
		if account == nil {
			return domain.ErrAccountNotFound
		}

		if err := uc.ensureActive(ctx, tx, account); err != nil {
			return err
		}

		entry, err = uc.post(ctx, tx, account, posting{
			txnType:     domain.TransactionTypeWithdrawal,
			direction:   domain.DirectionDebit,
			amount:      input.Amount,
			description: description,
		})
		if err != nil {
			return err
		}

		return uc.publish(ctx, tx, account.ID, domain.EventTypeWithdrawn, movementEvent(entry).Payload(), entry.CreatedAt)
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// Transfer moves money between two accounts atomically. Only the source
// client's status is checked.
func (uc *TransactionUseCase) Transfer(ctx context.Context, input TransferInput) (*TransferResult, error) {
	start := time.Now()

	result, err := uc.transfer(ctx, input)
	uc.observe(OpTransfer, input.Amount, start, err)

	if err != nil {
		return nil, &domain.OperationError{Op: OpTransfer, AccountNumber: input.SourceAccountNumber, Amount: input.Amount, Err: err}
	}

	return result, nil
}

func (uc *TransactionUseCase) transfer(ctx context.Context, input TransferInput) (*TransferResult, error) {
	req := domain.TransferRequest{
		SourceAccountNumber: input.SourceAccountNumber,
		TargetAccountNumber: input.TargetAccountNumber,
		Amount:              input.Amount,
		Description:         input.Description,
	}

	if err := req.ValidateTarget(); err != nil {
		return nil, err
	}

	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	var result *TransferResult

	err := uc.inUnit(ctx, func(ctx context.Context, tx Transaction) error {
		// Both accounts are locked before either is mutated.
		accounts, err := uc.lockAccounts(ctx, tx, req.SourceAccountNumber, req.TargetAccountNumber)
		if err != nil {
			return err
		}

		source := accounts[req.SourceAccountNumber]
		if source == nil {
			return domain.ErrAccountNotFound
		}

		if err := uc.ensureActive(ctx, tx, source); err != nil {
			return err
		}

		target := accounts[req.TargetAccountNumber]
		if target == nil {
			return fmt.Errorf("target %s: %w", req.TargetAccountNumber, domain.ErrAccountNotFound)
		}

		if err := domain.ValidateAmount(req.Amount); err != nil {
			return err
		}

		if err := source.ValidateDebit(req.Amount); err != nil {
			return err
		}

		debit, err := uc.post(ctx, tx, source, posting{
			txnType:      domain.TransactionTypeTransfer,
			direction:    domain.DirectionDebit,
			amount:       req.Amount,
			description:  req.SourceDescription(),
			counterparty: target.Number,
		})
		if err != nil {
			return err
		}

		credit, err := uc.post(ctx, tx, target, posting{
			txnType:      domain.TransactionTypeTransfer,
			direction:    domain.DirectionCredit,
			amount:       req.Amount,
			description:  req.TargetDescription(),
			counterparty: source.Number,
		})
		if err != nil {
			return err
		}

		event := domain.TransferredEvent{
			DebitTransactionID:  debit.ID,
			CreditTransactionID: credit.ID,
			SourceAccountNumber: source.Number,
			TargetAccountNumber: target.Number,
			Amount:              req.Amount.String(),
			EventAt:             debit.CreatedAt.Format(time.RFC3339Nano),
		}

		if err := uc.publish(ctx, tx, source.ID, domain.EventTypeTransferred, event.Payload(), debit.CreatedAt); err != nil {
			return err
		}

		result = &TransferResult{Debit: debit, Credit: credit}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// History returns the entries of an account within [Start, End], oldest first.
func (uc *TransactionUseCase) History(ctx context.Context, input HistoryInput) ([]*domain.Transaction, error) {
	entries, err := uc.history(ctx, input)
	if err != nil {
		return nil, &domain.OperationError{Op: OpHistory, AccountNumber: input.AccountNumber, Err: err}
	}

	return entries, nil
}

func (uc *TransactionUseCase) history(ctx context.Context, input HistoryInput) ([]*domain.Transaction, error) {
	if err := domain.ValidatePeriod(input.Start, input.End); err != nil {
		return nil, err
	}

	account, err := uc.accountRepo.GetByNumber(ctx, input.AccountNumber)
	if err != nil {
		return nil, err
	}

	return uc.ledgerRepo.ListByAccount(ctx, account.ID, input.Start, input.End)
}

// ListTransactionsInput represents input for listing the whole ledger.
type ListTransactionsInput struct {
	Limit  int
	Offset int
}

// ListTransactions lists all ledger entries, newest first.
func (uc *TransactionUseCase) ListTransactions(ctx context.Context, input ListTransactionsInput) ([]*domain.Transaction, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.ledgerRepo.List(ctx, limit, offset)
}

// inUnit runs fn inside one atomic unit. The whole unit is re-run by the
// retrier, each attempt on a fresh transaction.
func (uc *TransactionUseCase) inUnit(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	return runInTx(ctx, uc.txManager, uc.retrier, fn)
}

// lockAccounts exclusively locks the given accounts in ascending number order.
func (uc *TransactionUseCase) lockAccounts(ctx context.Context, tx Transaction, numbers ...string) (map[string]*domain.Account, error) {
	// Every unit locks in the same order, so crossing transfers cannot deadlock.
	sorted := append([]string(nil), numbers...)
	sort.Strings(sorted)

	accounts, err := uc.accountRepo.GetByNumbersForUpdate(ctx, tx, sorted)
	if err != nil {
		return nil, fmt.Errorf("lock accounts: %w", err)
	}

	byNumber := make(map[string]*domain.Account, len(accounts))
	for _, a := range accounts {
		byNumber[a.Number] = a
	}

	return byNumber, nil
}

// ensureActive rejects operations initiated by a suspended client.
func (uc *TransactionUseCase) ensureActive(ctx context.Context, tx Transaction, account *domain.Account) error {
	status, err := uc.clientRepo.GetStatus(ctx, tx, account.ClientID)
	if err != nil {
		return fmt.Errorf("client status of account %s: %w", account.Number, err)
	}

	if status == domain.ClientStatusSuspended {
		return domain.ErrClientSuspended
	}

	return nil
}

type posting struct {
	txnType      domain.TransactionType
	direction    domain.Direction
	amount       decimal.Decimal
	description  string
	counterparty string
}

// post appends one ledger entry and saves the matching balance change.
func (uc *TransactionUseCase) post(ctx context.Context, tx Transaction, account *domain.Account, p posting) (*domain.Transaction, error) {
	var newBalance decimal.Decimal

	if p.direction == domain.DirectionDebit {
		if err := account.ValidateDebit(p.amount); err != nil {
			return nil, err
		}

		newBalance = account.ApplyDebit(p.amount)
	} else {
		newBalance = account.ApplyCredit(p.amount)
	}

	// Entries of one account never go back in time.
	now := uc.clock().UTC().Truncate(time.Microsecond)
	if now.Before(account.UpdatedAt) {
		now = account.UpdatedAt
	}

	entry := &domain.Transaction{
		ID:                        uc.idGen.Generate(),
		Type:                      p.txnType,
		Direction:                 p.direction,
		Amount:                    p.amount,
		Description:               p.description,
		AccountID:                 account.ID,
		AccountNumber:             account.Number,
		CounterpartyAccountNumber: p.counterparty,
		BalanceAfter:              newBalance,
		AccountVersion:            account.Version + 1,
		CreatedAt:                 now,
	}

	if err := uc.ledgerRepo.Append(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("append ledger entry: %w", err)
	}

	if err := uc.accountRepo.UpdateBalance(ctx, tx, account.ID, newBalance, entry.AccountVersion, now); err != nil {
		return nil, fmt.Errorf("update balance: %w", err)
	}

	account.Balance = newBalance
	account.Version = entry.AccountVersion
	account.UpdatedAt = now

	return entry, nil
}

func (uc *TransactionUseCase) publish(ctx context.Context, tx Transaction, aggregateID, eventType string, payload map[string]any, at time.Time) error {
	if uc.outboxRepo == nil {
		return nil
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   aggregateID,
		AggregateType: domain.AggregateTypeAccount,
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     at,
	}

	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return fmt.Errorf("write outbox event: %w", err)
	}

	return nil
}

func (uc *TransactionUseCase) observe(op string, amount decimal.Decimal, start time.Time, err error) {
	if uc.metrics == nil {
		return
	}

	uc.metrics.OperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	if err != nil {
		uc.metrics.OperationErrors.WithLabelValues(op, errorType(err)).Inc()
		return
	}

	uc.metrics.Operations.WithLabelValues(op).Inc()
	uc.metrics.OperationAmount.WithLabelValues(op).Observe(amount.InexactFloat64())
}

func movementEvent(entry *domain.Transaction) domain.MovementEvent {
	return domain.MovementEvent{
		TransactionID: entry.ID,
		AccountNumber: entry.AccountNumber,
		Amount:        entry.Amount.String(),
		BalanceAfter:  entry.BalanceAfter.String(),
		EventAt:       entry.CreatedAt.Format(time.RFC3339Nano),
	}
}

func errorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, domain.ErrInvalidTarget):
		return "invalid_target"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, domain.ErrClientSuspended):
		return "client_suspended"
	case errors.Is(err, domain.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "internal"
	}
}
