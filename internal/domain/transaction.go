package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType identifies the operation that produced a ledger entry.
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
	TransactionTypeTransfer   TransactionType = "TRANSFER"
)

// Direction is the economic effect of an entry on its account.
type Direction string

const (
	DirectionCredit Direction = "CREDIT"
	DirectionDebit  Direction = "DEBIT"
)

// Default descriptions applied when the caller leaves one out.
const (
	DefaultDepositDescription    = "deposit to account"
	DefaultWithdrawalDescription = "withdrawal from account"
)

// Transaction is an immutable ledger entry on a single account.
// Amount is always positive; Direction carries the sign.
type Transaction struct {
	CreatedAt                 time.Time
	ID                        string
	AccountID                 string
	AccountNumber             string
	CounterpartyAccountNumber string
	Description               string
	Type                      TransactionType
	Direction                 Direction
	Amount                    decimal.Decimal
	BalanceAfter              decimal.Decimal
	AccountVersion            int64
}

// SignedAmount returns the amount with the sign of its direction.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Direction == DirectionDebit {
		return t.Amount.Neg()
	}

	return t.Amount
}

// HasCounterparty reports whether the entry is one leg of a transfer.
func (t *Transaction) HasCounterparty() bool {
	return t.CounterpartyAccountNumber != ""
}
