package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// Account errors
	ErrAccountNotFound     = errors.New("account not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrDuplicateAccount    = errors.New("account already exists")

	// Client errors
	ErrClientNotFound   = errors.New("client not found")
	ErrClientSuspended  = errors.New("client is suspended")
	ErrClientHasHistory = errors.New("client accounts have ledger history")
	ErrDuplicateEmail   = errors.New("email already registered")

	// Operation errors
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrInvalidTarget = errors.New("invalid target account")
	ErrSameAccount   = fmt.Errorf("%w: cannot transfer to same account", ErrInvalidTarget)
	ErrInvalidPeriod = errors.New("period end is before start")
)

// IsNotFound reports whether err means a missing account or client.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrAccountNotFound) || errors.Is(err, ErrClientNotFound)
}

// OperationError carries the context of a failed engine operation.
type OperationError struct {
	Op            string
	AccountNumber string
	Amount        decimal.Decimal
	Err           error
}

func (e *OperationError) Error() string {
	if e.AccountNumber == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}

	if e.Amount.IsZero() {
		return fmt.Sprintf("%s on account %s: %v", e.Op, e.AccountNumber, e.Err)
	}

	return fmt.Sprintf("%s %s on account %s: %v", e.Op, e.Amount.StringFixed(2), e.AccountNumber, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}
