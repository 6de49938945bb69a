package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TransferRequest describes a money movement between two accounts.
type TransferRequest struct {
	SourceAccountNumber string
	TargetAccountNumber string
	Amount              decimal.Decimal
	Description         string
}

// ValidateTarget checks the target before any account is looked up. The
// amount is checked later, once both accounts are known to exist.
func (t *TransferRequest) ValidateTarget() error {
	if strings.TrimSpace(t.TargetAccountNumber) == "" {
		return ErrInvalidTarget
	}

	if t.SourceAccountNumber == t.TargetAccountNumber {
		return ErrSameAccount
	}

	return nil
}

// SourceDescription is the text recorded on the debited leg.
func (t *TransferRequest) SourceDescription() string {
	return legDescription("transfer to "+t.TargetAccountNumber, t.Description)
}

// TargetDescription is the text recorded on the credited leg.
func (t *TransferRequest) TargetDescription() string {
	return legDescription("received from "+t.SourceAccountNumber, t.Description)
}

func legDescription(prefix, description string) string {
	if description == "" {
		return prefix
	}

	return fmt.Sprintf("%s: %s", prefix, description)
}
