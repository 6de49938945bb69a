package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestAccount_ValidateDebit(t *testing.T) {
	tests := []struct {
		name        string
		balance     decimal.Decimal
		debitAmount decimal.Decimal
		expectError bool
	}{
		{
			name:        "debit more than balance",
			balance:     decimal.NewFromInt(100),
			debitAmount: decimal.NewFromInt(150),
			expectError: true,
		},
		{
			name:        "debit exact balance",
			balance:     decimal.NewFromInt(100),
			debitAmount: decimal.NewFromInt(100),
			expectError: false,
		},
		{
			name:        "debit less than balance",
			balance:     decimal.NewFromInt(100),
			debitAmount: decimal.NewFromInt(50),
			expectError: false,
		},
		{
			name:        "debit from empty account",
			balance:     decimal.Zero,
			debitAmount: decimal.RequireFromString("0.01"),
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := &Account{Balance: tt.balance}

			err := acc.ValidateDebit(tt.debitAmount)

			if tt.expectError && !errors.Is(err, ErrInsufficientBalance) {
				t.Errorf("expected ErrInsufficientBalance, got %v", err)
			}

			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestAccount_ApplyDebit(t *testing.T) {
	acc := &Account{Balance: decimal.NewFromInt(100)}
	newBalance := acc.ApplyDebit(decimal.NewFromInt(30))

	if !newBalance.Equal(decimal.NewFromInt(70)) {
		t.Errorf("expected 70, got %s", newBalance)
	}
}

func TestAccount_ApplyCredit(t *testing.T) {
	acc := &Account{Balance: decimal.RequireFromString("10.25")}
	newBalance := acc.ApplyCredit(decimal.RequireFromString("0.75"))

	if !newBalance.Equal(decimal.NewFromInt(11)) {
		t.Errorf("expected 11, got %s", newBalance)
	}
}

func TestAccountType_IsValid(t *testing.T) {
	if !AccountTypeChecking.IsValid() || !AccountTypeSavings.IsValid() {
		t.Error("expected known account types to be valid")
	}

	if AccountType("CRYPTO").IsValid() {
		t.Error("expected unknown account type to be invalid")
	}
}

func TestClient(t *testing.T) {
	c := &Client{FirstName: "Ada", LastName: "Lovelace", Status: ClientStatusActive}

	if c.FullName() != "Ada Lovelace" {
		t.Errorf("unexpected full name %q", c.FullName())
	}

	if c.IsSuspended() {
		t.Error("active client reported as suspended")
	}

	c.Status = ClientStatusSuspended
	if !c.IsSuspended() {
		t.Error("suspended client not reported as suspended")
	}
}
