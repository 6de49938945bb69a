package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestRenderStatement(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)

	s := Statement{
		HolderName: "Ada Lovelace",
		Account: &Account{
			Number:  "BK0001",
			Type:    AccountTypeChecking,
			Balance: decimal.NewFromInt(70),
		},
		Start: start,
		End:   end,
		Transactions: []*Transaction{
			{
				CreatedAt:   time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC),
				Type:        TransactionTypeDeposit,
				Direction:   DirectionCredit,
				Amount:      decimal.NewFromInt(100),
				Description: DefaultDepositDescription,
			},
			{
				CreatedAt:   time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC),
				Type:        TransactionTypeWithdrawal,
				Direction:   DirectionDebit,
				Amount:      decimal.NewFromInt(30),
				Description: DefaultWithdrawalDescription,
			},
		},
	}

	out := RenderStatement(s)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")

	if len(lines) != 10 {
		t.Fatalf("expected 10 lines, got %d:\n%s", len(lines), out)
	}

	wantPrefixes := []string{
		"===== ACCOUNT STATEMENT =====",
		"Holder: Ada Lovelace",
		"Account: BK0001 (CHECKING)",
		"Period: 2024-01-01 to 2024-01-31",
		"Current balance: 70.00",
		"----",
		"Date ",
		"2024-01-02 09:30     | DEPOSIT    | 100.00       | deposit to account",
		"2024-01-03 10:00     | WITHDRAWAL | -30.00       | withdrawal from account",
		"----",
	}

	for i, prefix := range wantPrefixes {
		if !strings.HasPrefix(lines[i], prefix) {
			t.Errorf("line %d: expected prefix %q, got %q", i, prefix, lines[i])
		}
	}
}

func TestRenderStatement_Empty(t *testing.T) {
	out := RenderStatement(Statement{
		HolderName: "Nobody",
		Account:    &Account{Number: "BK0002", Type: AccountTypeSavings},
		Start:      time.Now(),
		End:        time.Now(),
	})

	if !strings.Contains(out, "Current balance: 0.00") {
		t.Errorf("expected zero balance line, got:\n%s", out)
	}

	if strings.Count(out, "\n") != 8 {
		t.Errorf("expected header and rules only, got:\n%s", out)
	}
}
