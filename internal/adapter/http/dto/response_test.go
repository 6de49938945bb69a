package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/usecase"
)

func TestClientFromDomain(t *testing.T) {
	birth := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)
	client := &domain.Client{
		ID:        "client-1",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		BirthDate: &birth,
		Status:    domain.ClientStatusSuspended,
	}

	resp := ClientFromDomain(client)
	if resp.ID != "client-1" || resp.Status != "SUSPENDED" || resp.BirthDate != "1990-05-17" {
		t.Fatalf("unexpected client response: %+v", resp)
	}

	client.BirthDate = nil
	if resp := ClientFromDomain(client); resp.BirthDate != "" {
		t.Fatalf("expected empty birth date, got %q", resp.BirthDate)
	}

	detail := ClientDetailFromUseCase(&usecase.ClientWithAccounts{
		Client:   client,
		Accounts: []*domain.Account{{ID: "acc-1", Number: "BK1"}},
	})
	if detail.ID != "client-1" || len(detail.Accounts) != 1 || detail.Accounts[0].Number != "BK1" {
		t.Fatalf("unexpected client detail: %+v", detail)
	}
}

func TestAccountFromDomain(t *testing.T) {
	now := time.Now()
	account := &domain.Account{
		ID:        "acc-1",
		Number:    "BK0001",
		Type:      domain.AccountTypeChecking,
		ClientID:  "client-1",
		Balance:   decimal.RequireFromString("123.45"),
		Version:   2,
		CreatedAt: now,
		UpdatedAt: now,
	}

	resp := AccountFromDomain(account)
	if resp.ID != account.ID || resp.Balance != "123.45" || resp.Version != 2 || resp.Type != "CHECKING" {
		t.Fatalf("unexpected account response: %+v", resp)
	}

	list := AccountsFromDomain([]*domain.Account{account})
	if len(list) != 1 || list[0].ID != account.ID {
		t.Fatalf("AccountsFromDomain returned %+v", list)
	}

	details := AccountDetailsFromUseCase(&usecase.AccountDetails{Account: account, OwnerName: "Ada Lovelace"})
	if details.OwnerName != "Ada Lovelace" || details.Number != "BK0001" {
		t.Fatalf("unexpected account details: %+v", details)
	}
}

func TestTransferFromUseCase(t *testing.T) {
	debit := &domain.Transaction{
		ID:                        "tx-1",
		AccountNumber:             "BK1",
		CounterpartyAccountNumber: "BK2",
		Type:                      domain.TransactionTypeTransfer,
		Direction:                 domain.DirectionDebit,
		Amount:                    decimal.RequireFromString("10.5"),
		BalanceAfter:              decimal.RequireFromString("89.5"),
	}
	credit := &domain.Transaction{
		ID:                        "tx-2",
		AccountNumber:             "BK2",
		CounterpartyAccountNumber: "BK1",
		Type:                      domain.TransactionTypeTransfer,
		Direction:                 domain.DirectionCredit,
		Amount:                    decimal.RequireFromString("10.5"),
		BalanceAfter:              decimal.RequireFromString("10.5"),
	}

	resp := TransferFromUseCase(&usecase.TransferResult{Debit: debit, Credit: credit})
	if resp.Debit.Direction != "DEBIT" || resp.Debit.Amount != "10.5" || resp.Debit.BalanceAfter != "89.5" {
		t.Fatalf("unexpected debit leg: %+v", resp.Debit)
	}
	if resp.Credit.CounterpartyAccountNumber != "BK1" || resp.Credit.ID != "tx-2" {
		t.Fatalf("unexpected credit leg: %+v", resp.Credit)
	}
}

func TestReportFromUseCase(t *testing.T) {
	report := &usecase.ReconciliationReport{
		TotalAccounts:      2,
		ReconciledAccounts: 1,
		Discrepancies: []*usecase.ReconciliationResult{{
			AccountNumber:     "BK2",
			RecordedBalance:   decimal.NewFromInt(15),
			CalculatedBalance: decimal.NewFromInt(10),
			Difference:        decimal.NewFromInt(5),
		}},
	}

	resp := ReportFromUseCase(report)
	if resp.TotalAccounts != 2 || len(resp.Discrepancies) != 1 || resp.Discrepancies[0].Difference != "5" {
		t.Fatalf("unexpected report response: %+v", resp)
	}
	if resp.LedgerConsistent {
		t.Fatal("expected ledger to be reported inconsistent")
	}
}
