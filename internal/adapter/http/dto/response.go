package dto

import (
	"time"

	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/usecase"
)

// ClientResponse represents a client in API responses.
type ClientResponse struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	Address     string    `json:"address,omitempty"`
	Nationality string    `json:"nationality,omitempty"`
	Gender      string    `json:"gender,omitempty"`
	BirthDate   string    `json:"birth_date,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ClientFromDomain converts domain client to response.
func ClientFromDomain(c *domain.Client) *ClientResponse {
	resp := &ClientResponse{
		ID:          c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       c.Email,
		Phone:       c.Phone,
		Address:     c.Address,
		Nationality: c.Nationality,
		Gender:      c.Gender,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	if c.BirthDate != nil {
		resp.BirthDate = c.BirthDate.Format(BirthDateLayout)
	}

	return resp
}

// ClientsFromDomain converts domain clients to responses.
func ClientsFromDomain(clients []*domain.Client) []*ClientResponse {
	result := make([]*ClientResponse, len(clients))
	for i, c := range clients {
		result[i] = ClientFromDomain(c)
	}
	return result
}

// ClientDetailResponse is a client together with its accounts.
type ClientDetailResponse struct {
	*ClientResponse
	Accounts []*AccountResponse `json:"accounts"`
}

// ClientDetailFromUseCase converts a client and its accounts to response.
func ClientDetailFromUseCase(c *usecase.ClientWithAccounts) *ClientDetailResponse {
	return &ClientDetailResponse{
		ClientResponse: ClientFromDomain(c.Client),
		Accounts:       AccountsFromDomain(c.Accounts),
	}
}

// ListClientsResponse represents a list of clients.
type ListClientsResponse struct {
	Clients []*ClientResponse `json:"clients"`
	Total   int64             `json:"total"`
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID        string    `json:"id"`
	Number    string    `json:"number"`
	Type      string    `json:"type"`
	ClientID  string    `json:"client_id"`
	OwnerName string    `json:"owner_name,omitempty"`
	Balance   string    `json:"balance"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:        a.ID,
		Number:    a.Number,
		Type:      string(a.Type),
		ClientID:  a.ClientID,
		Balance:   a.Balance.String(),
		Version:   a.Version,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// AccountDetailsFromUseCase converts an account with its owner name to response.
func AccountDetailsFromUseCase(d *usecase.AccountDetails) *AccountResponse {
	resp := AccountFromDomain(d.Account)
	resp.OwnerName = d.OwnerName
	return resp
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse represents a list of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// AccountStatusResponse is the status of an account's owner.
type AccountStatusResponse struct {
	AccountNumber string `json:"account_number"`
	Status        string `json:"status"`
}

// TransactionResponse represents a ledger entry in API responses.
type TransactionResponse struct {
	ID                        string    `json:"id"`
	AccountNumber             string    `json:"account_number"`
	CounterpartyAccountNumber string    `json:"counterparty_account_number,omitempty"`
	Type                      string    `json:"type"`
	Direction                 string    `json:"direction"`
	Amount                    string    `json:"amount"`
	BalanceAfter              string    `json:"balance_after"`
	Description               string    `json:"description"`
	AccountVersion            int64     `json:"account_version"`
	CreatedAt                 time.Time `json:"created_at"`
}

// TransactionFromDomain converts domain transaction to response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:                        t.ID,
		AccountNumber:             t.AccountNumber,
		CounterpartyAccountNumber: t.CounterpartyAccountNumber,
		Type:                      string(t.Type),
		Direction:                 string(t.Direction),
		Amount:                    t.Amount.String(),
		BalanceAfter:              t.BalanceAfter.String(),
		Description:               t.Description,
		AccountVersion:            t.AccountVersion,
		CreatedAt:                 t.CreatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(transactions []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(transactions))
	for i, t := range transactions {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// ListTransactionsResponse represents a list of ledger entries.
type ListTransactionsResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Total        int64                  `json:"total"`
}

// TransferResponse holds both legs of a transfer.
type TransferResponse struct {
	Debit  *TransactionResponse `json:"debit"`
	Credit *TransactionResponse `json:"credit"`
}

// TransferFromUseCase converts a transfer result to response.
func TransferFromUseCase(r *usecase.TransferResult) *TransferResponse {
	return &TransferResponse{
		Debit:  TransactionFromDomain(r.Debit),
		Credit: TransactionFromDomain(r.Credit),
	}
}

// ReconciliationResponse is the reconciliation of one account.
type ReconciliationResponse struct {
	AccountNumber     string    `json:"account_number"`
	RecordedBalance   string    `json:"recorded_balance"`
	CalculatedBalance string    `json:"calculated_balance"`
	Difference        string    `json:"difference"`
	IsReconciled      bool      `json:"is_reconciled"`
	LastChecked       time.Time `json:"last_checked"`
}

// ReconciliationFromUseCase converts a reconciliation result to response.
func ReconciliationFromUseCase(r *usecase.ReconciliationResult) *ReconciliationResponse {
	return &ReconciliationResponse{
		AccountNumber:     r.AccountNumber,
		RecordedBalance:   r.RecordedBalance.String(),
		CalculatedBalance: r.CalculatedBalance.String(),
		Difference:        r.Difference.String(),
		IsReconciled:      r.IsReconciled,
		LastChecked:       r.LastChecked,
	}
}

// ReconciliationReportResponse is a full reconciliation report.
type ReconciliationReportResponse struct {
	TotalAccounts      int                       `json:"total_accounts"`
	ReconciledAccounts int                       `json:"reconciled_accounts"`
	Discrepancies      []*ReconciliationResponse `json:"discrepancies"`
	LedgerConsistent   bool                      `json:"ledger_consistent"`
	CheckedAt          time.Time                 `json:"checked_at"`
}

// ReportFromUseCase converts a reconciliation report to response.
func ReportFromUseCase(r *usecase.ReconciliationReport) *ReconciliationReportResponse {
	discrepancies := make([]*ReconciliationResponse, len(r.Discrepancies))
	for i, d := range r.Discrepancies {
		discrepancies[i] = ReconciliationFromUseCase(d)
	}

	return &ReconciliationReportResponse{
		TotalAccounts:      r.TotalAccounts,
		ReconciledAccounts: r.ReconciledAccounts,
		Discrepancies:      discrepancies,
		LedgerConsistent:   r.LedgerConsistent,
		CheckedAt:          r.CheckedAt,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
