package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bankcore/internal/adapter/http/dto"
	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/usecase"
)

// TransactionService defines the engine operations exposed over HTTP.
type TransactionService interface {
	Deposit(ctx context.Context, input usecase.DepositInput) (*domain.Transaction, error)
	Withdraw(ctx context.Context, input usecase.WithdrawInput) (*domain.Transaction, error)
	Transfer(ctx context.Context, input usecase.TransferInput) (*usecase.TransferResult, error)
	History(ctx context.Context, input usecase.HistoryInput) ([]*domain.Transaction, error)
	ListTransactions(ctx context.Context, input usecase.ListTransactionsInput) ([]*domain.Transaction, error)
}

// StatementService renders statements.
type StatementService interface {
	Statement(ctx context.Context, input usecase.StatementInput) (string, error)
}

// TransactionHandler handles deposits, withdrawals, transfers and ledger reads.
type TransactionHandler struct {
	transactionUC TransactionService
	statementUC   StatementService
	now           func() time.Time
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionUC TransactionService, statementUC StatementService) *TransactionHandler {
	return &TransactionHandler{
		transactionUC: transactionUC,
		statementUC:   statementUC,
		now:           time.Now,
	}
}

// Deposit credits an account.
func (h *TransactionHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req dto.MovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToDepositInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}

	entry, err := h.transactionUC.Deposit(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to deposit", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(entry))
}

// Withdraw debits an account.
func (h *TransactionHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req dto.MovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToWithdrawInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}

	entry, err := h.transactionUC.Withdraw(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to withdraw", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(entry))
}

// Transfer moves funds between two accounts.
func (h *TransactionHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req dto.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}

	result, err := h.transactionUC.Transfer(r.Context(), input)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to transfer", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.TransferFromUseCase(result))
}

// List lists all ledger entries, newest first.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.transactionUC.ListTransactions(r.Context(), usecase.ListTransactionsInput{
		Limit:  parseIntQuery(r, "limit", 20),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.TransactionsFromDomain(entries),
		Total:        int64(len(entries)),
	})
}

// History lists an account's entries within the period, oldest first.
func (h *TransactionHandler) History(w http.ResponseWriter, r *http.Request) {
	start, end, err := parsePeriod(r, h.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period", err.Error())
		return
	}

	entries, err := h.transactionUC.History(r.Context(), usecase.HistoryInput{
		AccountNumber: chi.URLParam(r, "number"),
		Start:         start,
		End:           end,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get history", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.TransactionsFromDomain(entries),
		Total:        int64(len(entries)),
	})
}

// Statement renders the account's statement as plain text.
func (h *TransactionHandler) Statement(w http.ResponseWriter, r *http.Request) {
	start, end, err := parsePeriod(r, h.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period", err.Error())
		return
	}

	text, err := h.statementUC.Statement(r.Context(), usecase.StatementInput{
		AccountNumber: chi.URLParam(r, "number"),
		Start:         start,
		End:           end,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to render statement", err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(text))
}
