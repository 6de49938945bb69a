package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/bankcore/internal/adapter/http/dto"
	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/usecase"
)

type accountServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	getFn    func(ctx context.Context, number string) (*usecase.AccountDetails, error)
	listFn   func(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error)
}

func (s *accountServiceStub) CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
	return s.createFn(ctx, input)
}

func (s *accountServiceStub) GetAccount(ctx context.Context, number string) (*usecase.AccountDetails, error) {
	return s.getFn(ctx, number)
}

func (s *accountServiceStub) ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error) {
	return s.listFn(ctx, input)
}

type statusGateStub struct {
	status domain.ClientStatus
	err    error
}

func (s *statusGateStub) StatusOf(ctx context.Context, accountNumber string) (domain.ClientStatus, error) {
	return s.status, s.err
}

func TestAccountHandler_Create_Success(t *testing.T) {
	account := &domain.Account{
		ID:       "acc-1",
		Number:   "BK0001",
		Type:     domain.AccountTypeSavings,
		ClientID: "client-1",
		Balance:  decimal.Zero,
	}

	var captured usecase.CreateAccountInput
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			captured = input
			return account, nil
		},
	}, &statusGateStub{})

	body, _ := json.Marshal(dto.CreateAccountRequest{ClientID: "client-1", Type: "SAVINGS"})

	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.ClientID != "client-1" || captured.Type != domain.AccountTypeSavings {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Number != "BK0001" || resp.Balance != "0" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestAccountHandler_Create_InvalidJSON(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			t.Fatal("CreateAccount should not be called for invalid payload")
			return nil, nil
		},
	}, &statusGateStub{})

	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewBufferString("{invalid json"))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_Create_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"suspended client", domain.ErrClientSuspended, http.StatusForbidden},
		{"missing client", domain.ErrClientNotFound, http.StatusNotFound},
		{"bad type", domain.ErrInvalidAccountType, http.StatusBadRequest},
		{"db error", errors.New("db error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAccountHandler(&accountServiceStub{
				createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
					return nil, tt.err
				},
			}, &statusGateStub{})

			body, _ := json.Marshal(dto.CreateAccountRequest{ClientID: "c", Type: "CHECKING"})
			req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			handler.Create(rec, req)

			if rec.Code != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, rec.Code)
			}
		})
	}
}

func TestAccountHandler_Get(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		getFn: func(ctx context.Context, number string) (*usecase.AccountDetails, error) {
			if number != "BK0001" {
				t.Fatalf("expected number BK0001, got %s", number)
			}
			return &usecase.AccountDetails{
				Account:   &domain.Account{ID: "acc-1", Number: "BK0001", Balance: decimal.NewFromInt(5)},
				OwnerName: "Ada Lovelace",
			}, nil
		},
	}, &statusGateStub{})

	req := httptest.NewRequest(http.MethodGet, "/accounts/BK0001", nil)
	req = setChiURLParam(req, "number", "BK0001")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.OwnerName != "Ada Lovelace" {
		t.Fatalf("expected owner name, got %+v", resp)
	}
}

func TestAccountHandler_Get_NotFound(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		getFn: func(ctx context.Context, number string) (*usecase.AccountDetails, error) {
			return nil, domain.ErrAccountNotFound
		},
	}, &statusGateStub{})

	req := httptest.NewRequest(http.MethodGet, "/accounts/BK404", nil)
	req = setChiURLParam(req, "number", "BK404")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAccountHandler_Get_MissingNumber(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{}, &statusGateStub{})

	req := httptest.NewRequest(http.MethodGet, "/accounts/", nil)
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_List(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		listFn: func(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error) {
			if input.Limit != 5 || input.Offset != 2 {
				t.Fatalf("expected limit=5 offset=2, got %+v", input)
			}
			return []*domain.Account{{ID: "acc-1"}, {ID: "acc-2"}}, nil
		},
	}, &statusGateStub{})

	req := httptest.NewRequest(http.MethodGet, "/accounts?limit=5&offset=2", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.ListAccountsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(resp.Accounts))
	}
}

func TestAccountHandler_Status(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{}, &statusGateStub{status: domain.ClientStatusSuspended})

	req := httptest.NewRequest(http.MethodGet, "/accounts/BK1/status", nil)
	req = setChiURLParam(req, "number", "BK1")
	rec := httptest.NewRecorder()

	handler.Status(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.AccountStatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "SUSPENDED" || resp.AccountNumber != "BK1" {
		t.Fatalf("unexpected status response %+v", resp)
	}

	handler = NewAccountHandler(&accountServiceStub{}, &statusGateStub{err: domain.ErrAccountNotFound})
	rec = httptest.NewRecorder()
	handler.Status(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func setChiURLParam(r *http.Request, key, value string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, &chi.Context{
		URLParams: chi.RouteParams{
			Keys:   []string{key},
			Values: []string{value},
		},
	}))
}
