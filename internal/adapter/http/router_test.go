package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/bankcore/internal/adapter/http/dto"
	"github.com/iho/bankcore/internal/adapter/http/handler"
	apimiddleware "github.com/iho/bankcore/internal/adapter/http/middleware"
	"github.com/iho/bankcore/internal/adapter/repository/memory"
	"github.com/iho/bankcore/internal/adapter/repository/postgres"
	"github.com/iho/bankcore/internal/infrastructure/metrics"
	"github.com/iho/bankcore/internal/usecase"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1, nil)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_IdempotentDepositAppliesOnce(t *testing.T) {
	store := newMemoryIdempotencyStore()
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	number := openAccount(t, router)

	for i := 0; i < 2; i++ {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/transactions/deposit",
			dto.MovementRequest{AccountNumber: number, Amount: "10.00"},
			map[string]string{apimiddleware.IdempotencyKeyHeader: "dep-1"})
		if rec.Code != http.StatusCreated && rec.Code != http.StatusOK {
			t.Fatalf("deposit %d failed: %d %s", i, rec.Code, rec.Body.String())
		}
		if i == 1 && rec.Header().Get(apimiddleware.IdempotencyReplayHeader) != "true" {
			t.Fatal("expected the second deposit to be a replay")
		}
	}

	if got := accountBalance(t, router, number); got != "10" {
		t.Fatalf("expected balance 10 after replay, got %s", got)
	}
}

func TestNewRouter_EndToEndFlow(t *testing.T) {
	router := NewRouter(newRouterConfig())

	source := openAccount(t, router)
	target := openAccount(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/transactions/deposit",
		dto.MovementRequest{AccountNumber: source, Amount: "100"}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("deposit failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/api/v1/transactions/transfer",
		dto.TransferRequest{SourceAccountNumber: source, TargetAccountNumber: target, Amount: "30.50", Description: "rent"}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("transfer failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/api/v1/transactions/withdraw",
		dto.MovementRequest{AccountNumber: target, Amount: "1000"}, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected overdraft to be rejected with 409, got %d", rec.Code)
	}

	if got := accountBalance(t, router, source); got != "69.5" {
		t.Fatalf("expected source balance 69.5, got %s", got)
	}
	if got := accountBalance(t, router, target); got != "30.5" {
		t.Fatalf("expected target balance 30.5, got %s", got)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/accounts/"+source+"/history", nil, nil)
	var history dto.ListTransactionsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &history); err != nil {
		t.Fatalf("failed to decode history: %v", err)
	}
	if history.Total != 2 || history.Transactions[1].Direction != "DEBIT" {
		t.Fatalf("unexpected history %+v", history)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/accounts/"+source+"/statement", nil, nil)
	if !strings.Contains(rec.Body.String(), "-30.50") {
		t.Fatalf("expected debit in statement, got %q", rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/ledger/reconciliation", nil, nil)
	var report dto.ReconciliationReportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("failed to decode report: %v", err)
	}
	if report.TotalAccounts != 2 || len(report.Discrepancies) != 0 || !report.LedgerConsistent {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestNewRouter_SuspendedClientCannotWithdraw(t *testing.T) {
	router := NewRouter(newRouterConfig())

	clientID := createClient(t, router, "grace@example.com")
	number := openAccountFor(t, router, clientID)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/clients/"+clientID+"/suspend", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("suspend failed: %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/accounts/"+number+"/status", nil, nil)
	if !strings.Contains(rec.Body.String(), "SUSPENDED") {
		t.Fatalf("expected SUSPENDED status, got %s", rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/api/v1/transactions/deposit",
		dto.MovementRequest{AccountNumber: number, Amount: "5"}, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for suspended client, got %d", rec.Code)
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"GET /metrics",
		"POST /api/v1/clients/",
		"POST /api/v1/clients/{id}/suspend",
		"POST /api/v1/accounts/",
		"GET /api/v1/accounts/{number}",
		"GET /api/v1/accounts/{number}/history",
		"GET /api/v1/accounts/{number}/statement",
		"POST /api/v1/transactions/deposit",
		"POST /api/v1/transactions/withdraw",
		"POST /api/v1/transactions/transfer",
		"GET /api/v1/transactions/",
		"GET /api/v1/ledger/reconciliation",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	store := memory.NewStore()
	txManager := memory.NewTxManager(store)
	clientRepo := memory.NewClientRepository(store)
	accountRepo := memory.NewAccountRepository(store)
	ledgerRepo := memory.NewTransactionRepository(store)
	outboxRepo := memory.NewOutboxRepository(store)
	idGen := postgres.NewULIDGenerator()

	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegisterer(reg)

	clientUC := usecase.NewClientUseCase(txManager, clientRepo, accountRepo, ledgerRepo, idGen, m)
	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, clientRepo, idGen, postgres.NewAccountNumberGenerator(), 0, m)
	transactionUC := usecase.NewTransactionUseCase(txManager, accountRepo, clientRepo, ledgerRepo, outboxRepo, idGen, nil, m)
	statementUC := usecase.NewStatementUseCase(accountRepo, clientRepo, transactionUC)
	reconciliationUC := usecase.NewReconciliationUseCase(txManager, accountRepo, ledgerRepo, memory.NewLedgerRepository(store), m)

	cfg := RouterConfig{
		ClientHandler:      handler.NewClientHandler(clientUC),
		AccountHandler:     handler.NewAccountHandler(accountUC, usecase.NewClientStatusGate(accountRepo, clientRepo)),
		TransactionHandler: handler.NewTransactionHandler(transactionUC, statementUC),
		LedgerHandler:      handler.NewLedgerHandler(reconciliationUC),
		HealthHandler:      handler.NewHealthHandler(nil),
		Logger:             zerolog.Nop(),
		Metrics:            m,
		MetricsHandler:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func createClient(t *testing.T, router http.Handler, email string) string {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/clients/",
		dto.ClientRequest{FirstName: "Grace", LastName: "Hopper", Email: email}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create client failed: %d %s", rec.Code, rec.Body.String())
	}

	var client dto.ClientResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &client); err != nil {
		t.Fatalf("failed to decode client: %v", err)
	}

	return client.ID
}

func openAccountFor(t *testing.T, router http.Handler, clientID string) string {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/accounts/",
		dto.CreateAccountRequest{ClientID: clientID, Type: "CHECKING"}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("open account failed: %d %s", rec.Code, rec.Body.String())
	}

	var account dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &account); err != nil {
		t.Fatalf("failed to decode account: %v", err)
	}

	return account.Number
}

var clientSeq int

func openAccount(t *testing.T, router http.Handler) string {
	t.Helper()

	clientSeq++
	email := "client" + strings.Repeat("x", clientSeq) + "@example.com"

	return openAccountFor(t, router, createClient(t, router, email))
}

func accountBalance(t *testing.T, router http.Handler, number string) string {
	t.Helper()

	rec := doJSON(t, router, http.MethodGet, "/api/v1/accounts/"+number, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get account failed: %d %s", rec.Code, rec.Body.String())
	}

	var account dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &account); err != nil {
		t.Fatalf("failed to decode account: %v", err)
	}

	return account.Balance
}

// memoryIdempotencyStore is an in-process usecase.IdempotencyStore.
type memoryIdempotencyStore struct {
	values map[string][]byte
}

func newMemoryIdempotencyStore() *memoryIdempotencyStore {
	return &memoryIdempotencyStore{values: map[string][]byte{}}
}

func (s *memoryIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if v, ok := s.values[key]; ok {
		return true, v, nil
	}
	s.values[key] = []byte(usecase.IdempotencyPending)
	return false, nil, nil
}

func (s *memoryIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	s.values[key] = append([]byte(nil), response...)
	return nil
}

func (s *memoryIdempotencyStore) Release(ctx context.Context, key string) error {
	delete(s.values, key)
	return nil
}
