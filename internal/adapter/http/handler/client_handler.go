package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bankcore/internal/adapter/http/dto"
	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/usecase"
)

// ClientService defines the behavior needed by ClientHandler.
type ClientService interface {
	CreateClient(ctx context.Context, input usecase.ClientProfile) (*domain.Client, error)
	UpdateClient(ctx context.Context, id string, input usecase.ClientProfile) (*domain.Client, error)
	GetClient(ctx context.Context, id string) (*usecase.ClientWithAccounts, error)
	ListClients(ctx context.Context, input usecase.ListClientsInput) ([]*domain.Client, error)
	SuspendClient(ctx context.Context, id string) (*domain.Client, error)
	ActivateClient(ctx context.Context, id string) (*domain.Client, error)
	DeleteClient(ctx context.Context, id string) error
}

// ClientHandler handles client administration requests.
type ClientHandler struct {
	clientUC ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientUC ClientService) *ClientHandler {
	return &ClientHandler{clientUC: clientUC}
}

// Create registers a new client.
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeClientRequest(w, r)
	if !ok {
		return
	}

	client, err := h.clientUC.CreateClient(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create client", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.ClientFromDomain(client))
}

// Update replaces a client's profile. Status is not touched.
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeClientRequest(w, r)
	if !ok {
		return
	}

	client, err := h.clientUC.UpdateClient(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update client", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ClientFromDomain(client))
}

// Get retrieves a client with its accounts.
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.clientUC.GetClient(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get client", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ClientDetailFromUseCase(result))
}

// List lists clients.
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.clientUC.ListClients(r.Context(), usecase.ListClientsInput{
		Limit:  parseIntQuery(r, "limit", 20),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list clients", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListClientsResponse{
		Clients: dto.ClientsFromDomain(clients),
		Total:   int64(len(clients)),
	})
}

// Suspend blocks a client from initiating operations.
func (h *ClientHandler) Suspend(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.clientUC.SuspendClient)
}

// Activate lifts a suspension.
func (h *ClientHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.clientUC.ActivateClient)
}

func (h *ClientHandler) setStatus(w http.ResponseWriter, r *http.Request, fn func(context.Context, string) (*domain.Client, error)) {
	client, err := fn(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to change client status", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ClientFromDomain(client))
}

// Delete removes a client and its accounts when none has ledger history.
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.clientUC.DeleteClient(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, mapDomainError(err), "failed to delete client", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func decodeClientRequest(w http.ResponseWriter, r *http.Request) (usecase.ClientProfile, bool) {
	var req dto.ClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return usecase.ClientProfile{}, false
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid birth date", err.Error())
		return usecase.ClientProfile{}, false
	}

	return input, true
}
