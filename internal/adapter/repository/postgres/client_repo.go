package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/infrastructure/postgres/generated"
	"github.com/iho/bankcore/internal/usecase"
)

const clientsEmailKey = "clients_email_key"

// ClientRepository implements usecase.ClientRepository.
type ClientRepository struct {
	queries *generated.Queries
}

// NewClientRepository creates a new ClientRepository.
func NewClientRepository(db generated.DBTX) *ClientRepository {
	return &ClientRepository{queries: generated.New(db)}
}

func mapClientWriteError(err error) error {
	if name, ok := constraintViolation(err, pgErrUniqueViolation); ok && name == clientsEmailKey {
		return domain.ErrDuplicateEmail
	}

	return err
}

// Create creates a new client.
func (r *ClientRepository) Create(ctx context.Context, tx usecase.Transaction, client *domain.Client) error {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return err
	}

	_, err = generated.New(pgxTx).CreateClient(ctx, generated.CreateClientParams{
		ID:          client.ID,
		FirstName:   client.FirstName,
		LastName:    client.LastName,
		Email:       client.Email,
		Phone:       client.Phone,
		Address:     client.Address,
		Nationality: client.Nationality,
		Gender:      client.Gender,
		BirthDate:   timeToPgDate(client.BirthDate),
		Status:      string(client.Status),
		CreatedAt:   timeToPgTimestamptz(client.CreatedAt),
		UpdatedAt:   timeToPgTimestamptz(client.UpdatedAt),
	})

	return mapClientWriteError(err)
}

// Update replaces the profile fields of a client. Status is left untouched.
func (r *ClientRepository) Update(ctx context.Context, tx usecase.Transaction, client *domain.Client) error {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return err
	}

	n, err := generated.New(pgxTx).UpdateClientProfile(ctx, generated.UpdateClientProfileParams{
		ID:          client.ID,
		FirstName:   client.FirstName,
		LastName:    client.LastName,
		Email:       client.Email,
		Phone:       client.Phone,
		Address:     client.Address,
		Nationality: client.Nationality,
		Gender:      client.Gender,
		BirthDate:   timeToPgDate(client.BirthDate),
		UpdatedAt:   timeToPgTimestamptz(client.UpdatedAt),
	})
	if err != nil {
		return mapClientWriteError(err)
	}

	if n == 0 {
		return domain.ErrClientNotFound
	}

	return nil
}

// GetByID retrieves a client by ID.
func (r *ClientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	row, err := r.queries.GetClientByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrClientNotFound
		}

		return nil, err
	}

	return rowToClient(row), nil
}

// GetStatus reads a client's status inside tx.
func (r *ClientRepository) GetStatus(ctx context.Context, tx usecase.Transaction, id string) (domain.ClientStatus, error) {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return "", err
	}

	status, err := generated.New(pgxTx).GetClientStatus(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrClientNotFound
		}

		return "", err
	}

	return domain.ClientStatus(status), nil
}

// UpdateStatus sets a client's status.
func (r *ClientRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.ClientStatus, updatedAt time.Time) error {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return err
	}

	n, err := generated.New(pgxTx).UpdateClientStatus(ctx, generated.UpdateClientStatusParams{
		ID:        id,
		Status:    string(status),
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return err
	}

	if n == 0 {
		return domain.ErrClientNotFound
	}

	return nil
}

// List lists clients with pagination.
func (r *ClientRepository) List(ctx context.Context, limit, offset int) ([]*domain.Client, error) {
	rows, err := r.queries.ListClients(ctx, generated.ListClientsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	clients := make([]*domain.Client, 0, len(rows))
	for _, row := range rows {
		clients = append(clients, rowToClient(row))
	}

	return clients, nil
}

// Delete removes a client. Remaining accounts block the delete.
func (r *ClientRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return err
	}

	n, err := generated.New(pgxTx).DeleteClient(ctx, id)
	if _, ok := constraintViolation(err, pgErrForeignKeyViolation); ok {
		return domain.ErrClientHasHistory
	}

	if err != nil {
		return err
	}

	if n == 0 {
		return domain.ErrClientNotFound
	}

	return nil
}

func rowToClient(row generated.Client) *domain.Client {
	return &domain.Client{
		ID:          row.ID,
		FirstName:   row.FirstName,
		LastName:    row.LastName,
		Email:       row.Email,
		Phone:       row.Phone,
		Address:     row.Address,
		Nationality: row.Nationality,
		Gender:      row.Gender,
		BirthDate:   pgDateToTime(row.BirthDate),
		Status:      domain.ClientStatus(row.Status),
		CreatedAt:   row.CreatedAt.Time,
		UpdatedAt:   row.UpdatedAt.Time,
	}
}
