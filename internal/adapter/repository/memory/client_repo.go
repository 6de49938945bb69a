package memory

import (
	"context"
	"sort"
	"time"

	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/usecase"
)

// ClientRepository implements usecase.ClientRepository.
type ClientRepository struct {
	store *Store
}

// NewClientRepository creates a new ClientRepository.
func NewClientRepository(store *Store) *ClientRepository {
	return &ClientRepository{store: store}
}

func copyClient(c *domain.Client) *domain.Client {
	cp := *c
	if c.BirthDate != nil {
		bd := *c.BirthDate
		cp.BirthDate = &bd
	}

	return &cp
}

func emailTaken(s *Store, email, exceptID string) bool {
	owner, ok := s.clientsByEmail[email]
	return ok && owner != exceptID
}

// Create stages a new client.
func (r *ClientRepository) Create(ctx context.Context, tx usecase.Transaction, client *domain.Client) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}

	stored := copyClient(client)

	check := func(s *Store) error {
		if emailTaken(s, stored.Email, "") {
			return domain.ErrDuplicateEmail
		}

		return nil
	}

	r.store.mu.RLock()
	err = check(r.store)
	r.store.mu.RUnlock()

	if err != nil {
		return err
	}

	return t.enqueue(mutation{
		check: check,
		apply: func(s *Store) {
			s.clients[stored.ID] = stored
			s.clientsByEmail[stored.Email] = stored.ID
		},
	})
}

// Update stages a profile change. Status is left untouched.
func (r *ClientRepository) Update(ctx context.Context, tx usecase.Transaction, client *domain.Client) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}

	updated := copyClient(client)

	check := func(s *Store) error {
		if _, ok := s.clients[updated.ID]; !ok {
			return domain.ErrClientNotFound
		}

		if emailTaken(s, updated.Email, updated.ID) {
			return domain.ErrDuplicateEmail
		}

		return nil
	}

	r.store.mu.RLock()
	err = check(r.store)
	r.store.mu.RUnlock()

	if err != nil {
		return err
	}

	return t.enqueue(mutation{
		check: check,
		apply: func(s *Store) {
			current := s.clients[updated.ID]
			delete(s.clientsByEmail, current.Email)

			updated.Status = current.Status
			updated.CreatedAt = current.CreatedAt
			s.clients[updated.ID] = updated
			s.clientsByEmail[updated.Email] = updated.ID
		},
	})
}

// GetByID retrieves a client by ID.
func (r *ClientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, ok := r.store.clients[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}

	return copyClient(c), nil
}

// GetStatus returns the committed status of a client.
func (r *ClientRepository) GetStatus(ctx context.Context, tx usecase.Transaction, id string) (domain.ClientStatus, error) {
	if _, err := asTx(tx); err != nil {
		return "", err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, ok := r.store.clients[id]
	if !ok {
		return "", domain.ErrClientNotFound
	}

	return c.Status, nil
}

// UpdateStatus stages a status change.
func (r *ClientRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.ClientStatus, updatedAt time.Time) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}

	check := func(s *Store) error {
		if _, ok := s.clients[id]; !ok {
			return domain.ErrClientNotFound
		}

		return nil
	}

	r.store.mu.RLock()
	err = check(r.store)
	r.store.mu.RUnlock()

	if err != nil {
		return err
	}

	return t.enqueue(mutation{
		check: check,
		apply: func(s *Store) {
			c := s.clients[id]
			c.Status = status
			c.UpdatedAt = updatedAt
		},
	})
}

// List lists clients with pagination, oldest first.
func (r *ClientRepository) List(ctx context.Context, limit, offset int) ([]*domain.Client, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	clients := make([]*domain.Client, 0, len(r.store.clients))
	for _, c := range r.store.clients {
		clients = append(clients, copyClient(c))
	}

	sort.Slice(clients, func(i, j int) bool {
		if !clients[i].CreatedAt.Equal(clients[j].CreatedAt) {
			return clients[i].CreatedAt.Before(clients[j].CreatedAt)
		}

		return clients[i].ID < clients[j].ID
	})

	return paginate(clients, limit, offset), nil
}

// Delete stages the removal of a client.
func (r *ClientRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}

	check := func(s *Store) error {
		if _, ok := s.clients[id]; !ok {
			return domain.ErrClientNotFound
		}

		return nil
	}

	r.store.mu.RLock()
	err = check(r.store)
	r.store.mu.RUnlock()

	if err != nil {
		return err
	}

	return t.enqueue(mutation{
		check: check,
		apply: func(s *Store) {
			if c, ok := s.clients[id]; ok {
				delete(s.clientsByEmail, c.Email)
				delete(s.clients, id)
			}
		},
	})
}
