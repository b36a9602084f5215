package customer

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ofarouk/deskhub/internal/money"
	"github.com/ofarouk/deskhub/internal/repository"
)

// Service manages customer records.
type Service struct {
	runner    repository.TxRunner
	customers Repository
	logger    *slog.Logger
}

// NewService creates a customer service.
func NewService(runner repository.TxRunner, customers Repository, logger *slog.Logger) *Service {
	return &Service{runner: runner, customers: customers, logger: logger}
}

// Create registers a new customer with a fresh display id. Name and
// phone must be unique across the venue.
func (s *Service) Create(ctx context.Context, name, phone string, email, notes *string) (*Customer, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" {
		return nil, ErrNameRequired
	}
	if phone == "" {
		return nil, ErrPhoneRequired
	}

	var c *Customer
	err := s.runner.InTx(ctx, func(ctx context.Context) error {
		dup, err := s.customers.FindDuplicate(ctx, name, phone)
		if err != nil {
			return err
		}
		if dup != nil {
			return ErrDuplicate
		}

		humanID, err := s.customers.NextHumanID(ctx)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		c = &Customer{
			ID:         uuid.NewString(),
			HumanID:    humanID,
			Name:       name,
			Phone:      phone,
			Email:      email,
			Notes:      notes,
			Balance:    money.Zero(),
			TotalSpent: money.Zero(),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		return s.customers.Create(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("customer created", "customer_id", c.ID, "human_id", c.HumanID)
	return c, nil
}

// Get returns one customer.
func (s *Service) Get(ctx context.Context, id string) (*Customer, error) {
	c, err := s.customers.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// List returns all customers, newest first.
func (s *Service) List(ctx context.Context) ([]Customer, error) {
	return s.customers.List(ctx)
}

// Update applies a partial update and returns the fresh record.
func (s *Service) Update(ctx context.Context, id string, patch Patch) (*Customer, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, ErrNameRequired
	}
	if patch.Phone != nil && strings.TrimSpace(*patch.Phone) == "" {
		return nil, ErrPhoneRequired
	}

	var c *Customer
	err := s.runner.InTx(ctx, func(ctx context.Context) error {
		if err := s.customers.Update(ctx, id, patch); err != nil {
			return err
		}
		var err error
		c, err = s.customers.Get(ctx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// Delete removes a customer. Customers with sessions, invoices or
// subscriptions can't be deleted; history must stay intact.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.customers.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		if errors.Is(err, repository.ErrConflict) {
			return ErrHasRecords
		}
		return err
	}

	s.logger.Info("customer deleted", "customer_id", id)
	return nil
}
