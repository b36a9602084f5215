package subscription

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ofarouk/deskhub/internal/repository"
)

// Service manages customer subscriptions.
type Service struct {
	runner        repository.TxRunner
	subscriptions Repository
	customers     CustomerRepository
	logger        *slog.Logger
}

// NewService creates a subscription service.
func NewService(runner repository.TxRunner, subscriptions Repository, customers CustomerRepository, logger *slog.Logger) *Service {
	return &Service{
		runner:        runner,
		subscriptions: subscriptions,
		customers:     customers,
		logger:        logger,
	}
}

// Subscribe starts a plan for a customer, effective immediately. The
// plan determines the end date; a customer can hold at most one active
// subscription at a time.
func (s *Service) Subscribe(ctx context.Context, customerID string, plan Plan, price decimal.Decimal) (*Subscription, error) {
	if plan.Days() == 0 {
		return nil, ErrInvalidPlan
	}
	if price.IsNegative() {
		return nil, ErrInvalidPrice
	}

	var sub *Subscription
	err := s.runner.InTx(ctx, func(ctx context.Context) error {
		if _, err := s.customers.Get(ctx, customerID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrCustomerNotFound
			}
			return err
		}

		now := time.Now().UTC()
		active, err := s.subscriptions.HasActiveOn(ctx, customerID, now)
		if err != nil {
			return err
		}
		if active {
			return ErrAlreadySubscribed
		}

		sub = &Subscription{
			ID:         uuid.NewString(),
			CustomerID: customerID,
			Plan:       plan,
			Price:      price,
			StartDate:  now,
			EndDate:    now.AddDate(0, 0, plan.Days()),
			Status:     StatusActive,
			CreatedAt:  now,
		}
		return s.subscriptions.Create(ctx, sub)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("subscription started",
		"subscription_id", sub.ID, "customer_id", customerID, "plan", plan, "ends", sub.EndDate)
	return sub, nil
}

// Get returns one subscription.
func (s *Service) Get(ctx context.Context, id string) (*Subscription, error) {
	sub, err := s.subscriptions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sub, nil
}

// List returns all subscriptions, newest first.
func (s *Service) List(ctx context.Context) ([]Subscription, error) {
	return s.subscriptions.List(ctx)
}

// ListByCustomer returns a customer's subscriptions, newest first.
func (s *Service) ListByCustomer(ctx context.Context, customerID string) ([]Subscription, error) {
	return s.subscriptions.ListByCustomer(ctx, customerID)
}

// Cancel ends an active subscription early. Sessions already started
// under it keep their fee waiver.
func (s *Service) Cancel(ctx context.Context, id string) error {
	err := s.runner.InTx(ctx, func(ctx context.Context) error {
		sub, err := s.subscriptions.Get(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if sub.Status != StatusActive {
			return ErrNotActive
		}
		return s.subscriptions.SetStatus(ctx, id, StatusCancelled)
	})
	if err != nil {
		return err
	}

	s.logger.Info("subscription cancelled", "subscription_id", id)
	return nil
}

// ExpireDue marks lapsed subscriptions expired. Called by the
// background sweep.
func (s *Service) ExpireDue(ctx context.Context) (int, error) {
	n, err := s.subscriptions.ExpireDue(ctx, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("subscriptions expired", "count", n)
	}
	return n, nil
}
