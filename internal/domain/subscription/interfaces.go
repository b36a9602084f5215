package subscription

import (
	"context"
	"time"

	"github.com/ofarouk/deskhub/internal/domain/customer"
)

// Repository provides subscription persistence.
type Repository interface {
	Create(ctx context.Context, sub *Subscription) error
	Get(ctx context.Context, id string) (*Subscription, error)
	List(ctx context.Context) ([]Subscription, error)
	ListByCustomer(ctx context.Context, customerID string) ([]Subscription, error)
	SetStatus(ctx context.Context, id string, status Status) error
	HasActiveOn(ctx context.Context, customerID string, at time.Time) (bool, error)
	ExpireDue(ctx context.Context, now time.Time) (int, error)
}

// CustomerRepository verifies the subscriber exists.
type CustomerRepository interface {
	Get(ctx context.Context, id string) (*customer.Customer, error)
}
