package session

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ofarouk/deskhub/internal/domain/customer"
	"github.com/ofarouk/deskhub/internal/domain/inventory"
	"github.com/ofarouk/deskhub/internal/domain/resource"
)

// Repository provides persistence for sessions and their lines.
type Repository interface {
	Create(ctx context.Context, sess *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	ListActive(ctx context.Context) ([]Session, error)
	ListActiveStartedBefore(ctx context.Context, cutoff time.Time) ([]Session, error)
	HasActiveForCustomer(ctx context.Context, customerID string) (bool, error)
	Settle(ctx context.Context, id string, endedAt time.Time, sessionCost, totalAmount decimal.Decimal) error
	AddToInventoryTotal(ctx context.Context, id string, delta decimal.Decimal) error

	GetLine(ctx context.Context, sessionID, itemID string) (*Line, error)
	ListLines(ctx context.Context, sessionID string) ([]Line, error)
	ReplaceLine(ctx context.Context, line *Line) error
	DeleteLine(ctx context.Context, sessionID, itemID string) error
}

// ResourceRepository provides the resource holds the engine consumes.
type ResourceRepository interface {
	Get(ctx context.Context, id string) (*resource.Resource, error)
	SetAvailable(ctx context.Context, id string, available bool) error
}

// InventoryRepository provides stock reads and adjustments.
type InventoryRepository interface {
	Get(ctx context.Context, id string) (*inventory.Item, error)
	AdjustStock(ctx context.Context, id string, delta int) error
}

// SubscriptionRepository answers the fee-exemption query at start.
type SubscriptionRepository interface {
	HasActiveOn(ctx context.Context, customerID string, at time.Time) (bool, error)
}

// CustomerRepository provides the account mutations settlement needs.
type CustomerRepository interface {
	Get(ctx context.Context, id string) (*customer.Customer, error)
	AdjustBalance(ctx context.Context, id string, delta decimal.Decimal) error
	IncrementSessions(ctx context.Context, id string) error
}

// InvoiceCreator materializes the invoice for a settled session and
// returns its id. Implemented by the invoice service; called inside the
// settlement transaction.
type InvoiceCreator interface {
	CreateForSession(ctx context.Context, sess *Session, resourceName string, lines []Line) (string, error)
}
