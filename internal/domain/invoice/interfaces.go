package invoice

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ofarouk/deskhub/internal/domain/customer"
)

// Repository provides persistence for invoices, their items, and the
// payment audit trail.
type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	CreateItem(ctx context.Context, item *Item) error
	NextNumber(ctx context.Context) (string, error)
	Get(ctx context.Context, id string) (*Invoice, error)
	List(ctx context.Context) ([]Invoice, error)
	ListItems(ctx context.Context, invoiceID string) ([]Item, error)
	ListPayments(ctx context.Context, invoiceID string) ([]Payment, error)
	UpdatePayment(ctx context.Context, id string, paid decimal.Decimal, status Status, paidDate *time.Time) error
	SetStatus(ctx context.Context, id string, status Status) error
	RecordPayment(ctx context.Context, p *Payment) error
}

// CustomerAccount provides the account mutations payments need. Balance
// is debt, so invoicing raises it and payment lowers it.
type CustomerAccount interface {
	Get(ctx context.Context, id string) (*customer.Customer, error)
	AdjustBalance(ctx context.Context, id string, delta decimal.Decimal) error
	AddSpend(ctx context.Context, id string, delta decimal.Decimal) error
}
