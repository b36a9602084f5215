package invoice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ofarouk/deskhub/internal/domain/session"
	"github.com/ofarouk/deskhub/internal/money"
	"github.com/ofarouk/deskhub/internal/repository"
)

// Invoices fall due a week after creation.
const dueAfter = 7 * 24 * time.Hour

// ItemInput describes one line of an ad hoc invoice.
type ItemInput struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
}

// Service is the invoice and payment ledger.
type Service struct {
	runner    repository.TxRunner
	invoices  Repository
	customers CustomerAccount
	logger    *slog.Logger
}

// NewService creates an invoice service.
func NewService(runner repository.TxRunner, invoices Repository, customers CustomerAccount, logger *slog.Logger) *Service {
	return &Service{
		runner:    runner,
		invoices:  invoices,
		customers: customers,
		logger:    logger,
	}
}

// CreateForSession materializes the invoice for a settled session: one
// line for the time charge (omitted when waived) plus one line per
// attached item, priced at their session snapshots. Runs inside the
// caller's settlement transaction.
func (s *Service) CreateForSession(ctx context.Context, sess *session.Session, resourceName string, lines []session.Line) (string, error) {
	number, err := s.invoices.NextNumber(ctx)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	inv := &Invoice{
		ID:         uuid.NewString(),
		Number:     number,
		CustomerID: sess.CustomerID,
		SessionID:  &sess.ID,
		Total:      sess.TotalAmount,
		Paid:       money.Zero(),
		Status:     Derive(money.Zero(), sess.TotalAmount),
		DueDate:    now.Add(dueAfter),
		CreatedAt:  now,
	}
	if err := s.invoices.Create(ctx, inv); err != nil {
		return "", err
	}

	if sess.SessionCost.IsPositive() {
		err := s.invoices.CreateItem(ctx, &Item{
			ID:          uuid.NewString(),
			InvoiceID:   inv.ID,
			Description: fmt.Sprintf("Session at %s", resourceName),
			Quantity:    1,
			Rate:        sess.SessionCost,
			Amount:      sess.SessionCost,
		})
		if err != nil {
			return "", err
		}
	}
	for _, line := range lines {
		err := s.invoices.CreateItem(ctx, &Item{
			ID:          uuid.NewString(),
			InvoiceID:   inv.ID,
			Description: line.ItemName,
			Quantity:    line.Quantity,
			Rate:        line.UnitPrice,
			Amount:      line.Amount(),
		})
		if err != nil {
			return "", err
		}
	}

	return inv.ID, nil
}

// Create issues an ad hoc invoice from explicit line items and raises
// the customer's balance by its total.
func (s *Service) Create(ctx context.Context, customerID string, items []ItemInput) (*Invoice, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	for _, item := range items {
		if item.Quantity <= 0 || item.Rate.IsNegative() {
			return nil, ErrInvalidAmount
		}
	}

	var inv *Invoice
	err := s.runner.InTx(ctx, func(ctx context.Context) error {
		if _, err := s.customers.Get(ctx, customerID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrCustomerNotFound
			}
			return err
		}

		number, err := s.invoices.NextNumber(ctx)
		if err != nil {
			return err
		}

		total := money.Zero()
		for _, item := range items {
			total = total.Add(money.Line(item.Quantity, item.Rate))
		}

		now := time.Now().UTC()
		inv = &Invoice{
			ID:         uuid.NewString(),
			Number:     number,
			CustomerID: customerID,
			Total:      total,
			Paid:       money.Zero(),
			Status:     Derive(money.Zero(), total),
			DueDate:    now.Add(dueAfter),
			CreatedAt:  now,
		}
		if err := s.invoices.Create(ctx, inv); err != nil {
			return err
		}
		for _, item := range items {
			err := s.invoices.CreateItem(ctx, &Item{
				ID:          uuid.NewString(),
				InvoiceID:   inv.ID,
				Description: item.Description,
				Quantity:    item.Quantity,
				Rate:        item.Rate,
				Amount:      money.Line(item.Quantity, item.Rate),
			})
			if err != nil {
				return err
			}
		}

		return s.customers.AdjustBalance(ctx, customerID, total)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("invoice created", "invoice_id", inv.ID, "number", inv.Number, "total", inv.Total)
	return inv, nil
}

// ApplyPayment applies one payment to one invoice. Overpayment is
// accepted; the invoice simply stays paid with paid > total.
func (s *Service) ApplyPayment(ctx context.Context, invoiceID string, amount decimal.Decimal, method Method, notes string) (*Invoice, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if !method.Valid() {
		return nil, ErrInvalidMethod
	}

	var inv *Invoice
	err := s.runner.InTx(ctx, func(ctx context.Context) error {
		var err error
		inv, err = s.getInvoice(ctx, invoiceID)
		if err != nil {
			return err
		}
		return s.pay(ctx, inv, amount, method, notes)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment applied",
		"invoice_id", invoiceID, "amount", amount, "method", method, "status", inv.Status)
	return inv, nil
}

// ApplyBulkPayment walks the given invoices in order, paying each one's
// outstanding balance until the amount is exhausted. Cancelled and
// fully paid invoices are skipped without consuming allocation; a
// missing invoice aborts the whole batch. Returns the amount actually
// applied, which is less than amount when the list's outstanding total
// runs out first.
func (s *Service) ApplyBulkPayment(ctx context.Context, invoiceIDs []string, amount decimal.Decimal, method Method, notes string) (decimal.Decimal, error) {
	if len(invoiceIDs) == 0 {
		return decimal.Zero, ErrNoInvoices
	}
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	if !method.Valid() {
		return decimal.Zero, ErrInvalidMethod
	}

	applied := money.Zero()
	err := s.runner.InTx(ctx, func(ctx context.Context) error {
		remaining := amount
		for _, id := range invoiceIDs {
			if !remaining.IsPositive() {
				break
			}

			inv, err := s.getInvoice(ctx, id)
			if err != nil {
				return err
			}
			if inv.Status == StatusCancelled || inv.Status == StatusPaid {
				continue
			}

			share := decimal.Min(remaining, inv.Outstanding())
			if err := s.pay(ctx, inv, share, method, notes); err != nil {
				return err
			}
			remaining = remaining.Sub(share)
			applied = applied.Add(share)
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}

	s.logger.Info("bulk payment applied",
		"invoices", len(invoiceIDs), "amount", amount, "applied", applied, "method", method)
	return applied, nil
}

// Cancel marks an invoice cancelled. Fully paid invoices can't be
// cancelled; cancellation is terminal.
func (s *Service) Cancel(ctx context.Context, invoiceID string) error {
	err := s.runner.InTx(ctx, func(ctx context.Context) error {
		inv, err := s.getInvoice(ctx, invoiceID)
		if err != nil {
			return err
		}
		switch inv.Status {
		case StatusCancelled:
			return ErrInvoiceCancelled
		case StatusPaid:
			return ErrInvoiceSettled
		}
		return s.invoices.SetStatus(ctx, invoiceID, StatusCancelled)
	})
	if err != nil {
		return err
	}

	s.logger.Info("invoice cancelled", "invoice_id", invoiceID)
	return nil
}

// Get returns one invoice with its items and payment history.
func (s *Service) Get(ctx context.Context, invoiceID string) (*Invoice, []Item, []Payment, error) {
	inv, err := s.getInvoice(ctx, invoiceID)
	if err != nil {
		return nil, nil, nil, err
	}
	items, err := s.invoices.ListItems(ctx, invoiceID)
	if err != nil {
		return nil, nil, nil, err
	}
	payments, err := s.invoices.ListPayments(ctx, invoiceID)
	if err != nil {
		return nil, nil, nil, err
	}
	return inv, items, payments, nil
}

// List returns all invoices, newest first.
func (s *Service) List(ctx context.Context) ([]Invoice, error) {
	return s.invoices.List(ctx)
}

// pay performs the invariant updates for one payment event against one
// loaded invoice, mutating inv to its post-payment state. Must run
// inside a transaction.
func (s *Service) pay(ctx context.Context, inv *Invoice, amount decimal.Decimal, method Method, notes string) error {
	if inv.Status == StatusCancelled {
		return ErrInvoiceCancelled
	}

	now := time.Now().UTC()
	newPaid := inv.Paid.Add(amount)
	newStatus := Derive(newPaid, inv.Total)

	paidDate := inv.PaidDate
	if newStatus == StatusPaid && inv.Status != StatusPaid {
		paidDate = &now
	}

	err := s.invoices.RecordPayment(ctx, &Payment{
		ID:        uuid.NewString(),
		InvoiceID: inv.ID,
		Amount:    amount,
		Method:    method,
		Notes:     notes,
		PaidAt:    now,
	})
	if err != nil {
		return err
	}
	if err := s.invoices.UpdatePayment(ctx, inv.ID, newPaid, newStatus, paidDate); err != nil {
		return err
	}

	if err := s.customers.AdjustBalance(ctx, inv.CustomerID, amount.Neg()); err != nil {
		return err
	}
	if err := s.customers.AddSpend(ctx, inv.CustomerID, amount); err != nil {
		return err
	}

	inv.Paid = newPaid
	inv.Status = newStatus
	inv.PaidDate = paidDate
	return nil
}

func (s *Service) getInvoice(ctx context.Context, invoiceID string) (*Invoice, error) {
	inv, err := s.invoices.Get(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return inv, nil
}
