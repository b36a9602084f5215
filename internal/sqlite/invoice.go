package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ofarouk/deskhub/internal/domain/invoice"
	"github.com/ofarouk/deskhub/internal/money"
	"github.com/ofarouk/deskhub/internal/repository"
)

// InvoiceRepository provides SQLite persistence for invoices and payments
type InvoiceRepository struct {
	db *DB
}

// NewInvoiceRepository creates a new InvoiceRepository
func NewInvoiceRepository(db *DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

const invoiceColumns = `
	id, invoice_number, customer_id, session_id, total, paid_amount,
	status, due_date, paid_date, created_at
`

// Create inserts a new invoice
func (r *InvoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		INSERT INTO invoices (
			id, invoice_number, customer_id, session_id, total, paid_amount,
			status, due_date, paid_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.conn(ctx).ExecContext(ctx, query,
		inv.ID,
		inv.Number,
		inv.CustomerID,
		inv.SessionID,
		inv.Total.String(),
		inv.Paid.String(),
		string(inv.Status),
		inv.DueDate,
		inv.PaidDate,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	return nil
}

// CreateItem inserts one invoice line item
func (r *InvoiceRepository) CreateItem(ctx context.Context, item *invoice.Item) error {
	query := `
		INSERT INTO invoice_items (id, invoice_id, description, quantity, rate, amount)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.conn(ctx).ExecContext(ctx, query,
		item.ID,
		item.InvoiceID,
		item.Description,
		item.Quantity,
		item.Rate.String(),
		item.Amount.String(),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("failed to create invoice item: %w", err)
	}

	return nil
}

// NextNumber allocates the next sequential invoice number. Invoices are
// never deleted, so the count only grows.
func (r *InvoiceRepository) NextNumber(ctx context.Context) (string, error) {
	var n int
	err := r.db.conn(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM invoices`).Scan(&n)
	if err != nil {
		return "", fmt.Errorf("failed to count invoices: %w", err)
	}
	return fmt.Sprintf("INV-%04d", n+1), nil
}

// Get retrieves an invoice by ID
func (r *InvoiceRepository) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = ?`

	inv, err := scanInvoiceFrom(r.db.conn(ctx).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return inv, nil
}

// List returns all invoices, newest first
func (r *InvoiceRepository) List(ctx context.Context) ([]invoice.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices ORDER BY created_at DESC`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []invoice.Invoice
	for rows.Next() {
		inv, err := scanInvoiceFrom(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoices: %w", err)
	}

	return invoices, nil
}

// ListItems returns an invoice's line items
func (r *InvoiceRepository) ListItems(ctx context.Context, invoiceID string) ([]invoice.Item, error) {
	query := `
		SELECT id, invoice_id, description, quantity, rate, amount
		FROM invoice_items
		WHERE invoice_id = ?
	`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoice items: %w", err)
	}
	defer rows.Close()

	var items []invoice.Item
	for rows.Next() {
		var item invoice.Item
		var rate, amount string
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.Description, &item.Quantity, &rate, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan invoice item: %w", err)
		}
		if item.Rate, err = money.Parse(rate); err != nil {
			return nil, err
		}
		if item.Amount, err = money.Parse(amount); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoice items: %w", err)
	}

	return items, nil
}

// ListPayments returns the payment audit trail for an invoice
func (r *InvoiceRepository) ListPayments(ctx context.Context, invoiceID string) ([]invoice.Payment, error) {
	query := `
		SELECT id, invoice_id, amount, method, notes, paid_at
		FROM payments
		WHERE invoice_id = ?
		ORDER BY paid_at ASC
	`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []invoice.Payment
	for rows.Next() {
		var p invoice.Payment
		var amount, method string
		if err := rows.Scan(&p.ID, &p.InvoiceID, &amount, &method, &p.Notes, &p.PaidAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		p.Method = invoice.Method(method)
		if p.Amount, err = money.Parse(amount); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payments: %w", err)
	}

	return payments, nil
}

// UpdatePayment writes the post-payment state of an invoice
func (r *InvoiceRepository) UpdatePayment(ctx context.Context, id string, paid decimal.Decimal, status invoice.Status, paidDate *time.Time) error {
	query := `
		UPDATE invoices
		SET paid_amount = ?, status = ?, paid_date = ?
		WHERE id = ?
	`

	result, err := r.db.conn(ctx).ExecContext(ctx, query,
		paid.String(), string(status), paidDate, id)
	if err != nil {
		return fmt.Errorf("failed to update invoice payment: %w", err)
	}
	return requireRow(result)
}

// SetStatus updates only the invoice status
func (r *InvoiceRepository) SetStatus(ctx context.Context, id string, status invoice.Status) error {
	result, err := r.db.conn(ctx).ExecContext(ctx,
		`UPDATE invoices SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to set invoice status: %w", err)
	}
	return requireRow(result)
}

// RecordPayment inserts a payment audit row
func (r *InvoiceRepository) RecordPayment(ctx context.Context, p *invoice.Payment) error {
	query := `
		INSERT INTO payments (id, invoice_id, amount, method, notes, paid_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.conn(ctx).ExecContext(ctx, query,
		p.ID,
		p.InvoiceID,
		p.Amount.String(),
		string(p.Method),
		p.Notes,
		p.PaidAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("failed to record payment: %w", err)
	}

	return nil
}

func scanInvoiceFrom(s rowScanner) (*invoice.Invoice, error) {
	var inv invoice.Invoice
	var sessionID sql.NullString
	var paidDate sql.NullTime
	var total, paid, status string

	err := s.Scan(
		&inv.ID,
		&inv.Number,
		&inv.CustomerID,
		&sessionID,
		&total,
		&paid,
		&status,
		&inv.DueDate,
		&paidDate,
		&inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if sessionID.Valid {
		inv.SessionID = &sessionID.String
	}
	if paidDate.Valid {
		inv.PaidDate = &paidDate.Time
	}
	inv.Status = invoice.Status(status)
	if inv.Total, err = money.Parse(total); err != nil {
		return nil, err
	}
	if inv.Paid, err = money.Parse(paid); err != nil {
		return nil, err
	}

	return &inv, nil
}
