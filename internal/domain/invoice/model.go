package invoice

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the payment state of an invoice. Cancelled is sticky and
// terminal; the others derive purely from (paid, total), see Derive.
type Status string

const (
	StatusUnpaid        Status = "unpaid"
	StatusPartiallyPaid Status = "partially_paid"
	StatusPaid          Status = "paid"
	StatusCancelled     Status = "cancelled"
)

// Derive computes the status for a paid/total pair on a non-cancelled
// invoice. Overpayment is accepted and still derives as paid.
func Derive(paid, total decimal.Decimal) Status {
	switch {
	case paid.GreaterThanOrEqual(total):
		return StatusPaid
	case paid.IsPositive():
		return StatusPartiallyPaid
	default:
		return StatusUnpaid
	}
}

// Invoice bills a customer, either for a settled session (SessionID set)
// or ad hoc.
type Invoice struct {
	ID         string          `json:"id"`
	Number     string          `json:"number"`
	CustomerID string          `json:"customerId"`
	SessionID  *string         `json:"sessionId,omitempty"`
	Total      decimal.Decimal `json:"total"`
	Paid       decimal.Decimal `json:"paid"`
	Status     Status          `json:"status"`
	DueDate    time.Time       `json:"dueDate"`
	PaidDate   *time.Time      `json:"paidDate,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// Outstanding is the unpaid remainder, never negative.
func (i *Invoice) Outstanding() decimal.Decimal {
	out := i.Total.Sub(i.Paid)
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}

// Item is one invoice line. Amount is fixed at creation as
// quantity times rate.
type Item struct {
	ID          string          `json:"id"`
	InvoiceID   string          `json:"invoiceId"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

// Method is how a payment was made.
type Method string

const (
	MethodCash     Method = "cash"
	MethodCard     Method = "card"
	MethodTransfer Method = "transfer"
)

// Valid reports whether the method is one of the accepted values.
func (m Method) Valid() bool {
	switch m {
	case MethodCash, MethodCard, MethodTransfer:
		return true
	}
	return false
}

// Payment is the audit record of one payment event against an invoice.
type Payment struct {
	ID        string          `json:"id"`
	InvoiceID string          `json:"invoiceId"`
	Amount    decimal.Decimal `json:"amount"`
	Method    Method          `json:"method"`
	Notes     string          `json:"notes"`
	PaidAt    time.Time       `json:"paidAt"`
}
