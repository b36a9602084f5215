package invoice

import (
	"fmt"

	"github.com/ofarouk/deskhub/internal/repository"
)

var (
	// ErrInvoiceNotFound indicates the invoice doesn't exist.
	ErrInvoiceNotFound = fmt.Errorf("%w: invoice", repository.ErrNotFound)
	// ErrCustomerNotFound indicates the invoice customer doesn't exist.
	ErrCustomerNotFound = fmt.Errorf("%w: customer", repository.ErrNotFound)

	// ErrInvoiceCancelled indicates a payment was attempted against a
	// cancelled invoice.
	ErrInvoiceCancelled = fmt.Errorf("%w: invoice is cancelled", repository.ErrConflict)
	// ErrInvoiceSettled indicates a cancel was attempted on a fully paid
	// invoice.
	ErrInvoiceSettled = fmt.Errorf("%w: invoice is already settled", repository.ErrConflict)

	// ErrInvalidAmount indicates a non-positive payment or line amount.
	ErrInvalidAmount = fmt.Errorf("%w: amount must be positive", repository.ErrInvalidInput)
	// ErrInvalidMethod indicates an unknown payment method.
	ErrInvalidMethod = fmt.Errorf("%w: payment method must be cash, card or transfer", repository.ErrInvalidInput)
	// ErrNoItems indicates an ad hoc invoice with no line items.
	ErrNoItems = fmt.Errorf("%w: invoice needs at least one item", repository.ErrInvalidInput)
	// ErrNoInvoices indicates a bulk payment with an empty invoice list.
	ErrNoInvoices = fmt.Errorf("%w: no invoices given", repository.ErrInvalidInput)
)
