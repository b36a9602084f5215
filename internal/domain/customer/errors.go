package customer

import (
	"fmt"

	"github.com/ofarouk/deskhub/internal/repository"
)

var (
	// ErrNotFound indicates the customer doesn't exist.
	ErrNotFound = fmt.Errorf("%w: customer", repository.ErrNotFound)

	// ErrDuplicate indicates another customer already has the same name or
	// phone.
	ErrDuplicate = fmt.Errorf("%w: customer with same name or phone exists", repository.ErrConflict)
	// ErrHasRecords indicates the customer still owns sessions, invoices
	// or subscriptions and can't be deleted.
	ErrHasRecords = fmt.Errorf("%w: customer has existing records", repository.ErrConflict)

	// ErrNameRequired indicates a missing name.
	ErrNameRequired = fmt.Errorf("%w: name is required", repository.ErrInvalidInput)
	// ErrPhoneRequired indicates a missing phone number.
	ErrPhoneRequired = fmt.Errorf("%w: phone is required", repository.ErrInvalidInput)
)
