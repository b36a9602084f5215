package inventory

import (
	"fmt"

	"github.com/ofarouk/deskhub/internal/repository"
)

var (
	// ErrNotFound indicates the item doesn't exist.
	ErrNotFound = fmt.Errorf("%w: inventory item", repository.ErrNotFound)

	// ErrInUse indicates the item appears on session lines and can't be
	// deleted.
	ErrInUse = fmt.Errorf("%w: item has been sold", repository.ErrConflict)
	// ErrInsufficientStock indicates a withdrawal larger than on-hand stock.
	ErrInsufficientStock = fmt.Errorf("%w: insufficient stock", repository.ErrConflict)

	// ErrNameRequired indicates a missing name.
	ErrNameRequired = fmt.Errorf("%w: name is required", repository.ErrInvalidInput)
	// ErrInvalidPrice indicates a negative unit price.
	ErrInvalidPrice = fmt.Errorf("%w: unit price must not be negative", repository.ErrInvalidInput)
	// ErrInvalidQuantity indicates a negative quantity or minimum stock.
	ErrInvalidQuantity = fmt.Errorf("%w: quantity must not be negative", repository.ErrInvalidInput)
)
