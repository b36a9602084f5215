package session

import (
	"fmt"

	"github.com/ofarouk/deskhub/internal/repository"
)

var (
	// ErrSessionNotFound indicates the session doesn't exist.
	ErrSessionNotFound = fmt.Errorf("%w: session", repository.ErrNotFound)
	// ErrCustomerNotFound indicates the customer doesn't exist.
	ErrCustomerNotFound = fmt.Errorf("%w: customer", repository.ErrNotFound)
	// ErrResourceNotFound indicates the resource doesn't exist.
	ErrResourceNotFound = fmt.Errorf("%w: resource", repository.ErrNotFound)
	// ErrItemNotFound indicates the inventory item doesn't exist.
	ErrItemNotFound = fmt.Errorf("%w: inventory item", repository.ErrNotFound)
	// ErrLineNotFound indicates the session has no line for the item.
	ErrLineNotFound = fmt.Errorf("%w: session item", repository.ErrNotFound)

	// ErrResourceOccupied indicates another active session holds the resource.
	ErrResourceOccupied = fmt.Errorf("%w: resource is already occupied", repository.ErrConflict)
	// ErrCustomerHasActiveSession indicates the customer already has an active session.
	ErrCustomerHasActiveSession = fmt.Errorf("%w: customer already has an active session", repository.ErrConflict)
	// ErrSessionNotActive indicates the session was already completed.
	ErrSessionNotActive = fmt.Errorf("%w: session not active", repository.ErrConflict)
	// ErrInsufficientStock indicates the item has less stock than requested.
	ErrInsufficientStock = fmt.Errorf("%w: insufficient stock", repository.ErrConflict)

	// ErrInvalidQuantity indicates a non-positive or out-of-range quantity.
	ErrInvalidQuantity = fmt.Errorf("%w: quantity must be positive", repository.ErrInvalidInput)
)
