package subscription

import (
	"fmt"

	"github.com/ofarouk/deskhub/internal/repository"
)

var (
	// ErrNotFound indicates the subscription doesn't exist.
	ErrNotFound = fmt.Errorf("%w: subscription", repository.ErrNotFound)
	// ErrCustomerNotFound indicates the customer doesn't exist.
	ErrCustomerNotFound = fmt.Errorf("%w: customer", repository.ErrNotFound)

	// ErrAlreadySubscribed indicates the customer already holds an active
	// subscription covering today.
	ErrAlreadySubscribed = fmt.Errorf("%w: customer already has an active subscription", repository.ErrConflict)
	// ErrNotActive indicates a cancel on a non-active subscription.
	ErrNotActive = fmt.Errorf("%w: subscription is not active", repository.ErrConflict)

	// ErrInvalidPlan indicates an unknown plan.
	ErrInvalidPlan = fmt.Errorf("%w: plan must be weekly, half-monthly or monthly", repository.ErrInvalidInput)
	// ErrInvalidPrice indicates a negative price.
	ErrInvalidPrice = fmt.Errorf("%w: price must not be negative", repository.ErrInvalidInput)
)
