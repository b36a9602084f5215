package resource

import (
	"fmt"

	"github.com/ofarouk/deskhub/internal/repository"
)

var (
	// ErrNotFound indicates the resource doesn't exist.
	ErrNotFound = fmt.Errorf("%w: resource", repository.ErrNotFound)

	// ErrInUse indicates the resource has session history and can't be
	// deleted.
	ErrInUse = fmt.Errorf("%w: resource has existing sessions", repository.ErrConflict)

	// ErrNameRequired indicates a missing name.
	ErrNameRequired = fmt.Errorf("%w: name is required", repository.ErrInvalidInput)
	// ErrInvalidType indicates an unknown resource type.
	ErrInvalidType = fmt.Errorf("%w: type must be desk, room or seat", repository.ErrInvalidInput)
	// ErrInvalidRate indicates a negative hourly rate.
	ErrInvalidRate = fmt.Errorf("%w: hourly rate must not be negative", repository.ErrInvalidInput)
)
