package resource

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type classifies a bookable unit.
type Type string

const (
	TypeDesk Type = "desk"
	TypeRoom Type = "room"
	TypeSeat Type = "seat"
)

// Valid reports whether the type is one of the accepted values.
func (t Type) Valid() bool {
	switch t {
	case TypeDesk, TypeRoom, TypeSeat:
		return true
	}
	return false
}

// Resource is a bookable unit. Available is false iff exactly one active
// session currently holds it.
type Resource struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Type       Type            `json:"type"`
	HourlyRate decimal.Decimal `json:"hourlyRate"`
	Available  bool            `json:"available"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// Patch carries optional field updates. Nil fields are left untouched.
// Rate changes never affect sessions already holding a rate snapshot.
type Patch struct {
	Name       *string          `json:"name,omitempty"`
	Type       *Type            `json:"type,omitempty"`
	HourlyRate *decimal.Decimal `json:"hourlyRate,omitempty"`
}
