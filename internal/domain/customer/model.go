package customer

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a venue member. Balance is running debt: it grows when a
// session settles and shrinks when a payment is applied. TotalSpent is a
// lifetime counter of payments received and never decreases.
type Customer struct {
	ID            string          `json:"id"`
	HumanID       string          `json:"humanId"`
	Name          string          `json:"name"`
	Phone         string          `json:"phone"`
	Email         *string         `json:"email,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
	Balance       decimal.Decimal `json:"balance"`
	TotalSpent    decimal.Decimal `json:"totalSpent"`
	TotalSessions int             `json:"totalSessions"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Patch carries optional field updates. Nil fields are left untouched.
type Patch struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Email *string `json:"email,omitempty"`
	Notes *string `json:"notes,omitempty"`
}
