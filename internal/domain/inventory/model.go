package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is a stock-counted consumable. Quantity never goes negative;
// attach operations check on-hand stock inside the same transaction.
type Item struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	MinStock  int             `json:"minStock"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Patch carries optional field updates. Nil fields are left untouched.
// Price changes never alter the snapshots held by session lines.
type Patch struct {
	Name      *string          `json:"name,omitempty"`
	Category  *string          `json:"category,omitempty"`
	UnitPrice *decimal.Decimal `json:"unitPrice,omitempty"`
	Quantity  *int             `json:"quantity,omitempty"`
	MinStock  *int             `json:"minStock,omitempty"`
}
