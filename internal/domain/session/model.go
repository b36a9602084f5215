package session

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a session. The only transition is
// active -> completed; completed is terminal.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Session is a timed occupancy of one resource by one customer.
// HourlyRate is the resource rate captured at start and immutable for
// the life of the session; rate changes never retroactively reprice it.
// InventoryTotal is a running accumulator adjusted by signed deltas as
// lines change, never recomputed from scratch.
type Session struct {
	ID             string          `json:"id"`
	CustomerID     string          `json:"customerId"`
	ResourceID     string          `json:"resourceId"`
	HourlyRate     decimal.Decimal `json:"hourlyRate"`
	StartedAt      time.Time       `json:"startedAt"`
	EndedAt        *time.Time      `json:"endedAt,omitempty"`
	Subscribed     bool            `json:"subscribed"`
	InventoryTotal decimal.Decimal `json:"inventoryTotal"`
	SessionCost    decimal.Decimal `json:"sessionCost"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	Status         Status          `json:"status"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// DurationMinutes returns elapsed whole minutes between start and the
// given end, truncating fractional minutes.
func (s *Session) DurationMinutes(endedAt time.Time) int64 {
	return int64(endedAt.Sub(s.StartedAt).Minutes())
}

// Line attaches a consumable to a session. There is exactly one line per
// (session, item) pair; UnitPrice is the item price frozen when the item
// was first attached, so later price changes don't alter session cost.
type Line struct {
	SessionID string          `json:"sessionId"`
	ItemID    string          `json:"itemId"`
	ItemName  string          `json:"itemName"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	AddedAt   time.Time       `json:"addedAt"`
}

// Amount is the line total at the snapshot price.
func (l *Line) Amount() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
