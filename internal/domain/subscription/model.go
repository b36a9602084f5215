package subscription

import (
	"time"

	"github.com/shopspring/decimal"
)

// Plan identifies a subscription duration.
type Plan string

const (
	PlanWeekly      Plan = "weekly"
	PlanHalfMonthly Plan = "half-monthly"
	PlanMonthly     Plan = "monthly"
)

// Days returns the plan duration in days, or 0 for an unknown plan.
func (p Plan) Days() int {
	switch p {
	case PlanWeekly:
		return 7
	case PlanHalfMonthly:
		return 15
	case PlanMonthly:
		return 30
	}
	return 0
}

// Status is the lifecycle state of a subscription.
type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// Subscription is a date-ranged plan held by a customer. Price is the
// plan price at purchase time.
type Subscription struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customerId"`
	Plan       Plan            `json:"plan"`
	Price      decimal.Decimal `json:"price"`
	StartDate  time.Time       `json:"startDate"`
	EndDate    time.Time       `json:"endDate"`
	Status     Status          `json:"status"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// Covers reports whether the subscription is active and its date range
// contains the given instant.
func (s *Subscription) Covers(at time.Time) bool {
	return s.Status == StatusActive && !at.Before(s.StartDate) && at.Before(s.EndDate)
}
