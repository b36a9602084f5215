package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TxRunner executes fn inside one database transaction. Repository calls
// made with the context passed to fn join that transaction; the whole
// unit commits or rolls back together. Each public core operation runs
// as exactly one such unit.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// SettingsRepository persists the opaque settings blob
type SettingsRepository interface {
	Get(ctx context.Context) (string, error)
	Save(ctx context.Context, raw string) error
}

// Metrics is the dashboard aggregate snapshot
type Metrics struct {
	TodayRevenue        decimal.Decimal `json:"todayRevenue"`
	ActiveSessions      int             `json:"activeSessions"`
	NewCustomersToday   int             `json:"newCustomersToday"`
	ActiveSubscriptions int             `json:"activeSubscriptions"`
}

// ReportRepository runs dashboard aggregation queries
type ReportRepository interface {
	DashboardMetrics(ctx context.Context, startOfDay time.Time) (*Metrics, error)
}
