package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/ofarouk/deskhub/internal/money"
	"github.com/ofarouk/deskhub/internal/repository"
)

// ReportRepository runs dashboard aggregation queries
type ReportRepository struct {
	db *DB
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// DashboardMetrics aggregates today's activity in one snapshot
func (r *ReportRepository) DashboardMetrics(ctx context.Context, startOfDay time.Time) (*repository.Metrics, error) {
	q := r.db.conn(ctx)
	metrics := &repository.Metrics{TodayRevenue: money.Zero()}

	rows, err := q.QueryContext(ctx, `SELECT amount FROM payments WHERE paid_at >= ?`, startOfDay)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch today payments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan payment amount: %w", err)
		}
		amount, err := money.Parse(raw)
		if err != nil {
			return nil, err
		}
		metrics.TodayRevenue = metrics.TodayRevenue.Add(amount)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payments: %w", err)
	}

	err = q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sessions WHERE status = 'active'`).Scan(&metrics.ActiveSessions)
	if err != nil {
		return nil, fmt.Errorf("failed to count active sessions: %w", err)
	}

	err = q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM customers WHERE created_at >= ?`, startOfDay).Scan(&metrics.NewCustomersToday)
	if err != nil {
		return nil, fmt.Errorf("failed to count new customers: %w", err)
	}

	err = q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM subscriptions WHERE status = 'active'`).Scan(&metrics.ActiveSubscriptions)
	if err != nil {
		return nil, fmt.Errorf("failed to count active subscriptions: %w", err)
	}

	return metrics, nil
}
