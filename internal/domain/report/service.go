// Package report serves the read-only dashboard aggregates.
package report

import (
	"context"
	"time"

	"github.com/ofarouk/deskhub/internal/repository"
)

// Service computes dashboard metrics.
type Service struct {
	reports repository.ReportRepository
}

// NewService creates a report service.
func NewService(reports repository.ReportRepository) *Service {
	return &Service{reports: reports}
}

// Dashboard returns today's activity snapshot. "Today" starts at local
// midnight.
func (s *Service) Dashboard(ctx context.Context) (*repository.Metrics, error) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.reports.DashboardMetrics(ctx, startOfDay)
}
