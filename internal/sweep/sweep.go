// Package sweep runs the periodic safety net that settles forgotten
// sessions and expires lapsed subscriptions.
package sweep

import (
	"context"
	"log/slog"
	"time"

	"github.com/ofarouk/deskhub/internal/domain/session"
	"github.com/ofarouk/deskhub/internal/domain/subscription"
)

type Sweeper struct {
	sessions      *session.Service
	subscriptions *subscription.Service
	interval      time.Duration
	maxSessionAge time.Duration
	logger        *slog.Logger
}

func New(sessions *session.Service, subscriptions *subscription.Service, interval, maxSessionAge time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		sessions:      sessions,
		subscriptions: subscriptions,
		interval:      interval,
		maxSessionAge: maxSessionAge,
		logger:        logger,
	}
}

// Run sweeps on the configured interval until ctx is cancelled. Stale
// sessions are ended through the normal settlement path so every
// invariant holds; they are never mutated directly.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("sweep started", "interval", s.interval, "max_session_age", s.maxSessionAge)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweep stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	ended, err := s.sessions.EndStale(ctx, s.maxSessionAge)
	if err != nil {
		s.logger.Error("stale session sweep failed", "error", err)
	} else if ended > 0 {
		s.logger.Warn("ended stale sessions", "count", ended)
	}

	if _, err := s.subscriptions.ExpireDue(ctx); err != nil {
		s.logger.Error("subscription expiry sweep failed", "error", err)
	}
}
