package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ofarouk/deskhub/internal/money"
	"github.com/ofarouk/deskhub/internal/repository"
)

// Service is the session lifecycle engine. Every public operation runs
// inside a single transaction.
type Service struct {
	runner        repository.TxRunner
	sessions      Repository
	resources     ResourceRepository
	inventory     InventoryRepository
	subscriptions SubscriptionRepository
	customers     CustomerRepository
	invoices      InvoiceCreator
	logger        *slog.Logger
}

// NewService creates a session service.
func NewService(
	runner repository.TxRunner,
	sessions Repository,
	resources ResourceRepository,
	inventory InventoryRepository,
	subscriptions SubscriptionRepository,
	customers CustomerRepository,
	invoices InvoiceCreator,
	logger *slog.Logger,
) *Service {
	return &Service{
		runner:        runner,
		sessions:      sessions,
		resources:     resources,
		inventory:     inventory,
		subscriptions: subscriptions,
		customers:     customers,
		invoices:      invoices,
		logger:        logger,
	}
}

// Start opens a session for a customer on a resource. The resource's
// hourly rate and the customer's subscription coverage are snapshotted
// onto the session; the resource is marked occupied.
func (s *Service) Start(ctx context.Context, customerID, resourceID string) (*Session, error) {
	if customerID == "" || resourceID == "" {
		return nil, repository.ErrInvalidInput
	}

	var sess *Session
	err := s.runner.InTx(ctx, func(ctx context.Context) error {
		if _, err := s.customers.Get(ctx, customerID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrCustomerNotFound
			}
			return err
		}

		res, err := s.resources.Get(ctx, resourceID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrResourceNotFound
			}
			return err
		}
		if !res.Available {
			return ErrResourceOccupied
		}

		active, err := s.sessions.HasActiveForCustomer(ctx, customerID)
		if err != nil {
			return err
		}
		if active {
			return ErrCustomerHasActiveSession
		}

		now := time.Now().UTC()
		subscribed, err := s.subscriptions.HasActiveOn(ctx, customerID, now)
		if err != nil {
			return err
		}

		sess = &Session{
			ID:             uuid.NewString(),
			CustomerID:     customerID,
			ResourceID:     resourceID,
			HourlyRate:     res.HourlyRate,
			StartedAt:      now,
			Subscribed:     subscribed,
			InventoryTotal: money.Zero(),
			SessionCost:    money.Zero(),
			TotalAmount:    money.Zero(),
			Status:         StatusActive,
			CreatedAt:      now,
		}
		if err := s.sessions.Create(ctx, sess); err != nil {
			return err
		}
		if err := s.resources.SetAvailable(ctx, resourceID, false); err != nil {
			return err
		}
		return s.customers.IncrementSessions(ctx, customerID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("session started",
		"session_id", sess.ID,
		"customer_id", customerID,
		"resource_id", resourceID,
		"subscribed", sess.Subscribed)
	return sess, nil
}

// AttachItem adds quantity units of an item to an active session,
// decrementing stock. Re-attaching the same item merges into the
// existing line at its original unit price.
func (s *Service) AttachItem(ctx context.Context, sessionID, itemID string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	err := s.runner.InTx(ctx, func(ctx context.Context) error {
		sess, err := s.getSession(ctx, sessionID)
		if err != nil {
			return err
		}
		if sess.Status != StatusActive {
			return ErrSessionNotActive
		}

		item, err := s.inventory.Get(ctx, itemID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrItemNotFound
			}
			return err
		}
		if item.Quantity < quantity {
			return ErrInsufficientStock
		}

		line, err := s.sessions.GetLine(ctx, sessionID, itemID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if line == nil {
			line = &Line{
				SessionID: sessionID,
				ItemID:    itemID,
				ItemName:  item.Name,
				Quantity:  quantity,
				UnitPrice: item.UnitPrice,
				AddedAt:   time.Now().UTC(),
			}
		} else {
			line.Quantity += quantity
		}

		if err := s.inventory.AdjustStock(ctx, itemID, -quantity); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrInsufficientStock
			}
			return err
		}
		if err := s.sessions.ReplaceLine(ctx, line); err != nil {
			return err
		}

		delta := money.Line(quantity, line.UnitPrice)
		return s.sessions.AddToInventoryTotal(ctx, sessionID, delta)
	})
	if err != nil {
		return err
	}

	s.logger.Info("item attached", "session_id", sessionID, "item_id", itemID, "quantity", quantity)
	return nil
}

// DetachItem removes an item line entirely, returning its full quantity
// to stock. Allowed on completed sessions for post-hoc corrections.
func (s *Service) DetachItem(ctx context.Context, sessionID, itemID string) error {
	err := s.runner.InTx(ctx, func(ctx context.Context) error {
		if _, err := s.getSession(ctx, sessionID); err != nil {
			return err
		}

		line, err := s.getLine(ctx, sessionID, itemID)
		if err != nil {
			return err
		}

		if err := s.inventory.AdjustStock(ctx, itemID, line.Quantity); err != nil {
			return err
		}
		if err := s.sessions.DeleteLine(ctx, sessionID, itemID); err != nil {
			return err
		}
		return s.sessions.AddToInventoryTotal(ctx, sessionID, line.Amount().Neg())
	})
	if err != nil {
		return err
	}

	s.logger.Info("item detached", "session_id", sessionID, "item_id", itemID)
	return nil
}

// SetItemQuantity sets an existing line to an absolute quantity,
// settling the stock difference either way. Zero removes the line.
func (s *Service) SetItemQuantity(ctx context.Context, sessionID, itemID string, quantity int) error {
	if quantity < 0 {
		return ErrInvalidQuantity
	}
	if quantity == 0 {
		return s.DetachItem(ctx, sessionID, itemID)
	}

	err := s.runner.InTx(ctx, func(ctx context.Context) error {
		if _, err := s.getSession(ctx, sessionID); err != nil {
			return err
		}

		line, err := s.getLine(ctx, sessionID, itemID)
		if err != nil {
			return err
		}

		diff := quantity - line.Quantity
		if diff == 0 {
			return nil
		}
		if diff > 0 {
			item, err := s.inventory.Get(ctx, itemID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return ErrItemNotFound
				}
				return err
			}
			if item.Quantity < diff {
				return ErrInsufficientStock
			}
		}

		if err := s.inventory.AdjustStock(ctx, itemID, -diff); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrInsufficientStock
			}
			return err
		}

		oldAmount := line.Amount()
		line.Quantity = quantity
		if err := s.sessions.ReplaceLine(ctx, line); err != nil {
			return err
		}
		return s.sessions.AddToInventoryTotal(ctx, sessionID, line.Amount().Sub(oldAmount))
	})
	if err != nil {
		return err
	}

	s.logger.Info("item quantity set", "session_id", sessionID, "item_id", itemID, "quantity", quantity)
	return nil
}

// End settles an active session: computes the time cost from whole
// elapsed minutes (waived for subscribed sessions), frees the resource,
// creates the invoice, and adds the total to the customer's balance.
// It returns the settled session and the created invoice id.
func (s *Service) End(ctx context.Context, sessionID string) (*Session, string, error) {
	var (
		sess      *Session
		invoiceID string
	)
	err := s.runner.InTx(ctx, func(ctx context.Context) error {
		var err error
		sess, err = s.getSession(ctx, sessionID)
		if err != nil {
			return err
		}
		if sess.Status != StatusActive {
			return ErrSessionNotActive
		}

		endedAt := time.Now().UTC()
		cost := money.Zero()
		if !sess.Subscribed {
			cost = money.SessionCost(sess.HourlyRate, sess.DurationMinutes(endedAt))
		}
		total := cost.Add(sess.InventoryTotal)

		if err := s.sessions.Settle(ctx, sessionID, endedAt, cost, total); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrSessionNotActive
			}
			return err
		}
		sess.EndedAt = &endedAt
		sess.SessionCost = cost
		sess.TotalAmount = total
		sess.Status = StatusCompleted

		if err := s.resources.SetAvailable(ctx, sess.ResourceID, true); err != nil {
			return err
		}

		res, err := s.resources.Get(ctx, sess.ResourceID)
		if err != nil {
			return err
		}
		lines, err := s.sessions.ListLines(ctx, sessionID)
		if err != nil {
			return err
		}
		invoiceID, err = s.invoices.CreateForSession(ctx, sess, res.Name, lines)
		if err != nil {
			return err
		}

		return s.customers.AdjustBalance(ctx, sess.CustomerID, total)
	})
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("session ended",
		"session_id", sessionID,
		"duration_min", sess.DurationMinutes(*sess.EndedAt),
		"total", sess.TotalAmount,
		"invoice_id", invoiceID)
	return sess, invoiceID, nil
}

// Get returns one session with its lines.
func (s *Service) Get(ctx context.Context, sessionID string) (*Session, []Line, error) {
	sess, err := s.getSession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	lines, err := s.sessions.ListLines(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	return sess, lines, nil
}

// ListActive returns all currently active sessions.
func (s *Service) ListActive(ctx context.Context) ([]Session, error) {
	return s.sessions.ListActive(ctx)
}

// EndStale settles every active session that started more than maxAge
// ago. Failures are logged and skipped so one bad session doesn't block
// the sweep. It returns the number of sessions ended.
func (s *Service) EndStale(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-maxAge)
	stale, err := s.sessions.ListActiveStartedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	ended := 0
	for _, sess := range stale {
		if _, _, err := s.End(ctx, sess.ID); err != nil {
			s.logger.Error("failed to end stale session", "session_id", sess.ID, "error", err)
			continue
		}
		ended++
	}
	return ended, nil
}

func (s *Service) getSession(ctx context.Context, sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return sess, nil
}

func (s *Service) getLine(ctx context.Context, sessionID, itemID string) (*Line, error) {
	line, err := s.sessions.GetLine(ctx, sessionID, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLineNotFound
		}
		return nil, err
	}
	return line, nil
}
