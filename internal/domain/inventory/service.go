package inventory

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ofarouk/deskhub/internal/repository"
)

// Service manages the consumable stock catalog.
type Service struct {
	runner repository.TxRunner
	items  Repository
	logger *slog.Logger
}

// NewService creates an inventory service.
func NewService(runner repository.TxRunner, items Repository, logger *slog.Logger) *Service {
	return &Service{runner: runner, items: items, logger: logger}
}

// Create adds a new stock item.
func (s *Service) Create(ctx context.Context, name, category string, unitPrice decimal.Decimal, quantity, minStock int) (*Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if unitPrice.IsNegative() {
		return nil, ErrInvalidPrice
	}
	if quantity < 0 || minStock < 0 {
		return nil, ErrInvalidQuantity
	}

	now := time.Now().UTC()
	item := &Item{
		ID:        uuid.NewString(),
		Name:      name,
		Category:  category,
		UnitPrice: unitPrice,
		Quantity:  quantity,
		MinStock:  minStock,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("inventory item created", "item_id", item.ID, "name", name)
	return item, nil
}

// Get returns one item.
func (s *Service) Get(ctx context.Context, id string) (*Item, error) {
	item, err := s.items.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

// List returns all items.
func (s *Service) List(ctx context.Context) ([]Item, error) {
	return s.items.List(ctx)
}

// ListLowStock returns items at or below their minimum stock level.
func (s *Service) ListLowStock(ctx context.Context) ([]Item, error) {
	items, err := s.items.List(ctx)
	if err != nil {
		return nil, err
	}

	var low []Item
	for _, item := range items {
		if item.Quantity <= item.MinStock {
			low = append(low, item)
		}
	}
	return low, nil
}

// Update applies a partial update and returns the fresh record. Price
// changes only affect future attachments.
func (s *Service) Update(ctx context.Context, id string, patch Patch) (*Item, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, ErrNameRequired
	}
	if patch.UnitPrice != nil && patch.UnitPrice.IsNegative() {
		return nil, ErrInvalidPrice
	}
	if (patch.Quantity != nil && *patch.Quantity < 0) || (patch.MinStock != nil && *patch.MinStock < 0) {
		return nil, ErrInvalidQuantity
	}

	var item *Item
	err := s.runner.InTx(ctx, func(ctx context.Context) error {
		if err := s.items.Update(ctx, id, patch); err != nil {
			return err
		}
		var err error
		item, err = s.items.Get(ctx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

// Restock adjusts on-hand stock by delta, negative for a manual
// withdrawal. Stock can't go below zero.
func (s *Service) Restock(ctx context.Context, id string, delta int) (*Item, error) {
	var item *Item
	err := s.runner.InTx(ctx, func(ctx context.Context) error {
		if err := s.items.AdjustStock(ctx, id, delta); err != nil {
			return err
		}
		var err error
		item, err = s.items.Get(ctx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrInsufficientStock
		}
		return nil, err
	}

	s.logger.Info("stock adjusted", "item_id", id, "delta", delta, "quantity", item.Quantity)
	return item, nil
}

// Delete removes an item that was never sold.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.items.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		if errors.Is(err, repository.ErrConflict) {
			return ErrInUse
		}
		return err
	}

	s.logger.Info("inventory item deleted", "item_id", id)
	return nil
}
