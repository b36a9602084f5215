package resource

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

// Service manages the registry of bookable units.
type Service struct {
	runner    repository.TxRunner
	resources Repository
	logger    *slog.Logger
}

// NewService creates a resource service.
func NewService(runner repository.TxRunner, resources Repository, logger *slog.Logger) *Service {
	return &Service{runner: runner, resources: resources, logger: logger}
}

// Create registers a new bookable unit, available immediately.
func (s *Service) Create(ctx context.Context, name string, typ Type, hourlyRate decimal.Decimal) (*Resource, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if !typ.Valid() {
		return nil, ErrInvalidType
	}
	if hourlyRate.IsNegative() {
		return nil, ErrInvalidRate
	}

	now := time.Now().UTC()
	r := &Resource{
		ID:         uuid.NewString(),
		Name:       name,
		Type:       typ,
		HourlyRate: hourlyRate,
		Available:  true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.resources.Create(ctx, r); err != nil {
		return nil, err
	}

	s.logger.Info("resource created", "resource_id", r.ID, "name", name, "type", typ)
	return r, nil
}

// Get returns one resource.
func (s *Service) Get(ctx context.Context, id string) (*Resource, error) {
	r, err := s.resources.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return r, nil
}

// List returns all resources.
func (s *Service) List(ctx context.Context) ([]Resource, error) {
	return s.resources.List(ctx)
}

// Update applies a partial update and returns the fresh record. Rate
// changes only affect sessions started afterwards.
func (s *Service) Update(ctx context.Context, id string, patch Patch) (*Resource, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, ErrNameRequired
	}
	if patch.Type != nil && !patch.Type.Valid() {
		return nil, ErrInvalidType
	}
	if patch.HourlyRate != nil && patch.HourlyRate.IsNegative() {
		return nil, ErrInvalidRate
	}

	var r *Resource
	err := s.runner.InTx(ctx, func(ctx context.Context) error {
		if err := s.resources.Update(ctx, id, patch); err != nil {
			return err
		}
		var err error
		r, err = s.resources.Get(ctx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return r, nil
}

// Delete removes a resource that has never hosted a session.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.resources.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		if errors.Is(err, repository.ErrConflict) {
			return ErrInUse
		}
		return err
	}

	s.logger.Info("resource deleted", "resource_id", id)
	return nil
}
