// Package settings stores the application preferences blob. The content
// is owned by the UI; the server only checks that it is valid JSON.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ofarouk/deskhub/internal/repository"
)

// ErrInvalidJSON indicates a settings payload that isn't valid JSON.
var ErrInvalidJSON = fmt.Errorf("%w: settings must be valid JSON", repository.ErrInvalidInput)

// Service manages the settings blob.
type Service struct {
	settings repository.SettingsRepository
	logger   *slog.Logger
}

// NewService creates a settings service.
func NewService(settings repository.SettingsRepository, logger *slog.Logger) *Service {
	return &Service{settings: settings, logger: logger}
}

// Get returns the stored settings, or an empty object when none were
// saved yet.
func (s *Service) Get(ctx context.Context) (json.RawMessage, error) {
	raw, err := s.settings.Get(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return json.RawMessage("{}"), nil
	}
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

// Save replaces the stored settings.
func (s *Service) Save(ctx context.Context, raw json.RawMessage) error {
	if !json.Valid(raw) {
		return ErrInvalidJSON
	}
	if err := s.settings.Save(ctx, string(raw)); err != nil {
		return err
	}

	s.logger.Info("settings saved", "bytes", len(raw))
	return nil
}
