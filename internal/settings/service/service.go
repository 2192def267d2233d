// Package service reads and updates the dashboard settings.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"lead_dashboard_backend/internal/events"
	"lead_dashboard_backend/internal/settings/domain"
	"lead_dashboard_backend/internal/settings/repository"
	"lead_dashboard_backend/internal/settings/transport"
	"lead_dashboard_backend/platform/apperr"
	"lead_dashboard_backend/platform/logger"
	"lead_dashboard_backend/platform/validator"
)

// Service owns the settings document. The loaded value is cached; the
// repository is only read on first use.
type Service struct {
	repo repository.Repository
	bus  events.Bus
	val  *validator.Validator
	log  *logger.Logger

	mu     sync.Mutex
	cached *domain.Settings
}

// New creates a settings service. bus may be nil.
func New(repo repository.Repository, bus events.Bus, val *validator.Validator, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{repo: repo, bus: bus, val: val, log: log}
}

// Get returns the stored settings merged over the defaults.
func (s *Service) Get(ctx context.Context) (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Service) loadLocked(ctx context.Context) (domain.Settings, error) {
	if s.cached != nil {
		return *s.cached, nil
	}

	raw, err := s.repo.Load(ctx)
	if err != nil {
		return domain.Settings{}, apperr.Wrap(apperr.KindInternal, "failed to load settings", err).WithOp("settings.Get")
	}

	settings := domain.Defaults()
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &settings); err != nil {
			s.log.Warn("stored settings are unreadable, using defaults", "error", err)
			settings = domain.Defaults()
		} else if err := s.val.Struct(settings); err != nil {
			s.log.Warn("stored settings are invalid, using defaults", "error", err)
			settings = domain.Defaults()
		}
	}

	s.cached = &settings
	return settings, nil
}

// Update applies a partial update, validates the result and persists it.
func (s *Service) Update(ctx context.Context, req transport.UpdateSettingsRequest) (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.loadLocked(ctx)
	if err != nil {
		return domain.Settings{}, err
	}

	next := req.Apply(current)
	if err := s.val.Struct(next); err != nil {
		return domain.Settings{}, apperr.Validation("invalid settings").WithDetails(validator.FieldErrors(err))
	}

	raw, err := json.Marshal(next)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("encode settings: %w", err)
	}
	if err := s.repo.Save(ctx, raw); err != nil {
		s.log.StoreError("settings.save", err)
		return domain.Settings{}, apperr.Wrap(apperr.KindInternal, "failed to save settings", err).WithOp("settings.Update")
	}
	s.cached = &next
	s.publishUpdated(ctx, next)
	return next, nil
}

// Reset restores the defaults.
func (s *Service) Reset(ctx context.Context) (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	defaults := domain.Defaults()
	raw, err := json.Marshal(defaults)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("encode settings: %w", err)
	}
	if err := s.repo.Save(ctx, raw); err != nil {
		s.log.StoreError("settings.reset", err)
		return domain.Settings{}, apperr.Wrap(apperr.KindInternal, "failed to reset settings", err).WithOp("settings.Reset")
	}
	s.cached = &defaults
	s.publishUpdated(ctx, defaults)
	return defaults, nil
}

func (s *Service) publishUpdated(ctx context.Context, settings domain.Settings) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, events.SettingsUpdated{
		BaseEvent:          events.NewBaseEvent(),
		ItemsPerPage:       settings.Data.ItemsPerPage,
		EmailNotifications: settings.Notifications.Email,
	})
}

// ItemsPerPage returns the preferred lead list page size.
func (s *Service) ItemsPerPage(ctx context.Context) (int, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return 0, err
	}
	return settings.Data.ItemsPerPage, nil
}

// EmailNotificationsEnabled reports whether the user wants e-mail notifications.
func (s *Service) EmailNotificationsEnabled(ctx context.Context) (bool, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return false, err
	}
	return settings.Notifications.Email, nil
}
