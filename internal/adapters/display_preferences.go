package adapters

import (
	"context"

	"lead_dashboard_backend/internal/leads/ports"
)

// ItemsPerPageReader is the narrow interface for reading the page size setting.
type ItemsPerPageReader interface {
	ItemsPerPage(ctx context.Context) (int, error)
}

// DisplayPreferencesAdapter implements leads/ports.DisplayPreferences using
// the settings service.
type DisplayPreferencesAdapter struct {
	svc ItemsPerPageReader
}

// NewDisplayPreferencesAdapter creates a new adapter.
func NewDisplayPreferencesAdapter(svc ItemsPerPageReader) *DisplayPreferencesAdapter {
	return &DisplayPreferencesAdapter{svc: svc}
}

// ItemsPerPage returns the preferred lead list page size, 10 when unreadable.
func (a *DisplayPreferencesAdapter) ItemsPerPage(ctx context.Context) (int, error) {
	size, err := a.svc.ItemsPerPage(ctx)
	if err != nil {
		return 10, err
	}
	return size, nil
}

// Compile-time check.
var _ ports.DisplayPreferences = (*DisplayPreferencesAdapter)(nil)
