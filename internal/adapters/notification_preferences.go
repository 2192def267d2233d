package adapters

import (
	"context"

	"lead_dashboard_backend/internal/notification"
)

// EmailPreferenceReader is the narrow interface for reading the e-mail toggle.
type EmailPreferenceReader interface {
	EmailNotificationsEnabled(ctx context.Context) (bool, error)
}

// NotificationPreferencesAdapter implements notification.Preferences using
// the settings service.
type NotificationPreferencesAdapter struct {
	svc EmailPreferenceReader
}

// NewNotificationPreferencesAdapter creates a new adapter.
func NewNotificationPreferencesAdapter(svc EmailPreferenceReader) *NotificationPreferencesAdapter {
	return &NotificationPreferencesAdapter{svc: svc}
}

// EmailEnabled reports whether digest e-mails should be sent.
func (a *NotificationPreferencesAdapter) EmailEnabled(ctx context.Context) (bool, error) {
	return a.svc.EmailNotificationsEnabled(ctx)
}

// Compile-time check.
var _ notification.Preferences = (*NotificationPreferencesAdapter)(nil)
