// Package ports defines consumer-driven interfaces for external dependencies.
// These interfaces are defined in the Leads domain based on what it needs,
// rather than what other domains choose to offer.
package ports

import "context"

// DisplayPreferences exposes the user's list preferences.
// The settings module's service satisfies this through an adapter.
type DisplayPreferences interface {
	// ItemsPerPage returns the preferred page size for lead lists.
	ItemsPerPage(ctx context.Context) (int, error)
}
