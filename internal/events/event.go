// Package events defines the lead dashboard's domain events. The bus
// itself lives in platform/events and is re-exported here so modules
// import a single package.
package events

import (
	"time"

	"lead_dashboard_backend/platform/events"
	"lead_dashboard_backend/platform/logger"
)

type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

var (
	NewBaseEvent   = events.NewBaseEvent
	NewBaseEventAt = events.NewBaseEventAt
)

// NewInMemoryBus returns the bus used by the API process.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a new lead is added to the collection.
type LeadCreated struct {
	BaseEvent
	LeadID string `json:"leadId"`
	Name   string `json:"name"`
	Source string `json:"source,omitempty"`
	Status string `json:"status"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadStatusChanged is published after a status update has been committed.
type LeadStatusChanged struct {
	BaseEvent
	LeadID    string `json:"leadId"`
	Name      string `json:"name"`
	OldStatus string `json:"oldStatus"`
	NewStatus string `json:"newStatus"`
}

func (e LeadStatusChanged) EventName() string { return "leads.lead.status_changed" }

// LeadNoteAdded is published when a timeline note is appended to a lead.
type LeadNoteAdded struct {
	BaseEvent
	LeadID string `json:"leadId"`
	NoteID string `json:"noteId"`
	Author string `json:"author"`
}

func (e LeadNoteAdded) EventName() string { return "leads.note.added" }

// DueLead is the subset of a lead carried by FollowUpsDue.
type DueLead struct {
	LeadID       string    `json:"leadId"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	Status       string    `json:"status"`
	NextFollowUp time.Time `json:"nextFollowUp"`
}

// FollowUpsDue is published by the follow-up sweep when at least one lead is due.
type FollowUpsDue struct {
	BaseEvent
	AsOf  time.Time `json:"asOf"`
	Leads []DueLead `json:"leads"`
}

func (e FollowUpsDue) EventName() string { return "leads.followups.due" }

// =============================================================================
// Settings Domain Events
// =============================================================================

// SettingsUpdated is published after dashboard settings have been saved.
type SettingsUpdated struct {
	BaseEvent
	ItemsPerPage       int  `json:"itemsPerPage"`
	EmailNotifications bool `json:"emailNotifications"`
}

func (e SettingsUpdated) EventName() string { return "settings.updated" }
