// Package notification provides event handlers for in-app notifications and
// the follow-up digest e-mail in response to domain events.
// This module subscribes to events and inverts the dependency: the leads
// module does not need to know about e-mail providers or templates.
package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lead_dashboard_backend/internal/email"
	"lead_dashboard_backend/internal/events"
	apphttp "lead_dashboard_backend/internal/http"
	"lead_dashboard_backend/internal/leads/domain"
	notifhandler "lead_dashboard_backend/internal/notification/handler"
	"lead_dashboard_backend/internal/notification/inapp"
	"lead_dashboard_backend/platform/logger"
)

const resourceTypeLead = "lead"

// Config provides the e-mail switches the module needs.
type Config interface {
	GetEmailEnabled() bool
	GetDigestRecipient() string
}

// Preferences reports the user's notification settings.
type Preferences interface {
	EmailEnabled(ctx context.Context) (bool, error)
}

// Module handles all notification-related event subscriptions.
type Module struct {
	sender       email.Sender
	cfg          Config
	prefs        Preferences
	log          *logger.Logger
	inAppService *inapp.Service
	inAppHandler *notifhandler.HTTPHandler

	// reminded maps a lead id to the UTC day its reminder was added, so a
	// retried FollowUpsDue only retries the e-mail.
	remindMu sync.Mutex
	reminded map[string]string
}

// New creates the notification module. sender may be nil when e-mail is not
// configured.
func New(sender email.Sender, cfg Config, log *logger.Logger) *Module {
	if sender == nil {
		sender = email.NoopSender{}
	}
	if log == nil {
		log = logger.Discard()
	}
	inAppService := inapp.NewService(inapp.NewRepository(inapp.DefaultCapacity), log)
	return &Module{
		sender:       sender,
		cfg:          cfg,
		log:          log,
		inAppService: inAppService,
		inAppHandler: notifhandler.NewHTTPHandler(inAppService),
		reminded:     make(map[string]string),
	}
}

// SetPreferences injects the settings reader (set after the settings module is built).
func (m *Module) SetPreferences(prefs Preferences) {
	m.prefs = prefs
}

// InAppService returns the in-app feed service.
func (m *Module) InAppService() *inapp.Service {
	return m.inAppService
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "notifications"
}

// RegisterRoutes mounts /notifications.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.inAppHandler.RegisterRoutes(ctx.V1.Group("/notifications"))
}

// RegisterHandlers subscribes the module to the events it reacts to.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadCreated{}.EventName(), m)
	bus.Subscribe(events.LeadStatusChanged{}.EventName(), m)
	bus.Subscribe(events.FollowUpsDue{}.EventName(), m)
}

// Handle implements events.Handler.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadCreated:
		return m.handleLeadCreated(ctx, e)
	case events.LeadStatusChanged:
		return m.handleLeadStatusChanged(ctx, e)
	case events.FollowUpsDue:
		return m.handleFollowUpsDue(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleLeadCreated(ctx context.Context, e events.LeadCreated) error {
	content := fmt.Sprintf("New lead %s added", displayName(e.Name))
	if e.Source != "" {
		content += " from " + e.Source
	}
	return m.inAppService.Send(ctx, inapp.SendParams{
		Title:        "New Lead",
		Content:      content,
		ResourceID:   e.LeadID,
		ResourceType: resourceTypeLead,
		Category:     inapp.CategoryNewLead,
	})
}

func (m *Module) handleLeadStatusChanged(ctx context.Context, e events.LeadStatusChanged) error {
	if e.OldStatus == e.NewStatus {
		return nil
	}
	return m.inAppService.Send(ctx, inapp.SendParams{
		Title: "Status Updated",
		Content: fmt.Sprintf("%s moved from %s to %s",
			displayName(e.Name), domain.Status(e.OldStatus).Label(), domain.Status(e.NewStatus).Label()),
		ResourceID:   e.LeadID,
		ResourceType: resourceTypeLead,
		Category:     inapp.CategoryStatusChange,
	})
}

func (m *Module) handleFollowUpsDue(ctx context.Context, e events.FollowUpsDue) error {
	if len(e.Leads) == 0 {
		return nil
	}

	if err := m.addReminders(ctx, e); err != nil {
		return err
	}

	if !m.digestEmailEnabled(ctx) {
		return nil
	}

	digest := email.FollowUpDigest{AsOf: e.AsOf, Leads: make([]email.DigestLead, 0, len(e.Leads))}
	for _, lead := range e.Leads {
		digest.Leads = append(digest.Leads, email.DigestLead{
			Name:    displayName(lead.Name),
			Phone:   lead.Phone,
			Status:  domain.Status(lead.Status).Label(),
			DueDate: lead.NextFollowUp.UTC().Format(time.DateOnly),
		})
	}

	recipient := m.cfg.GetDigestRecipient()
	if err := m.sender.SendFollowUpDigest(ctx, recipient, digest); err != nil {
		m.log.Error("failed to send follow-up digest", "error", err, "leads", len(e.Leads))
		return err
	}
	m.log.Info("follow-up digest sent", "leads", len(e.Leads))
	return nil
}

// addReminders adds one feed entry per lead and day.
func (m *Module) addReminders(ctx context.Context, e events.FollowUpsDue) error {
	asOf := e.AsOf
	if asOf.IsZero() {
		asOf = e.OccurredAt()
	}
	day := asOf.UTC().Format(time.DateOnly)

	m.remindMu.Lock()
	defer m.remindMu.Unlock()

	for _, lead := range e.Leads {
		if m.reminded[lead.LeadID] == day {
			continue
		}
		if err := m.inAppService.Send(ctx, inapp.SendParams{
			Title:        "Follow-up Reminder",
			Content:      fmt.Sprintf("Follow up with %s", displayName(lead.Name)),
			ResourceID:   lead.LeadID,
			ResourceType: resourceTypeLead,
			Category:     inapp.CategoryReminder,
		}); err != nil {
			return err
		}
		m.reminded[lead.LeadID] = day
	}
	return nil
}

func (m *Module) digestEmailEnabled(ctx context.Context) bool {
	if m.cfg == nil || !m.cfg.GetEmailEnabled() || m.cfg.GetDigestRecipient() == "" {
		return false
	}
	if m.prefs == nil {
		return true
	}
	enabled, err := m.prefs.EmailEnabled(ctx)
	if err != nil {
		m.log.Warn("failed to read e-mail preference, skipping digest", "error", err)
		return false
	}
	return enabled
}

func displayName(name string) string {
	if name == "" {
		return "Unnamed lead"
	}
	return name
}

// Compile-time checks
var (
	_ apphttp.Module = (*Module)(nil)
	_ events.Handler = (*Module)(nil)
)
