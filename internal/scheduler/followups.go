package scheduler

import (
	"context"
	"sync"
	"time"

	"lead_dashboard_backend/internal/events"
	"lead_dashboard_backend/internal/leads/domain"
	"lead_dashboard_backend/internal/leads/query"
	"lead_dashboard_backend/platform/logger"
)

// LeadSource provides the current lead collection.
type LeadSource interface {
	Snapshot() []domain.Lead
}

// FollowUpChecker evaluates the due follow-ups and publishes FollowUpsDue.
// Each lead is reported at most once per UTC day, so the hourly sweep and the
// cron task can both run without repeating reminders.
type FollowUpChecker struct {
	leads LeadSource
	bus   events.Bus
	log   *logger.Logger
	now   func() time.Time

	// mu serialises Check so concurrent runs cannot report the same lead twice.
	mu       sync.Mutex
	notified map[domain.LeadID]string
}

func NewFollowUpChecker(leads LeadSource, bus events.Bus, log *logger.Logger) *FollowUpChecker {
	if log == nil {
		log = logger.Discard()
	}
	return &FollowUpChecker{
		leads:    leads,
		bus:      bus,
		log:      log,
		now:      time.Now,
		notified: make(map[domain.LeadID]string),
	}
}

// Check publishes the leads due as of asOf that have not been reported on
// that day yet. A zero asOf uses the current time. It returns the number of
// leads published.
func (c *FollowUpChecker) Check(ctx context.Context, asOf time.Time) (int, error) {
	if asOf.IsZero() {
		asOf = c.now()
	}
	day := asOf.UTC().Format(time.DateOnly)

	c.mu.Lock()
	defer c.mu.Unlock()

	due := query.DueForFollowUp(c.leads.Snapshot(), asOf)
	fresh := make([]events.DueLead, 0, len(due))
	for _, lead := range due {
		if c.notified[lead.ID] == day {
			continue
		}
		fresh = append(fresh, events.DueLead{
			LeadID:       lead.ID.String(),
			Name:         lead.Name,
			Phone:        lead.Phone,
			Status:       string(lead.Status),
			NextFollowUp: lead.NextFollowUp.Time,
		})
	}

	if len(fresh) == 0 {
		c.log.Debug("no new follow-ups due", "asOf", day, "due", len(due))
		return 0, nil
	}

	err := c.bus.PublishSync(ctx, events.FollowUpsDue{
		BaseEvent: events.NewBaseEventAt(c.now()),
		AsOf:      asOf,
		Leads:     fresh,
	})
	if err != nil {
		return 0, err
	}

	for _, lead := range fresh {
		c.notified[domain.LeadID(lead.LeadID)] = day
	}

	c.log.Info("follow-ups due published", "asOf", day, "leads", len(fresh))
	return len(fresh), nil
}
