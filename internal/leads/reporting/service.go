// Package reporting builds the dashboard and report views from the lead
// collection using the query aggregates.
package reporting

import (
	"context"
	"fmt"
	"slices"
	"time"

	"lead_dashboard_backend/internal/leads/domain"
	"lead_dashboard_backend/internal/leads/management"
	"lead_dashboard_backend/internal/leads/query"
	"lead_dashboard_backend/internal/leads/transport"
	"lead_dashboard_backend/platform/apperr"
)

const (
	// DefaultWindowDays is used when a report does not name a window.
	DefaultWindowDays = 30
	recentLimit       = 5
)

// AllowedWindows are the report windows offered by the date range picker.
var AllowedWindows = []int{7, 30, 90, 365}

// LeadSource provides the current collection.
type LeadSource interface {
	Snapshot() []domain.Lead
}

// Service computes dashboard summaries and reports.
type Service struct {
	leads  LeadSource
	mapper *management.Mapper
	now    func() time.Time
}

// New creates a reporting service.
func New(leads LeadSource, mapper *management.Mapper) *Service {
	if mapper == nil {
		mapper = management.NewMapper(nil)
	}
	return &Service{leads: leads, mapper: mapper, now: time.Now}
}

// Dashboard returns the stat cards, the five most recent leads, the leads
// due for follow-up and the source breakdown.
func (s *Service) Dashboard(_ context.Context) transport.DashboardResponse {
	leads := s.leads.Snapshot()
	summary := query.Summarize(leads)

	return transport.DashboardResponse{
		Stats: transport.StatsResponse{
			Total:          summary.Total,
			ByStatus:       summary.ByStatus,
			ConversionRate: summary.ConversionRate,
		},
		Recent:    s.mapper.Leads(query.Recent(leads, recentLimit)),
		FollowUps: s.mapper.Leads(query.DueForFollowUp(leads, s.now())),
		BySource:  query.CountBySource(leads),
	}
}

// Report returns every aggregate over the whole collection plus the daily
// creation counts for the trailing windowDays. 0 selects DefaultWindowDays.
func (s *Service) Report(_ context.Context, windowDays int) (transport.ReportResponse, error) {
	if windowDays == 0 {
		windowDays = DefaultWindowDays
	}
	if !slices.Contains(AllowedWindows, windowDays) {
		return transport.ReportResponse{}, apperr.Validation(fmt.Sprintf("days must be one of %v", AllowedWindows))
	}

	leads := s.leads.Snapshot()
	byBudget := query.CountByBudget(leads)
	buckets := make([]transport.BucketCount, 0, len(query.BudgetBuckets))
	for _, label := range query.BudgetBuckets {
		buckets = append(buckets, transport.BucketCount{Label: label, Count: byBudget[label]})
	}

	return transport.ReportResponse{
		WindowDays:            windowDays,
		Total:                 len(leads),
		ConversionRate:        query.ConversionRate(leads),
		AverageConversionDays: query.AverageConversionDays(leads),
		ByStatus:              query.CountByStatus(leads),
		BySource:              query.CountBySource(leads),
		ByModel:               query.CountByModel(leads),
		ByBudget:              buckets,
		ByDate:                query.CountByDate(leads, windowDays, s.now()),
	}, nil
}
