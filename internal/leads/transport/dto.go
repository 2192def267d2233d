package transport

import (
	"time"

	"lead_dashboard_backend/internal/leads/domain"
	"lead_dashboard_backend/internal/leads/query"
)

// Request DTOs
type CreateLeadRequest struct {
	Name           string `json:"name" validate:"required,min=1,max=120"`
	Email          string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Phone          string `json:"phone" validate:"required,min=5,max=25"`
	Source         string `json:"source,omitempty" validate:"max=60"`
	Status         string `json:"status,omitempty" validate:"omitempty,leadstatus"`
	Notes          string `json:"notes,omitempty" validate:"max=2000"`
	Budget         string `json:"budget,omitempty" validate:"max=40"`
	PreferredModel string `json:"preferredModel,omitempty" validate:"max=80"`
	NextFollowUp   string `json:"nextFollowUp,omitempty" validate:"max=40"`
}

type UpdateLeadStatusRequest struct {
	Status string `json:"status" validate:"required,leadstatus"`
}

type ListLeadsRequest struct {
	Status   string `form:"status" validate:"omitempty,statusfilter"`
	Search   string `form:"search" validate:"max=200"`
	Page     int    `form:"page" validate:"min=0"`
	PageSize int    `form:"pageSize" validate:"min=0,max=100"`
}

type ExportLeadsRequest struct {
	Status string `form:"status" validate:"omitempty,statusfilter"`
	Search string `form:"search" validate:"max=200"`
}

type ReportRequest struct {
	Days int `form:"days" validate:"omitempty,oneof=7 30 90 365"`
}

// Response DTOs
type LeadResponse struct {
	ID             domain.LeadID    `json:"id"`
	Name           string           `json:"name"`
	Email          string           `json:"email"`
	Phone          string           `json:"phone"`
	PhoneE164      string           `json:"phoneE164,omitempty"`
	Source         string           `json:"source"`
	Status         domain.Status    `json:"status"`
	StatusLabel    string           `json:"statusLabel"`
	Created        domain.Timestamp `json:"created"`
	LastContacted  domain.Timestamp `json:"lastContacted"`
	NextFollowUp   domain.Timestamp `json:"nextFollowUp"`
	Notes          string           `json:"notes"`
	Budget         string           `json:"budget"`
	PreferredModel string           `json:"preferredModel"`
	NoteCount      int              `json:"noteCount"`
}

type LeadListResponse struct {
	Items        []LeadResponse        `json:"items"`
	Total        int                   `json:"total"`
	Page         int                   `json:"page"`
	PageSize     int                   `json:"pageSize"`
	TotalPages   int                   `json:"totalPages"`
	StatusCounts map[domain.Status]int `json:"statusCounts"`
	AllTotal     int                   `json:"allTotal"`
}

type BoardColumnResponse struct {
	Status domain.Status  `json:"status"`
	Label  string         `json:"label"`
	Count  int            `json:"count"`
	Leads  []LeadResponse `json:"leads"`
}

type StatsResponse struct {
	Total          int                   `json:"total"`
	ByStatus       map[domain.Status]int `json:"byStatus"`
	ConversionRate int                   `json:"conversionRate"`
}

type DashboardResponse struct {
	Stats     StatsResponse  `json:"stats"`
	Recent    []LeadResponse `json:"recent"`
	FollowUps []LeadResponse `json:"followUps"`
	BySource  map[string]int `json:"bySource"`
}

// BucketCount keeps budget buckets in presentation order.
type BucketCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type ReportResponse struct {
	WindowDays            int                   `json:"windowDays"`
	Total                 int                   `json:"total"`
	ConversionRate        int                   `json:"conversionRate"`
	AverageConversionDays int                   `json:"averageConversionDays"`
	ByStatus              map[domain.Status]int `json:"byStatus"`
	BySource              map[string]int        `json:"bySource"`
	ByModel               map[string]int        `json:"byModel"`
	ByBudget              []BucketCount         `json:"byBudget"`
	ByDate                []query.DateCount     `json:"byDate"`
}

type ExportArchiveResponse struct {
	FileName  string    `json:"fileName"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
	Rows      int       `json:"rows"`
}
