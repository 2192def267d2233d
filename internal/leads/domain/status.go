package domain

import "strings"

// Status is the pipeline stage of a lead.
type Status string

const (
	StatusNew           Status = "new"
	StatusContacted     Status = "contacted"
	StatusFollowUp      Status = "follow_up"
	StatusConverted     Status = "converted"
	StatusNotInterested Status = "not_interested"

	// StatusAll is the filter value that matches every status.
	StatusAll = "all"
)

// Statuses lists the known statuses in pipeline order.
var Statuses = []Status{
	StatusNew,
	StatusContacted,
	StatusFollowUp,
	StatusConverted,
	StatusNotInterested,
}

var statusLabels = map[Status]string{
	StatusNew:           "New",
	StatusContacted:     "Contacted",
	StatusFollowUp:      "Follow-up",
	StatusConverted:     "Converted",
	StatusNotInterested: "Not Interested",
}

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	_, ok := statusLabels[s]
	return ok
}

// IsClosed reports whether the lead has left the active pipeline.
func (s Status) IsClosed() bool {
	return s == StatusConverted || s == StatusNotInterested
}

// Label returns the display name. Unknown statuses are shown verbatim.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// ParseStatus normalizes raw and reports whether it names a known status.
func ParseStatus(raw string) (Status, bool) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	return s, s.IsValid()
}

// IsStatusFilter reports whether raw is acceptable as a list filter:
// empty, "all" or a known status.
func IsStatusFilter(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == StatusAll {
		return true
	}
	return Status(raw).IsValid()
}
