// Package query implements the read side of the lead dashboard: pure
// functions that filter, paginate, group and summarize a lead collection.
// None of them mutate their input except UpdateStatus, which edits the
// matched element in place.
package query

import (
	"math"
	"slices"
	"strings"
	"time"

	"lead_dashboard_backend/internal/leads/domain"
)

// Filter returns the leads matching statusFilter and searchQuery, in input order.
// statusFilter "all" or "" matches every status. searchQuery is trimmed and
// matched case-insensitively against name, email, notes and the raw phone.
func Filter(leads []domain.Lead, statusFilter, searchQuery string) []domain.Lead {
	statusFilter = strings.TrimSpace(statusFilter)
	query := strings.ToLower(strings.TrimSpace(searchQuery))
	matchAllStatuses := statusFilter == "" || statusFilter == domain.StatusAll

	out := make([]domain.Lead, 0, len(leads))
	for _, lead := range leads {
		if !matchAllStatuses && string(lead.Status) != statusFilter {
			continue
		}
		if query != "" && !matchesSearch(lead, query) {
			continue
		}
		out = append(out, lead)
	}
	return out
}

func matchesSearch(lead domain.Lead, query string) bool {
	return strings.Contains(strings.ToLower(lead.Name), query) ||
		strings.Contains(strings.ToLower(lead.Email), query) ||
		strings.Contains(lead.Phone, query) ||
		strings.Contains(strings.ToLower(lead.Notes), query)
}

// Paginate returns the 1-indexed page of pageSize leads. Out-of-range pages,
// page < 1 and pageSize < 1 yield an empty slice.
func Paginate(leads []domain.Lead, page, pageSize int) []domain.Lead {
	if page < 1 || pageSize < 1 {
		return []domain.Lead{}
	}
	start := (page - 1) * pageSize
	if start >= len(leads) || start < 0 {
		return []domain.Lead{}
	}
	end := min(start+pageSize, len(leads))
	return slices.Clone(leads[start:end])
}

// PageCount returns the number of pages needed for total items.
func PageCount(total, pageSize int) int {
	if total <= 0 || pageSize < 1 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// ClampPage limits page to [1, max(1, PageCount(total, pageSize))].
func ClampPage(page, total, pageSize int) int {
	last := max(1, PageCount(total, pageSize))
	return min(max(page, 1), last)
}

// FindByID returns the lead with the given id.
func FindByID(leads []domain.Lead, id domain.LeadID) (domain.Lead, bool) {
	id = domain.NewLeadID(string(id))
	for _, lead := range leads {
		if lead.ID == id {
			return lead.Clone(), true
		}
	}
	return domain.Lead{}, false
}

// UpdateStatus sets the status and last-contacted time of the lead with id,
// in place, and returns the updated lead. When no lead matches it returns
// false and leaves leads untouched. newStatus is applied as given.
func UpdateStatus(leads []domain.Lead, id domain.LeadID, newStatus domain.Status, now time.Time) (domain.Lead, bool) {
	id = domain.NewLeadID(string(id))
	for i := range leads {
		if leads[i].ID != id {
			continue
		}
		leads[i].Status = newStatus
		leads[i].LastContacted = domain.TimestampOf(now)
		return leads[i].Clone(), true
	}
	return domain.Lead{}, false
}

// Recent returns up to limit leads, newest created first. Leads without a
// valid created time sort after all others; ties keep collection order.
func Recent(leads []domain.Lead, limit int) []domain.Lead {
	if limit <= 0 {
		return []domain.Lead{}
	}
	sorted := slices.Clone(leads)
	slices.SortStableFunc(sorted, func(a, b domain.Lead) int {
		switch {
		case a.Created.Valid && !b.Created.Valid:
			return -1
		case !a.Created.Valid && b.Created.Valid:
			return 1
		case !a.Created.Valid:
			return 0
		}
		return b.Created.Time.Compare(a.Created.Time)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// DueForFollowUp returns active leads whose follow-up date is on or before
// asOf's UTC date, in collection order.
func DueForFollowUp(leads []domain.Lead, asOf time.Time) []domain.Lead {
	today := domain.DayOf(asOf)
	out := make([]domain.Lead, 0)
	for _, lead := range leads {
		if !lead.NextFollowUp.Valid || lead.Status.IsClosed() {
			continue
		}
		if lead.NextFollowUp.Day().After(today) {
			continue
		}
		out = append(out, lead)
	}
	return out
}

// ConversionRate is the rounded percentage of converted leads; 0 when empty.
func ConversionRate(leads []domain.Lead) int {
	if len(leads) == 0 {
		return 0
	}
	converted := 0
	for _, lead := range leads {
		if lead.Status == domain.StatusConverted {
			converted++
		}
	}
	return int(math.Round(100 * float64(converted) / float64(len(leads))))
}

// AverageConversionDays is the rounded mean number of days, rounded up per
// lead, between creation and last contact of converted leads. Leads missing
// either time are skipped; 0 when none qualify.
func AverageConversionDays(leads []domain.Lead) int {
	var sum float64
	count := 0
	for _, lead := range leads {
		if lead.Status != domain.StatusConverted || !lead.Created.Valid || !lead.LastContacted.Valid {
			continue
		}
		diff := lead.LastContacted.Time.Sub(lead.Created.Time)
		if diff < 0 {
			diff = -diff
		}
		sum += math.Ceil(diff.Hours() / 24)
		count++
	}
	if count == 0 {
		return 0
	}
	return int(math.Round(sum / float64(count)))
}
