package query

import (
	"strings"
	"time"

	"lead_dashboard_backend/internal/leads/domain"
)

// UnknownSource labels leads that carry no source.
const UnknownSource = "Unknown"

// Budget bucket labels, in ascending order.
const (
	BudgetUnder5L = "Under 5L"
	Budget5To10L  = "5L-10L"
	Budget10To15L = "10L-15L"
	Budget15To20L = "15L-20L"
	Budget20LPlus = "20L+"
)

// BudgetBuckets lists the budget labels in ascending order.
var BudgetBuckets = []string{BudgetUnder5L, Budget5To10L, Budget10To15L, Budget15To20L, Budget20LPlus}

// CountByStatus counts leads per known status. Every status is present,
// and leads with an unknown status are not counted.
func CountByStatus(leads []domain.Lead) map[domain.Status]int {
	counts := make(map[domain.Status]int, len(domain.Statuses))
	for _, status := range domain.Statuses {
		counts[status] = 0
	}
	for _, lead := range leads {
		if lead.Status.IsValid() {
			counts[lead.Status]++
		}
	}
	return counts
}

// CountBySource counts leads per source; blank sources count as UnknownSource.
func CountBySource(leads []domain.Lead) map[string]int {
	counts := make(map[string]int)
	for _, lead := range leads {
		source := lead.Source
		if strings.TrimSpace(source) == "" {
			source = UnknownSource
		}
		counts[source]++
	}
	return counts
}

// CountByModel counts leads per preferred model; blank models are skipped.
func CountByModel(leads []domain.Lead) map[string]int {
	counts := make(map[string]int)
	for _, lead := range leads {
		if strings.TrimSpace(lead.PreferredModel) == "" {
			continue
		}
		counts[lead.PreferredModel]++
	}
	return counts
}

// BudgetBucket returns the label for a budget in lakhs.
func BudgetBucket(lakhs int) string {
	switch {
	case lakhs < 5:
		return BudgetUnder5L
	case lakhs < 10:
		return Budget5To10L
	case lakhs < 15:
		return Budget10To15L
	case lakhs < 20:
		return Budget15To20L
	default:
		return Budget20LPlus
	}
}

// CountByBudget counts leads per budget bucket. Every bucket is present;
// budgets without digits are not counted.
func CountByBudget(leads []domain.Lead) map[string]int {
	counts := make(map[string]int, len(BudgetBuckets))
	for _, bucket := range BudgetBuckets {
		counts[bucket] = 0
	}
	for _, lead := range leads {
		lakhs, ok := domain.ParseBudget(lead.Budget)
		if !ok {
			continue
		}
		counts[BudgetBucket(lakhs)]++
	}
	return counts
}

// DateCount is the number of leads created on one UTC calendar day.
type DateCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// CountByDate returns one entry per day of the windowDays days ending on
// now's UTC date, oldest first, counting leads created on each day.
func CountByDate(leads []domain.Lead, windowDays int, now time.Time) []DateCount {
	if windowDays < 1 {
		return []DateCount{}
	}
	today := domain.DayOf(now)
	first := today.AddDate(0, 0, -(windowDays - 1))

	out := make([]DateCount, windowDays)
	index := make(map[string]int, windowDays)
	for i := range windowDays {
		key := first.AddDate(0, 0, i).Format(time.DateOnly)
		out[i] = DateCount{Date: key}
		index[key] = i
	}

	for _, lead := range leads {
		if !lead.Created.Valid {
			continue
		}
		if i, ok := index[lead.Created.DateString()]; ok {
			out[i].Count++
		}
	}
	return out
}

// Summary backs the dashboard stat cards.
type Summary struct {
	Total          int                   `json:"total"`
	ByStatus       map[domain.Status]int `json:"byStatus"`
	ConversionRate int                   `json:"conversionRate"`
}

// Summarize computes the headline numbers for leads.
func Summarize(leads []domain.Lead) Summary {
	return Summary{
		Total:          len(leads),
		ByStatus:       CountByStatus(leads),
		ConversionRate: ConversionRate(leads),
	}
}

// Column is one kanban column.
type Column struct {
	Status domain.Status `json:"status"`
	Label  string        `json:"label"`
	Leads  []domain.Lead `json:"leads"`
}

// Board groups leads into one column per known status, in pipeline order.
// Leads with an unknown status do not appear.
func Board(leads []domain.Lead) []Column {
	columns := make([]Column, len(domain.Statuses))
	index := make(map[domain.Status]int, len(domain.Statuses))
	for i, status := range domain.Statuses {
		columns[i] = Column{Status: status, Label: status.Label(), Leads: []domain.Lead{}}
		index[status] = i
	}
	for _, lead := range leads {
		if i, ok := index[lead.Status]; ok {
			columns[i].Leads = append(columns[i].Leads, lead)
		}
	}
	return columns
}
