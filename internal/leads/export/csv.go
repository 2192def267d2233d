// Package export renders the lead table as CSV and archives exports in
// object storage.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"lead_dashboard_backend/internal/leads/domain"
)

// ContentType is the MIME type of rendered exports.
const ContentType = "text/csv; charset=utf-8"

// Header is the first CSV row.
var Header = []string{"Name", "Email", "Phone", "Status", "Source", "Created Date", "Last Contacted"}

// FileName returns the download name for an export made at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("leads_%s.csv", t.UTC().Format(time.DateOnly))
}

// WriteCSV writes the header and one row per lead. Dates are rendered as
// YYYY-MM-DD and left empty when absent.
func WriteCSV(w io.Writer, leads []domain.Lead) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, lead := range leads {
		if err := writer.Write(Row(lead)); err != nil {
			return fmt.Errorf("write csv row for lead %s: %w", lead.ID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// Row renders one lead.
func Row(lead domain.Lead) []string {
	return []string{
		lead.Name,
		lead.Email,
		lead.Phone,
		string(lead.Status),
		lead.Source,
		lead.Created.DateString(),
		lead.LastContacted.DateString(),
	}
}

// Render returns the CSV document as bytes.
func Render(leads []domain.Lead) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, leads); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
