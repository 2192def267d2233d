package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// ISOLayout is the layout used when a Timestamp created in process is serialized.
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Timestamp is an optional point in time as stored on a lead. A value that
// could not be parsed keeps its raw text so it survives a round trip, but
// reports Valid == false and is treated as absent by every aggregate.
type Timestamp struct {
	Time  time.Time
	Valid bool
	raw   string
}

// TimestampOf wraps t as a valid Timestamp.
func TimestampOf(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC(), Valid: true}
}

// ParseTimestamp parses raw leniently. Empty input yields the zero Timestamp.
func ParseTimestamp(raw string) Timestamp {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Timestamp{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return Timestamp{Time: t.UTC(), Valid: true, raw: trimmed}
		}
	}
	return Timestamp{raw: trimmed}
}

// IsZero reports whether nothing was stored.
func (t Timestamp) IsZero() bool {
	return !t.Valid && t.raw == ""
}

// Day returns the UTC calendar day at midnight. Only meaningful when Valid.
func (t Timestamp) Day() time.Time {
	return DayOf(t.Time)
}

// DateString renders the UTC date as YYYY-MM-DD, or "" when invalid.
func (t Timestamp) DateString() string {
	if !t.Valid {
		return ""
	}
	return t.Time.UTC().Format(time.DateOnly)
}

// String returns the stored text, or the ISO rendering for in-process values.
func (t Timestamp) String() string {
	if t.raw != "" {
		return t.raw
	}
	if t.Valid {
		return t.Time.UTC().Format(ISOLayout)
	}
	return ""
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.String())
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		// Numbers and other literals are kept verbatim and treated as absent.
		*t = Timestamp{raw: string(data)}
		return nil
	}
	*t = ParseTimestamp(raw)
	return nil
}

// DayOf truncates t to midnight of its UTC calendar day.
func DayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
