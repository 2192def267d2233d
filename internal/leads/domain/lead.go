// Package domain contains the lead record and the value types it is built from.
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LeadID is the canonical, string form of a lead identifier. Integer ids
// found in stored data are coerced to their decimal form on ingestion so
// 1 and "1" address the same lead.
type LeadID string

// NewLeadID normalizes raw into a LeadID.
func NewLeadID(raw string) LeadID {
	return LeadID(strings.TrimSpace(raw))
}

// GenerateLeadID returns a fresh random id for a newly created lead.
func GenerateLeadID() LeadID {
	return LeadID(uuid.NewString())
}

func (id LeadID) String() string { return string(id) }

// IsZero reports whether the id is empty.
func (id LeadID) IsZero() bool { return id == "" }

func (id *LeadID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = NewLeadID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("lead id must be a string or a number: %w", err)
	}
	*id = LeadID(canonicalNumber(n))
	return nil
}

// LeadIDFromNumber canonicalises a numeric id written in any notation, so
// 7, 7.0 and 7e0 all become "7" whichever format they were read from.
func LeadIDFromNumber(raw string) LeadID {
	return LeadID(canonicalNumber(json.Number(strings.TrimSpace(raw))))
}

func canonicalNumber(n json.Number) string {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	if f, err := n.Float64(); err == nil && f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return strconv.FormatInt(int64(f), 10)
	}
	return n.String()
}

// Note is a timeline entry appended to a lead.
type Note struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Lead is a sales prospect tracked through the status pipeline.
type Lead struct {
	ID             LeadID    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Source         string    `json:"source"`
	Status         Status    `json:"status"`
	Created        Timestamp `json:"created"`
	LastContacted  Timestamp `json:"lastContacted"`
	NextFollowUp   Timestamp `json:"nextFollowUp"`
	Notes          string    `json:"notes"`
	Budget         string    `json:"budget"`
	PreferredModel string    `json:"preferredModel"`
	NoteLog        []Note    `json:"noteLog,omitempty"`
}

// Clone returns a copy that shares no mutable state with l.
func (l Lead) Clone() Lead {
	if l.NoteLog != nil {
		l.NoteLog = append([]Note(nil), l.NoteLog...)
	}
	return l
}

// CloneAll copies a collection, including each lead's note log.
func CloneAll(leads []Lead) []Lead {
	out := make([]Lead, len(leads))
	for i := range leads {
		out[i] = leads[i].Clone()
	}
	return out
}
