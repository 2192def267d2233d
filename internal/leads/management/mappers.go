package management

import (
	"lead_dashboard_backend/internal/leads/domain"
	"lead_dashboard_backend/internal/leads/transport"
	"lead_dashboard_backend/platform/phone"
)

// Mapper turns domain leads into response DTOs.
type Mapper struct {
	phones *phone.Normalizer
}

// NewMapper creates a Mapper that formats phone numbers for region.
func NewMapper(phones *phone.Normalizer) *Mapper {
	if phones == nil {
		phones = phone.NewNormalizer(phone.DefaultRegion)
	}
	return &Mapper{phones: phones}
}

// Lead maps one lead.
func (m *Mapper) Lead(lead domain.Lead) transport.LeadResponse {
	return transport.LeadResponse{
		ID:             lead.ID,
		Name:           lead.Name,
		Email:          lead.Email,
		Phone:          lead.Phone,
		PhoneE164:      m.phones.E164(lead.Phone),
		Source:         lead.Source,
		Status:         lead.Status,
		StatusLabel:    lead.Status.Label(),
		Created:        lead.Created,
		LastContacted:  lead.LastContacted,
		NextFollowUp:   lead.NextFollowUp,
		Notes:          lead.Notes,
		Budget:         lead.Budget,
		PreferredModel: lead.PreferredModel,
		NoteCount:      len(lead.NoteLog),
	}
}

// Leads maps a slice, never returning nil.
func (m *Mapper) Leads(leads []domain.Lead) []transport.LeadResponse {
	out := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		out = append(out, m.Lead(lead))
	}
	return out
}

// Note maps a timeline note.
func Note(leadID domain.LeadID, note domain.Note) transport.NoteResponse {
	return transport.NoteResponse{
		ID:        note.ID,
		LeadID:    leadID.String(),
		Author:    note.Author,
		Content:   note.Content,
		CreatedAt: note.Timestamp,
	}
}
