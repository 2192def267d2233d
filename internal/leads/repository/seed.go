package repository

import (
	"fmt"
	"os"

	"lead_dashboard_backend/internal/leads/domain"

	"gopkg.in/yaml.v3"
)

// seedLead mirrors the Lead JSON document. Every field decodes as text so
// integer ids and unquoted dates are accepted.
type seedLead struct {
	ID             seedID `yaml:"id"`
	Name           string `yaml:"name"`
	Email          string `yaml:"email"`
	Phone          string `yaml:"phone"`
	Source         string `yaml:"source"`
	Status         string `yaml:"status"`
	Created        string `yaml:"created"`
	LastContacted  string `yaml:"lastContacted"`
	NextFollowUp   string `yaml:"nextFollowUp"`
	Notes          string `yaml:"notes"`
	Budget         string `yaml:"budget"`
	PreferredModel string `yaml:"preferredModel"`
}

// seedID keeps quoted ids verbatim and canonicalises numeric ones the same
// way as JSON snapshots.
type seedID string

func (id *seedID) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: lead id must be a scalar", node.Line)
	}
	switch node.ShortTag() {
	case "!!int", "!!float":
		*id = seedID(domain.LeadIDFromNumber(node.Value))
	case "!!null":
		*id = ""
	default:
		*id = seedID(node.Value)
	}
	return nil
}

// LoadSeed reads demo leads from a YAML file.
func LoadSeed(path string) ([]domain.Lead, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(raw)
}

// ParseSeed decodes YAML seed data.
func ParseSeed(raw []byte) ([]domain.Lead, error) {
	var records []seedLead
	if err := yaml.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode seed yaml: %w", err)
	}

	leads := make([]domain.Lead, 0, len(records))
	for i, rec := range records {
		id := domain.NewLeadID(string(rec.ID))
		if id.IsZero() {
			return nil, fmt.Errorf("seed record %d has no id", i)
		}
		leads = append(leads, domain.Lead{
			ID:             id,
			Name:           rec.Name,
			Email:          rec.Email,
			Phone:          rec.Phone,
			Source:         rec.Source,
			Status:         domain.Status(rec.Status),
			Created:        domain.ParseTimestamp(rec.Created),
			LastContacted:  domain.ParseTimestamp(rec.LastContacted),
			NextFollowUp:   domain.ParseTimestamp(rec.NextFollowUp),
			Notes:          rec.Notes,
			Budget:         rec.Budget,
			PreferredModel: rec.PreferredModel,
		})
	}
	return leads, nil
}
