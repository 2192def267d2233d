package transport

import "lead_dashboard_backend/internal/settings/domain"

// UpdateSettingsRequest is a partial update: nil sections and fields keep
// their current value.
type UpdateSettingsRequest struct {
	Notifications *NotificationsPatch `json:"notifications"`
	Display       *DisplayPatch       `json:"display"`
	Data          *DataPatch          `json:"data"`
	Integrations  *IntegrationsPatch  `json:"integrations"`
}

type NotificationsPatch struct {
	Email *bool `json:"email"`
	Push  *bool `json:"push"`
	Sound *bool `json:"sound"`
}

type DisplayPatch struct {
	Theme    *string `json:"theme" validate:"omitempty,oneof=light dark system"`
	Density  *string `json:"density" validate:"omitempty,oneof=compact comfortable spacious"`
	FontSize *string `json:"fontSize" validate:"omitempty,oneof=small medium large"`
}

type DataPatch struct {
	ItemsPerPage    *int  `json:"itemsPerPage" validate:"omitempty,min=1,max=100"`
	AutoRefresh     *bool `json:"autoRefresh"`
	RefreshInterval *int  `json:"refreshInterval" validate:"omitempty,min=1,max=60"`
}

type IntegrationsPatch struct {
	GoogleCalendar *bool `json:"googleCalendar"`
	Outlook        *bool `json:"outlook"`
	Slack          *bool `json:"slack"`
}

type SettingsResponse = domain.Settings

// Apply overlays the patch on current.
func (r UpdateSettingsRequest) Apply(current domain.Settings) domain.Settings {
	out := current
	if n := r.Notifications; n != nil {
		setBool(&out.Notifications.Email, n.Email)
		setBool(&out.Notifications.Push, n.Push)
		setBool(&out.Notifications.Sound, n.Sound)
	}
	if d := r.Display; d != nil {
		setString(&out.Display.Theme, d.Theme)
		setString(&out.Display.Density, d.Density)
		setString(&out.Display.FontSize, d.FontSize)
	}
	if d := r.Data; d != nil {
		setInt(&out.Data.ItemsPerPage, d.ItemsPerPage)
		setBool(&out.Data.AutoRefresh, d.AutoRefresh)
		setInt(&out.Data.RefreshInterval, d.RefreshInterval)
	}
	if i := r.Integrations; i != nil {
		setBool(&out.Integrations.GoogleCalendar, i.GoogleCalendar)
		setBool(&out.Integrations.Outlook, i.Outlook)
		setBool(&out.Integrations.Slack, i.Slack)
	}
	return out
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
