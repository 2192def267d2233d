// Package domain holds the dashboard settings document and its defaults.
package domain

// Settings is the whole settings document, persisted as one JSON value.
type Settings struct {
	Notifications Notifications `json:"notifications"`
	Display       Display       `json:"display"`
	Data          Data          `json:"data"`
	Integrations  Integrations  `json:"integrations"`
}

type Notifications struct {
	Email bool `json:"email"`
	Push  bool `json:"push"`
	Sound bool `json:"sound"`
}

type Display struct {
	Theme    string `json:"theme" validate:"oneof=light dark system"`
	Density  string `json:"density" validate:"oneof=compact comfortable spacious"`
	FontSize string `json:"fontSize" validate:"oneof=small medium large"`
}

type Data struct {
	ItemsPerPage    int  `json:"itemsPerPage" validate:"min=1,max=100"`
	AutoRefresh     bool `json:"autoRefresh"`
	RefreshInterval int  `json:"refreshInterval" validate:"min=1,max=60"`
}

type Integrations struct {
	GoogleCalendar bool `json:"googleCalendar"`
	Outlook        bool `json:"outlook"`
	Slack          bool `json:"slack"`
}

// Defaults returns the settings a fresh dashboard starts with.
func Defaults() Settings {
	return Settings{
		Notifications: Notifications{Email: true, Push: true, Sound: false},
		Display:       Display{Theme: "light", Density: "comfortable", FontSize: "medium"},
		Data:          Data{ItemsPerPage: 10, AutoRefresh: true, RefreshInterval: 5},
	}
}
