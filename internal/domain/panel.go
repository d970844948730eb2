package domain

import "time"

// Panel represents one registered chat-panel installation
type Panel struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	HostApp     string      `json:"host_app"`
	PanelConfig PanelConfig `json:"panel_config"`
	RateLimit   int         `json:"rate_limit"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// PanelConfig holds server-held UI configuration for the panel
type PanelConfig struct {
	Theme          string `json:"theme"`
	WelcomeMessage string `json:"welcome_message"`
	Placeholder    string `json:"placeholder"`
	// AutoExecute lets the backend run generated code immediately instead
	// of waiting for the user to press execute.
	AutoExecute bool `json:"auto_execute"`
	ShowStatus  bool `json:"show_status"`
}

// CreatePanelRequest is the request to register a panel
type CreatePanelRequest struct {
	Name        string       `json:"name" binding:"required"`
	HostApp     string       `json:"host_app" binding:"required"`
	PanelConfig *PanelConfig `json:"panel_config,omitempty"`
	RateLimit   int          `json:"rate_limit,omitempty"`
}

// UpdatePanelRequest is the request to update a panel
type UpdatePanelRequest struct {
	Name        string       `json:"name,omitempty"`
	HostApp     string       `json:"host_app,omitempty"`
	PanelConfig *PanelConfig `json:"panel_config,omitempty"`
	RateLimit   int          `json:"rate_limit,omitempty"`
}

// DefaultPanelConfig returns default panel configuration
func DefaultPanelConfig() PanelConfig {
	return PanelConfig{
		Theme:          "light",
		WelcomeMessage: "Hi! Describe the model you want and I'll generate the code.",
		Placeholder:    "e.g. extrude a 20mm box...",
		AutoExecute:    false,
		ShowStatus:     true,
	}
}
