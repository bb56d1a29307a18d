package model

import "time"

// Service names for usage accounting.
const (
	ServiceGeneration = "generation"
	ServiceRender     = "render"
	ServiceSocial     = "social"
)

// UsageRecord is one billable call to an external service.
type UsageRecord struct {
	ID           string    `json:"id"`
	Service      string    `json:"service"`
	Model        string    `json:"model,omitempty"`
	Operation    string    `json:"operation,omitempty"`
	InputTokens  int       `json:"input_tokens,omitempty"`
	OutputTokens int       `json:"output_tokens,omitempty"`
	Cost         float64   `json:"cost"`
	CreatedAt    time.Time `json:"created_at"`
}

// UsageSummary aggregates month-to-date spend for one service.
type UsageSummary struct {
	Service       string  `json:"service"`
	Month         string  `json:"month"` // "2026-08"
	Cost          float64 `json:"cost"`
	Budget        float64 `json:"budget"`
	OverSoftLimit bool    `json:"over_soft_limit"`
	OverHardLimit bool    `json:"over_hard_limit"`
	ActiveModel   string  `json:"active_model,omitempty"`
}
