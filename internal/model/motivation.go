package model

import "time"

// MotivationSource records how a motivation was produced.
type MotivationSource string

const (
	SourceTemplate  MotivationSource = "template"
	SourceGenerated MotivationSource = "generated"
)

// Motivation is a strategic angle suggested for a campaign brief,
// scored by relevance to the brief text.
type Motivation struct {
	ID          string           `json:"id"`
	BriefID     string           `json:"brief_id"`
	ClientID    string           `json:"client_id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Category    string           `json:"category,omitempty"`
	Relevance   int              `json:"relevance"` // 0-100
	Reasoning   string           `json:"reasoning,omitempty"`
	Selected    bool             `json:"selected"`
	Source      MotivationSource `json:"source"`
	CreatedAt   time.Time        `json:"created_at"`
}
