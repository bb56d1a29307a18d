package model

import "time"

// BriefStatus tracks a brief through upload and parsing.
type BriefStatus string

const (
	BriefUploaded BriefStatus = "uploaded"
	BriefParsed   BriefStatus = "parsed"
	BriefReady    BriefStatus = "ready"
)

// String returns the string representation of the status.
func (s BriefStatus) String() string {
	return string(s)
}

// IsValid checks whether the status is a known value.
func (s BriefStatus) IsValid() bool {
	switch s {
	case BriefUploaded, BriefParsed, BriefReady:
		return true
	}
	return false
}

// Brief is an uploaded campaign document plus the structured fields
// extracted from it.
type Brief struct {
	ID           string      `json:"id"`
	ClientID     string      `json:"client_id"`
	Title        string      `json:"title"`
	DocumentName string      `json:"document_name,omitempty"`
	DocumentType string      `json:"document_type,omitempty"`
	RawContent   string      `json:"raw_content,omitempty"`
	Status       BriefStatus `json:"status"`

	// Parsed fields.
	Objective      string   `json:"objective,omitempty"`
	TargetAudience string   `json:"target_audience,omitempty"`
	KeyMessages    []string `json:"key_messages,omitempty"`
	Platforms      []string `json:"platforms,omitempty"`
	Budget         string   `json:"budget,omitempty"`
	Timeline       string   `json:"timeline,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CombinedText returns the text the motivation scorer matches keywords
// against: the parsed fields when present, otherwise the raw document.
func (b *Brief) CombinedText() string {
	parts := make([]string, 0, 4)
	if b.Objective != "" {
		parts = append(parts, b.Objective)
	}
	if b.TargetAudience != "" {
		parts = append(parts, b.TargetAudience)
	}
	for _, m := range b.KeyMessages {
		parts = append(parts, m)
	}
	if len(parts) == 0 {
		return b.RawContent
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += " " + p
	}
	return out
}
