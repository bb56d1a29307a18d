package model

import "time"

// CopyVariant is one generated piece of ad copy for a motivation,
// targeted at a platform and tone.
type CopyVariant struct {
	ID           string    `json:"id"`
	MotivationID string    `json:"motivation_id"`
	BriefID      string    `json:"brief_id"`
	ClientID     string    `json:"client_id"`
	Platform     string    `json:"platform"`
	Tone         string    `json:"tone,omitempty"`
	Headline     string    `json:"headline"`
	Body         string    `json:"body,omitempty"`
	CallToAction string    `json:"call_to_action,omitempty"`
	WordCount    int       `json:"word_count"`
	Selected     bool      `json:"selected"`
	CreatedAt    time.Time `json:"created_at"`
}

// CountWords returns the number of whitespace-separated words across the
// variant's headline, body, and call to action.
func (c *CopyVariant) CountWords() int {
	n := 0
	for _, s := range []string{c.Headline, c.Body, c.CallToAction} {
		inWord := false
		for _, r := range s {
			if r == ' ' || r == '\t' || r == '\n' {
				inWord = false
				continue
			}
			if !inWord {
				n++
				inWord = true
			}
		}
	}
	return n
}
