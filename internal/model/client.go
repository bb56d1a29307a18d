package model

import (
	"regexp"
	"strings"
	"time"
)

// Client is a brand/account that owns briefs, assets, and campaigns.
type Client struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	Industry       string    `json:"industry,omitempty"`
	Description    string    `json:"description,omitempty"`
	PrimaryColor   string    `json:"primary_color,omitempty"`
	SecondaryColor string    `json:"secondary_color,omitempty"`
	LogoAssetID    string    `json:"logo_asset_id,omitempty"`
	Contacts       Contacts  `json:"contacts,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Contact is a single client-side contact person.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// Contacts is stored as a JSONB column on the clients table.
type Contacts []Contact

var slugStripRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe slug from a display name. Consecutive
// non-alphanumeric runs collapse to a single hyphen.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugStripRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
