package model

import (
	"encoding/json"
	"time"
)

// AssetKind categorizes an uploaded asset.
type AssetKind string

const (
	AssetImage AssetKind = "image"
	AssetVideo AssetKind = "video"
	AssetAudio AssetKind = "audio"
	AssetText  AssetKind = "text"
)

// String returns the string representation of the kind.
func (k AssetKind) String() string {
	return string(k)
}

// IsValid checks whether the kind is a known value.
func (k AssetKind) IsValid() bool {
	switch k {
	case AssetImage, AssetVideo, AssetAudio, AssetText:
		return true
	}
	return false
}

// KindForContentType maps a MIME type to an asset kind. Unknown types
// return an empty kind.
func KindForContentType(ct string) AssetKind {
	switch {
	case len(ct) > 6 && ct[:6] == "image/":
		return AssetImage
	case len(ct) > 6 && ct[:6] == "video/":
		return AssetVideo
	case len(ct) > 6 && ct[:6] == "audio/":
		return AssetAudio
	case ct == "text/plain" || ct == "text/markdown":
		return AssetText
	}
	return ""
}

// Asset is an uploaded media file tracked in the store with its blob in
// object storage.
type Asset struct {
	ID           string          `json:"id"`
	ClientID     string          `json:"client_id"`
	Name         string          `json:"name"`
	Kind         AssetKind       `json:"kind"`
	ContentType  string          `json:"content_type"`
	SizeBytes    int64           `json:"size_bytes"`
	StorageKey   string          `json:"storage_key"`
	URL          string          `json:"url,omitempty"`
	ThumbnailURL string          `json:"thumbnail_url,omitempty"`
	Tags         []string        `json:"tags,omitempty"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
