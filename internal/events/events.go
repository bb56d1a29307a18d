package events

import (
	"context"

	"github.com/airwavehq/airwave/internal/model"
)

// Event topic constants
const (
	TopicClientCreated = "airwave.client.created"
	TopicClientUpdated = "airwave.client.updated"
	TopicClientDeleted = "airwave.client.deleted"

	TopicBriefCreated = "airwave.brief.created"
	TopicBriefParsed  = "airwave.brief.parsed"
	TopicBriefUpdated = "airwave.brief.updated"
	TopicBriefDeleted = "airwave.brief.deleted"

	TopicMotivationsGenerated = "airwave.motivation.generated"
	TopicMotivationSelected   = "airwave.motivation.selected"
	TopicCopyGenerated        = "airwave.copy.generated"
	TopicCopySelected         = "airwave.copy.selected"

	TopicAssetUploaded = "airwave.asset.uploaded"
	TopicAssetDeleted  = "airwave.asset.deleted"

	TopicMatrixCreated   = "airwave.matrix.created"
	TopicMatrixAssembled = "airwave.matrix.assembled"

	// Execution lifecycle events (queued is consumed by render workers).
	TopicExecutionQueued    = "airwave.execution.queued"
	TopicExecutionStarted   = "airwave.execution.started"
	TopicExecutionCompleted = "airwave.execution.completed"
	TopicExecutionFailed    = "airwave.execution.failed"

	TopicSocialPublished = "airwave.social.published"
)

// Event types

type ClientCreated struct {
	Client *model.Client `json:"client"`
}

type ClientUpdated struct {
	Client  *model.Client  `json:"client"`
	Changes map[string]any `json:"changes"` // field name -> new value
}

type ClientDeleted struct {
	ClientID string `json:"client_id"`
}

type BriefCreated struct {
	Brief *model.Brief `json:"brief"`
}

type BriefParsed struct {
	Brief *model.Brief `json:"brief"`
}

type BriefUpdated struct {
	Brief   *model.Brief   `json:"brief"`
	Changes map[string]any `json:"changes"`
}

type BriefDeleted struct {
	BriefID string `json:"brief_id"`
}

type MotivationsGenerated struct {
	BriefID     string              `json:"brief_id"`
	Motivations []*model.Motivation `json:"motivations"`
}

type MotivationSelected struct {
	MotivationID string `json:"motivation_id"`
	Selected     bool   `json:"selected"`
}

type CopyGenerated struct {
	BriefID  string               `json:"brief_id"`
	Variants []*model.CopyVariant `json:"variants"`
}

type CopySelected struct {
	CopyVariantID string `json:"copy_variant_id"`
	Selected      bool   `json:"selected"`
}

type AssetUploaded struct {
	Asset *model.Asset `json:"asset"`
}

type AssetDeleted struct {
	AssetID string `json:"asset_id"`
}

type MatrixCreated struct {
	Matrix *model.Matrix `json:"matrix"`
}

type MatrixAssembled struct {
	Matrix     *model.Matrix `json:"matrix"`
	Executions int           `json:"executions"`
}

type ExecutionQueued struct {
	Execution *model.Execution `json:"execution"`
}

type ExecutionStarted struct {
	Execution *model.Execution `json:"execution"`
}

type ExecutionCompleted struct {
	Execution *model.Execution `json:"execution"`
}

type ExecutionFailed struct {
	Execution *model.Execution `json:"execution"`
	Reason    string           `json:"reason"`
}

type SocialPublished struct {
	ExecutionID string `json:"execution_id"`
	Platform    string `json:"platform"`
	PostID      string `json:"post_id"`
	PostURL     string `json:"post_url,omitempty"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
