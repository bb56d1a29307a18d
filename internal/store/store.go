package store

import (
	"context"
	"time"

	"github.com/airwavehq/airwave/internal/model"
)

// Store defines the persistence interface for the airwave service.
type Store interface {
	// Clients
	CreateClient(ctx context.Context, c *model.Client) error
	GetClient(ctx context.Context, id string) (*model.Client, error)
	GetClientBySlug(ctx context.Context, slug string) (*model.Client, error)
	ListClients(ctx context.Context, search string, limit, offset int) ([]*model.Client, int, error)
	UpdateClient(ctx context.Context, c *model.Client) error
	DeleteClient(ctx context.Context, id string) error

	// Briefs
	CreateBrief(ctx context.Context, b *model.Brief) error
	GetBrief(ctx context.Context, id string) (*model.Brief, error)
	ListBriefs(ctx context.Context, filter model.BriefFilter) ([]*model.Brief, int, error)
	UpdateBrief(ctx context.Context, b *model.Brief) error
	DeleteBrief(ctx context.Context, id string) error

	// Motivations
	CreateMotivations(ctx context.Context, ms []*model.Motivation) error
	GetMotivation(ctx context.Context, id string) (*model.Motivation, error)
	ListMotivations(ctx context.Context, filter model.MotivationFilter) ([]*model.Motivation, error)
	SetMotivationSelected(ctx context.Context, id string, selected bool) error

	// Copy variants
	CreateCopyVariants(ctx context.Context, cs []*model.CopyVariant) error
	GetCopyVariant(ctx context.Context, id string) (*model.CopyVariant, error)
	ListCopyVariants(ctx context.Context, filter model.CopyFilter) ([]*model.CopyVariant, error)
	SetCopyVariantSelected(ctx context.Context, id string, selected bool) error

	// Assets
	CreateAsset(ctx context.Context, a *model.Asset) error
	GetAsset(ctx context.Context, id string) (*model.Asset, error)
	ListAssets(ctx context.Context, filter model.AssetFilter) ([]*model.Asset, int, error)
	DeleteAsset(ctx context.Context, id string) error

	// Matrices
	CreateMatrix(ctx context.Context, m *model.Matrix) error
	GetMatrix(ctx context.Context, id string) (*model.Matrix, error)
	ListMatrices(ctx context.Context, clientID string, limit, offset int) ([]*model.Matrix, int, error)
	DeleteMatrix(ctx context.Context, id string) error

	// Executions
	CreateExecutions(ctx context.Context, es []*model.Execution) error
	GetExecution(ctx context.Context, id string) (*model.Execution, error)
	ListExecutions(ctx context.Context, filter model.ExecutionFilter) ([]*model.Execution, int, error)
	QueueExecution(ctx context.Context, id string) (*model.Execution, error)
	ClaimExecution(ctx context.Context, id string) (*model.Execution, error)
	CompleteExecution(ctx context.Context, id, renderJobID, outputURL string) (*model.Execution, error)
	FailExecution(ctx context.Context, id, renderJobID, message string) (*model.Execution, error)
	SetExecutionMetadata(ctx context.Context, id string, metadata []byte) error
	ExecutionStats(ctx context.Context) (*model.ExecutionStats, error)

	// Usage / budget
	RecordUsage(ctx context.Context, u *model.UsageRecord) error
	SumMonthlyCost(ctx context.Context, service string, month time.Time) (float64, error)

	// Events
	RecordEvent(ctx context.Context, e *model.Event) error
	GetEvents(ctx context.Context, entityID string) ([]*model.Event, error)

	// Transaction support
	RunInTransaction(ctx context.Context, fn func(tx Store) error) error

	// Lifecycle
	Close() error
}
