// Package client provides a transport-agnostic interface for the airwave
// service and an HTTP/JSON implementation that talks to the REST API.
package client

import (
	"context"
	"encoding/json"

	"github.com/airwavehq/airwave/internal/model"
	"github.com/airwavehq/airwave/internal/workflow"
)

// AirwaveClient is the interface the CLI commands use to communicate with
// the airwave server. It is implemented by HTTPClient.
type AirwaveClient interface {
	// Clients
	CreateClient(ctx context.Context, req *CreateClientRequest) (*model.Client, error)
	GetClient(ctx context.Context, id string) (*model.Client, error)
	ListClients(ctx context.Context, search string, limit, offset int) (*ListClientsResponse, error)
	DeleteClient(ctx context.Context, id string) error

	// Briefs
	CreateBrief(ctx context.Context, req *CreateBriefRequest) (*model.Brief, error)
	GetBrief(ctx context.Context, id string) (*model.Brief, error)
	ListBriefs(ctx context.Context, req *ListBriefsRequest) (*ListBriefsResponse, error)
	GetBriefWorkflow(ctx context.Context, id string) (*workflow.Progress, error)

	// Generation flow
	GenerateMotivations(ctx context.Context, briefID string, count int) (*MotivationsResponse, error)
	GenerateCopy(ctx context.Context, req *GenerateCopyRequest) (*CopyResponse, error)
	ListMotivations(ctx context.Context, briefID string) (*MotivationsResponse, error)
	SelectMotivation(ctx context.Context, id string, selected bool) error
	ListCopy(ctx context.Context, briefID, motivationID string) (*CopyResponse, error)
	SelectCopy(ctx context.Context, id string, selected bool) error

	// Assets
	UploadAsset(ctx context.Context, req *UploadAssetRequest) (*model.Asset, error)
	ListAssets(ctx context.Context, clientID string) (*ListAssetsResponse, error)
	DeleteAsset(ctx context.Context, id string) error

	// Matrices and executions
	CreateMatrix(ctx context.Context, req *CreateMatrixRequest) (*model.Matrix, error)
	ListMatrices(ctx context.Context, clientID string) (*ListMatricesResponse, error)
	AssembleMatrix(ctx context.Context, id string, platform string, max int) (*ExecutionsResponse, error)
	ListExecutions(ctx context.Context, req *ListExecutionsRequest) (*ExecutionsResponse, error)
	GetExecution(ctx context.Context, id string) (*model.Execution, error)
	RenderExecution(ctx context.Context, id string) (*model.Execution, error)

	// Social
	PublishSocial(ctx context.Context, req *PublishSocialRequest) (*PublishSocialResponse, error)

	// Usage and stats
	UsageSummary(ctx context.Context) ([]*model.UsageSummary, error)
	Stats(ctx context.Context) (*StatsResponse, error)

	// Health
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}

// CreateClientRequest holds parameters for creating a client account.
type CreateClientRequest struct {
	Name           string         `json:"name"`
	Slug           string         `json:"slug,omitempty"`
	Industry       string         `json:"industry,omitempty"`
	Description    string         `json:"description,omitempty"`
	PrimaryColor   string         `json:"primary_color,omitempty"`
	SecondaryColor string         `json:"secondary_color,omitempty"`
	Contacts       model.Contacts `json:"contacts,omitempty"`
}

// ListClientsResponse is the response from ListClients.
type ListClientsResponse struct {
	Clients []*model.Client `json:"clients"`
	Total   int             `json:"total"`
}

// CreateBriefRequest holds parameters for uploading a brief document.
type CreateBriefRequest struct {
	ClientID     string `json:"client_id"`
	Title        string `json:"title"`
	DocumentName string `json:"document_name,omitempty"`
	DocumentType string `json:"document_type,omitempty"`
	RawContent   string `json:"raw_content,omitempty"`
}

// ListBriefsRequest holds parameters for listing briefs.
type ListBriefsRequest struct {
	ClientID string
	Status   []string
	Search   string
	Limit    int
	Offset   int
}

// ListBriefsResponse is the response from ListBriefs.
type ListBriefsResponse struct {
	Briefs []*model.Brief `json:"briefs"`
	Total  int            `json:"total"`
}

// GenerateCopyRequest holds parameters for the copy generation flow.
type GenerateCopyRequest struct {
	BriefID       string   `json:"brief_id"`
	MotivationIDs []string `json:"motivation_ids"`
	Platforms     []string `json:"platforms,omitempty"`
	Tone          string   `json:"tone,omitempty"`
	Count         int      `json:"count,omitempty"`
}

// MotivationsResponse wraps a motivation list.
type MotivationsResponse struct {
	Motivations []*model.Motivation `json:"motivations"`
	Total       int                 `json:"total"`
}

// CopyResponse wraps a copy variant list.
type CopyResponse struct {
	Variants []*model.CopyVariant `json:"variants"`
	Total    int                  `json:"total"`
}

// UploadAssetRequest holds parameters for a multipart asset upload.
type UploadAssetRequest struct {
	ClientID    string
	Name        string
	Filename    string
	ContentType string
	Tags        []string
	Data        []byte
}

// ListAssetsResponse is the response from ListAssets.
type ListAssetsResponse struct {
	Assets []*model.Asset `json:"assets"`
	Total  int            `json:"total"`
}

// CreateMatrixRequest holds parameters for creating a matrix.
type CreateMatrixRequest struct {
	ClientID string             `json:"client_id"`
	BriefID  string             `json:"brief_id,omitempty"`
	Name     string             `json:"name"`
	Slug     string             `json:"slug,omitempty"`
	Slots    []model.MatrixSlot `json:"slots"`
	Fields   json.RawMessage    `json:"fields,omitempty"`
}

// ListMatricesResponse is the response from ListMatrices.
type ListMatricesResponse struct {
	Matrices []*model.Matrix `json:"matrices"`
	Total    int             `json:"total"`
}

// ListExecutionsRequest holds parameters for listing executions.
type ListExecutionsRequest struct {
	MatrixID string
	ClientID string
	Status   []string
	Limit    int
	Offset   int
}

// ExecutionsResponse wraps an execution list.
type ExecutionsResponse struct {
	Executions []*model.Execution `json:"executions"`
	Total      int                `json:"total"`
}

// PublishSocialRequest holds parameters for publishing a rendered
// execution.
type PublishSocialRequest struct {
	ExecutionID string   `json:"execution_id"`
	Platforms   []string `json:"platforms"`
	Message     string   `json:"message,omitempty"`
	LinkURL     string   `json:"link_url,omitempty"`
}

// PublishSocialResponse is the response from PublishSocial.
type PublishSocialResponse struct {
	ExecutionID  string `json:"execution_id"`
	Publications []struct {
		Platform string `json:"platform"`
		PostID   string `json:"post_id"`
		PostURL  string `json:"post_url,omitempty"`
	} `json:"publications"`
}

// StatsResponse is the response from Stats.
type StatsResponse struct {
	Executions *model.ExecutionStats `json:"executions"`
	Clients    int                   `json:"clients"`
	Briefs     int                   `json:"briefs"`
	Assets     int                   `json:"assets"`
	Matrices   int                   `json:"matrices"`
}
