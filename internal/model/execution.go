package model

import (
	"encoding/json"
	"time"
)

// ExecutionStatus tracks a rendered creative through its lifecycle.
type ExecutionStatus string

const (
	ExecutionPending    ExecutionStatus = "pending"
	ExecutionQueued     ExecutionStatus = "queued"
	ExecutionProcessing ExecutionStatus = "processing"
	ExecutionCompleted  ExecutionStatus = "completed"
	ExecutionFailed     ExecutionStatus = "failed"
)

// String returns the string representation of the status.
func (s ExecutionStatus) String() string {
	return string(s)
}

// IsValid checks whether the status is a known value.
func (s ExecutionStatus) IsValid() bool {
	switch s {
	case ExecutionPending, ExecutionQueued, ExecutionProcessing, ExecutionCompleted, ExecutionFailed:
		return true
	}
	return false
}

// Terminal reports whether the status is a final state.
func (s ExecutionStatus) Terminal() bool {
	return s == ExecutionCompleted || s == ExecutionFailed
}

// CanTransition reports whether moving from s to next is allowed.
// The machine is forward-only: pending → queued → processing →
// completed/failed.
func (s ExecutionStatus) CanTransition(next ExecutionStatus) bool {
	switch s {
	case ExecutionPending:
		return next == ExecutionQueued
	case ExecutionQueued:
		return next == ExecutionProcessing
	case ExecutionProcessing:
		return next == ExecutionCompleted || next == ExecutionFailed
	}
	return false
}

// ExecutionStats counts executions by status.
type ExecutionStats struct {
	TotalPending    int `json:"total_pending"`
	TotalQueued     int `json:"total_queued"`
	TotalProcessing int `json:"total_processing"`
	TotalCompleted  int `json:"total_completed"`
	TotalFailed     int `json:"total_failed"`
}

// Execution is a single creative permutation tracked from assembly
// through render to publication.
type Execution struct {
	ID          string            `json:"id"`
	MatrixID    string            `json:"matrix_id"`
	ClientID    string            `json:"client_id"`
	Combination map[string]string `json:"combination"` // slot name -> option ID
	Platform    string            `json:"platform,omitempty"`
	Status      ExecutionStatus   `json:"status"`
	RenderJobID string            `json:"render_job_id,omitempty"`
	OutputURL   string            `json:"output_url,omitempty"`
	Error       string            `json:"error,omitempty"`
	Metadata    json.RawMessage   `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
}
