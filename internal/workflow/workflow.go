// Package workflow derives a brief's progress through the production
// pipeline from store state. It keeps no state of its own.
package workflow

import (
	"context"
	"fmt"

	"github.com/airwavehq/airwave/internal/model"
	"github.com/airwavehq/airwave/internal/store"
)

// Step names in pipeline order.
const (
	StepUpload      = "upload"
	StepParse       = "parse"
	StepMotivations = "motivations"
	StepCopy        = "copy"
	StepMatrix      = "matrix"
	StepRender      = "render"
)

var stepOrder = []string{StepUpload, StepParse, StepMotivations, StepCopy, StepMatrix, StepRender}

// Step is one stage of the pipeline with its completion state.
type Step struct {
	Name string `json:"name"`
	Done bool   `json:"done"`
	// Count holds the number of rows backing the step where that is
	// meaningful (motivations, copy variants, matrices, executions).
	Count int `json:"count,omitempty"`
}

// Progress is the full pipeline state for one brief.
type Progress struct {
	BriefID  string `json:"brief_id"`
	Steps    []Step `json:"steps"`
	NextStep string `json:"next_step,omitempty"`
	Complete bool   `json:"complete"`
}

// Evaluate derives the progress of a brief from the store.
func Evaluate(ctx context.Context, s store.Store, briefID string) (*Progress, error) {
	brief, err := s.GetBrief(ctx, briefID)
	if err != nil {
		return nil, err
	}

	motivations, err := s.ListMotivations(ctx, model.MotivationFilter{BriefID: briefID})
	if err != nil {
		return nil, fmt.Errorf("listing motivations: %w", err)
	}
	variants, err := s.ListCopyVariants(ctx, model.CopyFilter{BriefID: briefID})
	if err != nil {
		return nil, fmt.Errorf("listing copy variants: %w", err)
	}
	matrices, _, err := s.ListMatrices(ctx, brief.ClientID, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("listing matrices: %w", err)
	}
	var matrixCount int
	var matrixIDs []string
	for _, m := range matrices {
		if m.BriefID == briefID {
			matrixCount++
			matrixIDs = append(matrixIDs, m.ID)
		}
	}

	var completedRenders int
	for _, id := range matrixIDs {
		es, _, err := s.ListExecutions(ctx, model.ExecutionFilter{
			MatrixID: id,
			Status:   []model.ExecutionStatus{model.ExecutionCompleted},
		})
		if err != nil {
			return nil, fmt.Errorf("listing executions: %w", err)
		}
		completedRenders += len(es)
	}

	progress := &Progress{
		BriefID: briefID,
		Steps: []Step{
			{Name: StepUpload, Done: true},
			{Name: StepParse, Done: brief.Status == model.BriefParsed || brief.Status == model.BriefReady},
			{Name: StepMotivations, Done: len(motivations) > 0, Count: len(motivations)},
			{Name: StepCopy, Done: len(variants) > 0, Count: len(variants)},
			{Name: StepMatrix, Done: matrixCount > 0, Count: matrixCount},
			{Name: StepRender, Done: completedRenders > 0, Count: completedRenders},
		},
	}

	progress.Complete = true
	for _, step := range progress.Steps {
		if !step.Done {
			progress.NextStep = step.Name
			progress.Complete = false
			break
		}
	}
	return progress, nil
}

// NextStep returns the first incomplete step for a brief.
func NextStep(ctx context.Context, s store.Store, briefID string) (string, error) {
	progress, err := Evaluate(ctx, s, briefID)
	if err != nil {
		return "", err
	}
	return progress.NextStep, nil
}

// StepIndex returns the position of a step in pipeline order, or -1.
func StepIndex(name string) int {
	for i, s := range stepOrder {
		if s == name {
			return i
		}
	}
	return -1
}
