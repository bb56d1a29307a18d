package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/airwavehq/airwave/internal/ai"
	"github.com/airwavehq/airwave/internal/events"
	"github.com/airwavehq/airwave/internal/model"
	"github.com/airwavehq/airwave/internal/social"
)

type socialPublishInput struct {
	ExecutionID string   `json:"execution_id"`
	Platforms   []string `json:"platforms"`
	Message     string   `json:"message"`
	LinkURL     string   `json:"link_url"`
}

// socialPublication is the per-platform record appended to the
// execution's metadata after a publish.
type socialPublication struct {
	Platform    string    `json:"platform"`
	PostID      string    `json:"post_id"`
	PostURL     string    `json:"post_url,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// handleSocialPublish handles POST /api/social/publish. The execution's
// rendered output is posted to each requested platform and the results
// are folded into the execution metadata.
func (s *AirwaveServer) handleSocialPublish(w http.ResponseWriter, r *http.Request) {
	var in socialPublishInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.ExecutionID == "" {
		writeError(w, http.StatusBadRequest, "execution_id is required")
		return
	}
	if len(in.Platforms) == 0 {
		writeError(w, http.StatusBadRequest, "platforms is required")
		return
	}

	execution, err := s.store.GetExecution(r.Context(), in.ExecutionID)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "execution not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get execution")
		return
	}
	if execution.Status != model.ExecutionCompleted {
		writeError(w, http.StatusConflict, "execution has not completed rendering")
		return
	}

	// Resolve all platforms up front so a typo doesn't half-publish.
	platforms := make([]social.Platform, 0, len(in.Platforms))
	for _, name := range in.Platforms {
		p, err := s.social.Get(name)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		platforms = append(platforms, p)
	}

	if err := s.budget.Allow(r.Context(), model.ServiceSocial); err != nil {
		if errors.Is(err, ai.ErrBudgetExceeded) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to check budget")
		return
	}

	post := social.Post{
		Message:  in.Message,
		MediaURL: execution.OutputURL,
		LinkURL:  in.LinkURL,
	}

	publications := make([]socialPublication, 0, len(platforms))
	for _, p := range platforms {
		result, err := p.Publish(r.Context(), post)
		if err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		publications = append(publications, socialPublication{
			Platform:    p.Name(),
			PostID:      result.PostID,
			PostURL:     result.PostURL,
			PublishedAt: time.Now().UTC(),
		})
		s.recordAndPublish(r.Context(), events.TopicSocialPublished, execution.ID, "", events.SocialPublished{
			ExecutionID: execution.ID,
			Platform:    p.Name(),
			PostID:      result.PostID,
			PostURL:     result.PostURL,
		})
	}

	if err := s.appendPublications(r.Context(), execution, publications); err != nil {
		slog.Warn("failed to record publications on execution", "execution", execution.ID, "error", err)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"execution_id": execution.ID,
		"publications": publications,
	})
}

// appendPublications merges the new publications into the execution's
// metadata under the "social" key.
func (s *AirwaveServer) appendPublications(ctx context.Context, execution *model.Execution, pubs []socialPublication) error {
	meta := make(map[string]json.RawMessage)
	if len(execution.Metadata) > 0 {
		_ = json.Unmarshal(execution.Metadata, &meta)
	}

	var existing []socialPublication
	if raw, ok := meta["social"]; ok {
		_ = json.Unmarshal(raw, &existing)
	}
	existing = append(existing, pubs...)

	encoded, err := json.Marshal(existing)
	if err != nil {
		return err
	}
	meta["social"] = encoded

	merged, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return s.store.SetExecutionMetadata(ctx, execution.ID, merged)
}
