package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/airwavehq/airwave/internal/events"
	"github.com/airwavehq/airwave/internal/model"
	"github.com/airwavehq/airwave/internal/workflow"
)

type createBriefInput struct {
	ClientID     string `json:"client_id"`
	Title        string `json:"title"`
	DocumentName string `json:"document_name"`
	DocumentType string `json:"document_type"`
	RawContent   string `json:"raw_content"`
}

// handleCreateBrief handles POST /api/briefs. The raw document is parsed
// into structured fields on the way in; a brief that yields any field
// moves straight to parsed status.
func (s *AirwaveServer) handleCreateBrief(w http.ResponseWriter, r *http.Request) {
	var in createBriefInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if _, err := s.store.GetClient(r.Context(), in.ClientID); errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusBadRequest, "client not found")
		return
	} else if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get client")
		return
	}

	now := time.Now().UTC()
	brief := &model.Brief{
		ID:           uuid.NewString(),
		ClientID:     in.ClientID,
		Title:        in.Title,
		DocumentName: in.DocumentName,
		DocumentType: in.DocumentType,
		RawContent:   in.RawContent,
		Status:       model.BriefUploaded,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if brief.Title == "" && brief.DocumentName != "" {
		brief.Title = strings.TrimSuffix(brief.DocumentName, ".md")
	}
	if err := model.ValidateBrief(brief); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	parsed := parseBriefContent(brief)
	if parsed {
		brief.Status = model.BriefParsed
	}

	if err := s.store.CreateBrief(r.Context(), brief); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create brief")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicBriefCreated, brief.ID, "", events.BriefCreated{Brief: brief})
	if parsed {
		s.recordAndPublish(r.Context(), events.TopicBriefParsed, brief.ID, "", events.BriefParsed{Brief: brief})
	}

	writeJSON(w, http.StatusCreated, brief)
}

// handleListBriefs handles GET /api/briefs.
func (s *AirwaveServer) handleListBriefs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.BriefFilter{
		ClientID: q.Get("client_id"),
		Search:   q.Get("search"),
		Sort:     q.Get("sort"),
	}
	if v := q.Get("status"); v != "" {
		for _, st := range strings.Split(v, ",") {
			filter.Status = append(filter.Status, model.BriefStatus(st))
		}
	}
	filter.Limit, filter.Offset = pageParams(q.Get("limit"), q.Get("offset"))

	briefs, total, err := s.store.ListBriefs(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list briefs")
		return
	}

	if briefs == nil {
		briefs = []*model.Brief{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"briefs": briefs,
		"total":  total,
	})
}

// handleGetBrief handles GET /api/briefs/{id}.
func (s *AirwaveServer) handleGetBrief(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	brief, err := s.store.GetBrief(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "brief not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get brief")
		return
	}

	writeJSON(w, http.StatusOK, brief)
}

// handleDeleteBrief handles DELETE /api/briefs/{id}.
func (s *AirwaveServer) handleDeleteBrief(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := s.store.DeleteBrief(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "brief not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete brief")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicBriefDeleted, id, "", events.BriefDeleted{BriefID: id})

	w.WriteHeader(http.StatusNoContent)
}

// handleBriefWorkflow handles GET /api/briefs/{id}/workflow.
func (s *AirwaveServer) handleBriefWorkflow(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	progress, err := workflow.Evaluate(r.Context(), s.store, id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "brief not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to evaluate workflow")
		return
	}

	writeJSON(w, http.StatusOK, progress)
}
