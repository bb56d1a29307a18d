package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/airwavehq/airwave/internal/events"
	"github.com/airwavehq/airwave/internal/model"
)

// handleListMotivations handles GET /api/motivations.
func (s *AirwaveServer) handleListMotivations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.MotivationFilter{
		BriefID:  q.Get("brief_id"),
		ClientID: q.Get("client_id"),
	}
	if v := q.Get("selected"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			filter.Selected = &b
		}
	}
	filter.Limit, filter.Offset = pageParams(q.Get("limit"), q.Get("offset"))

	motivations, err := s.store.ListMotivations(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list motivations")
		return
	}

	if motivations == nil {
		motivations = []*model.Motivation{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"motivations": motivations,
		"total":       len(motivations),
	})
}

type selectInput struct {
	Selected *bool `json:"selected"`
}

// selectedOrDefault reads the optional body flag; an absent body means
// select.
func selectedOrDefault(r *http.Request) bool {
	var in selectInput
	_ = json.NewDecoder(r.Body).Decode(&in)
	if in.Selected == nil {
		return true
	}
	return *in.Selected
}

// handleSelectMotivation handles POST /api/motivations/{id}/select.
func (s *AirwaveServer) handleSelectMotivation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	selected := selectedOrDefault(r)
	if err := s.store.SetMotivationSelected(r.Context(), id, selected); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "motivation not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update motivation")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicMotivationSelected, id, "", events.MotivationSelected{
		MotivationID: id,
		Selected:     selected,
	})

	writeJSON(w, http.StatusOK, map[string]any{"id": id, "selected": selected})
}

// handleListCopy handles GET /api/copy.
func (s *AirwaveServer) handleListCopy(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.CopyFilter{
		BriefID:      q.Get("brief_id"),
		MotivationID: q.Get("motivation_id"),
		ClientID:     q.Get("client_id"),
		Platform:     q.Get("platform"),
	}
	if v := q.Get("selected"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			filter.Selected = &b
		}
	}
	filter.Limit, filter.Offset = pageParams(q.Get("limit"), q.Get("offset"))

	variants, err := s.store.ListCopyVariants(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list copy variants")
		return
	}

	if variants == nil {
		variants = []*model.CopyVariant{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"variants": variants,
		"total":    len(variants),
	})
}

// handleSelectCopy handles POST /api/copy/{id}/select.
func (s *AirwaveServer) handleSelectCopy(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	selected := selectedOrDefault(r)
	if err := s.store.SetCopyVariantSelected(r.Context(), id, selected); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "copy variant not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update copy variant")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicCopySelected, id, "", events.CopySelected{
		CopyVariantID: id,
		Selected:      selected,
	})

	writeJSON(w, http.StatusOK, map[string]any{"id": id, "selected": selected})
}
