package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/airwavehq/airwave/internal/ai"
	"github.com/airwavehq/airwave/internal/events"
	"github.com/airwavehq/airwave/internal/model"
)

type generateMotivationsInput struct {
	BriefID string `json:"brief_id"`
	Count   int    `json:"count"`
}

// handleGenerateMotivations handles POST /api/flow/generate-motivations.
func (s *AirwaveServer) handleGenerateMotivations(w http.ResponseWriter, r *http.Request) {
	var in generateMotivationsInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.BriefID == "" {
		writeError(w, http.StatusBadRequest, "brief_id is required")
		return
	}

	brief, err := s.store.GetBrief(r.Context(), in.BriefID)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "brief not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get brief")
		return
	}

	motivations, err := s.generator.GenerateMotivations(r.Context(), brief)
	if err != nil {
		if errors.Is(err, ai.ErrBudgetExceeded) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to generate motivations")
		return
	}
	if in.Count > 0 && len(motivations) > in.Count {
		motivations = motivations[:in.Count]
	}

	if err := s.store.CreateMotivations(r.Context(), motivations); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store motivations")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicMotivationsGenerated, brief.ID, "", events.MotivationsGenerated{
		BriefID:     brief.ID,
		Motivations: motivations,
	})

	writeJSON(w, http.StatusCreated, map[string]any{
		"motivations": motivations,
		"total":       len(motivations),
	})
}

type generateCopyInput struct {
	BriefID       string   `json:"brief_id"`
	MotivationIDs []string `json:"motivation_ids"`
	Platforms     []string `json:"platforms"`
	Tone          string   `json:"tone"`
	Count         int      `json:"count"`
}

// defaultCopyCount is the number of variants produced per motivation and
// platform when the request does not say.
const defaultCopyCount = 3

// handleGenerateCopy handles POST /api/flow/generate-copy. It produces
// Count variants for every motivation × platform pair.
func (s *AirwaveServer) handleGenerateCopy(w http.ResponseWriter, r *http.Request) {
	var in generateCopyInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.BriefID == "" {
		writeError(w, http.StatusBadRequest, "brief_id is required")
		return
	}
	if len(in.MotivationIDs) == 0 {
		writeError(w, http.StatusBadRequest, "motivation_ids is required")
		return
	}
	if in.Count <= 0 {
		in.Count = defaultCopyCount
	}

	brief, err := s.store.GetBrief(r.Context(), in.BriefID)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "brief not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get brief")
		return
	}

	platforms := in.Platforms
	if len(platforms) == 0 {
		platforms = brief.Platforms
	}
	if len(platforms) == 0 {
		writeError(w, http.StatusBadRequest, "no platforms requested and brief names none")
		return
	}

	var variants []*model.CopyVariant
	for _, motivationID := range in.MotivationIDs {
		motivation, err := s.store.GetMotivation(r.Context(), motivationID)
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "motivation not found: "+motivationID)
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to get motivation")
			return
		}

		for _, platform := range platforms {
			vs, err := s.generator.GenerateCopy(r.Context(), brief, motivation, platform, in.Tone, in.Count)
			if err != nil {
				if errors.Is(err, ai.ErrBudgetExceeded) {
					writeError(w, http.StatusConflict, err.Error())
					return
				}
				writeError(w, http.StatusInternalServerError, "failed to generate copy")
				return
			}
			variants = append(variants, vs...)
		}
	}

	if err := s.store.CreateCopyVariants(r.Context(), variants); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store copy variants")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicCopyGenerated, brief.ID, "", events.CopyGenerated{
		BriefID:  brief.ID,
		Variants: variants,
	})

	writeJSON(w, http.StatusCreated, map[string]any{
		"variants": variants,
		"total":    len(variants),
	})
}
