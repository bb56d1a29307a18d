package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/airwavehq/airwave/internal/events"
	"github.com/airwavehq/airwave/internal/model"
)

// defaultCombinationCap bounds the number of executions a single assemble
// call may create.
const defaultCombinationCap = 100

type createMatrixInput struct {
	ClientID string             `json:"client_id"`
	BriefID  string             `json:"brief_id"`
	Name     string             `json:"name"`
	Slug     string             `json:"slug"`
	Slots    []model.MatrixSlot `json:"slots"`
	Fields   json.RawMessage    `json:"fields"`
}

// handleCreateMatrix handles POST /api/matrices.
func (s *AirwaveServer) handleCreateMatrix(w http.ResponseWriter, r *http.Request) {
	var in createMatrixInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	now := time.Now().UTC()
	matrix := &model.Matrix{
		ID:        uuid.NewString(),
		ClientID:  in.ClientID,
		BriefID:   in.BriefID,
		Name:      in.Name,
		Slug:      in.Slug,
		Slots:     in.Slots,
		Fields:    in.Fields,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if matrix.Slug == "" {
		matrix.Slug = model.Slugify(matrix.Name)
	}
	if err := model.ValidateMatrix(matrix); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.CreateMatrix(r.Context(), matrix); err != nil {
		if isUniqueViolation(err) {
			writeError(w, http.StatusBadRequest, "matrix slug already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create matrix")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicMatrixCreated, matrix.ID, "", events.MatrixCreated{Matrix: matrix})

	writeJSON(w, http.StatusCreated, matrix)
}

// handleListMatrices handles GET /api/matrices.
func (s *AirwaveServer) handleListMatrices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, offset := pageParams(q.Get("limit"), q.Get("offset"))

	matrices, total, err := s.store.ListMatrices(r.Context(), q.Get("client_id"), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list matrices")
		return
	}

	if matrices == nil {
		matrices = []*model.Matrix{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"matrices": matrices,
		"total":    total,
	})
}

// handleGetMatrix handles GET /api/matrices/{id}.
func (s *AirwaveServer) handleGetMatrix(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	matrix, err := s.store.GetMatrix(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "matrix not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get matrix")
		return
	}

	writeJSON(w, http.StatusOK, matrix)
}

// handleDeleteMatrix handles DELETE /api/matrices/{id}.
func (s *AirwaveServer) handleDeleteMatrix(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := s.store.DeleteMatrix(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "matrix not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete matrix")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type assembleMatrixInput struct {
	Platform string `json:"platform"`
	Max      int    `json:"max"`
}

// handleAssembleMatrix handles POST /api/matrices/{id}/assemble. It
// expands the matrix slots into creative combinations, creates a pending
// execution for each, then queues them for rendering.
func (s *AirwaveServer) handleAssembleMatrix(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	var in assembleMatrixInput
	_ = json.NewDecoder(r.Body).Decode(&in)
	if in.Max <= 0 || in.Max > defaultCombinationCap {
		in.Max = defaultCombinationCap
	}

	matrix, err := s.store.GetMatrix(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "matrix not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get matrix")
		return
	}

	combos := matrix.Combinations(in.Max)
	if len(combos) == 0 {
		writeError(w, http.StatusBadRequest, "matrix has no complete combinations")
		return
	}

	now := time.Now().UTC()
	executions := make([]*model.Execution, 0, len(combos))
	for _, combo := range combos {
		executions = append(executions, &model.Execution{
			ID:          uuid.NewString(),
			MatrixID:    matrix.ID,
			ClientID:    matrix.ClientID,
			Combination: combo,
			Platform:    in.Platform,
			Status:      model.ExecutionPending,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	if err := s.store.CreateExecutions(r.Context(), executions); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create executions")
		return
	}

	queued := make([]*model.Execution, 0, len(executions))
	for _, e := range executions {
		q, err := s.store.QueueExecution(r.Context(), e.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to queue execution")
			return
		}
		queued = append(queued, q)
		s.recordAndPublish(r.Context(), events.TopicExecutionQueued, q.ID, "", events.ExecutionQueued{Execution: q})
	}

	s.recordAndPublish(r.Context(), events.TopicMatrixAssembled, matrix.ID, "", events.MatrixAssembled{
		Matrix:     matrix,
		Executions: len(queued),
	})

	writeJSON(w, http.StatusCreated, map[string]any{
		"executions": queued,
		"total":      len(queued),
	})
}
