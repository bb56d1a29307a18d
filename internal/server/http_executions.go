package server

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/airwavehq/airwave/internal/events"
	"github.com/airwavehq/airwave/internal/model"
)

// handleListExecutions handles GET /api/executions.
func (s *AirwaveServer) handleListExecutions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.ExecutionFilter{
		MatrixID: q.Get("matrix_id"),
		ClientID: q.Get("client_id"),
		Sort:     q.Get("sort"),
	}
	if v := q.Get("status"); v != "" {
		for _, st := range strings.Split(v, ",") {
			filter.Status = append(filter.Status, model.ExecutionStatus(st))
		}
	}
	filter.Limit, filter.Offset = pageParams(q.Get("limit"), q.Get("offset"))

	executions, total, err := s.store.ListExecutions(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list executions")
		return
	}

	if executions == nil {
		executions = []*model.Execution{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"executions": executions,
		"total":      total,
	})
}

// handleGetExecution handles GET /api/executions/{id}.
func (s *AirwaveServer) handleGetExecution(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	execution, err := s.store.GetExecution(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "execution not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get execution")
		return
	}

	writeJSON(w, http.StatusOK, execution)
}

// handleRenderExecution handles POST /api/executions/{id}/render. Only
// pending executions can be queued; the render workers pick the event up
// from NATS.
func (s *AirwaveServer) handleRenderExecution(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	execution, err := s.store.GetExecution(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "execution not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get execution")
		return
	}
	if execution.Status != model.ExecutionPending {
		writeError(w, http.StatusConflict, "execution is not pending")
		return
	}

	queued, err := s.store.QueueExecution(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		// Raced with another queue request.
		writeError(w, http.StatusConflict, "execution is not pending")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to queue execution")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicExecutionQueued, queued.ID, "", events.ExecutionQueued{Execution: queued})

	writeJSON(w, http.StatusOK, queued)
}
