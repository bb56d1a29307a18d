package server

import (
	"net/http"

	"github.com/airwavehq/airwave/internal/model"
)

// handleUsageSummary handles GET /api/usage/summary. Totals cover the
// current calendar month.
func (s *AirwaveServer) handleUsageSummary(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.budget.Summary(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to summarize usage")
		return
	}

	if summaries == nil {
		summaries = []*model.UsageSummary{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"services": summaries})
}

// handleGetStats handles GET /api/stats: execution counts by status plus
// entity totals.
func (s *AirwaveServer) handleGetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := s.store.ExecutionStats(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get execution stats")
		return
	}

	_, clients, err := s.store.ListClients(ctx, "", 1, 0)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to count clients")
		return
	}
	_, briefs, err := s.store.ListBriefs(ctx, model.BriefFilter{Limit: 1})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to count briefs")
		return
	}
	_, assets, err := s.store.ListAssets(ctx, model.AssetFilter{Limit: 1})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to count assets")
		return
	}
	_, matrices, err := s.store.ListMatrices(ctx, "", 1, 0)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to count matrices")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"executions": stats,
		"clients":    clients,
		"briefs":     briefs,
		"assets":     assets,
		"matrices":   matrices,
	})
}
