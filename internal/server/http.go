package server

import (
	"encoding/json"
	"net/http"
)

// NewHTTPHandler returns an http.Handler with all routes registered.
// When authToken is non-empty, requests (except GET /api/health) must include
// a valid Authorization: Bearer <token> header. Cookie-authenticated
// mutations additionally pass through the CSRF double-submit check.
func (s *AirwaveServer) NewHTTPHandler(authToken string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/csrf", s.handleCSRF)

	mux.HandleFunc("POST /api/clients", s.handleCreateClient)
	mux.HandleFunc("GET /api/clients", s.handleListClients)
	mux.HandleFunc("GET /api/clients/{id}", s.handleGetClient)
	mux.HandleFunc("PATCH /api/clients/{id}", s.handleUpdateClient)
	mux.HandleFunc("DELETE /api/clients/{id}", s.handleDeleteClient)

	mux.HandleFunc("POST /api/briefs", s.handleCreateBrief)
	mux.HandleFunc("GET /api/briefs", s.handleListBriefs)
	mux.HandleFunc("GET /api/briefs/{id}", s.handleGetBrief)
	mux.HandleFunc("DELETE /api/briefs/{id}", s.handleDeleteBrief)
	mux.HandleFunc("GET /api/briefs/{id}/workflow", s.handleBriefWorkflow)

	mux.HandleFunc("POST /api/flow/generate-motivations", s.handleGenerateMotivations)
	mux.HandleFunc("POST /api/flow/generate-copy", s.handleGenerateCopy)
	mux.HandleFunc("GET /api/motivations", s.handleListMotivations)
	mux.HandleFunc("POST /api/motivations/{id}/select", s.handleSelectMotivation)
	mux.HandleFunc("GET /api/copy", s.handleListCopy)
	mux.HandleFunc("POST /api/copy/{id}/select", s.handleSelectCopy)

	mux.HandleFunc("POST /api/assets/upload", s.handleUploadAsset)
	mux.HandleFunc("GET /api/assets", s.handleListAssets)
	mux.HandleFunc("GET /api/assets/{id}", s.handleGetAsset)
	mux.HandleFunc("DELETE /api/assets/{id}", s.handleDeleteAsset)

	mux.HandleFunc("POST /api/matrices", s.handleCreateMatrix)
	mux.HandleFunc("GET /api/matrices", s.handleListMatrices)
	mux.HandleFunc("GET /api/matrices/{id}", s.handleGetMatrix)
	mux.HandleFunc("DELETE /api/matrices/{id}", s.handleDeleteMatrix)
	mux.HandleFunc("POST /api/matrices/{id}/assemble", s.handleAssembleMatrix)

	mux.HandleFunc("GET /api/executions", s.handleListExecutions)
	mux.HandleFunc("GET /api/executions/{id}", s.handleGetExecution)
	mux.HandleFunc("POST /api/executions/{id}/render", s.handleRenderExecution)

	mux.HandleFunc("POST /api/social/publish", s.handleSocialPublish)

	mux.HandleFunc("GET /api/usage/summary", s.handleUsageSummary)
	mux.HandleFunc("GET /api/stats", s.handleGetStats)
	mux.HandleFunc("GET /api/events/stream", s.handleEventStream)

	return AuthMiddleware(authToken, CSRFMiddleware(mux))
}

// handleHealth handles GET /api/health.
func (s *AirwaveServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
