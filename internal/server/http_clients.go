package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/airwavehq/airwave/internal/events"
	"github.com/airwavehq/airwave/internal/model"
)

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (duplicate slug and friends). The message check covers
// drivers that do not surface a *pq.Error.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return err != nil && strings.Contains(err.Error(), "duplicate key value")
}

type createClientInput struct {
	Name           string         `json:"name"`
	Slug           string         `json:"slug"`
	Industry       string         `json:"industry"`
	Description    string         `json:"description"`
	PrimaryColor   string         `json:"primary_color"`
	SecondaryColor string         `json:"secondary_color"`
	LogoAssetID    string         `json:"logo_asset_id"`
	Contacts       model.Contacts `json:"contacts"`
}

// handleCreateClient handles POST /api/clients.
func (s *AirwaveServer) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var in createClientInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	now := time.Now().UTC()
	client := &model.Client{
		ID:             uuid.NewString(),
		Name:           in.Name,
		Slug:           in.Slug,
		Industry:       in.Industry,
		Description:    in.Description,
		PrimaryColor:   in.PrimaryColor,
		SecondaryColor: in.SecondaryColor,
		LogoAssetID:    in.LogoAssetID,
		Contacts:       in.Contacts,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if client.Slug == "" {
		client.Slug = model.Slugify(client.Name)
	}
	if err := model.ValidateClient(client); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.CreateClient(r.Context(), client); err != nil {
		if isUniqueViolation(err) {
			writeError(w, http.StatusBadRequest, "client slug already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create client")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicClientCreated, client.ID, "", events.ClientCreated{Client: client})

	writeJSON(w, http.StatusCreated, client)
}

// handleListClients handles GET /api/clients.
func (s *AirwaveServer) handleListClients(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, offset := pageParams(q.Get("limit"), q.Get("offset"))

	clients, total, err := s.store.ListClients(r.Context(), q.Get("search"), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list clients")
		return
	}

	// Ensure clients is never null in JSON output.
	if clients == nil {
		clients = []*model.Client{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"clients": clients,
		"total":   total,
	})
}

// handleGetClient handles GET /api/clients/{id}. The id segment also
// accepts a slug.
func (s *AirwaveServer) handleGetClient(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	client, err := s.store.GetClient(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		client, err = s.store.GetClientBySlug(r.Context(), id)
	}
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "client not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get client")
		return
	}

	writeJSON(w, http.StatusOK, client)
}

type updateClientInput struct {
	Name           *string         `json:"name"`
	Industry       *string         `json:"industry"`
	Description    *string         `json:"description"`
	PrimaryColor   *string         `json:"primary_color"`
	SecondaryColor *string         `json:"secondary_color"`
	LogoAssetID    *string         `json:"logo_asset_id"`
	Contacts       *model.Contacts `json:"contacts"`
}

// handleUpdateClient handles PATCH /api/clients/{id}.
func (s *AirwaveServer) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	var in updateClientInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	client, err := s.store.GetClient(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "client not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get client")
		return
	}

	changes := make(map[string]any)
	if in.Name != nil {
		client.Name = *in.Name
		changes["name"] = *in.Name
	}
	if in.Industry != nil {
		client.Industry = *in.Industry
		changes["industry"] = *in.Industry
	}
	if in.Description != nil {
		client.Description = *in.Description
		changes["description"] = *in.Description
	}
	if in.PrimaryColor != nil {
		client.PrimaryColor = *in.PrimaryColor
		changes["primary_color"] = *in.PrimaryColor
	}
	if in.SecondaryColor != nil {
		client.SecondaryColor = *in.SecondaryColor
		changes["secondary_color"] = *in.SecondaryColor
	}
	if in.LogoAssetID != nil {
		client.LogoAssetID = *in.LogoAssetID
		changes["logo_asset_id"] = *in.LogoAssetID
	}
	if in.Contacts != nil {
		client.Contacts = *in.Contacts
		changes["contacts"] = *in.Contacts
	}

	if err := model.ValidateClient(client); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	client.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateClient(r.Context(), client); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "client not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update client")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicClientUpdated, client.ID, "", events.ClientUpdated{
		Client:  client,
		Changes: changes,
	})

	writeJSON(w, http.StatusOK, client)
}

// handleDeleteClient handles DELETE /api/clients/{id}.
func (s *AirwaveServer) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := s.store.DeleteClient(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "client not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete client")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicClientDeleted, id, "", events.ClientDeleted{ClientID: id})

	w.WriteHeader(http.StatusNoContent)
}

// pageParams parses limit/offset query values, ignoring junk.
func pageParams(limitStr, offsetStr string) (limit, offset int) {
	if n, err := strconv.Atoi(limitStr); err == nil && n > 0 {
		limit = n
	}
	if n, err := strconv.Atoi(offsetStr); err == nil && n > 0 {
		offset = n
	}
	return limit, offset
}
