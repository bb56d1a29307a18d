package server

import (
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/airwavehq/airwave/internal/assets"
	"github.com/airwavehq/airwave/internal/events"
	"github.com/airwavehq/airwave/internal/model"
)

// handleUploadAsset handles POST /api/assets/upload (multipart form with
// a "file" part plus client_id, optional name and tags fields).
func (s *AirwaveServer) handleUploadAsset(w http.ResponseWriter, r *http.Request) {
	if s.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "asset storage is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	clientID := r.FormValue("client_id")
	if clientID == "" {
		writeError(w, http.StatusBadRequest, "client_id is required")
		return
	}
	if _, err := s.store.GetClient(r.Context(), clientID); errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusBadRequest, "client not found")
		return
	} else if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get client")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file part is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	if err := assets.ValidateUpload(contentType, int64(len(data)), s.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key, err := s.storage.Put(r.Context(), clientID, contentType, data)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store asset")
		return
	}

	name := r.FormValue("name")
	if name == "" {
		name = header.Filename
	}
	var tags []string
	if v := r.FormValue("tags"); v != "" {
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}

	now := time.Now().UTC()
	asset := &model.Asset{
		ID:          uuid.NewString(),
		ClientID:    clientID,
		Name:        name,
		Kind:        model.KindForContentType(contentType),
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
		StorageKey:  key,
		URL:         s.storage.URL(key),
		Tags:        tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := model.ValidateAsset(asset); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.CreateAsset(r.Context(), asset); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create asset")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicAssetUploaded, asset.ID, "", events.AssetUploaded{Asset: asset})

	writeJSON(w, http.StatusCreated, asset)
}

// handleListAssets handles GET /api/assets.
func (s *AirwaveServer) handleListAssets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.AssetFilter{
		ClientID: q.Get("client_id"),
		Search:   q.Get("search"),
		Sort:     q.Get("sort"),
	}
	if v := q.Get("kind"); v != "" {
		for _, k := range strings.Split(v, ",") {
			filter.Kind = append(filter.Kind, model.AssetKind(k))
		}
	}
	if v := q.Get("tags"); v != "" {
		filter.Tags = strings.Split(v, ",")
	}
	filter.Limit, filter.Offset = pageParams(q.Get("limit"), q.Get("offset"))

	list, total, err := s.store.ListAssets(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list assets")
		return
	}

	if list == nil {
		list = []*model.Asset{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"assets": list,
		"total":  total,
	})
}

// handleGetAsset handles GET /api/assets/{id}.
func (s *AirwaveServer) handleGetAsset(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	asset, err := s.store.GetAsset(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "asset not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get asset")
		return
	}

	writeJSON(w, http.StatusOK, asset)
}

// handleDeleteAsset handles DELETE /api/assets/{id}. The stored blob is
// removed best-effort after the row.
func (s *AirwaveServer) handleDeleteAsset(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	asset, err := s.store.GetAsset(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "asset not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get asset")
		return
	}

	if err := s.store.DeleteAsset(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "asset not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete asset")
		return
	}

	if s.storage != nil {
		if err := s.storage.Delete(r.Context(), asset.StorageKey); err != nil {
			slog.Warn("failed to delete stored object", "asset", id, "key", asset.StorageKey, "error", err)
		}
	}

	s.recordAndPublish(r.Context(), events.TopicAssetDeleted, id, "", events.AssetDeleted{AssetID: id})

	w.WriteHeader(http.StatusNoContent)
}
