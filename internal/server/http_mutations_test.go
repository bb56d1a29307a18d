package server

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/airwavehq/airwave/internal/events"
	"github.com/airwavehq/airwave/internal/model"
	"github.com/airwavehq/airwave/internal/social"
)

func seedBrief(ms *mockStore) *model.Brief {
	b := &model.Brief{
		ID:        "br-1",
		ClientID:  "cl-1",
		Title:     "Spring Launch",
		Status:    model.BriefParsed,
		Objective: "Limited time spring sale ends soon",
		Platforms: []string{"facebook"},
	}
	ms.briefs[b.ID] = b
	return b
}

func TestGenerateMotivations(t *testing.T) {
	ms := newMockStore()
	seedClient(ms)
	seedBrief(ms)
	h := newTestServer(ms, Options{})

	rec := doRequest(t, h, http.MethodPost, "/api/flow/generate-motivations", map[string]any{
		"brief_id": "br-1",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("got status %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody[map[string]any](t, rec)
	if body["total"].(float64) < 1 {
		t.Fatalf("got body %v", body)
	}
	if len(ms.motivations) == 0 {
		t.Fatal("motivations not stored")
	}
	if !ms.hasEventTopic(events.TopicMotivationsGenerated) {
		t.Fatal("expected motivation.generated event")
	}
}

func TestGenerateMotivations_CountTrims(t *testing.T) {
	ms := newMockStore()
	seedClient(ms)
	seedBrief(ms)
	h := newTestServer(ms, Options{})

	rec := doRequest(t, h, http.MethodPost, "/api/flow/generate-motivations", map[string]any{
		"brief_id": "br-1",
		"count":    3,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("got status %d", rec.Code)
	}
	if len(ms.motivations) != 3 {
		t.Fatalf("got %d motivations, want 3", len(ms.motivations))
	}
}

func TestGenerateMotivations_UnknownBrief(t *testing.T) {
	h := newTestServer(newMockStore(), Options{})
	rec := doRequest(t, h, http.MethodPost, "/api/flow/generate-motivations", map[string]any{
		"brief_id": "missing",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("got status %d", rec.Code)
	}
}

func TestGenerateCopy(t *testing.T) {
	ms := newMockStore()
	seedClient(ms)
	seedBrief(ms)
	ms.motivations["mo-1"] = &model.Motivation{ID: "mo-1", BriefID: "br-1", ClientID: "cl-1", Title: "Fear of missing out"}
	h := newTestServer(ms, Options{})

	rec := doRequest(t, h, http.MethodPost, "/api/flow/generate-copy", map[string]any{
		"brief_id":       "br-1",
		"motivation_ids": []string{"mo-1"},
		"platforms":      []string{"facebook", "twitter"},
		"tone":           "urgent",
		"count":          2,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("got status %d: %s", rec.Code, rec.Body.String())
	}
	// 1 motivation x 2 platforms x 2 variants.
	if len(ms.variants) != 4 {
		t.Fatalf("got %d variants, want 4", len(ms.variants))
	}
	for _, v := range ms.variants {
		if v.Tone != "urgent" || v.Headline == "" {
			t.Fatalf("got variant %+v", v)
		}
	}
	if !ms.hasEventTopic(events.TopicCopyGenerated) {
		t.Fatal("expected copy.generated event")
	}
}

func TestGenerateCopy_DefaultsToBriefPlatforms(t *testing.T) {
	ms := newMockStore()
	seedClient(ms)
	seedBrief(ms)
	ms.motivations["mo-1"] = &model.Motivation{ID: "mo-1", BriefID: "br-1", Title: "Value"}
	h := newTestServer(ms, Options{})

	rec := doRequest(t, h, http.MethodPost, "/api/flow/generate-copy", map[string]any{
		"brief_id":       "br-1",
		"motivation_ids": []string{"mo-1"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("got status %d: %s", rec.Code, rec.Body.String())
	}
	// Brief names one platform; default count is 3.
	if len(ms.variants) != 3 {
		t.Fatalf("got %d variants, want 3", len(ms.variants))
	}
}

func TestSelectMotivation(t *testing.T) {
	ms := newMockStore()
	ms.motivations["mo-1"] = &model.Motivation{ID: "mo-1", BriefID: "br-1"}
	h := newTestServer(ms, Options{})

	rec := doRequest(t, h, http.MethodPost, "/api/motivations/mo-1/select", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d", rec.Code)
	}
	if !ms.motivations["mo-1"].Selected {
		t.Fatal("motivation not selected")
	}

	rec = doRequest(t, h, http.MethodPost, "/api/motivations/mo-1/select", map[string]any{"selected": false})
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d", rec.Code)
	}
	if ms.motivations["mo-1"].Selected {
		t.Fatal("motivation still selected")
	}
}

func TestSelectCopy_NotFound(t *testing.T) {
	h := newTestServer(newMockStore(), Options{})
	rec := doRequest(t, h, http.MethodPost, "/api/copy/missing/select", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("got status %d", rec.Code)
	}
}

func seedMatrix(ms *mockStore) *model.Matrix {
	mx := &model.Matrix{
		ID:       "mx-1",
		ClientID: "cl-1",
		BriefID:  "br-1",
		Name:     "Spring Grid",
		Slug:     "spring-grid",
		Slots: []model.MatrixSlot{
			{Name: "background", Kind: model.SlotAsset, Options: []string{"as-1", "as-2"}},
			{Name: "headline", Kind: model.SlotCopy, Options: []string{"cv-1", "cv-2", "cv-3"}},
		},
	}
	ms.matrices[mx.ID] = mx
	return mx
}

func TestCreateMatrix(t *testing.T) {
	ms := newMockStore()
	seedClient(ms)
	h := newTestServer(ms, Options{})

	rec := doRequest(t, h, http.MethodPost, "/api/matrices", map[string]any{
		"client_id": "cl-1",
		"name":      "Spring Grid",
		"slots": []map[string]any{
			{"name": "background", "kind": "asset", "options": []string{"as-1"}},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("got status %d: %s", rec.Code, rec.Body.String())
	}
	matrix := decodeBody[model.Matrix](t, rec)
	if matrix.Slug != "spring-grid" {
		t.Fatalf("got matrix %+v", matrix)
	}
}

func TestCreateMatrix_DuplicateSlug(t *testing.T) {
	ms := newMockStore()
	seedClient(ms)
	seedMatrix(ms)
	h := newTestServer(ms, Options{})

	rec := doRequest(t, h, http.MethodPost, "/api/matrices", map[string]any{
		"client_id": "cl-1",
		"name":      "Spring Grid",
		"slots": []map[string]any{
			{"name": "background", "kind": "asset", "options": []string{"as-1"}},
		},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "already exists") {
		t.Fatalf("got body %s", rec.Body.String())
	}
}

func TestCreateMatrix_EmptySlots(t *testing.T) {
	ms := newMockStore()
	seedClient(ms)
	h := newTestServer(ms, Options{})

	rec := doRequest(t, h, http.MethodPost, "/api/matrices", map[string]any{
		"client_id": "cl-1",
		"name":      "Empty Grid",
		"slots":     []map[string]any{},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d", rec.Code)
	}
}

func TestAssembleMatrix(t *testing.T) {
	ms := newMockStore()
	seedClient(ms)
	seedMatrix(ms)
	h := newTestServer(ms, Options{})

	rec := doRequest(t, h, http.MethodPost, "/api/matrices/mx-1/assemble", map[string]any{
		"platform": "facebook",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("got status %d: %s", rec.Code, rec.Body.String())
	}
	// 2 backgrounds x 3 headlines.
	if len(ms.executions) != 6 {
		t.Fatalf("got %d executions, want 6", len(ms.executions))
	}
	for _, e := range ms.executions {
		if e.Status != model.ExecutionQueued {
			t.Fatalf("got status %q", e.Status)
		}
		if e.Combination["background"] == "" || e.Combination["headline"] == "" {
			t.Fatalf("got combination %v", e.Combination)
		}
		if e.Platform != "facebook" {
			t.Fatalf("got platform %q", e.Platform)
		}
	}
	if !ms.hasEventTopic(events.TopicMatrixAssembled) {
		t.Fatal("expected matrix.assembled event")
	}
	if !ms.hasEventTopic(events.TopicExecutionQueued) {
		t.Fatal("expected execution.queued events")
	}
}

func TestAssembleMatrix_CapsCombinations(t *testing.T) {
	ms := newMockStore()
	seedClient(ms)
	seedMatrix(ms)
	h := newTestServer(ms, Options{})

	rec := doRequest(t, h, http.MethodPost, "/api/matrices/mx-1/assemble", map[string]any{"max": 4})
	if rec.Code != http.StatusCreated {
		t.Fatalf("got status %d", rec.Code)
	}
	if len(ms.executions) != 4 {
		t.Fatalf("got %d executions, want 4", len(ms.executions))
	}
}

func TestAssembleMatrix_NotFound(t *testing.T) {
	h := newTestServer(newMockStore(), Options{})
	rec := doRequest(t, h, http.MethodPost, "/api/matrices/missing/assemble", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("got status %d", rec.Code)
	}
}

func TestRenderExecution(t *testing.T) {
	ms := newMockStore()
	ms.executions["ex-1"] = &model.Execution{ID: "ex-1", Status: model.ExecutionPending}
	h := newTestServer(ms, Options{})

	rec := doRequest(t, h, http.MethodPost, "/api/executions/ex-1/render", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d: %s", rec.Code, rec.Body.String())
	}
	if ms.executions["ex-1"].Status != model.ExecutionQueued {
		t.Fatalf("got status %q", ms.executions["ex-1"].Status)
	}
	if !ms.hasEventTopic(events.TopicExecutionQueued) {
		t.Fatal("expected execution.queued event")
	}
}

func TestRenderExecution_NotPending(t *testing.T) {
	ms := newMockStore()
	ms.executions["ex-1"] = &model.Execution{ID: "ex-1", Status: model.ExecutionCompleted}
	h := newTestServer(ms, Options{})

	rec := doRequest(t, h, http.MethodPost, "/api/executions/ex-1/render", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("got status %d", rec.Code)
	}
}

func TestSocialPublish(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"page_1"}`))
	}))
	defer srv.Close()

	ms := newMockStore()
	ms.executions["ex-1"] = &model.Execution{
		ID:        "ex-1",
		Status:    model.ExecutionCompleted,
		OutputURL: "https://cdn.test/out.mp4",
	}
	registry := social.NewRegistry(social.NewFacebookWithBaseURL(srv.URL, "tok"))
	h := newTestServer(ms, Options{Social: registry})

	rec := doRequest(t, h, http.MethodPost, "/api/social/publish", map[string]any{
		"execution_id": "ex-1",
		"platforms":    []string{"facebook"},
		"message":      "Spring sale is live",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d: %s", rec.Code, rec.Body.String())
	}
	if !ms.hasEventTopic(events.TopicSocialPublished) {
		t.Fatal("expected social.published event")
	}
	if !strings.Contains(string(ms.executions["ex-1"].Metadata), "page_1") {
		t.Fatalf("got metadata %s", ms.executions["ex-1"].Metadata)
	}
}

func TestSocialPublish_NotCompleted(t *testing.T) {
	ms := newMockStore()
	ms.executions["ex-1"] = &model.Execution{ID: "ex-1", Status: model.ExecutionProcessing}
	h := newTestServer(ms, Options{})

	rec := doRequest(t, h, http.MethodPost, "/api/social/publish", map[string]any{
		"execution_id": "ex-1",
		"platforms":    []string{"facebook"},
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("got status %d", rec.Code)
	}
}

func TestSocialPublish_UnconfiguredPlatform(t *testing.T) {
	ms := newMockStore()
	ms.executions["ex-1"] = &model.Execution{ID: "ex-1", Status: model.ExecutionCompleted}
	h := newTestServer(ms, Options{})

	rec := doRequest(t, h, http.MethodPost, "/api/social/publish", map[string]any{
		"execution_id": "ex-1",
		"platforms":    []string{"myspace"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d", rec.Code)
	}
}

// memStorage is an in-memory assets.Storage for upload tests.
type memStorage struct {
	objects map[string][]byte
	types   map[string]string
}

func newMemStorage() *memStorage {
	return &memStorage{objects: make(map[string][]byte), types: make(map[string]string)}
}

func (m *memStorage) Put(_ context.Context, clientID, contentType string, data []byte) (string, error) {
	key := "clients/" + clientID + "/obj"
	m.objects[key] = data
	m.types[key] = contentType
	return key, nil
}

func (m *memStorage) Get(_ context.Context, key string) ([]byte, string, error) {
	return m.objects[key], m.types[key], nil
}

func (m *memStorage) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memStorage) URL(key string) string { return "https://cdn.test/" + key }

func multipartUpload(t *testing.T, fields map[string]string, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	hdr := make(map[string][]string)
	hdr["Content-Disposition"] = []string{`form-data; name="file"; filename="` + filename + `"`}
	hdr["Content-Type"] = []string{contentType}
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestUploadAsset(t *testing.T) {
	ms := newMockStore()
	seedClient(ms)
	storage := newMemStorage()
	h := newTestServer(ms, Options{Storage: storage})

	body, ctype := multipartUpload(t, map[string]string{
		"client_id": "cl-1",
		"tags":      "hero, spring",
	}, "banner.png", "image/png", []byte("fake png bytes"))

	req := httptest.NewRequest(http.MethodPost, "/api/assets/upload", body)
	req.Header.Set("Content-Type", ctype)
	req.Header.Set("Authorization", "Bearer test")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("got status %d: %s", rec.Code, rec.Body.String())
	}
	asset := decodeBody[model.Asset](t, rec)
	if asset.Kind != model.AssetImage || asset.Name != "banner.png" {
		t.Fatalf("got asset %+v", asset)
	}
	if len(asset.Tags) != 2 || asset.Tags[1] != "spring" {
		t.Fatalf("got tags %v", asset.Tags)
	}
	if asset.URL == "" || len(storage.objects) != 1 {
		t.Fatal("object not stored")
	}
	if !ms.hasEventTopic(events.TopicAssetUploaded) {
		t.Fatal("expected asset.uploaded event")
	}
}

func TestUploadAsset_DisallowedType(t *testing.T) {
	ms := newMockStore()
	seedClient(ms)
	h := newTestServer(ms, Options{Storage: newMemStorage()})

	body, ctype := multipartUpload(t, map[string]string{"client_id": "cl-1"},
		"evil.exe", "application/x-msdownload", []byte("MZ"))

	req := httptest.NewRequest(http.MethodPost, "/api/assets/upload", body)
	req.Header.Set("Content-Type", ctype)
	req.Header.Set("Authorization", "Bearer test")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d", rec.Code)
	}
}

func TestUploadAsset_NoStorage(t *testing.T) {
	ms := newMockStore()
	seedClient(ms)
	h := newTestServer(ms, Options{})

	body, ctype := multipartUpload(t, map[string]string{"client_id": "cl-1"},
		"banner.png", "image/png", []byte("png"))

	req := httptest.NewRequest(http.MethodPost, "/api/assets/upload", body)
	req.Header.Set("Content-Type", ctype)
	req.Header.Set("Authorization", "Bearer test")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("got status %d", rec.Code)
	}
}

func TestDeleteAsset_RemovesObject(t *testing.T) {
	ms := newMockStore()
	storage := newMemStorage()
	storage.objects["clients/cl-1/obj"] = []byte("data")
	ms.assets["as-1"] = &model.Asset{ID: "as-1", ClientID: "cl-1", StorageKey: "clients/cl-1/obj"}
	h := newTestServer(ms, Options{Storage: storage})

	rec := doRequest(t, h, http.MethodDelete, "/api/assets/as-1", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("got status %d", rec.Code)
	}
	if len(storage.objects) != 0 {
		t.Fatal("stored object not deleted")
	}
}
