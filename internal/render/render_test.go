package render

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/airwavehq/airwave/internal/events"
	"github.com/airwavehq/airwave/internal/model"
	"github.com/airwavehq/airwave/internal/store"
)

func TestClient_StartRender(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/renders" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("got auth header %q", got)
		}
		var req startRenderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.TemplateID != "tmpl-1" || req.Modifications["headline"] != "Act now" {
			t.Errorf("unexpected request body: %+v", req)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]Job{{ID: "job-1", Status: JobPlanned}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	job, err := c.StartRender(context.Background(), "tmpl-1", map[string]string{"headline": "Act now"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.ID != "job-1" || job.Status != JobPlanned {
		t.Fatalf("got job %+v", job)
	}
}

func TestClient_StartRender_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad template"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	_, err := c.StartRender(context.Background(), "tmpl-bad", nil)
	if err == nil || !strings.Contains(err.Error(), "status 400") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestClient_GetRender(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/renders/job-1" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(Job{ID: "job-1", Status: JobSucceeded, URL: "https://cdn.test/out.mp4"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	job, err := c.GetRender(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.Status != JobSucceeded || job.URL != "https://cdn.test/out.mp4" {
		t.Fatalf("got job %+v", job)
	}
}

// mockRenderer scripts render job progress.
type mockRenderer struct {
	mu       sync.Mutex
	startErr error
	statuses []string // consumed by successive GetRender calls
	url      string
	jobErr   string
	polls    int
}

func (m *mockRenderer) StartRender(ctx context.Context, templateID string, modifications map[string]string) (*Job, error) {
	if m.startErr != nil {
		return nil, m.startErr
	}
	return &Job{ID: "job-1", Status: JobPlanned}, nil
}

func (m *mockRenderer) GetRender(ctx context.Context, jobID string) (*Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.polls++
	status := JobSucceeded
	if len(m.statuses) > 0 {
		status = m.statuses[0]
		m.statuses = m.statuses[1:]
	}
	job := &Job{ID: jobID, Status: status, Error: m.jobErr}
	if status == JobSucceeded {
		job.URL = m.url
	}
	return job, nil
}

// mockStore overrides just the store methods the worker touches.
type mockStore struct {
	store.Store

	mu         sync.Mutex
	executions map[string]*model.Execution
	variants   map[string]*model.CopyVariant
	assets     map[string]*model.Asset
}

func newMockStore() *mockStore {
	return &mockStore{
		executions: make(map[string]*model.Execution),
		variants:   make(map[string]*model.CopyVariant),
		assets:     make(map[string]*model.Asset),
	}
}

func (m *mockStore) ClaimExecution(ctx context.Context, id string) (*model.Execution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.executions[id]
	if !ok || e.Status != model.ExecutionQueued {
		return nil, sql.ErrNoRows
	}
	e.Status = model.ExecutionProcessing
	return e, nil
}

func (m *mockStore) CompleteExecution(ctx context.Context, id, renderJobID, outputURL string) (*model.Execution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.executions[id]
	if !ok || e.Status != model.ExecutionProcessing {
		return nil, sql.ErrNoRows
	}
	e.Status = model.ExecutionCompleted
	e.RenderJobID = renderJobID
	e.OutputURL = outputURL
	return e, nil
}

func (m *mockStore) FailExecution(ctx context.Context, id, renderJobID, message string) (*model.Execution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.executions[id]
	if !ok || e.Status != model.ExecutionProcessing {
		return nil, sql.ErrNoRows
	}
	e.Status = model.ExecutionFailed
	e.RenderJobID = renderJobID
	e.Error = message
	return e, nil
}

func (m *mockStore) GetCopyVariant(ctx context.Context, id string) (*model.CopyVariant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.variants[id]; ok {
		return v, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStore) GetAsset(ctx context.Context, id string) (*model.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.assets[id]; ok {
		return a, nil
	}
	return nil, sql.ErrNoRows
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
}

func (p *recordingPublisher) Publish(ctx context.Context, topic string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.topics...)
}

func queuedExecution(id string) *model.Execution {
	return &model.Execution{
		ID: id, MatrixID: "mx-1", ClientID: "cl-1",
		Combination: map[string]string{"copy": "cv-1", "background": "as-1"},
		Status:      model.ExecutionQueued,
	}
}

func testWorker(s *mockStore, r Renderer, p events.Publisher) *Worker {
	return NewWorker(WorkerOptions{
		Store:        s,
		Publisher:    p,
		Renderer:     r,
		TemplateID:   "tmpl-1",
		PollInterval: time.Millisecond,
		Timeout:      time.Second,
	})
}

func TestWorker_ProcessCompletes(t *testing.T) {
	s := newMockStore()
	s.executions["ex-1"] = queuedExecution("ex-1")
	s.variants["cv-1"] = &model.CopyVariant{ID: "cv-1", Headline: "Act now", Body: "Body", CallToAction: "Shop"}
	s.assets["as-1"] = &model.Asset{ID: "as-1", URL: "https://cdn.test/bg.jpg"}

	pub := &recordingPublisher{}
	w := testWorker(s, &mockRenderer{statuses: []string{JobRendering, JobSucceeded}, url: "https://cdn.test/out.mp4"}, pub)

	if err := w.Process(context.Background(), "ex-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e := s.executions["ex-1"]
	if e.Status != model.ExecutionCompleted || e.OutputURL != "https://cdn.test/out.mp4" || e.RenderJobID != "job-1" {
		t.Fatalf("got execution %+v", e)
	}
	topics := pub.published()
	if len(topics) != 2 || topics[0] != events.TopicExecutionStarted || topics[1] != events.TopicExecutionCompleted {
		t.Fatalf("got topics %v", topics)
	}
}

func TestWorker_ProcessStartRenderFails(t *testing.T) {
	s := newMockStore()
	s.executions["ex-1"] = queuedExecution("ex-1")
	s.variants["cv-1"] = &model.CopyVariant{ID: "cv-1"}
	s.assets["as-1"] = &model.Asset{ID: "as-1", URL: "https://cdn.test/bg.jpg"}

	pub := &recordingPublisher{}
	w := testWorker(s, &mockRenderer{startErr: fmt.Errorf("render API down")}, pub)

	err := w.Process(context.Background(), "ex-1")
	if err == nil {
		t.Fatal("expected error")
	}
	e := s.executions["ex-1"]
	if e.Status != model.ExecutionFailed || !strings.Contains(e.Error, "render API down") {
		t.Fatalf("got execution %+v", e)
	}
	topics := pub.published()
	if topics[len(topics)-1] != events.TopicExecutionFailed {
		t.Fatalf("got topics %v", topics)
	}
}

func TestWorker_ProcessJobFails(t *testing.T) {
	s := newMockStore()
	s.executions["ex-1"] = queuedExecution("ex-1")
	s.variants["cv-1"] = &model.CopyVariant{ID: "cv-1"}
	s.assets["as-1"] = &model.Asset{ID: "as-1", URL: "https://cdn.test/bg.jpg"}

	w := testWorker(s, &mockRenderer{statuses: []string{JobFailed}, jobErr: "template missing layer"}, &recordingPublisher{})

	if err := w.Process(context.Background(), "ex-1"); err == nil {
		t.Fatal("expected error")
	}
	e := s.executions["ex-1"]
	if e.Status != model.ExecutionFailed || e.Error != "template missing layer" {
		t.Fatalf("got execution %+v", e)
	}
}

func TestWorker_ProcessNotClaimable(t *testing.T) {
	s := newMockStore()
	s.executions["ex-1"] = &model.Execution{ID: "ex-1", Status: model.ExecutionProcessing}

	pub := &recordingPublisher{}
	w := testWorker(s, &mockRenderer{}, pub)

	// A claim miss is skipped silently, not an error.
	if err := w.Process(context.Background(), "ex-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pub.published()) != 0 {
		t.Fatalf("expected no events, got %v", pub.published())
	}
}

func TestWorker_BuildModifications(t *testing.T) {
	s := newMockStore()
	s.variants["cv-1"] = &model.CopyVariant{ID: "cv-1", Headline: "H", Body: "B", CallToAction: "C"}
	s.assets["as-1"] = &model.Asset{ID: "as-1", URL: "https://cdn.test/bg.jpg"}

	w := testWorker(s, &mockRenderer{}, nil)
	mods, err := w.buildModifications(context.Background(), &model.Execution{
		Combination: map[string]string{"copy": "cv-1", "background": "as-1", "caption": "hello"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mods["copy.headline"] != "H" || mods["copy.body"] != "B" || mods["copy.cta"] != "C" {
		t.Fatalf("got mods %v", mods)
	}
	if mods["background"] != "https://cdn.test/bg.jpg" {
		t.Fatalf("got background %q", mods["background"])
	}
	if mods["caption"] != "hello" {
		t.Fatalf("got caption %q", mods["caption"])
	}
}

func TestWorker_BuildModificationsAssetWithoutURL(t *testing.T) {
	s := newMockStore()
	s.assets["as-1"] = &model.Asset{ID: "as-1"}

	w := testWorker(s, &mockRenderer{}, nil)
	_, err := w.buildModifications(context.Background(), &model.Execution{
		Combination: map[string]string{"background": "as-1"},
	})
	if err == nil || !strings.Contains(err.Error(), "no public URL") {
		t.Fatalf("expected URL error, got %v", err)
	}
}
