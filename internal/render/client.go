// Package render drives a hosted video rendering API: it starts render jobs
// for executions and polls them to completion.
package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Job statuses reported by the render API.
const (
	JobPlanned   = "planned"
	JobRendering = "rendering"
	JobSucceeded = "succeeded"
	JobFailed    = "failed"
)

// Job is the render API's view of one render.
type Job struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	URL    string `json:"url,omitempty"`
	Error  string `json:"error_message,omitempty"`
}

// Renderer starts and polls render jobs.
type Renderer interface {
	StartRender(ctx context.Context, templateID string, modifications map[string]string) (*Job, error)
	GetRender(ctx context.Context, jobID string) (*Job, error)
}

// Client is a JSON HTTP client for a Creatomate-style render API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type startRenderRequest struct {
	TemplateID    string            `json:"template_id"`
	Modifications map[string]string `json:"modifications,omitempty"`
}

// StartRender submits a render for the given template and returns the
// created job. The API returns an array; the first element is the job.
func (c *Client) StartRender(ctx context.Context, templateID string, modifications map[string]string) (*Job, error) {
	body, err := json.Marshal(startRenderRequest{TemplateID: templateID, Modifications: modifications})
	if err != nil {
		return nil, fmt.Errorf("marshal render request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/renders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("start render: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("start render: status %d: %s", resp.StatusCode, data)
	}

	var jobs []Job
	if err := json.NewDecoder(resp.Body).Decode(&jobs); err != nil {
		return nil, fmt.Errorf("decode render response: %w", err)
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("render API returned no jobs")
	}
	return &jobs[0], nil
}

// GetRender fetches the current state of a job.
func (c *Client) GetRender(ctx context.Context, jobID string) (*Job, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/renders/"+jobID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get render: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("get render: status %d: %s", resp.StatusCode, data)
	}

	var job Job
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, fmt.Errorf("decode render response: %w", err)
	}
	return &job, nil
}
