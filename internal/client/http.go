package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"encoding/json"

	"github.com/airwavehq/airwave/internal/model"
	"github.com/airwavehq/airwave/internal/workflow"
)

// HTTPClient implements AirwaveClient using the HTTP/JSON REST API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8080"). When token is non-empty, an Authorization
// header is set on every request.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// --- Clients ---

func (c *HTTPClient) CreateClient(ctx context.Context, req *CreateClientRequest) (*model.Client, error) {
	var client model.Client
	if err := c.doJSON(ctx, http.MethodPost, "/api/clients", req, &client); err != nil {
		return nil, err
	}
	return &client, nil
}

func (c *HTTPClient) GetClient(ctx context.Context, id string) (*model.Client, error) {
	var client model.Client
	if err := c.doJSON(ctx, http.MethodGet, "/api/clients/"+url.PathEscape(id), nil, &client); err != nil {
		return nil, err
	}
	return &client, nil
}

func (c *HTTPClient) ListClients(ctx context.Context, search string, limit, offset int) (*ListClientsResponse, error) {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", limit))
	}
	if offset > 0 {
		q.Set("offset", fmt.Sprintf("%d", offset))
	}
	path := "/api/clients"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp ListClientsResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) DeleteClient(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/clients/"+url.PathEscape(id), nil, nil)
}

// --- Briefs ---

func (c *HTTPClient) CreateBrief(ctx context.Context, req *CreateBriefRequest) (*model.Brief, error) {
	var brief model.Brief
	if err := c.doJSON(ctx, http.MethodPost, "/api/briefs", req, &brief); err != nil {
		return nil, err
	}
	return &brief, nil
}

func (c *HTTPClient) GetBrief(ctx context.Context, id string) (*model.Brief, error) {
	var brief model.Brief
	if err := c.doJSON(ctx, http.MethodGet, "/api/briefs/"+url.PathEscape(id), nil, &brief); err != nil {
		return nil, err
	}
	return &brief, nil
}

func (c *HTTPClient) ListBriefs(ctx context.Context, req *ListBriefsRequest) (*ListBriefsResponse, error) {
	q := url.Values{}
	if req.ClientID != "" {
		q.Set("client_id", req.ClientID)
	}
	if len(req.Status) > 0 {
		q.Set("status", strings.Join(req.Status, ","))
	}
	if req.Search != "" {
		q.Set("search", req.Search)
	}
	if req.Limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", req.Limit))
	}
	if req.Offset > 0 {
		q.Set("offset", fmt.Sprintf("%d", req.Offset))
	}
	path := "/api/briefs"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp ListBriefsResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) GetBriefWorkflow(ctx context.Context, id string) (*workflow.Progress, error) {
	var progress workflow.Progress
	if err := c.doJSON(ctx, http.MethodGet, "/api/briefs/"+url.PathEscape(id)+"/workflow", nil, &progress); err != nil {
		return nil, err
	}
	return &progress, nil
}

// --- Generation flow ---

func (c *HTTPClient) GenerateMotivations(ctx context.Context, briefID string, count int) (*MotivationsResponse, error) {
	body := map[string]any{"brief_id": briefID}
	if count > 0 {
		body["count"] = count
	}
	var resp MotivationsResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/flow/generate-motivations", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) GenerateCopy(ctx context.Context, req *GenerateCopyRequest) (*CopyResponse, error) {
	var resp CopyResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/flow/generate-copy", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) ListMotivations(ctx context.Context, briefID string) (*MotivationsResponse, error) {
	var resp MotivationsResponse
	path := "/api/motivations?brief_id=" + url.QueryEscape(briefID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) SelectMotivation(ctx context.Context, id string, selected bool) error {
	body := map[string]bool{"selected": selected}
	return c.doJSON(ctx, http.MethodPost, "/api/motivations/"+url.PathEscape(id)+"/select", body, nil)
}

func (c *HTTPClient) ListCopy(ctx context.Context, briefID, motivationID string) (*CopyResponse, error) {
	q := url.Values{}
	if briefID != "" {
		q.Set("brief_id", briefID)
	}
	if motivationID != "" {
		q.Set("motivation_id", motivationID)
	}
	path := "/api/copy"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var resp CopyResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) SelectCopy(ctx context.Context, id string, selected bool) error {
	body := map[string]bool{"selected": selected}
	return c.doJSON(ctx, http.MethodPost, "/api/copy/"+url.PathEscape(id)+"/select", body, nil)
}

// --- Assets ---

// UploadAsset sends a multipart form with the file contents plus the
// client_id, name, and tags fields.
func (c *HTTPClient) UploadAsset(ctx context.Context, req *UploadAssetRequest) (*model.Asset, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("client_id", req.ClientID); err != nil {
		return nil, fmt.Errorf("building form: %w", err)
	}
	if req.Name != "" {
		if err := mw.WriteField("name", req.Name); err != nil {
			return nil, fmt.Errorf("building form: %w", err)
		}
	}
	if len(req.Tags) > 0 {
		if err := mw.WriteField("tags", strings.Join(req.Tags, ",")); err != nil {
			return nil, fmt.Errorf("building form: %w", err)
		}
	}

	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, req.Filename))
	if req.ContentType != "" {
		hdr.Set("Content-Type", req.ContentType)
	}
	part, err := mw.CreatePart(hdr)
	if err != nil {
		return nil, fmt.Errorf("building form: %w", err)
	}
	if _, err := part.Write(req.Data); err != nil {
		return nil, fmt.Errorf("building form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("building form: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/assets/upload", &buf)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, apiErrorFromBody(resp.StatusCode, respBody)
	}

	var asset model.Asset
	if err := json.Unmarshal(respBody, &asset); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &asset, nil
}

func (c *HTTPClient) ListAssets(ctx context.Context, clientID string) (*ListAssetsResponse, error) {
	path := "/api/assets"
	if clientID != "" {
		path += "?client_id=" + url.QueryEscape(clientID)
	}
	var resp ListAssetsResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) DeleteAsset(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/assets/"+url.PathEscape(id), nil, nil)
}

// --- Matrices and executions ---

func (c *HTTPClient) CreateMatrix(ctx context.Context, req *CreateMatrixRequest) (*model.Matrix, error) {
	var matrix model.Matrix
	if err := c.doJSON(ctx, http.MethodPost, "/api/matrices", req, &matrix); err != nil {
		return nil, err
	}
	return &matrix, nil
}

func (c *HTTPClient) ListMatrices(ctx context.Context, clientID string) (*ListMatricesResponse, error) {
	path := "/api/matrices"
	if clientID != "" {
		path += "?client_id=" + url.QueryEscape(clientID)
	}
	var resp ListMatricesResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) AssembleMatrix(ctx context.Context, id string, platform string, max int) (*ExecutionsResponse, error) {
	body := map[string]any{}
	if platform != "" {
		body["platform"] = platform
	}
	if max > 0 {
		body["max"] = max
	}
	var resp ExecutionsResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/matrices/"+url.PathEscape(id)+"/assemble", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) ListExecutions(ctx context.Context, req *ListExecutionsRequest) (*ExecutionsResponse, error) {
	q := url.Values{}
	if req.MatrixID != "" {
		q.Set("matrix_id", req.MatrixID)
	}
	if req.ClientID != "" {
		q.Set("client_id", req.ClientID)
	}
	if len(req.Status) > 0 {
		q.Set("status", strings.Join(req.Status, ","))
	}
	if req.Limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", req.Limit))
	}
	if req.Offset > 0 {
		q.Set("offset", fmt.Sprintf("%d", req.Offset))
	}
	path := "/api/executions"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp ExecutionsResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) GetExecution(ctx context.Context, id string) (*model.Execution, error) {
	var execution model.Execution
	if err := c.doJSON(ctx, http.MethodGet, "/api/executions/"+url.PathEscape(id), nil, &execution); err != nil {
		return nil, err
	}
	return &execution, nil
}

func (c *HTTPClient) RenderExecution(ctx context.Context, id string) (*model.Execution, error) {
	var execution model.Execution
	if err := c.doJSON(ctx, http.MethodPost, "/api/executions/"+url.PathEscape(id)+"/render", nil, &execution); err != nil {
		return nil, err
	}
	return &execution, nil
}

// --- Social ---

func (c *HTTPClient) PublishSocial(ctx context.Context, req *PublishSocialRequest) (*PublishSocialResponse, error) {
	var resp PublishSocialResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/social/publish", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- Usage and stats ---

func (c *HTTPClient) UsageSummary(ctx context.Context) ([]*model.UsageSummary, error) {
	var resp struct {
		Services []*model.UsageSummary `json:"services"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/usage/summary", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Services, nil
}

func (c *HTTPClient) Stats(ctx context.Context) (*StatsResponse, error) {
	var resp StatsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/stats", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- Health ---

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// --- internal helpers ---

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

func apiErrorFromBody(status int, body []byte) error {
	var errResp struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
		return &APIError{StatusCode: status, Message: errResp.Error}
	}
	return &APIError{StatusCode: status, Message: string(body)}
}

// doJSON performs an HTTP request with optional JSON body and decodes the JSON response.
// If result is nil, the response body is discarded (for DELETE/204 responses).
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	// 204 No Content means success with no body.
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return apiErrorFromBody(resp.StatusCode, respBody)
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
