package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/airwavehq/airwave/internal/model"
)

func TestCreateClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/clients" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("got auth %q", got)
		}
		var req CreateClientRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Name != "Acme" {
			t.Errorf("got request %+v", req)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(&model.Client{ID: "cl-1", Name: req.Name, Slug: "acme"})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "tok")
	client, err := c.CreateClient(context.Background(), &CreateClientRequest{Name: "Acme"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.ID != "cl-1" || client.Slug != "acme" {
		t.Fatalf("got client %+v", client)
	}
}

func TestListBriefs_QueryParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("client_id") != "cl-1" || q.Get("status") != "parsed,ready" || q.Get("limit") != "5" {
			t.Errorf("got query %v", q)
		}
		json.NewEncoder(w).Encode(&ListBriefsResponse{
			Briefs: []*model.Brief{{ID: "br-1"}},
			Total:  1,
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	resp, err := c.ListBriefs(context.Background(), &ListBriefsRequest{
		ClientID: "cl-1",
		Status:   []string{"parsed", "ready"},
		Limit:    5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Total != 1 || resp.Briefs[0].ID != "br-1" {
		t.Fatalf("got response %+v", resp)
	}
}

func TestGenerateMotivations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/flow/generate-motivations" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["brief_id"] != "br-1" || body["count"] != float64(5) {
			t.Errorf("got body %v", body)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(&MotivationsResponse{
			Motivations: []*model.Motivation{{ID: "mo-1", Title: "Fear of missing out"}},
			Total:       1,
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	resp, err := c.GenerateMotivations(context.Background(), "br-1", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Total != 1 || resp.Motivations[0].ID != "mo-1" {
		t.Fatalf("got response %+v", resp)
	}
}

func TestUploadAsset_Multipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if r.FormValue("client_id") != "cl-1" || r.FormValue("tags") != "hero,spring" {
			t.Errorf("got form %v", r.MultipartForm.Value)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		if header.Filename != "banner.png" {
			t.Errorf("got filename %q", header.Filename)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(&model.Asset{ID: "as-1", Name: "banner.png", Kind: model.AssetImage})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	asset, err := c.UploadAsset(context.Background(), &UploadAssetRequest{
		ClientID:    "cl-1",
		Filename:    "banner.png",
		ContentType: "image/png",
		Tags:        []string{"hero", "spring"},
		Data:        []byte("fake png"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if asset.ID != "as-1" || asset.Kind != model.AssetImage {
		t.Fatalf("got asset %+v", asset)
	}
}

func TestDelete_NoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	if err := c.DeleteClient(context.Background(), "cl-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "execution is not pending"})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	_, err := c.RenderExecution(context.Background(), "ex-1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusConflict || apiErr.Message != "execution is not pending" {
		t.Fatalf("got error %+v", apiErr)
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	status, err := c.Health(context.Background())
	if err != nil || status != "ok" {
		t.Fatalf("got %q, %v", status, err)
	}
}
