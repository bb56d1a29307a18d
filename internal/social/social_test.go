package social

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRegistry(t *testing.T) {
	fb := NewFacebookWithBaseURL("http://example.test", "tok")
	tw := NewTwitterWithBaseURL("http://example.test", "tok")
	r := NewRegistry(fb, tw)

	if names := r.Names(); len(names) != 2 || names[0] != "facebook" || names[1] != "twitter" {
		t.Fatalf("got names %v", names)
	}

	p, err := r.Get("facebook")
	if err != nil || p.Name() != "facebook" {
		t.Fatalf("got %v, %v", p, err)
	}

	if _, err := r.Get("linkedin"); err == nil || !strings.Contains(err.Error(), "not configured") {
		t.Fatalf("expected not-configured error, got %v", err)
	}
}

func TestFacebook_Publish(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me/feed" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer fb-token" {
			t.Errorf("got auth %q", got)
		}
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if req["message"] != "Hello" || req["url"] != "https://cdn.test/out.mp4" {
			t.Errorf("got request %v", req)
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "page_123"})
	}))
	defer srv.Close()

	fb := NewFacebookWithBaseURL(srv.URL, "fb-token")
	res, err := fb.Publish(context.Background(), Post{Message: "Hello", MediaURL: "https://cdn.test/out.mp4"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.PostID != "page_123" || !strings.Contains(res.PostURL, "page_123") {
		t.Fatalf("got result %+v", res)
	}
}

func TestTwitter_Publish(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tweets" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if !strings.Contains(req["text"], "Hello") || !strings.Contains(req["text"], "https://cdn.test/out.mp4") {
			t.Errorf("got text %q", req["text"])
		}
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]string{"id": "tw_456"}})
	}))
	defer srv.Close()

	tw := NewTwitterWithBaseURL(srv.URL, "tw-token")
	res, err := tw.Publish(context.Background(), Post{Message: "Hello", MediaURL: "https://cdn.test/out.mp4"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.PostID != "tw_456" {
		t.Fatalf("got result %+v", res)
	}
}

func TestLinkedIn_Publish(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ugcPosts" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "li_789"})
	}))
	defer srv.Close()

	li := NewLinkedInWithBaseURL(srv.URL, "li-token")
	res, err := li.Publish(context.Background(), Post{Message: "Hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.PostID != "li_789" {
		t.Fatalf("got result %+v", res)
	}
}

func TestPublish_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"token expired"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	fb := NewFacebookWithBaseURL(srv.URL, "stale")
	_, err := fb.Publish(context.Background(), Post{Message: "x"})
	if err == nil || !strings.Contains(err.Error(), "status 401") {
		t.Fatalf("expected status error, got %v", err)
	}
}
