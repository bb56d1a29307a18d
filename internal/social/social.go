// Package social publishes rendered creatives to social platforms through
// thin JSON forwarders over each platform's HTTP API.
package social

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"
)

// Post is the platform-independent publish request.
type Post struct {
	Message  string `json:"message"`
	MediaURL string `json:"media_url,omitempty"`
	LinkURL  string `json:"link_url,omitempty"`
}

// Result identifies the created post on the platform.
type Result struct {
	PostID  string `json:"post_id"`
	PostURL string `json:"post_url,omitempty"`
}

// Platform publishes a post and returns the external identifiers.
type Platform interface {
	Name() string
	Publish(ctx context.Context, post Post) (*Result, error)
}

// Registry holds the configured platforms by name.
type Registry struct {
	platforms map[string]Platform
}

func NewRegistry(platforms ...Platform) *Registry {
	r := &Registry{platforms: make(map[string]Platform, len(platforms))}
	for _, p := range platforms {
		r.platforms[p.Name()] = p
	}
	return r
}

// Get returns the platform by name, or an error when it is not configured.
func (r *Registry) Get(name string) (Platform, error) {
	p, ok := r.platforms[name]
	if !ok {
		return nil, fmt.Errorf("platform %q is not configured", name)
	}
	return p, nil
}

// Names lists the configured platform names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.platforms))
	for name := range r.platforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// httpPlatform is the shared request shape for the concrete platforms.
type httpPlatform struct {
	name    string
	baseURL string
	token   string
	http    *http.Client
}

func (p *httpPlatform) Name() string { return p.name }

// postJSON sends one authenticated JSON request and decodes the response
// into out.
func (p *httpPlatform) postJSON(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", p.name, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.token)

	resp, err := p.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s publish: %w", p.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s publish: status %d: %s", p.name, resp.StatusCode, msg)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", p.name, err)
	}
	return nil
}

func newHTTPPlatform(name, baseURL, token string) *httpPlatform {
	return &httpPlatform{
		name:    name,
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Facebook publishes to a page feed via the Graph API.
type Facebook struct {
	*httpPlatform
}

func NewFacebook(token string) *Facebook {
	return NewFacebookWithBaseURL("https://graph.facebook.com/v19.0", token)
}

func NewFacebookWithBaseURL(baseURL, token string) *Facebook {
	return &Facebook{newHTTPPlatform("facebook", baseURL, token)}
}

func (f *Facebook) Publish(ctx context.Context, post Post) (*Result, error) {
	req := map[string]string{"message": post.Message}
	if post.MediaURL != "" {
		req["url"] = post.MediaURL
	}
	if post.LinkURL != "" {
		req["link"] = post.LinkURL
	}
	var resp struct {
		ID string `json:"id"`
	}
	if err := f.postJSON(ctx, "/me/feed", req, &resp); err != nil {
		return nil, err
	}
	return &Result{PostID: resp.ID, PostURL: "https://facebook.com/" + resp.ID}, nil
}

// Twitter publishes a tweet via the v2 API.
type Twitter struct {
	*httpPlatform
}

func NewTwitter(token string) *Twitter {
	return NewTwitterWithBaseURL("https://api.twitter.com/2", token)
}

func NewTwitterWithBaseURL(baseURL, token string) *Twitter {
	return &Twitter{newHTTPPlatform("twitter", baseURL, token)}
}

func (t *Twitter) Publish(ctx context.Context, post Post) (*Result, error) {
	text := post.Message
	if post.MediaURL != "" {
		text += " " + post.MediaURL
	}
	req := map[string]string{"text": text}
	var resp struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := t.postJSON(ctx, "/tweets", req, &resp); err != nil {
		return nil, err
	}
	return &Result{PostID: resp.Data.ID, PostURL: "https://twitter.com/i/status/" + resp.Data.ID}, nil
}

// LinkedIn publishes a UGC post.
type LinkedIn struct {
	*httpPlatform
}

func NewLinkedIn(token string) *LinkedIn {
	return NewLinkedInWithBaseURL("https://api.linkedin.com/v2", token)
}

func NewLinkedInWithBaseURL(baseURL, token string) *LinkedIn {
	return &LinkedIn{newHTTPPlatform("linkedin", baseURL, token)}
}

func (l *LinkedIn) Publish(ctx context.Context, post Post) (*Result, error) {
	req := map[string]any{
		"lifecycleState": "PUBLISHED",
		"specificContent": map[string]any{
			"com.linkedin.ugc.ShareContent": map[string]any{
				"shareCommentary": map[string]string{"text": post.Message},
				"shareMediaCategory": func() string {
					if post.MediaURL != "" {
						return "ARTICLE"
					}
					return "NONE"
				}(),
			},
		},
	}
	var resp struct {
		ID string `json:"id"`
	}
	if err := l.postJSON(ctx, "/ugcPosts", req, &resp); err != nil {
		return nil, err
	}
	return &Result{PostID: resp.ID}, nil
}
