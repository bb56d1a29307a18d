package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseURL string // AIRWAVE_DATABASE_URL (required)
	HTTPAddr    string // AIRWAVE_HTTP_ADDR (default ":8080")
	NATSURL     string // AIRWAVE_NATS_URL (optional, empty = no events)
	AuthToken   string // AIRWAVE_AUTH_TOKEN (optional, empty = auth disabled)

	// Generation settings
	GenAIAPIKey string // AIRWAVE_GENAI_API_KEY (optional, empty = template generator)
	GenAIModel  string // AIRWAVE_GENAI_MODEL (default "gemini-2.5-flash")

	// Render settings
	RenderURL          string        // AIRWAVE_RENDER_URL (optional, empty = render disabled)
	RenderAPIKey       string        // AIRWAVE_RENDER_API_KEY
	RenderTemplate     string        // AIRWAVE_RENDER_TEMPLATE (default template ID)
	RenderPollInterval time.Duration // AIRWAVE_RENDER_POLL_INTERVAL (default 5s)
	RenderTimeout      time.Duration // AIRWAVE_RENDER_TIMEOUT (default 10m)
	WorkerCount        int           // AIRWAVE_WORKER_COUNT (default 2)

	// Asset storage settings
	AssetBucket    string // AIRWAVE_ASSET_BUCKET (enables uploads when set)
	AssetEndpoint  string // AIRWAVE_ASSET_ENDPOINT (custom endpoint for MinIO)
	AssetRegion    string // AIRWAVE_ASSET_REGION (default "us-east-1")
	AssetURLBase   string // AIRWAVE_ASSET_URL_BASE (public base URL for stored objects)
	MaxUploadBytes int64  // AIRWAVE_MAX_UPLOAD_BYTES (default 50 MiB)

	// Social platform tokens (empty = platform disabled)
	FacebookToken string // AIRWAVE_FACEBOOK_TOKEN
	TwitterToken  string // AIRWAVE_TWITTER_TOKEN
	LinkedInToken string // AIRWAVE_LINKEDIN_TOKEN
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL:    os.Getenv("AIRWAVE_DATABASE_URL"),
		HTTPAddr:       envOrDefault("AIRWAVE_HTTP_ADDR", ":8080"),
		NATSURL:        os.Getenv("AIRWAVE_NATS_URL"),
		AuthToken:      os.Getenv("AIRWAVE_AUTH_TOKEN"),
		GenAIAPIKey:    os.Getenv("AIRWAVE_GENAI_API_KEY"),
		GenAIModel:     envOrDefault("AIRWAVE_GENAI_MODEL", "gemini-2.5-flash"),
		RenderURL:      os.Getenv("AIRWAVE_RENDER_URL"),
		RenderAPIKey:   os.Getenv("AIRWAVE_RENDER_API_KEY"),
		RenderTemplate: os.Getenv("AIRWAVE_RENDER_TEMPLATE"),
		AssetBucket:    os.Getenv("AIRWAVE_ASSET_BUCKET"),
		AssetEndpoint:  os.Getenv("AIRWAVE_ASSET_ENDPOINT"),
		AssetRegion:    envOrDefault("AIRWAVE_ASSET_REGION", "us-east-1"),
		AssetURLBase:   os.Getenv("AIRWAVE_ASSET_URL_BASE"),
		FacebookToken:  os.Getenv("AIRWAVE_FACEBOOK_TOKEN"),
		TwitterToken:   os.Getenv("AIRWAVE_TWITTER_TOKEN"),
		LinkedInToken:  os.Getenv("AIRWAVE_LINKEDIN_TOKEN"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("AIRWAVE_DATABASE_URL is required")
	}

	var err error
	if c.RenderPollInterval, err = durationEnv("AIRWAVE_RENDER_POLL_INTERVAL", 5*time.Second); err != nil {
		return nil, err
	}
	if c.RenderTimeout, err = durationEnv("AIRWAVE_RENDER_TIMEOUT", 10*time.Minute); err != nil {
		return nil, err
	}
	if c.WorkerCount, err = intEnv("AIRWAVE_WORKER_COUNT", 2); err != nil {
		return nil, err
	}
	maxUpload, err := intEnv("AIRWAVE_MAX_UPLOAD_BYTES", 50<<20)
	if err != nil {
		return nil, err
	}
	c.MaxUploadBytes = int64(maxUpload)

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
