package server

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/airwavehq/airwave/internal/ai"
	"github.com/airwavehq/airwave/internal/assets"
	"github.com/airwavehq/airwave/internal/events"
	"github.com/airwavehq/airwave/internal/model"
	"github.com/airwavehq/airwave/internal/social"
	"github.com/airwavehq/airwave/internal/store"
)

// defaultMaxUploadBytes bounds multipart asset uploads when no limit is
// configured.
const defaultMaxUploadBytes = 50 << 20

// AirwaveServer holds the HTTP API's dependencies.
type AirwaveServer struct {
	store          store.Store
	publisher      events.Publisher
	sseHub         *sseHub
	generator      ai.Generator
	budget         *ai.BudgetController
	storage        assets.Storage
	social         *social.Registry
	maxUploadBytes int64
}

// Options configures optional server dependencies. Zero values fall back
// to the template generator, a store-backed budget controller, an empty
// social registry, and no asset storage.
type Options struct {
	Generator      ai.Generator
	Budget         *ai.BudgetController
	Storage        assets.Storage
	Social         *social.Registry
	MaxUploadBytes int64
}

// NewAirwaveServer returns a new AirwaveServer backed by the given store
// and publisher.
func NewAirwaveServer(s store.Store, p events.Publisher, opts Options) *AirwaveServer {
	if opts.Generator == nil {
		opts.Generator = ai.NewTemplateGenerator()
	}
	if opts.Budget == nil {
		opts.Budget = ai.NewBudgetController(s, slog.Default())
	}
	if opts.Social == nil {
		opts.Social = social.NewRegistry()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUploadBytes
	}
	return &AirwaveServer{
		store:          s,
		publisher:      p,
		sseHub:         newSSEHub(),
		generator:      opts.Generator,
		budget:         opts.Budget,
		storage:        opts.Storage,
		social:         opts.Social,
		maxUploadBytes: opts.MaxUploadBytes,
	}
}

// recordAndPublish persists an event to the store and publishes it to NATS.
// Both operations are best-effort; failures are logged but do not block the
// caller.
func (s *AirwaveServer) recordAndPublish(ctx context.Context, topic, entityID, actor string, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Warn("failed to marshal event", "topic", topic, "entity_id", entityID, "error", err)
		return
	}
	if err := s.store.RecordEvent(ctx, &model.Event{
		Topic:    topic,
		EntityID: entityID,
		Actor:    actor,
		Payload:  payload,
	}); err != nil {
		slog.Warn("failed to record event", "topic", topic, "entity_id", entityID, "error", err)
	}
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "entity_id", entityID, "error", err)
	}
	s.broadcastEvent(topic, event)
}

// inputError indicates invalid user input.
// The HTTP layer maps this to 400.
type inputError string

func (e inputError) Error() string { return string(e) }
