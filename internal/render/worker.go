package render

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/airwavehq/airwave/internal/events"
	"github.com/airwavehq/airwave/internal/model"
	"github.com/airwavehq/airwave/internal/store"
)

// costPerRender is the flat per-job cost recorded against the render budget.
const costPerRender = 0.25

// usageRecorder is the slice of the budget controller the worker needs.
type usageRecorder interface {
	RecordCost(ctx context.Context, service, operation string, cost float64) error
}

// Worker consumes queued executions from the event bus, drives them through
// the render API, and writes the terminal status back to the store.
type Worker struct {
	store        store.Store
	subscriber   events.Subscriber
	publisher    events.Publisher
	renderer     Renderer
	usage        usageRecorder
	templateID   string
	pollInterval time.Duration
	timeout      time.Duration
	concurrency  int
	logger       *slog.Logger
}

type WorkerOptions struct {
	Store        store.Store
	Subscriber   events.Subscriber
	Publisher    events.Publisher
	Renderer     Renderer
	Usage        usageRecorder // optional
	TemplateID   string
	PollInterval time.Duration
	Timeout      time.Duration
	Concurrency  int
	Logger       *slog.Logger
}

func NewWorker(opts WorkerOptions) *Worker {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 5 * time.Second
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Minute
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 2
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Worker{
		store:        opts.Store,
		subscriber:   opts.Subscriber,
		publisher:    opts.Publisher,
		renderer:     opts.Renderer,
		usage:        opts.Usage,
		templateID:   opts.TemplateID,
		pollInterval: opts.PollInterval,
		timeout:      opts.Timeout,
		concurrency:  opts.Concurrency,
		logger:       opts.Logger,
	}
}

// Run subscribes to queued-execution events and processes them until the
// context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	ch, cancel, err := w.subscriber.Subscribe(events.TopicExecutionQueued)
	if err != nil {
		return fmt.Errorf("subscribing to render queue: %w", err)
	}
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case msg, ok := <-ch:
					if !ok {
						return
					}
					w.handleMessage(ctx, msg)
				}
			}
		}()
	}

	<-ctx.Done()
	cancel()
	wg.Wait()
	return nil
}

func (w *Worker) handleMessage(ctx context.Context, msg []byte) {
	var event events.ExecutionQueued
	if err := json.Unmarshal(msg, &event); err != nil || event.Execution == nil {
		w.logger.Warn("dropping malformed render queue message", "error", err)
		return
	}
	if err := w.Process(ctx, event.Execution.ID); err != nil {
		w.logger.Error("render failed", "execution_id", event.Execution.ID, "error", err)
	}
}

// Process claims one execution and drives it to a terminal state. A claim
// miss (already claimed or not queued) is not an error.
func (w *Worker) Process(ctx context.Context, executionID string) error {
	execution, err := w.store.ClaimExecution(ctx, executionID)
	if err != nil {
		w.logger.Debug("execution not claimable", "execution_id", executionID, "error", err)
		return nil
	}
	w.publish(ctx, events.TopicExecutionStarted, events.ExecutionStarted{Execution: execution})

	job, err := w.renderJob(ctx, execution)
	if err != nil {
		return w.fail(ctx, execution.ID, jobID(job), err.Error())
	}
	if job.Status == JobFailed {
		reason := job.Error
		if reason == "" {
			reason = "render job failed"
		}
		return w.fail(ctx, execution.ID, job.ID, reason)
	}

	completed, err := w.store.CompleteExecution(ctx, execution.ID, job.ID, job.URL)
	if err != nil {
		return fmt.Errorf("completing execution: %w", err)
	}
	if w.usage != nil {
		if err := w.usage.RecordCost(ctx, model.ServiceRender, "render", costPerRender); err != nil {
			w.logger.Warn("failed to record render usage", "error", err)
		}
	}
	w.publish(ctx, events.TopicExecutionCompleted, events.ExecutionCompleted{Execution: completed})
	return nil
}

// renderJob starts the render and polls until the job reaches a terminal
// status or the deadline passes.
func (w *Worker) renderJob(ctx context.Context, execution *model.Execution) (*Job, error) {
	modifications, err := w.buildModifications(ctx, execution)
	if err != nil {
		return nil, err
	}

	job, err := w.renderer.StartRender(ctx, w.templateID, modifications)
	if err != nil {
		return nil, fmt.Errorf("starting render: %w", err)
	}

	deadline := time.Now().Add(w.timeout)
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		if job.Status == JobSucceeded || job.Status == JobFailed {
			return job, nil
		}
		if time.Now().After(deadline) {
			return job, fmt.Errorf("render timed out after %s", w.timeout)
		}
		select {
		case <-ctx.Done():
			return job, ctx.Err()
		case <-ticker.C:
		}
		job, err = w.renderer.GetRender(ctx, job.ID)
		if err != nil {
			return job, fmt.Errorf("polling render: %w", err)
		}
	}
}

// buildModifications resolves the execution's combination into render
// template inputs: copy variants contribute text fields, assets contribute
// their public URLs.
func (w *Worker) buildModifications(ctx context.Context, execution *model.Execution) (map[string]string, error) {
	modifications := make(map[string]string, len(execution.Combination))
	for slot, id := range execution.Combination {
		if variant, err := w.store.GetCopyVariant(ctx, id); err == nil {
			modifications[slot+".headline"] = variant.Headline
			modifications[slot+".body"] = variant.Body
			modifications[slot+".cta"] = variant.CallToAction
			continue
		}
		if asset, err := w.store.GetAsset(ctx, id); err == nil {
			if asset.URL == "" {
				return nil, fmt.Errorf("asset %s has no public URL", id)
			}
			modifications[slot] = asset.URL
			continue
		}
		// Literal slot values (e.g. a color or caption) pass through.
		modifications[slot] = id
	}
	return modifications, nil
}

func (w *Worker) fail(ctx context.Context, executionID, renderJobID, reason string) error {
	failed, err := w.store.FailExecution(ctx, executionID, renderJobID, reason)
	if err != nil {
		return fmt.Errorf("failing execution: %w", err)
	}
	w.publish(ctx, events.TopicExecutionFailed, events.ExecutionFailed{Execution: failed, Reason: reason})
	return fmt.Errorf("execution %s failed: %s", executionID, reason)
}

func (w *Worker) publish(ctx context.Context, topic string, event any) {
	if w.publisher == nil {
		return
	}
	if err := w.publisher.Publish(ctx, topic, event); err != nil {
		w.logger.Warn("failed to publish event", "topic", topic, "error", err)
	}
}

func jobID(job *Job) string {
	if job == nil {
		return ""
	}
	return job.ID
}
