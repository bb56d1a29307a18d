package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/airwavehq/airwave/internal/model"
)

// ErrBudgetExceeded is returned when a service has spent past its hard
// monthly ceiling.
var ErrBudgetExceeded = errors.New("monthly budget exceeded")

// usageStore is the slice of the store the budget controller needs.
type usageStore interface {
	RecordUsage(ctx context.Context, u *model.UsageRecord) error
	SumMonthlyCost(ctx context.Context, service string, month time.Time) (float64, error)
}

// ServiceBudget holds the monthly spend ceilings for one external service.
// Past the soft limit the controller swaps in the fallback model; past the
// hard limit calls are refused.
type ServiceBudget struct {
	SoftLimit float64
	HardLimit float64
}

var defaultBudgets = map[string]ServiceBudget{
	model.ServiceGeneration: {SoftLimit: 50, HardLimit: 100},
	model.ServiceRender:     {SoftLimit: 200, HardLimit: 400},
	model.ServiceSocial:     {SoftLimit: 20, HardLimit: 50},
}

// fallbackModels maps a service to the cheaper model used once the soft
// limit is crossed.
var fallbackModels = map[string]string{
	model.ServiceGeneration: "gemini-2.0-flash-lite",
}

// modelRate is the cost per million tokens for a model.
type modelRate struct {
	inputPerM  float64
	outputPerM float64
}

var modelRates = map[string]modelRate{
	"gemini-2.5-flash":      {inputPerM: 0.30, outputPerM: 2.50},
	"gemini-2.5-pro":        {inputPerM: 1.25, outputPerM: 10.00},
	"gemini-2.0-flash-lite": {inputPerM: 0.075, outputPerM: 0.30},
}

// BudgetController tracks month-to-date spend per service and decides which
// model a call may use.
type BudgetController struct {
	store   usageStore
	budgets map[string]ServiceBudget
	logger  *slog.Logger
}

func NewBudgetController(store usageStore, logger *slog.Logger) *BudgetController {
	if logger == nil {
		logger = slog.Default()
	}
	return &BudgetController{
		store:   store,
		budgets: defaultBudgets,
		logger:  logger,
	}
}

// Allow reports whether a service may make another billable call. It returns
// ErrBudgetExceeded once the hard monthly ceiling is reached.
func (c *BudgetController) Allow(ctx context.Context, service string) error {
	budget, ok := c.budgets[service]
	if !ok {
		return nil
	}
	spent, err := c.store.SumMonthlyCost(ctx, service, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("reading monthly cost: %w", err)
	}
	if spent >= budget.HardLimit {
		return fmt.Errorf("%w: %s spent %.2f of %.2f", ErrBudgetExceeded, service, spent, budget.HardLimit)
	}
	return nil
}

// ResolveModel returns the model a service should use for its next call:
// the preferred model while under the soft limit, the static fallback once
// past it.
func (c *BudgetController) ResolveModel(ctx context.Context, service, preferred string) (string, error) {
	budget, ok := c.budgets[service]
	if !ok {
		return preferred, nil
	}
	spent, err := c.store.SumMonthlyCost(ctx, service, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("reading monthly cost: %w", err)
	}
	if spent >= budget.HardLimit {
		return "", fmt.Errorf("%w: %s spent %.2f of %.2f", ErrBudgetExceeded, service, spent, budget.HardLimit)
	}
	if spent >= budget.SoftLimit {
		if fallback, ok := fallbackModels[service]; ok {
			c.logger.Warn("soft budget limit reached, switching model",
				"service", service, "spent", spent, "fallback", fallback)
			return fallback, nil
		}
	}
	return preferred, nil
}

// RecordUsage computes the cost of a call from the model rate table and
// persists a usage row. Unknown models record zero cost.
func (c *BudgetController) RecordUsage(ctx context.Context, service, modelName, operation string, inputTokens, outputTokens int) error {
	rate := modelRates[modelName]
	cost := float64(inputTokens)/1e6*rate.inputPerM + float64(outputTokens)/1e6*rate.outputPerM

	rec := &model.UsageRecord{
		ID:           uuid.NewString(),
		Service:      service,
		Model:        modelName,
		Operation:    operation,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		Cost:         cost,
		CreatedAt:    time.Now().UTC(),
	}
	if err := c.store.RecordUsage(ctx, rec); err != nil {
		return fmt.Errorf("recording usage: %w", err)
	}
	return nil
}

// RecordCost persists a usage row with a directly known cost (renders and
// social calls bill per operation, not per token).
func (c *BudgetController) RecordCost(ctx context.Context, service, operation string, cost float64) error {
	rec := &model.UsageRecord{
		ID:        uuid.NewString(),
		Service:   service,
		Operation: operation,
		Cost:      cost,
		CreatedAt: time.Now().UTC(),
	}
	if err := c.store.RecordUsage(ctx, rec); err != nil {
		return fmt.Errorf("recording usage: %w", err)
	}
	return nil
}

// Summary reports month-to-date spend against budget for every service.
func (c *BudgetController) Summary(ctx context.Context) ([]*model.UsageSummary, error) {
	now := time.Now().UTC()
	monthLabel := now.Format("2006-01")

	var out []*model.UsageSummary
	for _, service := range []string{model.ServiceGeneration, model.ServiceRender, model.ServiceSocial} {
		budget := c.budgets[service]
		spent, err := c.store.SumMonthlyCost(ctx, service, now)
		if err != nil {
			return nil, fmt.Errorf("reading monthly cost for %s: %w", service, err)
		}
		s := &model.UsageSummary{
			Service:       service,
			Month:         monthLabel,
			Cost:          spent,
			Budget:        budget.HardLimit,
			OverSoftLimit: spent >= budget.SoftLimit,
			OverHardLimit: spent >= budget.HardLimit,
		}
		if s.OverSoftLimit {
			s.ActiveModel = fallbackModels[service]
		}
		out = append(out, s)
	}
	return out, nil
}
