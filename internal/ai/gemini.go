package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/airwavehq/airwave/internal/model"
)

// GeminiGenerator asks a hosted Gemini model for motivations and copy.
// Any model or parse failure falls back to the template generator so a
// brief can always progress through the pipeline.
type GeminiGenerator struct {
	client   *genai.Client
	model    string
	budget   *BudgetController
	fallback *TemplateGenerator
	logger   *slog.Logger
}

func NewGeminiGenerator(ctx context.Context, apiKey, modelName string, budget *BudgetController, logger *slog.Logger) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("generation API key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}
	if logger == nil {
		logger = slog.Default()
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return &GeminiGenerator{
		client:   client,
		model:    modelName,
		budget:   budget,
		fallback: NewTemplateGenerator(),
		logger:   logger,
	}, nil
}

type generatedMotivation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Relevance   int    `json:"relevance"`
	Reasoning   string `json:"reasoning"`
}

type generatedCopy struct {
	Headline     string `json:"headline"`
	Body         string `json:"body"`
	CallToAction string `json:"call_to_action"`
}

func (g *GeminiGenerator) GenerateMotivations(ctx context.Context, brief *model.Brief) ([]*model.Motivation, error) {
	modelName, err := g.budget.ResolveModel(ctx, model.ServiceGeneration, g.model)
	if err != nil {
		g.logger.Warn("generation budget unavailable, using templates", "error", err)
		return g.fallback.GenerateMotivations(ctx, brief)
	}

	prompt := fmt.Sprintf(`You are a marketing strategist. Given the campaign brief below, propose up to %d strategic motivations (angles) for the campaign.
Respond with a JSON array of objects with fields: title, description, category, relevance (0-100), reasoning.

Brief:
%s`, maxMotivations, brief.CombinedText())

	text, inTok, outTok, err := g.generateJSON(ctx, modelName, prompt)
	if err != nil {
		g.logger.Warn("motivation generation failed, using templates", "error", err)
		return g.fallback.GenerateMotivations(ctx, brief)
	}
	if err := g.budget.RecordUsage(ctx, model.ServiceGeneration, modelName, "motivations", inTok, outTok); err != nil {
		g.logger.Warn("failed to record generation usage", "error", err)
	}

	var parsed []generatedMotivation
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		g.logger.Warn("motivation response was not valid JSON, using templates", "error", err)
		return g.fallback.GenerateMotivations(ctx, brief)
	}

	now := time.Now().UTC()
	motivations := make([]*model.Motivation, 0, len(parsed))
	for _, p := range parsed {
		if p.Title == "" {
			continue
		}
		if p.Relevance < 0 {
			p.Relevance = 0
		}
		if p.Relevance > 100 {
			p.Relevance = 100
		}
		motivations = append(motivations, &model.Motivation{
			ID:          uuid.NewString(),
			BriefID:     brief.ID,
			ClientID:    brief.ClientID,
			Title:       p.Title,
			Description: p.Description,
			Category:    p.Category,
			Relevance:   p.Relevance,
			Reasoning:   p.Reasoning,
			Source:      model.SourceGenerated,
			CreatedAt:   now,
		})
	}
	if len(motivations) == 0 {
		return g.fallback.GenerateMotivations(ctx, brief)
	}
	if len(motivations) > maxMotivations {
		motivations = motivations[:maxMotivations]
	}
	return motivations, nil
}

func (g *GeminiGenerator) GenerateCopy(ctx context.Context, brief *model.Brief, motivation *model.Motivation, platform, tone string, count int) ([]*model.CopyVariant, error) {
	if count <= 0 {
		count = 3
	}
	modelName, err := g.budget.ResolveModel(ctx, model.ServiceGeneration, g.model)
	if err != nil {
		g.logger.Warn("generation budget unavailable, using templates", "error", err)
		return g.fallback.GenerateCopy(ctx, brief, motivation, platform, tone, count)
	}

	limit := platformWordLimits[platform]
	prompt := fmt.Sprintf(`You are an advertising copywriter. Write %d ad copy variants for %s in a %s tone, built on the motivation %q (%s).
Keep each body under %d words. Respond with a JSON array of objects with fields: headline, body, call_to_action.

Brief:
%s`, count, platform, tone, motivation.Title, motivation.Description, limit, brief.CombinedText())

	text, inTok, outTok, err := g.generateJSON(ctx, modelName, prompt)
	if err != nil {
		g.logger.Warn("copy generation failed, using templates", "error", err)
		return g.fallback.GenerateCopy(ctx, brief, motivation, platform, tone, count)
	}
	if err := g.budget.RecordUsage(ctx, model.ServiceGeneration, modelName, "copy", inTok, outTok); err != nil {
		g.logger.Warn("failed to record generation usage", "error", err)
	}

	var parsed []generatedCopy
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		g.logger.Warn("copy response was not valid JSON, using templates", "error", err)
		return g.fallback.GenerateCopy(ctx, brief, motivation, platform, tone, count)
	}

	now := time.Now().UTC()
	variants := make([]*model.CopyVariant, 0, len(parsed))
	for _, p := range parsed {
		if p.Headline == "" {
			continue
		}
		body := p.Body
		if limit > 0 {
			body = truncateWords(body, limit)
		}
		v := &model.CopyVariant{
			ID:           uuid.NewString(),
			MotivationID: motivation.ID,
			BriefID:      brief.ID,
			ClientID:     brief.ClientID,
			Platform:     platform,
			Tone:         tone,
			Headline:     p.Headline,
			Body:         body,
			CallToAction: p.CallToAction,
			CreatedAt:    now,
		}
		v.WordCount = v.CountWords()
		variants = append(variants, v)
		if len(variants) == count {
			break
		}
	}
	if len(variants) == 0 {
		return g.fallback.GenerateCopy(ctx, brief, motivation, platform, tone, count)
	}
	return variants, nil
}

// generateJSON runs one generation call and returns the response text plus
// token counts for usage accounting.
func (g *GeminiGenerator) generateJSON(ctx context.Context, modelName, prompt string) (string, int, int, error) {
	result, err := g.client.Models.GenerateContent(ctx, modelName,
		genai.Text(prompt),
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return "", 0, 0, fmt.Errorf("generate content: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", 0, 0, fmt.Errorf("empty model response")
	}

	var inTok, outTok int
	if result.UsageMetadata != nil {
		inTok = int(result.UsageMetadata.PromptTokenCount)
		outTok = int(result.UsageMetadata.CandidatesTokenCount)
	}
	return text, inTok, outTok, nil
}
