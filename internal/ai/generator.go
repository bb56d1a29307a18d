// Package ai generates campaign motivations and copy variants, either from
// built-in templates or a hosted model, under a monthly budget controller.
package ai

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/airwavehq/airwave/internal/model"
)

// Generator produces motivations and copy variants for a brief.
type Generator interface {
	GenerateMotivations(ctx context.Context, brief *model.Brief) ([]*model.Motivation, error)
	GenerateCopy(ctx context.Context, brief *model.Brief, motivation *model.Motivation, platform, tone string, count int) ([]*model.CopyVariant, error)
}

// maxMotivations caps how many motivations a single generation run returns.
const maxMotivations = 10

// keywordBonus is added to a template's relevance for each keyword found in
// the brief text.
const keywordBonus = 8

// motivationTemplate is a canned strategic angle with trigger keywords.
type motivationTemplate struct {
	title       string
	description string
	category    string
	base        int
	keywords    []string
}

var motivationTemplates = []motivationTemplate{
	{
		title:       "Fear of missing out",
		description: "Limited availability and time pressure push undecided buyers to act now.",
		category:    "emotional",
		base:        50,
		keywords:    []string{"limited", "exclusive", "launch", "sale", "deadline", "now"},
	},
	{
		title:       "Social proof",
		description: "Showcase reviews, adoption numbers, and community endorsement.",
		category:    "social",
		base:        48,
		keywords:    []string{"review", "community", "customers", "popular", "trusted", "rated"},
	},
	{
		title:       "Value for money",
		description: "Lead with price advantage and the savings versus alternatives.",
		category:    "rational",
		base:        46,
		keywords:    []string{"price", "save", "affordable", "value", "discount", "budget"},
	},
	{
		title:       "Aspiration and status",
		description: "Position the product as a marker of taste and achievement.",
		category:    "emotional",
		base:        44,
		keywords:    []string{"premium", "luxury", "style", "design", "exclusive", "elevate"},
	},
	{
		title:       "Convenience",
		description: "Emphasise how the product removes friction from daily routines.",
		category:    "rational",
		base:        46,
		keywords:    []string{"easy", "fast", "simple", "quick", "effortless", "delivery"},
	},
	{
		title:       "Trust and authority",
		description: "Lean on expertise, certifications, and an established track record.",
		category:    "rational",
		base:        42,
		keywords:    []string{"expert", "certified", "proven", "guarantee", "official", "secure"},
	},
	{
		title:       "Novelty",
		description: "Highlight what is genuinely new and different about this release.",
		category:    "emotional",
		base:        44,
		keywords:    []string{"new", "first", "innovative", "breakthrough", "introducing", "latest"},
	},
	{
		title:       "Belonging",
		description: "Invite the audience into a group that shares their identity.",
		category:    "social",
		base:        40,
		keywords:    []string{"join", "together", "family", "team", "belong", "members"},
	},
	{
		title:       "Health and wellbeing",
		description: "Connect the product to feeling better, physically or mentally.",
		category:    "emotional",
		base:        40,
		keywords:    []string{"health", "wellness", "natural", "organic", "energy", "balance"},
	},
	{
		title:       "Sustainability",
		description: "Appeal to environmentally conscious buying decisions.",
		category:    "values",
		base:        40,
		keywords:    []string{"sustainable", "eco", "green", "recycled", "planet", "ethical"},
	},
	{
		title:       "Personalisation",
		description: "Show that the experience adapts to each individual customer.",
		category:    "rational",
		base:        42,
		keywords:    []string{"personal", "custom", "tailored", "your", "choice", "fit"},
	},
	{
		title:       "Urgency of the season",
		description: "Tie the campaign to a seasonal moment or cultural event.",
		category:    "contextual",
		base:        38,
		keywords:    []string{"summer", "winter", "holiday", "season", "weekend", "event"},
	},
}

// TemplateGenerator scores the built-in motivation templates against the
// brief text. It is deterministic for a given brief.
type TemplateGenerator struct{}

func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{}
}

func (g *TemplateGenerator) GenerateMotivations(ctx context.Context, brief *model.Brief) ([]*model.Motivation, error) {
	text := strings.ToLower(brief.CombinedText())
	rng := rand.New(rand.NewSource(briefSeed(brief.ID)))
	now := time.Now().UTC()

	motivations := make([]*model.Motivation, 0, len(motivationTemplates))
	for _, tmpl := range motivationTemplates {
		score := tmpl.base
		var hits []string
		for _, kw := range tmpl.keywords {
			if strings.Contains(text, kw) {
				score += keywordBonus
				hits = append(hits, kw)
			}
		}
		score += rng.Intn(5)
		if score > 100 {
			score = 100
		}

		reasoning := "no direct keyword match in brief"
		if len(hits) > 0 {
			reasoning = "brief mentions: " + strings.Join(hits, ", ")
		}
		motivations = append(motivations, &model.Motivation{
			ID:          uuid.NewString(),
			BriefID:     brief.ID,
			ClientID:    brief.ClientID,
			Title:       tmpl.title,
			Description: tmpl.description,
			Category:    tmpl.category,
			Relevance:   score,
			Reasoning:   reasoning,
			Source:      model.SourceTemplate,
			CreatedAt:   now,
		})
	}

	sort.SliceStable(motivations, func(i, j int) bool {
		return motivations[i].Relevance > motivations[j].Relevance
	})
	if len(motivations) > maxMotivations {
		motivations = motivations[:maxMotivations]
	}
	return motivations, nil
}

// platformWordLimits caps copy body length per platform.
var platformWordLimits = map[string]int{
	"facebook":  90,
	"instagram": 60,
	"twitter":   40,
	"linkedin":  120,
}

type copyTemplate struct {
	headline string
	body     string
	cta      string
}

// copyTemplatesByTone holds fill-in copy shapes keyed by tone. The %s slots
// take the motivation title and the brief objective.
var copyTemplatesByTone = map[string][]copyTemplate{
	"urgent": {
		{"Don't wait: %s", "%s. This is your moment to act before it's gone.", "Shop now"},
		{"Last chance for %s", "Time is running out on %s. Secure yours today.", "Get yours"},
		{"%s ends soon", "%s won't be around forever. Move fast.", "Act now"},
	},
	"friendly": {
		{"Say hello to %s", "We built this with you in mind. %s, made simple.", "Take a look"},
		{"%s, the easy way", "%s should feel good. Here's how we make it happen.", "Learn more"},
		{"You'll love %s", "%s is here, and it fits right into your day.", "See how"},
	},
	"professional": {
		{"Introducing %s", "%s, delivered with the quality your business expects.", "Request a demo"},
		{"%s for serious results", "%s backed by measurable outcomes and proven expertise.", "Get started"},
		{"The smarter approach to %s", "%s, engineered for teams that can't compromise.", "Contact us"},
	},
}

var defaultTone = "friendly"

func (g *TemplateGenerator) GenerateCopy(ctx context.Context, brief *model.Brief, motivation *model.Motivation, platform, tone string, count int) ([]*model.CopyVariant, error) {
	if count <= 0 {
		count = 3
	}
	templates, ok := copyTemplatesByTone[tone]
	if !ok {
		tone = defaultTone
		templates = copyTemplatesByTone[tone]
	}

	objective := brief.Objective
	if objective == "" {
		objective = brief.Title
	}
	limit := platformWordLimits[platform]
	now := time.Now().UTC()

	variants := make([]*model.CopyVariant, 0, count)
	for i := 0; i < count; i++ {
		tmpl := templates[i%len(templates)]
		body := fmt.Sprintf(tmpl.body, objective)
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
			Headline:     fmt.Sprintf(tmpl.headline, motivation.Title),
			Body:         body,
			CallToAction: tmpl.cta,
			CreatedAt:    now,
		}
		v.WordCount = v.CountWords()
		variants = append(variants, v)
	}
	return variants, nil
}

// briefSeed derives a stable RNG seed from the brief ID so repeated runs
// against the same brief produce the same jitter.
func briefSeed(id string) int64 {
	h := fnv.New64a()
	h.Write([]byte(id))
	return int64(h.Sum64())
}

func truncateWords(s string, limit int) string {
	words := strings.Fields(s)
	if len(words) <= limit {
		return s
	}
	return strings.Join(words[:limit], " ")
}
