package ai

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/airwavehq/airwave/internal/model"
)

func testBrief(objective string) *model.Brief {
	return &model.Brief{
		ID:        "br-test1",
		ClientID:  "cl-test1",
		Title:     "Summer launch",
		Objective: objective,
		Status:    model.BriefReady,
	}
}

func TestTemplateGenerator_ReturnsAtMostTen(t *testing.T) {
	g := NewTemplateGenerator()
	ms, err := g.GenerateMotivations(context.Background(), testBrief("Launch our new product"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ms) == 0 || len(ms) > maxMotivations {
		t.Fatalf("expected 1..%d motivations, got %d", maxMotivations, len(ms))
	}
}

func TestTemplateGenerator_SortedByRelevance(t *testing.T) {
	g := NewTemplateGenerator()
	ms, err := g.GenerateMotivations(context.Background(), testBrief("A limited exclusive launch sale ending now"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(ms); i++ {
		if ms[i].Relevance > ms[i-1].Relevance {
			t.Fatalf("motivations not sorted: %d at %d > %d at %d", ms[i].Relevance, i, ms[i-1].Relevance, i-1)
		}
	}
}

func TestTemplateGenerator_KeywordBonus(t *testing.T) {
	g := NewTemplateGenerator()

	// A brief loaded with FOMO keywords should rank that template first.
	ms, err := g.GenerateMotivations(context.Background(), testBrief("Limited exclusive launch sale, deadline now"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ms[0].Title != "Fear of missing out" {
		t.Fatalf("expected FOMO to rank first, got %q (relevance %d)", ms[0].Title, ms[0].Relevance)
	}
	if ms[0].Relevance < 50+5*keywordBonus {
		t.Fatalf("expected at least %d relevance, got %d", 50+5*keywordBonus, ms[0].Relevance)
	}
	if !strings.Contains(ms[0].Reasoning, "limited") {
		t.Fatalf("expected reasoning to name matched keywords, got %q", ms[0].Reasoning)
	}
}

func TestTemplateGenerator_DeterministicForBrief(t *testing.T) {
	g := NewTemplateGenerator()
	brief := testBrief("Sustainable eco friendly packaging")

	first, err := g.GenerateMotivations(context.Background(), brief)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := g.GenerateMotivations(context.Background(), brief)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("runs returned different counts: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Title != second[i].Title || first[i].Relevance != second[i].Relevance {
			t.Fatalf("run mismatch at %d: %q/%d vs %q/%d",
				i, first[i].Title, first[i].Relevance, second[i].Title, second[i].Relevance)
		}
	}
}

func TestTemplateGenerator_RelevanceCapped(t *testing.T) {
	g := NewTemplateGenerator()
	ms, err := g.GenerateMotivations(context.Background(), testBrief("limited exclusive launch sale deadline now review community customers popular trusted rated"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, m := range ms {
		if m.Relevance > 100 {
			t.Fatalf("relevance %d exceeds 100 for %q", m.Relevance, m.Title)
		}
	}
}

func TestTemplateGenerator_GenerateCopy(t *testing.T) {
	g := NewTemplateGenerator()
	brief := testBrief("Drive signups for the beta")
	motivation := &model.Motivation{ID: "mo-1", Title: "Novelty"}

	vs, err := g.GenerateCopy(context.Background(), brief, motivation, "facebook", "urgent", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vs) != 3 {
		t.Fatalf("expected 3 variants, got %d", len(vs))
	}
	for _, v := range vs {
		if v.Platform != "facebook" || v.Tone != "urgent" {
			t.Fatalf("got platform=%q tone=%q", v.Platform, v.Tone)
		}
		if v.Headline == "" || v.Body == "" || v.CallToAction == "" {
			t.Fatalf("incomplete variant: %+v", v)
		}
		if v.WordCount == 0 {
			t.Fatal("expected word count to be set")
		}
		if v.MotivationID != "mo-1" || v.BriefID != brief.ID {
			t.Fatalf("got motivation_id=%q brief_id=%q", v.MotivationID, v.BriefID)
		}
	}
}

func TestTemplateGenerator_CopyUnknownToneFallsBack(t *testing.T) {
	g := NewTemplateGenerator()
	vs, err := g.GenerateCopy(context.Background(), testBrief("x"), &model.Motivation{ID: "mo-1", Title: "T"}, "twitter", "sardonic", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vs[0].Tone != defaultTone {
		t.Fatalf("expected fallback tone %q, got %q", defaultTone, vs[0].Tone)
	}
}

func TestTemplateGenerator_CopyRespectsPlatformWordLimit(t *testing.T) {
	g := NewTemplateGenerator()
	long := strings.Repeat("grow your audience with our platform ", 30)
	vs, err := g.GenerateCopy(context.Background(), testBrief(long), &model.Motivation{ID: "mo-1", Title: "T"}, "twitter", "friendly", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if words := len(strings.Fields(vs[0].Body)); words > platformWordLimits["twitter"] {
		t.Fatalf("body has %d words, limit is %d", words, platformWordLimits["twitter"])
	}
}

func TestTruncateWords(t *testing.T) {
	if got := truncateWords("one two three", 2); got != "one two" {
		t.Fatalf("got %q", got)
	}
	if got := truncateWords("one two", 5); got != "one two" {
		t.Fatalf("got %q", got)
	}
}

func TestBriefSeed_Stable(t *testing.T) {
	if briefSeed("br-1") != briefSeed("br-1") {
		t.Fatal("seed should be stable for the same id")
	}
	if briefSeed("br-1") == briefSeed("br-2") {
		t.Fatal("different ids should produce different seeds")
	}
}

// fakeUsageStore implements usageStore in memory.
type fakeUsageStore struct {
	records []*model.UsageRecord
	spend   map[string]float64
	err     error
}

func (f *fakeUsageStore) RecordUsage(ctx context.Context, u *model.UsageRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, u)
	return nil
}

func (f *fakeUsageStore) SumMonthlyCost(ctx context.Context, service string, month time.Time) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.spend[service], nil
}

func TestBudgetController_AllowUnderBudget(t *testing.T) {
	c := NewBudgetController(&fakeUsageStore{spend: map[string]float64{model.ServiceGeneration: 10}}, nil)
	if err := c.Allow(context.Background(), model.ServiceGeneration); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBudgetController_AllowOverHardLimit(t *testing.T) {
	c := NewBudgetController(&fakeUsageStore{spend: map[string]float64{model.ServiceGeneration: 150}}, nil)
	err := c.Allow(context.Background(), model.ServiceGeneration)
	if err == nil {
		t.Fatal("expected error over hard limit")
	}
	if !strings.Contains(err.Error(), "monthly budget exceeded") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBudgetController_ResolveModel(t *testing.T) {
	for _, tc := range []struct {
		name    string
		spent   float64
		want    string
		wantErr bool
	}{
		{"UnderSoftLimit", 10, "gemini-2.5-flash", false},
		{"OverSoftLimit", 60, "gemini-2.0-flash-lite", false},
		{"OverHardLimit", 120, "", true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c := NewBudgetController(&fakeUsageStore{spend: map[string]float64{model.ServiceGeneration: tc.spent}}, nil)
			got, err := c.ResolveModel(context.Background(), model.ServiceGeneration, "gemini-2.5-flash")
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBudgetController_ResolveModelUnknownService(t *testing.T) {
	c := NewBudgetController(&fakeUsageStore{}, nil)
	got, err := c.ResolveModel(context.Background(), "unknown", "anything")
	if err != nil || got != "anything" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestBudgetController_RecordUsageComputesCost(t *testing.T) {
	store := &fakeUsageStore{spend: map[string]float64{}}
	c := NewBudgetController(store, nil)

	err := c.RecordUsage(context.Background(), model.ServiceGeneration, "gemini-2.5-flash", "motivations", 1_000_000, 1_000_000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(store.records))
	}
	rec := store.records[0]
	want := 0.30 + 2.50
	if rec.Cost != want {
		t.Fatalf("got cost=%v, want %v", rec.Cost, want)
	}
	if rec.Service != model.ServiceGeneration || rec.Operation != "motivations" {
		t.Fatalf("got service=%q operation=%q", rec.Service, rec.Operation)
	}
}

func TestBudgetController_RecordUsageUnknownModelZeroCost(t *testing.T) {
	store := &fakeUsageStore{spend: map[string]float64{}}
	c := NewBudgetController(store, nil)

	if err := c.RecordUsage(context.Background(), model.ServiceGeneration, "mystery-model", "copy", 500, 500); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.records[0].Cost != 0 {
		t.Fatalf("expected zero cost, got %v", store.records[0].Cost)
	}
}

func TestBudgetController_RecordCost(t *testing.T) {
	store := &fakeUsageStore{spend: map[string]float64{}}
	c := NewBudgetController(store, nil)

	if err := c.RecordCost(context.Background(), model.ServiceRender, "render", 0.45); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.records[0].Cost != 0.45 || store.records[0].Service != model.ServiceRender {
		t.Fatalf("got %+v", store.records[0])
	}
}

func TestBudgetController_Summary(t *testing.T) {
	store := &fakeUsageStore{spend: map[string]float64{
		model.ServiceGeneration: 75,
		model.ServiceRender:     10,
	}}
	c := NewBudgetController(store, nil)

	summaries, err := c.Summary(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("expected 3 summaries, got %d", len(summaries))
	}
	byService := map[string]*model.UsageSummary{}
	for _, s := range summaries {
		byService[s.Service] = s
	}
	gen := byService[model.ServiceGeneration]
	if !gen.OverSoftLimit || gen.OverHardLimit {
		t.Fatalf("generation flags wrong: %+v", gen)
	}
	if gen.ActiveModel != "gemini-2.0-flash-lite" {
		t.Fatalf("got active_model=%q", gen.ActiveModel)
	}
	if byService[model.ServiceRender].OverSoftLimit {
		t.Fatalf("render should be under soft limit: %+v", byService[model.ServiceRender])
	}
}
