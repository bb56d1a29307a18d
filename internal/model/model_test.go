package model

import "testing"

func TestSlugify(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
	}{
		{"Acme Corp", "acme-corp"},
		{"  Fresh & Co.  ", "fresh-co"},
		{"UPPER", "upper"},
		{"already-slug", "already-slug"},
		{"---", ""},
	} {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestExecutionStatusTransitions(t *testing.T) {
	allowed := map[ExecutionStatus][]ExecutionStatus{
		ExecutionPending:    {ExecutionQueued},
		ExecutionQueued:     {ExecutionProcessing},
		ExecutionProcessing: {ExecutionCompleted, ExecutionFailed},
		ExecutionCompleted:  {},
		ExecutionFailed:     {},
	}
	all := []ExecutionStatus{
		ExecutionPending, ExecutionQueued, ExecutionProcessing,
		ExecutionCompleted, ExecutionFailed,
	}
	for from, nexts := range allowed {
		ok := make(map[ExecutionStatus]bool, len(nexts))
		for _, n := range nexts {
			ok[n] = true
		}
		for _, to := range all {
			if got := from.CanTransition(to); got != ok[to] {
				t.Errorf("CanTransition(%s -> %s) = %v, want %v", from, to, got, ok[to])
			}
		}
	}
	if !ExecutionCompleted.Terminal() || !ExecutionFailed.Terminal() {
		t.Error("completed/failed should be terminal")
	}
	if ExecutionProcessing.Terminal() {
		t.Error("processing should not be terminal")
	}
}

func TestMatrixCombinations(t *testing.T) {
	m := &Matrix{
		Slots: []MatrixSlot{
			{Name: "background", Kind: SlotAsset, Options: []string{"a1", "a2"}},
			{Name: "headline", Kind: SlotCopy, Options: []string{"c1", "c2", "c3"}},
		},
	}
	if got := m.CombinationCount(); got != 6 {
		t.Fatalf("CombinationCount = %d, want 6", got)
	}

	combos := m.Combinations(0)
	if len(combos) != 6 {
		t.Fatalf("Combinations(0) returned %d, want 6", len(combos))
	}
	seen := make(map[string]struct{})
	for _, c := range combos {
		key := c["background"] + "/" + c["headline"]
		if _, dup := seen[key]; dup {
			t.Errorf("duplicate combination %s", key)
		}
		seen[key] = struct{}{}
	}

	// Cap honored.
	if got := len(m.Combinations(4)); got != 4 {
		t.Errorf("Combinations(4) returned %d, want 4", got)
	}

	// Empty slot yields nothing.
	empty := &Matrix{Slots: []MatrixSlot{{Name: "x", Kind: SlotAsset}}}
	if empty.Combinations(0) != nil {
		t.Error("expected nil combinations for empty slot")
	}
}

func TestKindForContentType(t *testing.T) {
	for _, tc := range []struct {
		ct   string
		want AssetKind
	}{
		{"image/png", AssetImage},
		{"video/mp4", AssetVideo},
		{"audio/mpeg", AssetAudio},
		{"text/plain", AssetText},
		{"application/zip", ""},
	} {
		if got := KindForContentType(tc.ct); got != tc.want {
			t.Errorf("KindForContentType(%q) = %q, want %q", tc.ct, got, tc.want)
		}
	}
}

func TestCopyVariantCountWords(t *testing.T) {
	c := &CopyVariant{
		Headline:     "Fresh mornings start here",
		Body:         "Wake up to\nreal flavor",
		CallToAction: "Shop now",
	}
	if got := c.CountWords(); got != 11 {
		t.Errorf("CountWords = %d, want 11", got)
	}
	if got := (&CopyVariant{}).CountWords(); got != 0 {
		t.Errorf("CountWords(empty) = %d, want 0", got)
	}
}

func TestBriefCombinedText(t *testing.T) {
	b := &Brief{
		Objective:      "Grow signups",
		TargetAudience: "young professionals",
		KeyMessages:    []string{"save time"},
		RawContent:     "ignored when parsed fields exist",
	}
	want := "Grow signups young professionals save time"
	if got := b.CombinedText(); got != want {
		t.Errorf("CombinedText = %q, want %q", got, want)
	}

	raw := &Brief{RawContent: "just the document"}
	if got := raw.CombinedText(); got != "just the document" {
		t.Errorf("CombinedText(raw) = %q", got)
	}
}
