package main

import (
	"testing"

	"github.com/airwavehq/airwave/internal/model"
)

func TestParseSlot(t *testing.T) {
	slot, err := parseSlot("background=asset:as-1,as-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slot.Name != "background" || slot.Kind != model.SlotAsset {
		t.Fatalf("got slot %+v", slot)
	}
	if len(slot.Options) != 2 || slot.Options[0] != "as-1" || slot.Options[1] != "as-2" {
		t.Fatalf("got options %v", slot.Options)
	}
}

func TestParseSlot_TrimsOptions(t *testing.T) {
	slot, err := parseSlot("headline=copy: cv-1 , cv-2 ,")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slot.Options) != 2 || slot.Options[0] != "cv-1" || slot.Options[1] != "cv-2" {
		t.Fatalf("got options %v", slot.Options)
	}
}

func TestParseSlot_Invalid(t *testing.T) {
	for _, spec := range []string{"", "background", "background=asset", "=asset:as-1"} {
		if _, err := parseSlot(spec); err == nil {
			t.Errorf("expected error for %q", spec)
		}
	}
}
