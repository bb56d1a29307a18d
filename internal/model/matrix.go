package model

import (
	"encoding/json"
	"time"
)

// SlotKind says what a matrix slot holds.
type SlotKind string

const (
	SlotAsset SlotKind = "asset"
	SlotCopy  SlotKind = "copy"
)

// IsValid checks whether the slot kind is a known value.
func (k SlotKind) IsValid() bool {
	return k == SlotAsset || k == SlotCopy
}

// MatrixSlot is one dimension of the creative grid: a named position
// (e.g. "background", "headline") and the candidate IDs that can fill it.
type MatrixSlot struct {
	Name    string   `json:"name"`
	Kind    SlotKind `json:"kind"`
	Options []string `json:"options"` // asset or copy variant IDs
}

// Matrix is a grid of assets and copy variants from which creative
// permutations (executions) are assembled.
type Matrix struct {
	ID        string          `json:"id"`
	ClientID  string          `json:"client_id"`
	BriefID   string          `json:"brief_id,omitempty"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	Slots     []MatrixSlot    `json:"slots"`
	Fields    json.RawMessage `json:"fields,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Combinations expands the slots into every permutation, up to max.
// Each combination maps slot name to the chosen option ID. Returns nil
// when any slot has no options.
func (m *Matrix) Combinations(max int) []map[string]string {
	if len(m.Slots) == 0 {
		return nil
	}
	for _, s := range m.Slots {
		if len(s.Options) == 0 {
			return nil
		}
	}

	combos := []map[string]string{{}}
	for _, slot := range m.Slots {
		next := make([]map[string]string, 0, len(combos)*len(slot.Options))
		for _, base := range combos {
			for _, opt := range slot.Options {
				c := make(map[string]string, len(base)+1)
				for k, v := range base {
					c[k] = v
				}
				c[slot.Name] = opt
				next = append(next, c)
				if max > 0 && len(next) >= max {
					break
				}
			}
			if max > 0 && len(next) >= max {
				break
			}
		}
		combos = next
	}
	if max > 0 && len(combos) > max {
		combos = combos[:max]
	}
	return combos
}

// CombinationCount returns the total permutation count without expanding.
func (m *Matrix) CombinationCount() int {
	if len(m.Slots) == 0 {
		return 0
	}
	n := 1
	for _, s := range m.Slots {
		n *= len(s.Options)
	}
	return n
}
