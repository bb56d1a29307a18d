package model

import "fmt"

// ValidateClient checks required client fields before insert.
func ValidateClient(c *Client) error {
	if c.Name == "" {
		return fmt.Errorf("client name is required")
	}
	if c.Slug == "" {
		return fmt.Errorf("client slug is required")
	}
	return nil
}

// ValidateBrief checks required brief fields before insert.
func ValidateBrief(b *Brief) error {
	if b.ClientID == "" {
		return fmt.Errorf("client_id is required")
	}
	if b.Title == "" {
		return fmt.Errorf("brief title is required")
	}
	if b.Status != "" && !b.Status.IsValid() {
		return fmt.Errorf("invalid brief status %q", b.Status)
	}
	return nil
}

// ValidateAsset checks required asset fields before insert.
func ValidateAsset(a *Asset) error {
	if a.ClientID == "" {
		return fmt.Errorf("client_id is required")
	}
	if a.Name == "" {
		return fmt.Errorf("asset name is required")
	}
	if !a.Kind.IsValid() {
		return fmt.Errorf("invalid asset kind %q", a.Kind)
	}
	if a.StorageKey == "" {
		return fmt.Errorf("storage key is required")
	}
	return nil
}

// ValidateMatrix checks slots are well formed before insert.
func ValidateMatrix(m *Matrix) error {
	if m.ClientID == "" {
		return fmt.Errorf("client_id is required")
	}
	if m.Name == "" {
		return fmt.Errorf("matrix name is required")
	}
	if len(m.Slots) == 0 {
		return fmt.Errorf("matrix needs at least one slot")
	}
	seen := make(map[string]struct{}, len(m.Slots))
	for i, s := range m.Slots {
		if s.Name == "" {
			return fmt.Errorf("slot %d: name is required", i)
		}
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("slot %q: duplicate name", s.Name)
		}
		seen[s.Name] = struct{}{}
		if !s.Kind.IsValid() {
			return fmt.Errorf("slot %q: invalid kind %q", s.Name, s.Kind)
		}
		if len(s.Options) == 0 {
			return fmt.Errorf("slot %q: at least one option is required", s.Name)
		}
	}
	return nil
}
