package server

import (
	"strings"

	"github.com/airwavehq/airwave/internal/model"
)

// knownPlatforms are the platform names recognized in brief documents.
var knownPlatforms = []string{"facebook", "instagram", "twitter", "linkedin", "tiktok", "youtube"}

// parseBriefContent extracts structured campaign fields from a raw brief
// document using labeled-line heuristics. It returns true when at least
// one field was extracted.
//
// Recognized labels (case-insensitive): objective/goal, target audience/
// audience, budget, timeline/dates, key messages (followed by bullet
// lines). Platform names are matched anywhere in the text.
func parseBriefContent(b *model.Brief) bool {
	raw := b.RawContent
	if strings.TrimSpace(raw) == "" {
		return false
	}

	found := false
	inMessages := false
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			inMessages = false
			continue
		}

		if inMessages {
			if msg, ok := bulletText(line); ok {
				b.KeyMessages = append(b.KeyMessages, msg)
				found = true
				continue
			}
			inMessages = false
		}

		label, value := splitLabel(line)
		switch label {
		case "objective", "goal":
			if value != "" {
				b.Objective = value
				found = true
			}
		case "target audience", "audience":
			if value != "" {
				b.TargetAudience = value
				found = true
			}
		case "budget":
			if value != "" {
				b.Budget = value
				found = true
			}
		case "timeline", "dates":
			if value != "" {
				b.Timeline = value
				found = true
			}
		case "key messages", "messages":
			inMessages = true
			if value != "" {
				b.KeyMessages = append(b.KeyMessages, value)
				found = true
			}
		}
	}

	lower := strings.ToLower(raw)
	for _, p := range knownPlatforms {
		if strings.Contains(lower, p) {
			b.Platforms = append(b.Platforms, p)
			found = true
		}
	}

	return found
}

// splitLabel splits "Label: value" lines, lowercasing the label and
// stripping any leading markdown heading or bold markers.
func splitLabel(line string) (label, value string) {
	line = strings.TrimLeft(line, "#* ")
	idx := strings.Index(line, ":")
	if idx < 0 {
		return "", ""
	}
	label = strings.ToLower(strings.TrimSpace(strings.TrimRight(line[:idx], "*")))
	value = strings.TrimSpace(line[idx+1:])
	return label, value
}

// bulletText strips a leading list marker, returning ok=false for
// non-bullet lines.
func bulletText(line string) (string, bool) {
	for _, marker := range []string{"- ", "* ", "• "} {
		if strings.HasPrefix(line, marker) {
			return strings.TrimSpace(strings.TrimPrefix(line, marker)), true
		}
	}
	return "", false
}
