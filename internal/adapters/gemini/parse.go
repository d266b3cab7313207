package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fernweh-labs/unseen/internal/core/domain"
)

// wireProfile tolerates sloppy model output: list entries that are not
// strings are dropped rather than failing the whole profile.
type wireProfile struct {
	Moods    []any `json:"mood_descriptors"`
	Features []any `json:"unique_features"`
}

// parseVibeProfile decodes the extraction response into a normalized profile.
// Markdown code fences around the JSON are tolerated.
func parseVibeProfile(raw string) (domain.VibeProfile, error) {
	cleaned := stripCodeFences(raw)

	var parsed wireProfile
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return domain.VibeProfile{}, fmt.Errorf("decode profile: %w", err)
	}

	return domain.VibeProfile{
		Moods:    domain.NormalizeTags(stringsOnly(parsed.Moods)),
		Features: domain.NormalizeTags(stringsOnly(parsed.Features)),
	}, nil
}

func stringsOnly(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func stripCodeFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}
