package domain

import "strings"

// VibeProfile is the structured atmosphere signal extracted from a place's
// review snippets. Both sets may be empty, which means "no extractable vibe
// signal" — an empty profile is still scoreable (it scores the floor).
type VibeProfile struct {
	Moods    []string `json:"mood_descriptors"`
	Features []string `json:"unique_features"`
}

// Empty reports whether the profile carries no signal at all.
func (v VibeProfile) Empty() bool {
	return len(v.Moods) == 0 && len(v.Features) == 0
}

// Tags returns the union of moods and features, moods first.
func (v VibeProfile) Tags() []string {
	out := make([]string, 0, len(v.Moods)+len(v.Features))
	out = append(out, v.Moods...)
	out = append(out, v.Features...)
	return out
}

// NormalizeTags lower-cases and trims tags, drops empties and deduplicates
// while preserving first-seen order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		cleaned := strings.ToLower(strings.TrimSpace(tag))
		if cleaned == "" {
			continue
		}
		if _, dup := seen[cleaned]; dup {
			continue
		}
		seen[cleaned] = struct{}{}
		out = append(out, cleaned)
	}
	return out
}
