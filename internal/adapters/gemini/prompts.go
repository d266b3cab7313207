package gemini

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/fernweh-labs/unseen/internal/core/domain"
	"github.com/fernweh-labs/unseen/internal/core/ports"
)

// maxReviewChars bounds how much review text a single extraction prompt may
// carry. Review dumps beyond this add cost without adding signal.
const maxReviewChars = 3000

func extractionPrompt(place domain.Place) string {
	reviews := strings.Join(place.Snippets, " ")
	if len(reviews) > maxReviewChars {
		// Back off to a rune boundary so the cut never splits a character.
		cut := maxReviewChars
		for cut > 0 && !utf8.RuneStart(reviews[cut]) {
			cut--
		}
		reviews = reviews[:cut]
	}

	var b strings.Builder
	b.WriteString("You are a meticulous, native-speaking travel curator.\n")
	fmt.Fprintf(&b, "Analyze the following customer reviews for a spot named %q.\n", place.Name)
	b.WriteString("Based only on the reviews, describe the spot's atmosphere and what makes it unusual.\n\n")
	b.WriteString("Respond with a JSON object with exactly two keys:\n")
	b.WriteString(`  "mood_descriptors": a list of short lowercase adjectives for the atmosphere` + "\n")
	b.WriteString(`  "unique_features": a list of short lowercase phrases naming concrete unusual traits` + "\n\n")
	b.WriteString("REVIEWS:\n---\n")
	b.WriteString(reviews)
	b.WriteString("\n---\nEnd of reviews. Now, provide your analysis.")
	return b.String()
}

func pitchPrompt(req ports.PitchRequest) string {
	tone := req.Tone
	if tone == "" {
		tone = "a world-class travel journalist for a luxury magazine, known for finding secret spots"
	}

	research, _ := json.MarshalIndent(map[string]any{
		"name":             req.Place.Name,
		"mood_descriptors": req.Profile.Moods,
		"unique_features":  req.Profile.Features,
		"matched_terms":    req.Matched,
	}, "", "  ")

	var b strings.Builder
	fmt.Fprintf(&b, "You are %s.\n", tone)
	fmt.Fprintf(&b, "A traveler is looking for hidden gems with the vibe: %q.\n", req.Vibe)
	b.WriteString("Write a compelling 3-4 sentence pitch for the spot below.\n")
	b.WriteString("Do NOT mention the review count or rating. Focus on atmosphere and the unseen quality.\n")
	b.WriteString("Respond with the pitch text only, no preamble.\n\n")
	b.WriteString("RESEARCH DATA:\n---\n")
	b.Write(research)
	b.WriteString("\n---\nNow, write the pitch.")
	return b.String()
}

func titlePrompt(req ports.TitleRequest) string {
	var b strings.Builder
	b.WriteString("You are a travel magazine editor.\n")
	fmt.Fprintf(&b, "A curated itinerary of hidden gems in %s matches the vibe %q.\n", req.City, req.Vibe)
	if len(req.Names) > 0 {
		fmt.Fprintf(&b, "The spots are: %s.\n", strings.Join(req.Names, ", "))
	}
	b.WriteString("Write one catchy title for the itinerary. Respond with the title text only.")
	return b.String()
}
