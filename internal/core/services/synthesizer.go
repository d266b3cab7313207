package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/fernweh-labs/unseen/internal/core/domain"
	"github.com/fernweh-labs/unseen/internal/core/ports"
)

// Synthesizer turns selected candidates into narrated itinerary entries.
// When the generation collaborator fails for one entry, that entry degrades
// to a deterministic templated pitch instead of aborting the itinerary.
type Synthesizer struct {
	narrator ports.Narrator
	tone     string
}

// NewSynthesizer constructs a Synthesizer. tone may be empty.
func NewSynthesizer(narrator ports.Narrator, tone string) *Synthesizer {
	return &Synthesizer{narrator: narrator, tone: tone}
}

// Entry narrates a single scored candidate. The map reference is attached
// regardless of narrative success or failure. A non-nil failure means the
// fallback template was used; the entry itself is always valid.
func (s *Synthesizer) Entry(ctx context.Context, cand domain.ScoredPlace, clusterID int, vibe string) (domain.ItineraryEntry, *domain.RecordFailure) {
	entry := domain.ItineraryEntry{
		PlaceID:      cand.Place.ID,
		Name:         cand.Place.Name,
		Rating:       cand.Place.Rating,
		ReviewCount:  cand.Place.ReviewCount,
		Location:     cand.Place.Location,
		MapsURL:      mapsReference(cand.Place),
		ClusterID:    clusterID,
		MatchedTerms: cand.Matched,
	}

	pitch, err := s.narrator.ComposePitch(ctx, ports.PitchRequest{
		Place:   cand.Place,
		Profile: cand.Profile,
		Matched: cand.Matched,
		Vibe:    vibe,
		Tone:    s.tone,
	})
	if err != nil || strings.TrimSpace(pitch) == "" {
		entry.Narrative = fallbackPitch(cand)
		reason := "empty narrative"
		if err != nil {
			reason = err.Error()
		}
		return entry, &domain.RecordFailure{
			PlaceID:   cand.Place.ID,
			PlaceName: cand.Place.Name,
			Stage:     domain.StageNarrate,
			Reason:    reason,
		}
	}

	entry.Narrative = strings.TrimSpace(pitch)
	return entry, nil
}

// Title asks the collaborator for an itinerary title and falls back to a
// deterministic one on failure.
func (s *Synthesizer) Title(ctx context.Context, city, vibe string, entries []domain.ItineraryEntry) string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}

	title, err := s.narrator.ComposeTitle(ctx, ports.TitleRequest{City: city, Vibe: vibe, Names: names})
	if err == nil && strings.TrimSpace(title) != "" {
		return strings.TrimSpace(title)
	}
	return fallbackTitle(city, vibe)
}

// fallbackPitch builds the degraded narrative from raw facts only, so two
// runs over the same candidate always produce the same text.
func fallbackPitch(cand domain.ScoredPlace) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s is a quietly loved spot: rated %.1f by just %d reviewers.",
		cand.Place.Name, cand.Place.Rating, cand.Place.ReviewCount)
	if len(cand.Matched) > 0 {
		fmt.Fprintf(&b, " Locals mention it for being %s.", strings.Join(cand.Matched, ", "))
	}
	b.WriteString(" Worth a detour before the crowds find it.")
	return b.String()
}

func fallbackTitle(city, vibe string) string {
	city = strings.TrimSpace(city)
	vibe = strings.TrimSpace(vibe)
	switch {
	case city != "" && vibe != "":
		return fmt.Sprintf("Unseen %s: %s", city, vibe)
	case city != "":
		return fmt.Sprintf("Unseen %s", city)
	default:
		return "Unseen spots"
	}
}

// mapsReference prefers the provider's own URL and otherwise derives a
// deterministic Google Maps link from the place identity and coordinates.
func mapsReference(p domain.Place) string {
	if p.MapsURL != "" {
		return p.MapsURL
	}
	q := url.Values{}
	q.Set("api", "1")
	q.Set("query", fmt.Sprintf("%f,%f", p.Location.Lat, p.Location.Lng))
	if p.ID != "" {
		q.Set("query_place_id", p.ID)
	}
	return "https://www.google.com/maps/search/?" + q.Encode()
}
