package ports

import (
	"context"

	"github.com/fernweh-labs/unseen/internal/core/domain"
)

// VibeExtractor is the reasoning collaborator: it turns a place's review
// snippets into a structured vibe profile. Callers only invoke it for places
// that actually have snippets; an error drops that record only.
type VibeExtractor interface {
	ExtractVibe(ctx context.Context, place domain.Place) (domain.VibeProfile, error)
}

// PitchRequest carries everything the generation collaborator may use for a
// single entry's narrative.
type PitchRequest struct {
	Place   domain.Place
	Profile domain.VibeProfile
	Matched []string
	Vibe    string
	Tone    string
}

// TitleRequest asks for a catchy title covering the whole itinerary.
type TitleRequest struct {
	City  string
	Vibe  string
	Names []string
}

// Narrator is the generation collaborator. Any non-empty text is accepted;
// failures are recovered with a templated fallback by the caller.
type Narrator interface {
	ComposePitch(ctx context.Context, req PitchRequest) (string, error)
	ComposeTitle(ctx context.Context, req TitleRequest) (string, error)
}
