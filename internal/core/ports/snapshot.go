package ports

import (
	"context"
	"errors"
	"time"

	"github.com/fernweh-labs/unseen/internal/core/domain"
)

// ErrRunNotFound indicates no snapshot exists for the requested run id.
var ErrRunNotFound = errors.New("run not found")

// RunConfig is the effective pipeline tuning a run was made with, including
// any per-request overrides. Replays filter and select with these values,
// not with whatever the orchestrator is currently configured with.
type RunConfig struct {
	MinRating        float64 `json:"min_rating"`
	MaxReviewCount   int     `json:"max_review_count"`
	SearchRadiusM    int     `json:"search_radius_m"`
	ProximityRadiusM float64 `json:"proximity_radius_m"`
}

// RunSnapshot captures the pipeline *inputs* of one run: the raw search
// results, every collaborator response and the effective tuning. Replaying
// an unchanged snapshot reproduces the identical selection ordering.
// Itineraries themselves are deliberately not persisted.
type RunSnapshot struct {
	RunID     string                        `json:"run_id"`
	CreatedAt time.Time                     `json:"created_at"`
	City      string                        `json:"city"`
	Vibe      string                        `json:"vibe"`
	Center    domain.Coordinates            `json:"center"`
	Config    RunConfig                     `json:"config"`
	Raw       []RawPlace                    `json:"raw"`
	Reviews   map[string]PlaceReviews       `json:"reviews"`
	Profiles  map[string]domain.VibeProfile `json:"profiles"`
}

// SnapshotStore persists run snapshots for later replay.
type SnapshotStore interface {
	SaveRun(ctx context.Context, snap RunSnapshot) error
	LoadRun(ctx context.Context, runID string) (RunSnapshot, error)
}
