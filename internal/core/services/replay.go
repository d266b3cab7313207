package services

import (
	"context"
	"fmt"

	"github.com/fernweh-labs/unseen/internal/core/domain"
	"github.com/fernweh-labs/unseen/internal/core/ports"
)

// snapshotSource serves a recorded run back through the collaborator ports.
// Records whose collaborator calls failed during the original run have no
// snapshot entry, so they fail and are dropped again on replay — the replayed
// selection is identical to the original one.
type snapshotSource struct {
	snap ports.RunSnapshot
}

var (
	_ ports.PlaceProvider = snapshotSource{}
	_ ports.VibeExtractor = snapshotSource{}
)

func (s snapshotSource) Geocode(ctx context.Context, query string) (domain.Coordinates, error) {
	return s.snap.Center, nil
}

func (s snapshotSource) SearchNearby(ctx context.Context, req ports.NearbySearch) ([]ports.RawPlace, error) {
	return s.snap.Raw, nil
}

func (s snapshotSource) FetchReviews(ctx context.Context, placeID string) (ports.PlaceReviews, error) {
	rv, ok := s.snap.Reviews[placeID]
	if !ok {
		return ports.PlaceReviews{}, fmt.Errorf("replay: no reviews recorded for place %s", placeID)
	}
	return rv, nil
}

func (s snapshotSource) ExtractVibe(ctx context.Context, place domain.Place) (domain.VibeProfile, error) {
	profile, ok := s.snap.Profiles[place.ID]
	if !ok {
		return domain.VibeProfile{}, fmt.Errorf("replay: no profile recorded for place %s", place.ID)
	}
	return profile, nil
}
