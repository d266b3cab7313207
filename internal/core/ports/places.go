package ports

import (
	"context"

	"github.com/fernweh-labs/unseen/internal/core/domain"
)

// RawPlace is one entry as returned by the geospatial search collaborator,
// before normalization. Pointer fields distinguish "absent" from a genuine
// zero so the normalizer can skip incomplete entries instead of inventing
// values for them.
type RawPlace struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Lat         *float64 `json:"lat,omitempty"`
	Lng         *float64 `json:"lng,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount *int     `json:"review_count,omitempty"`
	Snippets    []string `json:"snippets,omitempty"`
	MapsURL     string   `json:"maps_url,omitempty"`
}

// NearbySearch describes one candidate search.
type NearbySearch struct {
	Center  domain.Coordinates
	RadiusM int
	Keyword string
}

// PlaceReviews is the detail payload fetched for a single place after the
// inverse filter has pruned the candidate set.
type PlaceReviews struct {
	Snippets []string `json:"snippets"`
	MapsURL  string   `json:"maps_url,omitempty"`
}

// PlaceProvider is the geospatial search collaborator. Geocode and
// SearchNearby precede normalization, so their failures abort the whole run;
// FetchReviews runs per surviving record and gets per-record isolation.
type PlaceProvider interface {
	Geocode(ctx context.Context, query string) (domain.Coordinates, error)
	SearchNearby(ctx context.Context, req NearbySearch) ([]RawPlace, error)
	FetchReviews(ctx context.Context, placeID string) (PlaceReviews, error)
}
