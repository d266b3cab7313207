// Package domain holds the pure types and decision logic of the discovery
// pipeline: the inverse filter, the vibe scorer and the itinerary selector.
// Nothing in this package talks to the outside world.
package domain

// Coordinates is a WGS84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place is one normalized candidate spot. It is created once by the
// normalizer and never mutated; later stages derive new values instead.
type Place struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Location    Coordinates `json:"location"`
	Rating      float64     `json:"rating"`       // coerced into [0,5]
	ReviewCount int         `json:"review_count"` // coerced to >= 0
	Snippets    []string    `json:"snippets,omitempty"`
	MapsURL     string      `json:"maps_url,omitempty"`
}

// WithReviews returns a copy of the place carrying the fetched review
// snippets and provider map URL. The receiver is left untouched.
func (p Place) WithReviews(snippets []string, mapsURL string) Place {
	out := p
	out.Snippets = snippets
	if mapsURL != "" {
		out.MapsURL = mapsURL
	}
	return out
}
