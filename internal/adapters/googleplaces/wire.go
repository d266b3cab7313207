package googleplaces

import (
	"fmt"

	"github.com/fernweh-labs/unseen/internal/core/ports"
)

const (
	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
)

type wireLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type wireGeometry struct {
	Location wireLocation `json:"location"`
}

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Geometry wireGeometry `json:"geometry"`
	} `json:"results"`
}

type nearbyResult struct {
	PlaceID     string        `json:"place_id"`
	Name        string        `json:"name"`
	Rating      *float64      `json:"rating"`
	ReviewCount *int          `json:"user_ratings_total"`
	Geometry    *wireGeometry `json:"geometry"`
}

type nearbyResponse struct {
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message"`
	Results      []nearbyResult `json:"results"`
}

type wireReview struct {
	Text string `json:"text"`
}

type detailsResult struct {
	Reviews []wireReview `json:"reviews"`
	URL     string       `json:"url"`
}

type detailsResponse struct {
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message"`
	Result       detailsResult `json:"result"`
}

func statusErrFor(status, message string) error {
	if status == statusOK || status == statusZeroResults {
		return nil
	}
	if message != "" {
		return fmt.Errorf("places adapter: upstream status %s: %s", status, message)
	}
	return fmt.Errorf("places adapter: upstream status %s", status)
}

func (r geocodeResponse) statusErr() error { return statusErrFor(r.Status, r.ErrorMessage) }
func (r nearbyResponse) statusErr() error  { return statusErrFor(r.Status, r.ErrorMessage) }
func (r detailsResponse) statusErr() error { return statusErrFor(r.Status, r.ErrorMessage) }

// toRawPlace keeps absent wire fields as nil pointers so the normalizer can
// tell a missing rating apart from a zero one.
func (r nearbyResult) toRawPlace() ports.RawPlace {
	raw := ports.RawPlace{
		ID:          r.PlaceID,
		Name:        r.Name,
		Rating:      r.Rating,
		ReviewCount: r.ReviewCount,
	}
	if r.Geometry != nil {
		lat := r.Geometry.Location.Lat
		lng := r.Geometry.Location.Lng
		raw.Lat = &lat
		raw.Lng = &lng
	}
	return raw
}

func (r detailsResult) toPlaceReviews() ports.PlaceReviews {
	snippets := make([]string, 0, len(r.Reviews))
	for _, rv := range r.Reviews {
		if rv.Text == "" {
			continue
		}
		snippets = append(snippets, rv.Text)
	}
	return ports.PlaceReviews{Snippets: snippets, MapsURL: r.URL}
}
