package services

import (
	"fmt"

	"github.com/fernweh-labs/unseen/internal/core/domain"
	"github.com/fernweh-labs/unseen/internal/core/ports"
)

// Normalize converts raw provider entries into immutable domain places.
// Entries missing a mandatory field (name, rating, review count) are skipped,
// not fatal: each skip and each coerced value lands in the returned warnings
// so the caller can account for every dropped id.
func Normalize(raw []ports.RawPlace) ([]domain.Place, []domain.Warning) {
	places := make([]domain.Place, 0, len(raw))
	var warnings []domain.Warning

	for _, r := range raw {
		if r.Name == "" {
			warnings = append(warnings, skipped(r.ID, "name"))
			continue
		}
		if r.Rating == nil {
			warnings = append(warnings, skipped(r.ID, "rating"))
			continue
		}
		if r.ReviewCount == nil {
			warnings = append(warnings, skipped(r.ID, "review_count"))
			continue
		}

		p := domain.Place{
			ID:          r.ID,
			Name:        r.Name,
			Snippets:    r.Snippets,
			MapsURL:     r.MapsURL,
			ReviewCount: *r.ReviewCount,
		}

		p.Rating = *r.Rating
		if p.Rating < 0 {
			warnings = append(warnings, coerced(r.ID, "rating", fmt.Sprintf("%.2f clamped to 0", p.Rating)))
			p.Rating = 0
		}
		if p.Rating > 5 {
			warnings = append(warnings, coerced(r.ID, "rating", fmt.Sprintf("%.2f clamped to 5", p.Rating)))
			p.Rating = 5
		}
		if p.ReviewCount < 0 {
			warnings = append(warnings, coerced(r.ID, "review_count", fmt.Sprintf("%d clamped to 0", p.ReviewCount)))
			p.ReviewCount = 0
		}

		if r.Lat != nil && r.Lng != nil {
			p.Location = domain.Coordinates{Lat: *r.Lat, Lng: *r.Lng}
		} else {
			warnings = append(warnings, coerced(r.ID, "coordinates", "missing, defaulted to origin"))
		}

		places = append(places, p)
	}

	return places, warnings
}

func skipped(id, field string) domain.Warning {
	return domain.Warning{PlaceID: id, Field: field, Detail: "missing, entry skipped"}
}

func coerced(id, field, detail string) domain.Warning {
	return domain.Warning{PlaceID: id, Field: field, Detail: detail}
}
