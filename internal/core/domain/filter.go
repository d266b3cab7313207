package domain

// FilterConfig holds the two inverse-filter thresholds.
type FilterConfig struct {
	MinRating      float64 // inclusive lower bound on rating
	MaxReviewCount int     // exclusive upper bound on review count
}

// DefaultFilterConfig mirrors the product defaults: a spot needs at least a
// 4.5 rating and strictly fewer than 500 reviews to count as unseen.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{MinRating: 4.5, MaxReviewCount: 500}
}

// InverseFilter keeps the high-rating, low-review-count places. The rating
// bound is inclusive and the review-count bound is exclusive: a spot sitting
// exactly at the review cap is already saturated, not unseen. Output order
// follows input order; an empty result is a valid outcome.
func InverseFilter(places []Place, cfg FilterConfig) []Place {
	kept := make([]Place, 0, len(places))
	for _, p := range places {
		if p.Rating >= cfg.MinRating && p.ReviewCount < cfg.MaxReviewCount {
			kept = append(kept, p)
		}
	}
	return kept
}
