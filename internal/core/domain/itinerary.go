package domain

import (
	"math"
	"sort"
)

// SelectionPolicy bounds the itinerary size and controls proximity grouping.
type SelectionPolicy struct {
	MinSize          int     // target floor, default 3
	MaxSize          int     // hard cap, default 5
	ProximityRadiusM float64 // great-circle cluster radius in meters, default 1500
}

func (p SelectionPolicy) withDefaults() SelectionPolicy {
	if p.MinSize <= 0 {
		p.MinSize = 3
	}
	if p.MaxSize <= 0 {
		p.MaxSize = 5
	}
	if p.MaxSize < p.MinSize {
		p.MaxSize = p.MinSize
	}
	if p.ProximityRadiusM <= 0 {
		p.ProximityRadiusM = 1500
	}
	return p
}

// Selection is the ranked, clustered subset of candidates chosen for the
// itinerary. ClusterIDs runs parallel to Ranked; ids are assigned in rank
// order starting at 0, so a single cluster covering everything is id 0 across
// the board.
type Selection struct {
	Ranked     []ScoredPlace `json:"ranked"`
	ClusterIDs []int         `json:"cluster_ids"`
}

// SelectItinerary ranks candidates by descending match score (ties broken by
// rating, then review count, then stable input order), keeps only candidates
// with a positive score, cuts to at most MaxSize entries and groups the cut
// by geographic proximity. Fewer eligible candidates than MinSize yields a
// partial selection, and an empty input yields an empty selection — neither
// is an error.
func SelectItinerary(candidates []ScoredPlace, policy SelectionPolicy) Selection {
	policy = policy.withDefaults()

	ranked := make([]ScoredPlace, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return CompareRank(ranked[i], ranked[j])
	})

	eligible := 0
	for _, c := range ranked {
		if c.Score <= 0 {
			break
		}
		eligible++
	}

	// Top-N rule: min(MaxSize, max(MinSize, eligible)), never padding with
	// zero-score candidates, so the effective cut is min(MaxSize, eligible).
	n := min(policy.MaxSize, max(policy.MinSize, eligible))
	if n > eligible {
		n = eligible
	}
	ranked = ranked[:n]

	return Selection{
		Ranked:     ranked,
		ClusterIDs: clusterByProximity(ranked, policy.ProximityRadiusM),
	}
}

// ItineraryEntry is the externally visible output unit for one place.
type ItineraryEntry struct {
	PlaceID      string      `json:"place_id"`
	Name         string      `json:"name"`
	Rating       float64     `json:"rating"`
	ReviewCount  int         `json:"review_count"`
	Location     Coordinates `json:"location"`
	Narrative    string      `json:"narrative"`
	MapsURL      string      `json:"maps_url"`
	ClusterID    int         `json:"cluster_id"`
	MatchedTerms []string    `json:"matched_terms,omitempty"`
}

// Itinerary is the final narrated artifact, ordered by rank.
type Itinerary struct {
	Title   string           `json:"title"`
	Entries []ItineraryEntry `json:"entries"`
}

// clusterByProximity partitions the selection single-link style: any two
// entries within the radius (directly or through intermediates) share a
// cluster. Ids are relabeled in rank order of first occurrence.
func clusterByProximity(ranked []ScoredPlace, radiusM float64) []int {
	parent := make([]int, len(ranked))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}

	for i := 0; i < len(ranked); i++ {
		for j := i + 1; j < len(ranked); j++ {
			if HaversineMeters(ranked[i].Place.Location, ranked[j].Place.Location) <= radiusM {
				parent[find(j)] = find(i)
			}
		}
	}

	ids := make([]int, len(ranked))
	label := make(map[int]int, len(ranked))
	for i := range ranked {
		root := find(i)
		id, ok := label[root]
		if !ok {
			id = len(label)
			label[root] = id
		}
		ids[i] = id
	}
	return ids
}

const earthRadiusM = 6371000.0

// HaversineMeters returns the great-circle distance between two coordinates.
func HaversineMeters(a, b Coordinates) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusM * math.Asin(math.Sqrt(h))
}
