// Package services wires the pipeline stages together: normalization, the
// inverse filter, vibe extraction, scoring, selection and narration run as a
// strictly staged, single-pass flow over immutable per-record state.
package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fernweh-labs/unseen/internal/core/domain"
	"github.com/fernweh-labs/unseen/internal/core/ports"
	"github.com/fernweh-labs/unseen/internal/worker"
)

// Config carries the recognized pipeline options. Zero values fall back to
// the documented defaults.
type Config struct {
	MinRating        float64       // inverse filter, inclusive (default 4.5)
	MaxReviewCount   int           // inverse filter, exclusive (default 500)
	ItineraryMin     int           // default 3
	ItineraryMax     int           // default 5
	SearchRadiusM    int           // nearby-search radius (default 3000)
	ProximityRadiusM float64       // cluster radius (default 1500)
	Concurrency      int           // per-record fan-out bound (default 4)
	CallTimeout      time.Duration // per external call (default 30s)
	Tone             string        // requested narrative tone
}

func (c Config) withDefaults() Config {
	if c.MinRating <= 0 {
		c.MinRating = 4.5
	}
	if c.MaxReviewCount <= 0 {
		c.MaxReviewCount = 500
	}
	if c.ItineraryMin <= 0 {
		c.ItineraryMin = 3
	}
	if c.ItineraryMax <= 0 {
		c.ItineraryMax = 5
	}
	if c.SearchRadiusM <= 0 {
		c.SearchRadiusM = 3000
	}
	if c.ProximityRadiusM <= 0 {
		c.ProximityRadiusM = 1500
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 4
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = 30 * time.Second
	}
	return c
}

// ValidationError rejects a request before any collaborator is called.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("service: %s is required", e.Field)
}

// DiscoverRequest is one pipeline invocation. Pointer fields override the
// orchestrator's base config for this run only.
type DiscoverRequest struct {
	City             string
	Vibe             string
	MinRating        *float64
	MaxReviewCount   *int
	SearchRadiusM    *int
	ProximityRadiusM *float64
}

// Result is what every non-fatal run returns: the itinerary (possibly empty
// or smaller than requested) plus the diagnostics explaining every gap.
type Result struct {
	RunID       string             `json:"run_id"`
	Itinerary   domain.Itinerary   `json:"itinerary"`
	Diagnostics domain.Diagnostics `json:"diagnostics"`
}

// Orchestrator sequences the pipeline over the injected collaborators.
type Orchestrator struct {
	places    ports.PlaceProvider
	extractor ports.VibeExtractor
	synth     *Synthesizer
	store     ports.SnapshotStore // optional, may be nil
	cfg       Config
	pool      *worker.Pool
}

// NewOrchestrator constructs an Orchestrator. store may be nil, in which
// case runs are not recorded and replay is unavailable.
func NewOrchestrator(places ports.PlaceProvider, extractor ports.VibeExtractor, narrator ports.Narrator, store ports.SnapshotStore, cfg Config) *Orchestrator {
	cfg = cfg.withDefaults()
	return &Orchestrator{
		places:    places,
		extractor: extractor,
		synth:     NewSynthesizer(narrator, cfg.Tone),
		store:     store,
		cfg:       cfg,
		pool:      worker.NewPool(cfg.Concurrency),
	}
}

// Discover runs the full pipeline for one request and records a replayable
// snapshot of the run's inputs when a store is configured.
func (o *Orchestrator) Discover(ctx context.Context, req DiscoverRequest) (Result, error) {
	if strings.TrimSpace(req.City) == "" {
		return Result{}, &ValidationError{Field: "city"}
	}
	if strings.TrimSpace(req.Vibe) == "" {
		return Result{}, &ValidationError{Field: "vibe query"}
	}

	src := source{places: o.places, extractor: o.extractor}
	return o.run(ctx, uuid.NewString(), req.City, req.Vibe, o.cfg.apply(req), src, true)
}

// Replay re-runs the pipeline from a stored snapshot. The search and
// extraction collaborators are replaced by the snapshot and the recorded
// tuning is restored, so an unchanged snapshot reproduces the identical
// selection ordering even when the original run carried overrides.
func (o *Orchestrator) Replay(ctx context.Context, runID string) (Result, error) {
	if o.store == nil {
		return Result{}, ports.ErrRunNotFound
	}
	snap, err := o.store.LoadRun(ctx, runID)
	if err != nil {
		return Result{}, err
	}

	replay := snapshotSource{snap: snap}
	src := source{places: replay, extractor: replay}
	return o.run(ctx, snap.RunID, snap.City, snap.Vibe, o.cfg.applyRecorded(snap.Config), src, false)
}

// source bundles the two per-run collaborators so live and replayed runs
// share one code path.
type source struct {
	places    ports.PlaceProvider
	extractor ports.VibeExtractor
}

type extractResult struct {
	place   domain.Place
	profile domain.VibeProfile
	reviews *ports.PlaceReviews
	failure *domain.RecordFailure
}

func (o *Orchestrator) run(ctx context.Context, runID, city, vibe string, cfg Config, src source, record bool) (Result, error) {
	// Search boundary: failures here are fatal for the whole run, there is
	// no per-record state to fall back on yet.
	center, err := o.geocode(ctx, src, city, cfg)
	if err != nil {
		return Result{}, domain.Fatal("geocode", err)
	}

	raw, err := o.search(ctx, src, center, vibe, cfg)
	if err != nil {
		return Result{}, domain.Fatal("search", err)
	}

	var diags domain.Diagnostics
	places, warnings := Normalize(raw)
	diags.Warnings = warnings

	kept := domain.InverseFilter(places, domain.FilterConfig{
		MinRating:      cfg.MinRating,
		MaxReviewCount: cfg.MaxReviewCount,
	})

	// Per-record enrichment and extraction. Records are independent, so
	// failures drop one record and siblings continue.
	results := make([]extractResult, len(kept))
	if err := o.pool.Run(ctx, len(kept), func(ctx context.Context, i int) {
		results[i] = o.extractOne(ctx, src, kept[i], cfg)
	}); err != nil {
		return Result{}, err
	}

	scored := make([]domain.ScoredPlace, 0, len(results))
	reviews := make(map[string]ports.PlaceReviews)
	profiles := make(map[string]domain.VibeProfile)
	for _, res := range results {
		if res.reviews != nil {
			reviews[res.place.ID] = *res.reviews
		}
		if res.failure != nil {
			diags.Failures = append(diags.Failures, *res.failure)
			continue
		}
		profiles[res.place.ID] = res.profile
		scored = append(scored, domain.ScoreVibe(res.place, res.profile, vibe))
	}

	sel := domain.SelectItinerary(scored, domain.SelectionPolicy{
		MinSize:          cfg.ItineraryMin,
		MaxSize:          cfg.ItineraryMax,
		ProximityRadiusM: cfg.ProximityRadiusM,
	})

	// Narration fan-out. Entries are written by rank index, so the final
	// ordering is the selector's regardless of completion order.
	entries := make([]domain.ItineraryEntry, len(sel.Ranked))
	narrationFailures := make([]*domain.RecordFailure, len(sel.Ranked))
	if err := o.pool.Run(ctx, len(sel.Ranked), func(ctx context.Context, i int) {
		callCtx, cancel := context.WithTimeout(ctx, cfg.CallTimeout)
		defer cancel()
		entries[i], narrationFailures[i] = o.synth.Entry(callCtx, sel.Ranked[i], sel.ClusterIDs[i], vibe)
	}); err != nil {
		return Result{}, err
	}
	for _, f := range narrationFailures {
		if f != nil {
			diags.Failures = append(diags.Failures, *f)
		}
	}

	itinerary := domain.Itinerary{Entries: entries}
	if len(entries) > 0 {
		callCtx, cancel := context.WithTimeout(ctx, cfg.CallTimeout)
		itinerary.Title = o.synth.Title(callCtx, city, vibe, entries)
		cancel()
	}

	if record && o.store != nil {
		snap := ports.RunSnapshot{
			RunID:     runID,
			CreatedAt: time.Now().UTC(),
			City:      city,
			Vibe:      vibe,
			Center:    center,
			Config: ports.RunConfig{
				MinRating:        cfg.MinRating,
				MaxReviewCount:   cfg.MaxReviewCount,
				SearchRadiusM:    cfg.SearchRadiusM,
				ProximityRadiusM: cfg.ProximityRadiusM,
			},
			Raw:      raw,
			Reviews:  reviews,
			Profiles: profiles,
		}
		if err := o.store.SaveRun(ctx, snap); err != nil {
			log.Printf("WARN service: failed to record run %s: %v", runID, err)
		}
	}

	return Result{RunID: runID, Itinerary: itinerary, Diagnostics: diags}, nil
}

func (o *Orchestrator) geocode(ctx context.Context, src source, city string, cfg Config) (domain.Coordinates, error) {
	callCtx, cancel := context.WithTimeout(ctx, cfg.CallTimeout)
	defer cancel()
	return src.places.Geocode(callCtx, city)
}

func (o *Orchestrator) search(ctx context.Context, src source, center domain.Coordinates, vibe string, cfg Config) ([]ports.RawPlace, error) {
	callCtx, cancel := context.WithTimeout(ctx, cfg.CallTimeout)
	defer cancel()
	return src.places.SearchNearby(callCtx, ports.NearbySearch{
		Center:  center,
		RadiusM: cfg.SearchRadiusM,
		Keyword: vibe,
	})
}

// extractOne fetches reviews for one surviving record (if the search result
// did not carry them) and runs vibe extraction. A record without snippets is
// valid: it gets an empty profile without an external call.
func (o *Orchestrator) extractOne(ctx context.Context, src source, place domain.Place, cfg Config) extractResult {
	out := extractResult{place: place}

	if len(place.Snippets) == 0 {
		callCtx, cancel := context.WithTimeout(ctx, cfg.CallTimeout)
		rv, err := src.places.FetchReviews(callCtx, place.ID)
		cancel()
		if err != nil {
			out.failure = extractionFailure(place, fmt.Sprintf("fetch reviews: %v", err))
			return out
		}
		out.reviews = &rv
		out.place = place.WithReviews(rv.Snippets, rv.MapsURL)
	}

	if len(out.place.Snippets) == 0 {
		return out
	}

	callCtx, cancel := context.WithTimeout(ctx, cfg.CallTimeout)
	profile, err := src.extractor.ExtractVibe(callCtx, out.place)
	cancel()
	if err != nil {
		out.failure = extractionFailure(place, err.Error())
		return out
	}

	out.profile = profile
	return out
}

func extractionFailure(place domain.Place, reason string) *domain.RecordFailure {
	return &domain.RecordFailure{
		PlaceID:   place.ID,
		PlaceName: place.Name,
		Stage:     domain.StageExtract,
		Reason:    reason,
	}
}

// applyRecorded restores the tuning a recorded run was made with. Zero
// values (snapshots predating the field) keep the base config.
func (c Config) applyRecorded(rc ports.RunConfig) Config {
	if rc.MinRating > 0 {
		c.MinRating = rc.MinRating
	}
	if rc.MaxReviewCount > 0 {
		c.MaxReviewCount = rc.MaxReviewCount
	}
	if rc.SearchRadiusM > 0 {
		c.SearchRadiusM = rc.SearchRadiusM
	}
	if rc.ProximityRadiusM > 0 {
		c.ProximityRadiusM = rc.ProximityRadiusM
	}
	return c
}

func (c Config) apply(req DiscoverRequest) Config {
	if req.MinRating != nil {
		c.MinRating = *req.MinRating
	}
	if req.MaxReviewCount != nil {
		c.MaxReviewCount = *req.MaxReviewCount
	}
	if req.SearchRadiusM != nil {
		c.SearchRadiusM = *req.SearchRadiusM
	}
	if req.ProximityRadiusM != nil {
		c.ProximityRadiusM = *req.ProximityRadiusM
	}
	return c
}
