package domain

import "fmt"

// FatalError aborts the whole run. Only the search-collaborator boundary
// (geocoding, nearby search) raises it: those calls precede normalization, so
// there is no per-record state to fall back on.
type FatalError struct {
	Op  string
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("pipeline: %s: %v", e.Op, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

// Fatal wraps err as a FatalError for the given pipeline operation.
func Fatal(op string, err error) error {
	return &FatalError{Op: op, Err: err}
}

// Stage names the pipeline stage a per-record failure belongs to.
type Stage string

const (
	StageExtract Stage = "extract"
	StageNarrate Stage = "narrate"
)

// RecordFailure is a recovered per-record error. Extraction failures drop the
// record; narration failures keep it with a templated fallback narrative.
type RecordFailure struct {
	PlaceID   string `json:"place_id"`
	PlaceName string `json:"place_name"`
	Stage     Stage  `json:"stage"`
	Reason    string `json:"reason"`
}

// Warning records a field coerced or dropped during normalization. Warnings
// never abort anything; they exist so the caller can explain every gap
// between input size and output size.
type Warning struct {
	PlaceID string `json:"place_id,omitempty"`
	Field   string `json:"field"`
	Detail  string `json:"detail"`
}

// Diagnostics aggregates every non-fatal issue encountered during a run. It
// is returned alongside the itinerary, never instead of it.
type Diagnostics struct {
	Warnings []Warning       `json:"warnings,omitempty"`
	Failures []RecordFailure `json:"failures,omitempty"`
}

// Empty reports whether the run completed without a single recovered issue.
func (d Diagnostics) Empty() bool {
	return len(d.Warnings) == 0 && len(d.Failures) == 0
}
