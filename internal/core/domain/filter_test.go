package domain

import "testing"

func TestInverseFilter(t *testing.T) {
	places := []Place{
		{ID: "p1", Name: "Hidden Cafe", Rating: 4.8, ReviewCount: 42},
		{ID: "p2", Name: "Tourist Magnet", Rating: 4.9, ReviewCount: 12000},
		{ID: "p3", Name: "Exactly At Cap", Rating: 4.7, ReviewCount: 500},
		{ID: "p4", Name: "Exactly At Floor", Rating: 4.5, ReviewCount: 499},
		{ID: "p5", Name: "Low Rated", Rating: 4.4, ReviewCount: 10},
		{ID: "p6", Name: "No Reviews Yet", Rating: 5.0, ReviewCount: 0},
	}

	tests := []struct {
		name    string
		input   []Place
		cfg     FilterConfig
		wantIDs []string
	}{
		{
			name:    "defaults keep high-rating low-volume spots",
			input:   places,
			cfg:     DefaultFilterConfig(),
			wantIDs: []string{"p1", "p4", "p6"},
		},
		{
			name:    "rating bound is inclusive, review cap is exclusive",
			input:   []Place{places[2], places[3]},
			cfg:     DefaultFilterConfig(),
			wantIDs: []string{"p4"},
		},
		{
			name:    "empty input yields empty output",
			input:   nil,
			cfg:     DefaultFilterConfig(),
			wantIDs: []string{},
		},
		{
			name:    "nothing survives a strict config",
			input:   places,
			cfg:     FilterConfig{MinRating: 5.1, MaxReviewCount: 500},
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InverseFilter(tt.input, tt.cfg)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("kept %d places, want %d", len(got), len(tt.wantIDs))
			}
			for i, p := range got {
				if p.ID != tt.wantIDs[i] {
					t.Fatalf("position %d: got %q, want %q", i, p.ID, tt.wantIDs[i])
				}
			}
		})
	}
}

// Soundness and completeness: output is exactly the subset satisfying both
// predicates, in input order.
func TestInverseFilter_Predicate(t *testing.T) {
	cfg := DefaultFilterConfig()
	input := []Place{
		{ID: "a", Rating: 4.5, ReviewCount: 0},
		{ID: "b", Rating: 4.49, ReviewCount: 0},
		{ID: "c", Rating: 5.0, ReviewCount: 499},
		{ID: "d", Rating: 5.0, ReviewCount: 500},
		{ID: "e", Rating: 4.6, ReviewCount: 321},
	}

	got := InverseFilter(input, cfg)

	kept := make(map[string]bool, len(got))
	for _, p := range got {
		kept[p.ID] = true
		if p.Rating < cfg.MinRating || p.ReviewCount >= cfg.MaxReviewCount {
			t.Fatalf("place %s violates the predicate", p.ID)
		}
	}
	for _, p := range input {
		satisfies := p.Rating >= cfg.MinRating && p.ReviewCount < cfg.MaxReviewCount
		if satisfies && !kept[p.ID] {
			t.Fatalf("place %s satisfies the predicate but was excluded", p.ID)
		}
	}
}
