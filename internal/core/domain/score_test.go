package domain

import (
	"reflect"
	"testing"
)

func TestTokenizeQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "lower-cases and strips punctuation",
			query: "Quiet, BOOKSTORE!",
			want:  []string{"quiet", "bookstore"},
		},
		{
			name:  "deduplicates preserving order",
			query: "cozy cozy cafe",
			want:  []string{"cozy", "cafe"},
		},
		{
			name:  "empty query",
			query: "   ",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TokenizeQuery(tt.query)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreVibe(t *testing.T) {
	place := Place{ID: "p1", Name: "The Back Room", Rating: 4.8, ReviewCount: 87}

	tests := []struct {
		name        string
		profile     VibeProfile
		query       string
		wantScore   float64
		wantMatched []string
	}{
		{
			name: "full match",
			profile: VibeProfile{
				Moods:    []string{"quiet", "cozy"},
				Features: []string{"used books", "hidden courtyard"},
			},
			query:       "quiet books",
			wantScore:   1.0,
			wantMatched: []string{"quiet", "books"},
		},
		{
			name: "partial match",
			profile: VibeProfile{
				Moods: []string{"bustling", "loud"},
			},
			query:       "quiet loud place",
			wantScore:   1.0 / 3.0,
			wantMatched: []string{"loud"},
		},
		{
			name: "near match tolerates inflection",
			profile: VibeProfile{
				Features: []string{"bookstores"},
			},
			query:       "bookstore",
			wantScore:   1.0,
			wantMatched: []string{"bookstore"},
		},
		{
			name: "multi-word tags are split into tokens",
			profile: VibeProfile{
				Features: []string{"live jazz"},
			},
			query:       "jazz",
			wantScore:   1.0,
			wantMatched: []string{"jazz"},
		},
		{
			name:        "empty profile always scores zero",
			profile:     VibeProfile{},
			query:       "quiet bookstore",
			wantScore:   0,
			wantMatched: nil,
		},
		{
			name:        "empty query scores zero",
			profile:     VibeProfile{Moods: []string{"quiet"}},
			query:       "",
			wantScore:   0,
			wantMatched: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreVibe(place, tt.profile, tt.query)
			if got.Score != tt.wantScore {
				t.Fatalf("score: got %v, want %v", got.Score, tt.wantScore)
			}
			if !reflect.DeepEqual(got.Matched, tt.wantMatched) {
				t.Fatalf("matched: got %v, want %v", got.Matched, tt.wantMatched)
			}
			if got.Place.ID != place.ID {
				t.Fatalf("scored place lost its identity")
			}
		})
	}
}

// The scorer must be a pure function: identical inputs, identical outputs.
func TestScoreVibe_Deterministic(t *testing.T) {
	place := Place{ID: "p1", Rating: 4.6, ReviewCount: 12}
	profile := VibeProfile{
		Moods:    []string{"cozy", "warm"},
		Features: []string{"cash only", "hidden courtyard"},
	}

	first := ScoreVibe(place, profile, "cozy hidden cash-only gem")
	for i := 0; i < 10; i++ {
		again := ScoreVibe(place, profile, "cozy hidden cash-only gem")
		if again.Score != first.Score {
			t.Fatalf("score drifted between calls: %v vs %v", again.Score, first.Score)
		}
		if !reflect.DeepEqual(again.Matched, first.Matched) {
			t.Fatalf("matched terms drifted between calls: %v vs %v", again.Matched, first.Matched)
		}
	}
}

func TestCompareRank(t *testing.T) {
	tests := []struct {
		name string
		a, b ScoredPlace
		want bool
	}{
		{
			name: "higher score ranks first",
			a:    ScoredPlace{Score: 0.9},
			b:    ScoredPlace{Score: 0.5},
			want: true,
		},
		{
			name: "tie on score breaks on higher rating",
			a:    ScoredPlace{Score: 0.5, Place: Place{Rating: 4.9}},
			b:    ScoredPlace{Score: 0.5, Place: Place{Rating: 4.6}},
			want: true,
		},
		{
			name: "tie on score and rating rewards fewer reviews",
			a:    ScoredPlace{Score: 0.5, Place: Place{Rating: 4.8, ReviewCount: 12}},
			b:    ScoredPlace{Score: 0.5, Place: Place{Rating: 4.8, ReviewCount: 340}},
			want: true,
		},
		{
			name: "full tie is not strictly before",
			a:    ScoredPlace{Score: 0.5, Place: Place{Rating: 4.8, ReviewCount: 12}},
			b:    ScoredPlace{Score: 0.5, Place: Place{Rating: 4.8, ReviewCount: 12}},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompareRank(tt.a, tt.b); got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}
