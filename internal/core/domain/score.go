package domain

import (
	"strings"
	"unicode"
)

// termMatchThreshold is the minimum similarity for a query term to count as
// matching a profile token when the two are not byte-equal. 0.80 tolerates
// inflection ("bookstore" vs "bookstores") without matching unrelated words.
const termMatchThreshold = 0.80

// ScoredPlace pairs a place and its vibe profile with the match score against
// the user's query, plus the query terms that matched (for explainability).
type ScoredPlace struct {
	Place   Place       `json:"place"`
	Profile VibeProfile `json:"profile"`
	Score   float64     `json:"score"`
	Matched []string    `json:"matched_terms,omitempty"`
}

// TokenizeQuery normalizes a free-form vibe query into query terms:
// lower-case, punctuation stripped, split on whitespace, deduplicated in
// first-seen order.
func TokenizeQuery(query string) []string {
	fields := strings.Fields(cleanSeparators(strings.ToLower(query)))
	seen := make(map[string]struct{}, len(fields))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		terms = append(terms, f)
	}
	return terms
}

// ScoreVibe computes the match score between a place's profile and the vibe
// query: the proportion of query terms with an exact or near match against
// the union of mood descriptors and unique features, equally weighted.
// The result is in [0,1]. It is a pure function of its inputs — identical
// calls always return identical scores and matched-term lists. An empty
// profile scores 0 for any non-empty query.
func ScoreVibe(place Place, profile VibeProfile, query string) ScoredPlace {
	scored := ScoredPlace{Place: place, Profile: profile}

	terms := TokenizeQuery(query)
	if len(terms) == 0 || profile.Empty() {
		return scored
	}

	tokens := profileTokens(profile)
	for _, term := range terms {
		if matchesAny(term, tokens) {
			scored.Matched = append(scored.Matched, term)
		}
	}
	scored.Score = float64(len(scored.Matched)) / float64(len(terms))
	return scored
}

// CompareRank orders scored places for ranking: higher score first, ties
// broken by higher rating, then lower review count (more unseen wins).
// It returns true when a ranks strictly before b; equal-rank pairs fall back
// to stable input order at the sort site.
func CompareRank(a, b ScoredPlace) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Place.Rating != b.Place.Rating {
		return a.Place.Rating > b.Place.Rating
	}
	return a.Place.ReviewCount < b.Place.ReviewCount
}

// profileTokens splits multi-word tags ("live jazz", "hidden courtyard")
// into individual tokens so single query terms can hit them.
func profileTokens(profile VibeProfile) []string {
	var tokens []string
	seen := make(map[string]struct{})
	for _, tag := range profile.Tags() {
		for _, tok := range strings.Fields(cleanSeparators(strings.ToLower(tag))) {
			if _, dup := seen[tok]; dup {
				continue
			}
			seen[tok] = struct{}{}
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

func matchesAny(term string, tokens []string) bool {
	for _, tok := range tokens {
		if term == tok {
			return true
		}
		if similarity(term, tok) >= termMatchThreshold {
			return true
		}
	}
	return false
}

func cleanSeparators(input string) string {
	var out strings.Builder
	lastSpace := false
	for _, r := range input {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			out.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			out.WriteRune(' ')
			lastSpace = true
		}
	}
	return out.String()
}

func similarity(a string, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 1.0
	}

	distance := levenshteinDistance(a, b)
	return 1.0 - float64(distance)/float64(maxLen)
}

func levenshteinDistance(a string, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 0
			if ra[i-1] != rb[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,
				curr[j-1]+1,
				prev[j-1]+cost,
			)
		}
		copy(prev, curr)
	}

	return prev[len(rb)]
}
