package search

import "strings"

const (
	qualityExact  = 1.0
	qualityPrefix = 0.75
	qualityFuzzy  = 0.5
)

// FuzzyOptions bounds typo tolerance.
type FuzzyOptions struct {
	MaxEdits     int
	PrefixLength int
}

// matchQuality scores how well one query token matches one document token.
func matchQuality(term, token string, opts FuzzyOptions) float64 {
	if term == "" || token == "" {
		return 0
	}
	if term == token {
		return qualityExact
	}

	termRunes := []rune(term)
	tokenRunes := []rune(token)

	if len(termRunes) >= max(opts.PrefixLength, 1) && strings.HasPrefix(token, term) {
		return qualityPrefix
	}
	// plural and stem forms: "tomatoes" against "tomato"
	if len(tokenRunes) >= 3 && strings.HasPrefix(term, token) && len(termRunes)-len(tokenRunes) <= 2 {
		return qualityPrefix
	}

	if opts.MaxEdits <= 0 {
		return 0
	}
	if !sharesPrefix(termRunes, tokenRunes, opts.PrefixLength) {
		return 0
	}
	if levenshtein(termRunes, tokenRunes, opts.MaxEdits) <= opts.MaxEdits {
		return qualityFuzzy
	}
	return 0
}

func sharesPrefix(a, b []rune, n int) bool {
	if n <= 0 {
		return true
	}
	if len(a) < n || len(b) < n {
		return false
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// levenshtein returns the edit distance, or limit+1 once it is certain to exceed limit.
func levenshtein(a, b []rune, limit int) int {
	if diff := len(a) - len(b); diff > limit || -diff > limit {
		return limit + 1
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		rowMin := curr[0]
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
			if curr[j] < rowMin {
				rowMin = curr[j]
			}
		}
		if rowMin > limit {
			return limit + 1
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// fieldCoverage averages, over query tokens, the best match quality in the field's tokens.
func fieldCoverage(queryTokens, fieldTokens []string, opts FuzzyOptions) float64 {
	if len(queryTokens) == 0 || len(fieldTokens) == 0 {
		return 0
	}
	var sum float64
	for _, term := range queryTokens {
		best := 0.0
		for _, token := range fieldTokens {
			if q := matchQuality(term, token, opts); q > best {
				best = q
				if best == qualityExact {
					break
				}
			}
		}
		sum += best
	}
	return sum / float64(len(queryTokens))
}
