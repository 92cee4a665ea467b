package search

import "testing"

func TestMatchQuality(t *testing.T) {
	opts := FuzzyOptions{MaxEdits: 1, PrefixLength: 2}
	cases := []struct {
		term, token string
		want        float64
	}{
		{"rice", "rice", qualityExact},
		{"ric", "rice", qualityPrefix},
		{"tomatoes", "tomato", qualityPrefix},
		{"rixe", "rice", qualityFuzzy},
		{"rcie", "rice", 0},
		{"bread", "beans", 0},
		{"r", "rice", 0},
	}
	for _, tc := range cases {
		if got := matchQuality(tc.term, tc.token, opts); got != tc.want {
			t.Errorf("matchQuality(%q, %q) = %v, want %v", tc.term, tc.token, got, tc.want)
		}
	}
}

func TestMatchQualityWithoutEdits(t *testing.T) {
	if got := matchQuality("rixe", "rice", FuzzyOptions{PrefixLength: 2}); got != 0 {
		t.Fatalf("expected no fuzzy match with zero edits, got %v", got)
	}
}

func TestLevenshteinBounded(t *testing.T) {
	if got := levenshtein([]rune("kitten"), []rune("sitting"), 5); got != 3 {
		t.Fatalf("expected distance 3, got %d", got)
	}
	if got := levenshtein([]rune("kitten"), []rune("sitting"), 1); got != 2 {
		t.Fatalf("expected limit+1 when bound exceeded, got %d", got)
	}
	if got := levenshtein([]rune("sugar"), []rune("sugr"), 1); got != 1 {
		t.Fatalf("expected distance 1, got %d", got)
	}
}

func TestFieldCoverageAveragesTokens(t *testing.T) {
	opts := FuzzyOptions{MaxEdits: 1, PrefixLength: 2}
	got := fieldCoverage([]string{"rice", "oil"}, []string{"long", "grain", "rice"}, opts)
	if got != 0.5 {
		t.Fatalf("expected 0.5, got %v", got)
	}
}
