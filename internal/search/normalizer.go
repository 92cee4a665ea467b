package search

import (
	"regexp"
	"strings"

	pkgerrors "github.com/angelmondragon/pricepal-backend/pkg/errors"
)

var (
	voiceArtifactPattern = regexp.MustCompile(`(?i)\b(?:full stop|period|comma|question mark|exclamation (?:mark|point)|colon|semicolon|new line|dash|hyphen)\b`)
	whitespacePattern    = regexp.MustCompile(`\s+`)
	ceilingCuePattern    = regexp.MustCompile(`(?i)\b(?:under|below|less than|cheaper than|at most|no more than|not more than|max(?:imum)?)\b`)
)

// Query is a normalized search request.
type Query struct {
	Raw          string
	IsVoice      bool
	Normalized   string
	Terms        []string
	PriceCeiling *float64
}

// Normalizer turns free text into search terms and an optional price ceiling.
type Normalizer struct {
	analyzer TextAnalyzer
}

// NewNormalizer builds a normalizer; a nil analyzer uses the built-in one.
func NewNormalizer(analyzer TextAnalyzer) *Normalizer {
	if analyzer == nil {
		analyzer = NewAnalyzer()
	}
	return &Normalizer{analyzer: analyzer}
}

// Normalize cleans the input and extracts terms; an input with no searchable term is a validation error.
func (n *Normalizer) Normalize(raw string, isVoice bool) (*Query, error) {
	text := raw
	if isVoice {
		text = voiceArtifactPattern.ReplaceAllString(text, " ")
	}
	text = strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
	if text == "" {
		return nil, emptyQueryError()
	}

	q := &Query{
		Raw:        raw,
		IsVoice:    isVoice,
		Normalized: text,
		Terms:      dedupe(n.analyzer.TokenizeAndFilter(text)),
	}
	if len(q.Terms) == 0 {
		return nil, emptyQueryError()
	}

	if ceilingCuePattern.MatchString(text) {
		if numbers := n.analyzer.ExtractNumbers(text); len(numbers) > 0 {
			lowest := numbers[0]
			for _, v := range numbers[1:] {
				if v < lowest {
					lowest = v
				}
			}
			q.PriceCeiling = &lowest
		}
	}
	return q, nil
}

func emptyQueryError() error {
	return pkgerrors.New(pkgerrors.CodeValidation, "query must contain at least one searchable term")
}

func dedupe(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		if term == "" {
			continue
		}
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		out = append(out, term)
	}
	return out
}
