package search

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/angelmondragon/pricepal-backend/pkg/textnorm"
)

// TextAnalyzer is the tokenizer behind query normalization and list parsing.
type TextAnalyzer interface {
	TokenizeAndFilter(text string) []string
	ExtractNumbers(text string) []float64
	ExtractNounPhrases(text string) []string
}

var (
	numberPattern  = regexp.MustCompile(`\d+(?:,\d{3})*(?:\.\d+)?`)
	segmentPattern = regexp.MustCompile(`[,;\n\r&+/]|\b(?:and|or|plus|then|also)\b`)
)

var queryStopWords = wordSet(
	"i", "me", "my", "we", "you", "it", "want", "wanna", "need", "looking", "look", "for",
	"the", "show", "find", "please", "a", "an", "and", "or", "get", "buy", "some", "of",
	"to", "with", "in", "at", "is", "are", "can", "could", "would", "like", "any", "that",
	"this", "these", "those", "under", "below", "less", "than", "cheaper", "most", "no",
	"more", "not", "max", "maximum", "price", "priced", "cost", "costing", "naira", "ngn",
	"dollars", "dollar", "usd",
)

var listStopWords = union(queryStopWords, wordSet(
	"kg", "kilo", "kilos", "g", "gram", "grams", "l", "litre", "litres", "liter", "liters",
	"ml", "pack", "packs", "pcs", "piece", "pieces", "bag", "bags", "x",
))

// Analyzer is the regex and stop-word TextAnalyzer.
type Analyzer struct {
	stopWords     map[string]struct{}
	listStopWords map[string]struct{}
}

// NewAnalyzer returns an analyzer with the built-in stop-word tables.
func NewAnalyzer() *Analyzer {
	return &Analyzer{stopWords: queryStopWords, listStopWords: listStopWords}
}

// Fold lower-cases and strips diacritics so "Jollof" and "jollóf" compare equal.
func Fold(text string) string {
	return textnorm.Fold(text)
}

// Tokenize splits folded text into alphanumeric tokens without filtering.
func Tokenize(text string) []string {
	return textnorm.Tokenize(text)
}

// TokenizeAndFilter drops stop words and bare numbers.
func (a *Analyzer) TokenizeAndFilter(text string) []string {
	tokens := Tokenize(text)
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, stop := a.stopWords[token]; stop {
			continue
		}
		if isNumeric(token) {
			continue
		}
		out = append(out, token)
	}
	return out
}

// ExtractNumbers returns every numeric literal in order; thousands separators are ignored.
func (a *Analyzer) ExtractNumbers(text string) []float64 {
	matches := numberPattern.FindAllString(text, -1)
	out := make([]float64, 0, len(matches))
	for _, match := range matches {
		value, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
		if err != nil {
			continue
		}
		out = append(out, value)
	}
	return out
}

// ExtractNounPhrases splits a list on separators and conjunctions, keeping each
// segment's content words together as one phrase.
func (a *Analyzer) ExtractNounPhrases(text string) []string {
	segments := segmentPattern.Split(Fold(text), -1)
	seen := map[string]struct{}{}
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		words := make([]string, 0, 4)
		for _, token := range textnorm.TokenizeFolded(segment) {
			if _, stop := a.listStopWords[token]; stop {
				continue
			}
			if startsWithDigit(token) {
				continue
			}
			words = append(words, token)
		}
		if len(words) == 0 {
			continue
		}
		phrase := strings.Join(words, " ")
		if _, dup := seen[phrase]; dup {
			continue
		}
		seen[phrase] = struct{}{}
		out = append(out, phrase)
	}
	return out
}

func isNumeric(token string) bool {
	for _, r := range token {
		if r < '0' || r > '9' {
			return false
		}
	}
	return token != ""
}

func startsWithDigit(token string) bool {
	return token != "" && token[0] >= '0' && token[0] <= '9'
}

func wordSet(words ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		out[w] = struct{}{}
	}
	return out
}

func union(sets ...map[string]struct{}) map[string]struct{} {
	out := map[string]struct{}{}
	for _, set := range sets {
		for w := range set {
			out[w] = struct{}{}
		}
	}
	return out
}
