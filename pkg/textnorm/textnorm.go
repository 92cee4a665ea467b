package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// Fold lower-cases and strips diacritics so "Jollof" and "jollóf" compare equal.
func Fold(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, text)
	if err != nil {
		folded = text
	}
	return cases.Fold().String(folded)
}

// Tokenize splits folded text into alphanumeric tokens.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(Fold(text), -1)
}

// TokenizeFolded splits text that has already been folded.
func TokenizeFolded(folded string) []string {
	return tokenPattern.FindAllString(folded, -1)
}

// SearchText renders text as space-led folded tokens, e.g. " creme brulee".
// A word-start lookup for prefix p is then a substring match on " "+p.
func SearchText(text string) string {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return ""
	}
	return " " + strings.Join(tokens, " ")
}
