package validators

import (
	"strings"
	"unicode/utf8"
)

// SanitizeString trims surrounding space and caps the result at maxLen runes,
// the same unit the max validation tag counts.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen <= 0 || utf8.RuneCountInString(trimmed) <= maxLen {
		return trimmed
	}
	return string([]rune(trimmed)[:maxLen])
}
