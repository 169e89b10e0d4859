package validators

import "strings"

// SanitizeString trims surrounding whitespace and caps the length. Truncation
// counts runes, not bytes, so Arabic product and business names survive intact.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen <= 0 {
		return trimmed
	}
	runes := []rune(trimmed)
	if len(runes) <= maxLen {
		return trimmed
	}
	return string(runes[:maxLen])
}
