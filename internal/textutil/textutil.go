package textutil

import (
	"strings"
	"unicode/utf8"
)

// Blank reports whether a string is empty or whitespace-only.
func Blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Truncate shortens a string to at most maxLen bytes, appending "..."
// if truncated. The cut lands on a rune boundary so the result stays
// valid UTF-8.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
