package normalize

import (
	"strings"
	"unicode/utf8"
)

const ellipsis = "..."

// NormalizePath strips leading path separators so report paths are
// repo-relative regardless of how the scanner resolved them. Idempotent.
func NormalizePath(p string) string {
	return strings.TrimLeft(p, "/\\")
}

// Truncate shortens s to at most maxLen bytes, ending in "..." when
// anything was cut. Cut points back off to a rune boundary so
// multi-byte text never yields invalid UTF-8. For maxLen below the
// ellipsis width the string is hard-cut instead.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen < len(ellipsis) {
		return s[:runeCut(s, maxLen)]
	}
	return s[:runeCut(s, maxLen-len(ellipsis))] + ellipsis
}

// runeCut backs i off to the nearest rune start in s.
func runeCut(s string, i int) int {
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}
