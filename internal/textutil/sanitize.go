package textutil

import (
	"strings"
	"unicode"
)

// SanitizeStatusText replaces control and invisible formatting runes so
// document names and search queries cannot inject escape sequences into the
// status line.
func SanitizeStatusText(text string) string {
	clean := true
	for _, r := range text {
		if unsafeRune(r) {
			clean = false
			break
		}
	}
	if clean {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			b.WriteByte(' ')
		case unsafeRune(r):
			b.WriteByte('?')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func unsafeRune(r rune) bool {
	if r < 0x20 || r == 0x7f {
		return true
	}
	// Bidi overrides and zero-width marks can reorder or hide status text.
	if unicode.In(r, unicode.Cf) {
		return true
	}
	return false
}
