package core

import "strings"

const MaxContentLen = 32_000 // MVP safeguard

// TrimContent prepares captured text for the history: surrounding whitespace
// is dropped and overly long content is cut at a rune boundary. Inner
// whitespace is kept so pasted code stays intact.
func TrimContent(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= MaxContentLen {
		return s
	}
	cut := MaxContentLen
	for cut > 0 && !utf8Start(s[cut]) {
		cut--
	}
	return s[:cut]
}

// Preview flattens s to a single line of at most max bytes for listings.
func Preview(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := max - 1
	for cut > 0 && !utf8Start(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}

func utf8Start(b byte) bool { return b&0xC0 != 0x80 }
