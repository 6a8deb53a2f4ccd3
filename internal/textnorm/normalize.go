// Package textnorm holds the two text transforms used across the service:
// Normalize produces match keys, RepairForDisplay cleans text shown to users.
// The two never feed each other.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// punctuation kept in match keys.
const keptPunct = "-/&'().,"

// Normalize returns the match key for s: NFKC-folded, lowercased, accent
// marks and unlisted punctuation dropped, whitespace collapsed. It is only
// ever compared for equality, never displayed.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFKC.String(s)
	s = strings.ToLower(s)
	// Decompose so combining marks fall out of the filter below.
	s = norm.NFD.String(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsNumber(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		case strings.ContainsRune(keptPunct, r):
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(norm.NFC.String(b.String())), " ")
}
