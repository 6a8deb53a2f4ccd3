package textnorm

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Substrings that show up when UTF-8 bytes were decoded as Windows-1252.
var mojibakeMarkers = []string{"Ã", "Â", "â€"}

// Longest sequences first: the bare "â€" rule must run last.
var punctReplacer = strings.NewReplacer(
	"â€™", "’",
	"â€˜", "‘",
	"â€œ", "“",
	"â€\u009D", "”",
	"â€\u201c", "–",
	"â€\u201d", "—",
	"â€¦", "…",
	"â€", "”",
	"Â", "",
	"\ufeff", "",
)

var (
	replacementDash = regexp.MustCompile("\ufffd*([-–—])\ufffd*")
	spaceRun        = regexp.MustCompile(`[ \t]{2,}`)
)

// RepairForDisplay cleans text for rendering. It undoes the common
// UTF-8-read-as-Windows-1252 corruption where it can and strips leftover
// replacement characters. The result must not be used for matching.
func RepairForDisplay(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\u00a0", " ")

	if n := countMarkers(s); n > 0 {
		if fixed, ok := redecode(s); ok && countMarkers(fixed) < n {
			s = fixed
		}
	}

	s = punctReplacer.Replace(s)
	s = replacementDash.ReplaceAllString(s, "$1")
	s = strings.ReplaceAll(s, "\ufffd", "")
	s = spaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func countMarkers(s string) int {
	n := 0
	for _, m := range mojibakeMarkers {
		n += strings.Count(s, m)
	}
	return n
}

// redecode maps every rune back to the single byte it came from and reads
// the byte string as UTF-8. ok is false when the bytes are not valid UTF-8.
func redecode(s string) (string, bool) {
	buf := make([]byte, 0, len(s))
	for _, r := range s {
		if b, ok := charmap.Windows1252.EncodeRune(r); ok {
			buf = append(buf, b)
			continue
		}
		buf = append(buf, byte(r&0xFF))
	}
	if !utf8.Valid(buf) {
		return "", false
	}
	return string(buf), true
}
