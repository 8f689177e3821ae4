package answer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldReplacer handles letters that do not decompose into a base letter
// plus a combining mark.
var foldReplacer = strings.NewReplacer(
	"ß", "ss",
	"ẞ", "ss",
	"æ", "ae",
	"Æ", "ae",
	"œ", "oe",
	"Œ", "oe",
	"ø", "o",
	"Ø", "o",
	"ł", "l",
	"Ł", "l",
)

// Normalize reduces an answer to its comparable form.
//
// Normalization rules:
// - Unicode is decomposed (NFD) and combining marks are dropped ("Löwe" → "lowe")
// - Comparison is case-insensitive
// - Anything outside [a-z0-9 -] is removed
// - Runs of whitespace collapse to a single space, leading/trailing space is trimmed
func Normalize(s string) string {
	s = foldReplacer.Replace(s)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	stripped = strings.ToLower(stripped)

	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range stripped {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Contains reports whether the normalized needle occurs inside the
// normalized haystack. An empty needle never matches.
func Contains(haystack, needle string) bool {
	n := Normalize(needle)
	if n == "" {
		return false
	}
	return strings.Contains(Normalize(haystack), n)
}
