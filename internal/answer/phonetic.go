package answer

import (
	"strings"
)

// Fingerprint returns the phonetic fingerprint of s using the Cologne
// phonetics ("Kölner Phonetik") encoding. The input is normalized first and
// every word is encoded separately; the encoded words are joined by a single
// space. Words containing digits are kept verbatim so that numbers only
// match themselves.
//
// An input without any encodable letters yields "".
func Fingerprint(s string) string {
	words := strings.FieldsFunc(Normalize(s), func(r rune) bool {
		return r == ' ' || r == '-'
	})

	codes := make([]string, 0, len(words))
	for _, w := range words {
		if strings.ContainsAny(w, "0123456789") {
			codes = append(codes, w)
			continue
		}
		if c := colognePhonetic(w); c != "" {
			codes = append(codes, c)
		}
	}
	return strings.Join(codes, " ")
}

// colognePhonetic encodes a single lowercase ASCII word.
func colognePhonetic(word string) string {
	raw := make([]byte, 0, len(word)+2)
	for i := 0; i < len(word); i++ {
		c := word[i]
		var prev, next byte
		if i > 0 {
			prev = word[i-1]
		}
		if i+1 < len(word) {
			next = word[i+1]
		}

		switch c {
		case 'a', 'e', 'i', 'j', 'o', 'u', 'y':
			raw = append(raw, '0')
		case 'h':
			// silent
		case 'b':
			raw = append(raw, '1')
		case 'p':
			if next == 'h' {
				raw = append(raw, '3')
			} else {
				raw = append(raw, '1')
			}
		case 'd', 't':
			if isOneOf(next, "csz") {
				raw = append(raw, '8')
			} else {
				raw = append(raw, '2')
			}
		case 'f', 'v', 'w':
			raw = append(raw, '3')
		case 'g', 'k', 'q':
			raw = append(raw, '4')
		case 'c':
			raw = append(raw, cologneC(i, prev, next))
		case 'x':
			if isOneOf(prev, "ckq") {
				raw = append(raw, '8')
			} else {
				raw = append(raw, '4', '8')
			}
		case 'l':
			raw = append(raw, '5')
		case 'm', 'n':
			raw = append(raw, '6')
		case 'r':
			raw = append(raw, '7')
		case 's', 'z':
			raw = append(raw, '8')
		}
	}

	if len(raw) == 0 {
		return ""
	}

	// Collapse repeated codes, then drop vowels except in leading position.
	out := make([]byte, 0, len(raw))
	for i, c := range raw {
		if i > 0 && raw[i-1] == c {
			continue
		}
		if c == '0' && len(out) > 0 {
			continue
		}
		out = append(out, c)
	}
	return string(out)
}

// cologneC encodes the letter C, whose class depends on its neighbours.
func cologneC(i int, prev, next byte) byte {
	if i == 0 {
		if isOneOf(next, "ahkloqrux") {
			return '4'
		}
		return '8'
	}
	if isOneOf(prev, "sz") {
		return '8'
	}
	if isOneOf(next, "ahkoqux") {
		return '4'
	}
	return '8'
}

func isOneOf(c byte, set string) bool {
	return c != 0 && strings.IndexByte(set, c) >= 0
}
