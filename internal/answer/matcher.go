// Package answer decides whether a free-text answer matches an expected
// answer, tolerating case, accents, alternative spellings and close
// phonetic variants.
package answer

// IsCorrect compares the player's input against the expected answer and any
// alternative answers. Returns true on the first match.
//
// For each candidate the normalized forms are compared first; if they differ,
// the phonetic fingerprints are compared and equal non-empty fingerprints
// count as a match. Empty or whitespace-only input is never correct.
func IsCorrect(userAnswer, expected string, alternatives ...string) bool {
	input := Normalize(userAnswer)
	if input == "" {
		return false
	}

	inputPrint := ""
	computed := false
	matches := func(candidate string) bool {
		target := Normalize(candidate)
		if target == "" {
			return false
		}
		if input == target {
			return true
		}
		if !computed {
			inputPrint = Fingerprint(input)
			computed = true
		}
		if inputPrint == "" {
			return false
		}
		return inputPrint == Fingerprint(target)
	}

	if matches(expected) {
		return true
	}
	for _, alt := range alternatives {
		if matches(alt) {
			return true
		}
	}
	return false
}
