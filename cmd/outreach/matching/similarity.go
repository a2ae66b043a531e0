package matching

import (
	"strings"
)

// DiceSimilarity computes the Sorensen-Dice coefficient over the
// character-bigram sets of two normalized names. Returns 1.0 for equal
// strings, 0.0 when either side is shorter than two characters, otherwise
// 2*|A∩B| / (|A|+|B|) in [0, 1].
//
// Bigram sets are deduplicated: vocabulary overlap counts, repeated
// characters do not.
func DiceSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}

	bigramsA := bigramSet(a)
	bigramsB := bigramSet(b)
	if len(bigramsA) == 0 || len(bigramsB) == 0 {
		return 0.0
	}

	intersection := 0
	for bg := range bigramsA {
		if bigramsB[bg] {
			intersection++
		}
	}

	return 2.0 * float64(intersection) / float64(len(bigramsA)+len(bigramsB))
}

// bigramSet returns the set of overlapping 2-character substrings.
// Empty for strings shorter than two characters.
func bigramSet(s string) map[string]bool {
	runes := []rune(s)
	if len(runes) < 2 {
		return nil
	}

	set := make(map[string]bool, len(runes)-1)
	for i := 0; i < len(runes)-1; i++ {
		set[string(runes[i:i+2])] = true
	}
	return set
}

// AbbrevCompatible reports whether two normalized names are compatible
// under abbreviation expansion ("m. arief" vs "muhammad arief").
//
// Both names are split into words and walked with independent cursors:
// identical words match; a word of at most two characters whose
// period-stripped form is a prefix of the other side's word matches;
// otherwise only the alumni-side cursor advances. The walk therefore
// tolerates extra middle or maiden names on the alumni side but not on
// the member side.
//
// Compatible iff at least two words matched and the matches cover all but
// at most one word of the shorter name.
func AbbrevCompatible(member, alumni string) bool {
	mw := strings.Fields(member)
	aw := strings.Fields(alumni)
	if len(mw) == 0 || len(aw) == 0 {
		return false
	}

	matches := 0
	i, j := 0, 0
	for i < len(mw) && j < len(aw) {
		switch {
		case mw[i] == aw[j]:
			matches++
			i++
			j++
		case abbreviates(mw[i], aw[j]):
			matches++
			i++
			j++
		case abbreviates(aw[j], mw[i]):
			matches++
			i++
			j++
		default:
			// Skip an unmatched alumni word; member words are never skipped
			j++
		}
	}

	shorter := len(mw)
	if len(aw) < shorter {
		shorter = len(aw)
	}

	return matches >= 2 && matches >= shorter-1
}

// abbreviates reports whether short is an abbreviation of full: at most
// two characters as written, and a prefix of full once a trailing period
// is stripped. The length bound is on the word itself, so "st." is a
// three-character word, not an abbreviation.
func abbreviates(short, full string) bool {
	if len([]rune(short)) > 2 {
		return false
	}
	stripped := strings.TrimSuffix(short, ".")
	if stripped == "" {
		return false
	}
	return strings.HasPrefix(full, stripped)
}
