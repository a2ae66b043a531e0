package matching

import (
	"strings"
)

// Leading honorific tokens stripped during normalization. Closed set of
// common Indonesian academic/religious title abbreviations. "m." is
// deliberately absent: on this registry it is almost always an
// abbreviated Muhammad, which the abbreviation walk handles instead.
var leadingHonorifics = map[string]bool{
	"dr.":   true,
	"drg.":  true,
	"ir.":   true,
	"h.":    true,
	"hj.":   true,
	"kh.":   true,
	"prof.": true,
	"drs.":  true,
	"dra.":  true,
	"ust.":  true,
}

// Trailing academic-degree tokens stripped during normalization
var trailingDegrees = map[string]bool{
	"s.h.":   true,
	"s.e.":   true,
	"s.t.":   true,
	"s.pd.":  true,
	"s.kom.": true,
	"s.si.":  true,
	"s.ag.":  true,
	"m.m.":   true,
	"m.b.a.": true,
	"m.si.":  true,
	"m.pd.":  true,
	"m.kom.": true,
}

// Normalize canonicalizes a raw name for comparison: lowercase, trim,
// collapse whitespace runs, strip at most one leading honorific and at
// most one trailing degree token. Deterministic and total; never fails.
func Normalize(raw string) string {
	words := strings.Fields(strings.ToLower(raw))

	// Strip a single leading honorific, only when something follows it
	if len(words) >= 2 && leadingHonorifics[words[0]] {
		words = words[1:]
	}

	// Strip a single trailing degree token
	if len(words) >= 2 && trailingDegrees[words[len(words)-1]] {
		words = words[:len(words)-1]
		// Names like "budi santoso, s.h." leave a comma behind
		last := strings.TrimSuffix(words[len(words)-1], ",")
		words[len(words)-1] = last
	}

	return strings.Join(words, " ")
}
