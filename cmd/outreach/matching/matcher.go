package matching

// Scoring policy thresholds
const (
	// diceThreshold is the minimum bigram similarity for a candidate to
	// be tracked at all
	diceThreshold = 0.5

	// abbrevFloor is the effective score an abbreviation-compatible
	// candidate is promoted to when its bigram score is weaker
	abbrevFloor = 0.75

	// abbrevPromoteBelow gates abbreviation promotion: it only applies
	// while the current best scores below this
	abbrevPromoteBelow = 0.8

	// certainThreshold separates the certain and uncertain confidence
	// tiers
	certainThreshold = 0.85
)

// Match is the best candidate found for one member
type Match struct {
	// Index into the candidate pool passed to BestMatch
	Index int

	// Effective score in [0, 1]
	Score float64

	// Exact is set when the normalized names were string-identical
	Exact bool
}

// Certain reports whether the match lands in the certain confidence tier
func (m Match) Certain() bool {
	return m.Exact || m.Score >= certainThreshold
}

// Similarity returns the score as an integer percentage
func (m Match) Similarity() int {
	return int(m.Score*100 + 0.5)
}

// challenger is one candidate being folded into the running best
type challenger struct {
	index  int
	dice   float64
	abbrev bool
}

// BestMatch scans a candidate pool for the single best match to a member
// name. Both memberName and every candidate must already be normalized
// with Normalize; the pool must already be restricted to the member's
// cohort and to alumni without an existing link.
//
// An exact normalized match short-circuits the scan. Otherwise the pool
// is folded through the selection policy; the second return is false when
// no candidate clears the policy at all.
func BestMatch(memberName string, candidates []string) (Match, bool) {
	var best *Match

	for i, candidate := range candidates {
		if candidate == memberName {
			// First exact match wins, no further comparison needed
			return Match{Index: i, Score: 1.0, Exact: true}, true
		}

		best = better(best, challenger{
			index:  i,
			dice:   DiceSimilarity(memberName, candidate),
			abbrev: AbbrevCompatible(memberName, candidate),
		})
	}

	if best == nil {
		return Match{}, false
	}
	return *best, true
}

// better folds one challenger into the current best under the selection
// policy:
//
//  1. a challenger with bigram similarity above the threshold takes the
//     lead when it beats the current best's score;
//  2. an abbreviation-compatible challenger is promoted to an effective
//     score of max(dice, 0.75), but only while nothing scoring 0.8 or
//     better holds the lead.
func better(best *Match, ch challenger) *Match {
	if ch.dice >= diceThreshold && (best == nil || ch.dice > best.Score) {
		best = &Match{Index: ch.index, Score: ch.dice}
	}

	if ch.abbrev && (best == nil || best.Score < abbrevPromoteBelow) {
		score := ch.dice
		if score < abbrevFloor {
			score = abbrevFloor
		}
		best = &Match{Index: ch.index, Score: score}
	}

	return best
}
