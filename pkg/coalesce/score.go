package coalesce

import "time"

// ExactMatchScore is the forced score of an identical-stem pair; no
// accumulation of prefix and recency terms can reach it.
const ExactMatchScore = 1 << 30

// Score rates how likely a delete of oldStem followed by a create of
// newStem elapsed time later is one logical rename. The score is
// 10 x (longest common literal prefix) + (1 - elapsedFraction), so
// name similarity dominates and recency only breaks ties. An exact stem
// match is forced to the maximum. Any positive score is enough to pair.
func Score(oldStem, newStem string, elapsed, window time.Duration) float64 {
	if oldStem == newStem {
		return ExactMatchScore
	}

	prefix := commonPrefixLen(oldStem, newStem)

	fraction := 0.0
	if window > 0 {
		fraction = float64(elapsed) / float64(window)
		if fraction < 0 {
			fraction = 0
		}
		if fraction > 1 {
			fraction = 1
		}
	}

	return 10*float64(prefix) + (1 - fraction)
}

func commonPrefixLen(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}
