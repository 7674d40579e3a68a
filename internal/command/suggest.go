package command

import (
	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

var similarity = func() *metrics.SorensenDice {
	m := metrics.NewSorensenDice()
	m.CaseSensitive = false
	return m
}()

// BestMatch returns the candidate most similar to target.
// Ties resolve to the earliest candidate; no candidates yields "".
func BestMatch(target string, candidates []string) string {
	best := ""
	bestScore := -1.0
	for _, candidate := range candidates {
		score := strutil.Similarity(target, candidate, similarity)
		if score > bestScore {
			best = candidate
			bestScore = score
		}
	}
	return best
}
