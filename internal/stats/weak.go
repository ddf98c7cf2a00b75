package stats

import (
	"sort"

	"github.com/baldojulio/speech-pronunciation/internal/model"
)

// SelectWeakWords selects the lowest-accuracy words from aggregates. Skips
// count as failed attempts: a word the user keeps skipping is weak even if
// it was never mispronounced out loud.
func SelectWeakWords(aggs []model.WordAggregate, top int) map[string]struct{} {
	weakSet := map[string]struct{}{}
	if len(aggs) == 0 {
		return weakSet
	}
	candidates := make([]model.WordAggregate, len(aggs))
	copy(candidates, aggs)
	sort.Slice(candidates, func(i, j int) bool {
		ai := wordAccuracy(candidates[i])
		aj := wordAccuracy(candidates[j])
		if ai == aj {
			return candidates[i].Word < candidates[j].Word
		}
		return ai < aj
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	for i := 0; i < top; i++ {
		weakSet[candidates[i].Word] = struct{}{}
	}
	return weakSet
}

func wordAccuracy(agg model.WordAggregate) float64 {
	total := agg.Attempts + agg.Skipped
	if total == 0 {
		return 1.0
	}
	correct := agg.Attempts - agg.Mismatches
	if correct < 0 {
		correct = 0
	}
	return float64(correct) / float64(total)
}
