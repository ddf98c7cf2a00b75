package align

import "github.com/antzucaro/matchr"

// CloseThreshold is the Closeness score above which a mismatch is worth
// presenting as "almost right" rather than plain wrong.
const CloseThreshold = 0.84

// Closeness scores how near a mispronounced token is to the target word,
// using Jaro-Winkler similarity on the normalized forms.
func Closeness(token, target string) float64 {
	if token == "" || target == "" {
		return 0
	}
	return matchr.JaroWinkler(token, target, false)
}
