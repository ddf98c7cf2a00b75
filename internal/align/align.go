// Package align matches recognized speech tokens against a target sentence.
//
// The canonical strategy is a strict sequential cursor: recognized tokens are
// consumed in transcript order and compared against one target position at a
// time. A wrong word never advances the cursor; only an exact match or an
// explicit skip resolves a position. Alignment is a pure function of its
// inputs, so re-running it on a revised transcript snapshot is always safe.
package align

// TargetStatus describes one target word after an alignment pass.
type TargetStatus int

const (
	// TargetPending means the word has not been reached yet.
	TargetPending TargetStatus = iota
	// TargetCurrent means the word is the next one to pronounce.
	TargetCurrent
	// TargetMatched means a recognized token matched the word exactly.
	TargetMatched
	// TargetSkipped means the word was passed over without a correct
	// pronunciation (it is in the skip set).
	TargetSkipped
)

// TokenStatus classifies one recognized token.
type TokenStatus int

const (
	// TokenMatch means the token matched the target word at its position.
	TokenMatch TokenStatus = iota
	// TokenMismatch means the token was compared against a target word and
	// did not match it.
	TokenMismatch
	// TokenExtra means the token arrived after every target was resolved.
	TokenExtra
)

// Token records how one recognized token was classified.
type Token struct {
	// TargetIndex is the target position the token was compared against,
	// or -1 for extra tokens.
	TargetIndex int
	Status      TokenStatus
	// Closeness is a Jaro-Winkler similarity hint for mismatches, in [0, 1].
	// It never influences the cursor; it only feeds presentation.
	Closeness float64
}

// Result is the outcome of one alignment pass.
type Result struct {
	Targets []TargetStatus
	Tokens  []Token
	// FurthestMatch is the highest resolved target index, or -1.
	FurthestMatch int
}

// Matched counts targets with status TargetMatched.
func (r Result) Matched() int {
	n := 0
	for _, s := range r.Targets {
		if s == TargetMatched {
			n++
		}
	}
	return n
}

// Strategy computes an alignment of recognized tokens against target words.
// Implementations must be pure: identical inputs yield identical results.
type Strategy interface {
	Align(targets, recognized []string, skipped map[int]struct{}) Result
}

// Sequential is the strict left-to-right cursor strategy.
type Sequential struct{}

// Align runs a single pass over recognized tokens. O(len(targets)+len(recognized)).
func (Sequential) Align(targets, recognized []string, skipped map[int]struct{}) Result {
	n := len(targets)
	matched := make([]bool, n)
	tokens := make([]Token, 0, len(recognized))
	furthest := -1
	c := 0

	for _, r := range recognized {
		for c < n && (matched[c] || contains(skipped, c)) {
			if c > furthest {
				furthest = c
			}
			c++
		}
		if c >= n {
			tokens = append(tokens, Token{TargetIndex: -1, Status: TokenExtra})
			continue
		}
		if r == targets[c] {
			matched[c] = true
			tokens = append(tokens, Token{TargetIndex: c, Status: TokenMatch})
			if c > furthest {
				furthest = c
			}
			c++
			continue
		}
		// Wrong word: the cursor stays on the same target so the next
		// attempt is compared against it again.
		tokens = append(tokens, Token{
			TargetIndex: c,
			Status:      TokenMismatch,
			Closeness:   Closeness(r, targets[c]),
		})
	}

	// Skips count as resolved even when no recognized token aligned there.
	for idx := range skipped {
		if idx >= 0 && idx < n && idx > furthest {
			furthest = idx
		}
	}

	statuses := make([]TargetStatus, n)
	for i := 0; i < n; i++ {
		switch {
		case matched[i]:
			statuses[i] = TargetMatched
		case i <= furthest:
			statuses[i] = TargetSkipped
		case i == furthest+1:
			statuses[i] = TargetCurrent
		default:
			statuses[i] = TargetPending
		}
	}

	return Result{Targets: statuses, Tokens: tokens, FurthestMatch: furthest}
}

func contains(set map[int]struct{}, idx int) bool {
	_, ok := set[idx]
	return ok
}
