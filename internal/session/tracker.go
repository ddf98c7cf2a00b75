// Package session owns the state of one practice session: the target
// sentence, the skip set, the furthest-match cursor, and the cached
// recognition snapshot. All mutation happens from a single event stream
// (the TUI loop), so the tracker does no locking of its own.
package session

import (
	"errors"

	"github.com/baldojulio/speech-pronunciation/internal/align"
	"github.com/baldojulio/speech-pronunciation/internal/token"
)

// ErrNoWords is returned by SubmitText when the text tokenizes to nothing.
var ErrNoWords = errors.New("no valid words in text")

// Update is the outcome of one alignment pass, handed to the presentation
// layer without further interpretation.
type Update struct {
	Result  align.Result
	Matched int
	Total   int
	// FurthestMatch is the tracker's monotonic cursor. It can run ahead of
	// Result.FurthestMatch when a recognizer revision shrank the transcript.
	FurthestMatch int
	Completed     bool
	// JustCompleted is true only on the pass where Completed first became true.
	JustCompleted bool
}

// Tracker drives alignment across repeated recognition events.
type Tracker struct {
	tok      *token.Tokenizer
	strategy align.Strategy

	targets    []token.Word
	skipped    map[int]struct{}
	furthest   int
	lastTokens []string
	completed  bool
}

// NewTracker returns a Tracker with no target sentence yet.
func NewTracker(tok *token.Tokenizer, strategy align.Strategy) *Tracker {
	return &Tracker{
		tok:      tok,
		strategy: strategy,
		skipped:  map[int]struct{}{},
		furthest: -1,
	}
}

// SubmitText establishes a new target sentence and resets all session state.
// If text tokenizes to nothing the previous session is left untouched and
// ErrNoWords is returned.
func (t *Tracker) SubmitText(text string) error {
	words := t.tok.Words(text)
	if len(words) == 0 {
		return ErrNoWords
	}
	t.targets = words
	t.Reset()
	return nil
}

// Reset clears skip set, cursor, cache, and completion state but keeps the
// target sentence, so the same text can be attempted again.
func (t *Tracker) Reset() {
	t.skipped = map[int]struct{}{}
	t.furthest = -1
	t.lastTokens = nil
	t.completed = false
}

// RecordRecognition tokenizes a full-transcript snapshot, caches it, and
// realigns against the current skip set. A snapshot that tokenizes to nothing
// means the recognizer restarted its hypothesis, not that earlier words were
// unsaid, so the previous snapshot is kept and target statuses stay put.
func (t *Tracker) RecordRecognition(text string) Update {
	tokens := t.tok.Tokens(text)
	if len(tokens) > 0 || len(t.lastTokens) == 0 {
		t.lastTokens = tokens
	}
	return t.realign()
}

// SkipCurrent resolves the current target word without requiring a correct
// pronunciation and realigns immediately using the cached snapshot. It is a
// no-op when no target word is outstanding; the bool reports whether a skip
// was recorded.
func (t *Tracker) SkipCurrent() (Update, bool) {
	next := t.furthest + 1
	if next < 0 || next >= len(t.targets) {
		return Update{}, false
	}
	t.skipped[next] = struct{}{}
	return t.realign(), true
}

func (t *Tracker) realign() Update {
	normalized := make([]string, len(t.targets))
	for i, w := range t.targets {
		normalized[i] = w.Normalized
	}
	res := t.strategy.Align(normalized, t.lastTokens, t.skipped)
	if res.FurthestMatch > t.furthest {
		t.furthest = res.FurthestMatch
	}

	matched := res.Matched()
	total := len(t.targets)
	just := false
	if !t.completed && total > 0 && matched == total {
		t.completed = true
		just = true
	}
	return Update{
		Result:        res,
		Matched:       matched,
		Total:         total,
		FurthestMatch: t.furthest,
		Completed:     t.completed,
		JustCompleted: just,
	}
}

// Targets returns the current target sentence.
func (t *Tracker) Targets() []token.Word { return t.targets }

// Total returns the number of target words.
func (t *Tracker) Total() int { return len(t.targets) }

// FurthestMatch returns the monotonic cursor, or -1 when nothing is resolved.
func (t *Tracker) FurthestMatch() int { return t.furthest }

// SkippedCount returns how many target words were skipped.
func (t *Tracker) SkippedCount() int { return len(t.skipped) }
