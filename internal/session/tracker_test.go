package session

import (
	"errors"
	"testing"

	"github.com/baldojulio/speech-pronunciation/internal/align"
	"github.com/baldojulio/speech-pronunciation/internal/token"
)

func newTestTracker(t *testing.T, text string) *Tracker {
	t.Helper()
	tr := NewTracker(token.New("en"), align.Sequential{})
	if text != "" {
		if err := tr.SubmitText(text); err != nil {
			t.Fatalf("SubmitText(%q): %v", text, err)
		}
	}
	return tr
}

func TestSubmitTextRejectsEmptyInput(t *testing.T) {
	tr := newTestTracker(t, "hello world")
	for _, in := range []string{"", "   ", "?! ..."} {
		if err := tr.SubmitText(in); !errors.Is(err, ErrNoWords) {
			t.Fatalf("SubmitText(%q) = %v, want ErrNoWords", in, err)
		}
	}
	// The previous session must be untouched.
	if tr.Total() != 2 {
		t.Fatalf("expected previous targets kept, total = %d", tr.Total())
	}
}

func TestRecordRecognitionMatchesProgressively(t *testing.T) {
	tr := newTestTracker(t, "the quick fox")

	update := tr.RecordRecognition("the")
	if update.Matched != 1 || update.FurthestMatch != 0 || update.Completed {
		t.Fatalf("after first word: %+v", update)
	}
	update = tr.RecordRecognition("the quick")
	if update.Matched != 2 || update.FurthestMatch != 1 {
		t.Fatalf("after second word: %+v", update)
	}
	update = tr.RecordRecognition("the quick fox")
	if update.Matched != 3 || !update.Completed || !update.JustCompleted {
		t.Fatalf("after full sentence: %+v", update)
	}
}

func TestCompletionSignalsExactlyOnce(t *testing.T) {
	tr := newTestTracker(t, "hello world")
	update := tr.RecordRecognition("hello world")
	if !update.JustCompleted || !update.Completed {
		t.Fatalf("expected completion on first full match: %+v", update)
	}
	update = tr.RecordRecognition("hello world")
	if update.JustCompleted {
		t.Fatalf("completion signalled twice")
	}
	if !update.Completed {
		t.Fatalf("completed flag must stay set")
	}
}

func TestCursorIsMonotonicAcrossRevisions(t *testing.T) {
	tr := newTestTracker(t, "one two three")
	update := tr.RecordRecognition("one two")
	if update.FurthestMatch != 1 {
		t.Fatalf("expected furthest 1, got %d", update.FurthestMatch)
	}
	// A recognizer revision shrinks the hypothesis; the cursor must not move back.
	update = tr.RecordRecognition("one")
	if update.FurthestMatch != 1 {
		t.Fatalf("cursor regressed to %d", update.FurthestMatch)
	}
	update = tr.RecordRecognition("")
	if update.FurthestMatch != 1 {
		t.Fatalf("cursor regressed to %d on empty snapshot", update.FurthestMatch)
	}
}

func TestEmptySnapshotKeepsTargetStatuses(t *testing.T) {
	tr := newTestTracker(t, "one two three")
	tr.RecordRecognition("one two")

	// The recognizer restarts with an empty hypothesis; matched markers must
	// survive, not just the cursor.
	update := tr.RecordRecognition("")
	if update.Result.Targets[0] != align.TargetMatched || update.Result.Targets[1] != align.TargetMatched {
		t.Fatalf("matched targets lost on empty snapshot: %v", update.Result.Targets)
	}
	if update.Result.Targets[2] != align.TargetCurrent {
		t.Fatalf("target 2 = %v, want current", update.Result.Targets[2])
	}
	if update.Matched != 2 {
		t.Fatalf("expected 2 matched, got %d", update.Matched)
	}
}

func TestSkipCurrentWithoutRecognition(t *testing.T) {
	tr := newTestTracker(t, "a b")
	update, ok := tr.SkipCurrent()
	if !ok {
		t.Fatalf("expected skip to be recorded")
	}
	if update.FurthestMatch != 0 {
		t.Fatalf("expected furthest 0, got %d", update.FurthestMatch)
	}
	if update.Result.Targets[0] != align.TargetSkipped {
		t.Fatalf("target 0 = %v, want skipped", update.Result.Targets[0])
	}
	if update.Result.Targets[1] != align.TargetCurrent {
		t.Fatalf("target 1 = %v, want current", update.Result.Targets[1])
	}
	if update.Completed {
		t.Fatalf("a skipped word must not count toward completion")
	}
}

func TestSkipCurrentReusesCachedSnapshot(t *testing.T) {
	tr := newTestTracker(t, "hello world again")
	tr.RecordRecognition("hello")
	update, ok := tr.SkipCurrent()
	if !ok {
		t.Fatalf("expected skip to be recorded")
	}
	// Cached "hello" still matches index 0; index 1 is skipped.
	if update.Matched != 1 || update.FurthestMatch != 1 {
		t.Fatalf("after skip: %+v", update)
	}
	if update.Result.Targets[2] != align.TargetCurrent {
		t.Fatalf("target 2 = %v, want current", update.Result.Targets[2])
	}
}

func TestSkipCurrentNoOpCases(t *testing.T) {
	// No target sentence at all.
	tr := NewTracker(token.New("en"), align.Sequential{})
	if _, ok := tr.SkipCurrent(); ok {
		t.Fatalf("skip with no targets must be a no-op")
	}

	// Cursor already at the last index.
	tr = newTestTracker(t, "one")
	tr.RecordRecognition("one")
	if _, ok := tr.SkipCurrent(); ok {
		t.Fatalf("skip past the last word must be a no-op")
	}
}

func TestResetKeepsTargets(t *testing.T) {
	tr := newTestTracker(t, "try again")
	tr.RecordRecognition("try again")
	if _, ok := tr.SkipCurrent(); ok {
		t.Fatalf("expected skip no-op after completion")
	}
	tr.Reset()
	if tr.Total() != 2 {
		t.Fatalf("targets lost on reset: total = %d", tr.Total())
	}
	if tr.FurthestMatch() != -1 || tr.SkippedCount() != 0 {
		t.Fatalf("state not cleared: furthest=%d skipped=%d", tr.FurthestMatch(), tr.SkippedCount())
	}
	update := tr.RecordRecognition("try again")
	if !update.JustCompleted {
		t.Fatalf("expected completion to fire again after reset")
	}
}
