package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/baldojulio/speech-pronunciation/internal/align"
	"github.com/baldojulio/speech-pronunciation/internal/recognize"
	"github.com/baldojulio/speech-pronunciation/internal/session"
	"github.com/baldojulio/speech-pronunciation/internal/token"
)

func containsAll(t *testing.T, s string, parts ...string) {
	t.Helper()
	for _, p := range parts {
		if !strings.Contains(s, p) {
			t.Fatalf("expected %q to contain %q", s, p)
		}
	}
}

func testTracker(t *testing.T, text string) *session.Tracker {
	t.Helper()
	tr := session.NewTracker(token.New("en-US"), align.Sequential{})
	if err := tr.SubmitText(text); err != nil {
		t.Fatalf("SubmitText: %v", err)
	}
	return tr
}

func TestRenderFooterProgress(t *testing.T) {
	tr := testTracker(t, "alpha beta gamma")
	update := tr.RecordRecognition("alpha beta")

	m := &Model{tracker: tr, last: update, hasResult: true}
	footer := m.renderFooter()
	containsAll(t, footer, "Matched 2/3", "tab skip", "space mic")
	if strings.Contains(footer, "Skipped") {
		t.Fatalf("no skips recorded, footer should omit skip count: %q", footer)
	}
}

func TestRenderFooterSkippedAndAccuracy(t *testing.T) {
	tr := testTracker(t, "alpha beta")
	update, ok := tr.SkipCurrent()
	if !ok {
		t.Fatalf("expected skip to be recorded")
	}

	m := &Model{
		tracker:    tr,
		last:       update,
		hasResult:  true,
		hasLast:    true,
		lastAcc:    0.75,
		allMatched: 9,
		allMissed:  1,
	}
	containsAll(t, m.renderFooter(), "Skipped 1", "Last 75.0%", "All-time 90.0%")
}

func TestSnapshotFromOldSessionIsDropped(t *testing.T) {
	tr := testTracker(t, "hello world")
	m := &Model{
		tracker:  tr,
		mode:     modePractice,
		debounce: session.NewDebouncer(time.Millisecond, func(string, bool) {}),
		recog:    recognize.NewScript(nil),
	}

	// A snapshot for the running session sits queued while the user starts a
	// new session with overlapping text.
	stale := snapshotMsg{text: "hello world", session: m.session.Load()}
	m.input = textinput.New()
	m.input.SetValue("hello world again")
	m.submitText()

	m.handleSnapshot(stale)
	if m.tracker.FurthestMatch() != -1 {
		t.Fatalf("stale snapshot advanced the new session's cursor to %d", m.tracker.FurthestMatch())
	}
	if m.hasResult {
		t.Fatalf("stale snapshot produced a result on the new session")
	}

	// A snapshot stamped with the current generation still applies.
	m.handleSnapshot(snapshotMsg{text: "hello", session: m.session.Load()})
	if m.tracker.FurthestMatch() != 0 {
		t.Fatalf("current-session snapshot not applied, cursor = %d", m.tracker.FurthestMatch())
	}
}

func TestMismatchHint(t *testing.T) {
	tr := testTracker(t, "pronunciation practice")

	m := &Model{tracker: tr, listening: true}
	if got := m.mismatchHint(tr.RecordRecognition("pronunciation")); got != "listening" {
		t.Fatalf("match should keep listening status, got %q", got)
	}
	if got := m.mismatchHint(tr.RecordRecognition("pronunciation practise")); got != "almost! try again" {
		t.Fatalf("near miss should hint, got %q", got)
	}
	if got := m.mismatchHint(tr.RecordRecognition("pronunciation banana")); got != "not quite, try again" {
		t.Fatalf("plain mismatch should hint, got %q", got)
	}

	m.listening = false
	if got := m.mismatchHint(tr.RecordRecognition("pronunciation banana")); got != "paused" {
		t.Fatalf("paused model should report paused, got %q", got)
	}
}
