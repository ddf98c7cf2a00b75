package tui

import (
	"strings"
	"testing"

	"github.com/baldojulio/speech-pronunciation/internal/align"
	"github.com/baldojulio/speech-pronunciation/internal/token"
)

func testWords(originals ...string) []token.Word {
	words := make([]token.Word, len(originals))
	for i, o := range originals {
		words[i] = token.Word{Original: o, Normalized: strings.ToLower(o)}
	}
	return words
}

func TestBuildChipsStyles(t *testing.T) {
	words := testWords("Hello,", "world", "again")
	statuses := []align.TargetStatus{align.TargetMatched, align.TargetCurrent, align.TargetPending}

	chips := buildChips(words, statuses)
	if len(chips) != 3 {
		t.Fatalf("expected 3 chips, got %d", len(chips))
	}
	if chips[0].s != matchedStyle.Render("Hello,") {
		t.Fatalf("expected matched style with original text")
	}
	if chips[1].s != currentStyle.Render("world") {
		t.Fatalf("expected current style for second chip")
	}
	if chips[2].s != pendingStyle.Render("again") {
		t.Fatalf("expected pending style for third chip")
	}
}

func TestBuildChipsSkippedStyle(t *testing.T) {
	words := testWords("a", "b")
	statuses := []align.TargetStatus{align.TargetSkipped, align.TargetCurrent}
	chips := buildChips(words, statuses)
	if chips[0].s != skippedStyle.Render("a") {
		t.Fatalf("expected skipped style for first chip")
	}
}

func TestBuildChipsNoAlignmentYet(t *testing.T) {
	chips := buildChips(testWords("first", "second"), nil)
	if chips[0].s != currentStyle.Render("first") {
		t.Fatalf("first word should present as current before any alignment")
	}
	if chips[1].s != pendingStyle.Render("second") {
		t.Fatalf("remaining words should present as pending")
	}
}

func TestWrapChipsBreaksAtWordBoundary(t *testing.T) {
	chips := []chip{
		{s: "aaaa", width: 4},
		{s: "bbbb", width: 4},
		{s: "cc", width: 2},
	}
	got := wrapChips(chips, 9)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), got)
	}
	if lines[0] != "aaaa bbbb" {
		t.Fatalf("unexpected first line: %q", lines[0])
	}
	if lines[1] != "cc" {
		t.Fatalf("unexpected second line: %q", lines[1])
	}
}

func TestWrapChipsNoWidth(t *testing.T) {
	chips := []chip{
		{s: "one", width: 3},
		{s: "two", width: 3},
	}
	if got := wrapChips(chips, 0); got != "one two" {
		t.Fatalf("width 0 must not wrap, got %q", got)
	}
}
