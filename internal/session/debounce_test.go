package session

import (
	"sync"
	"testing"
	"time"
)

type debounceRecorder struct {
	mu    sync.Mutex
	texts []string
}

func (r *debounceRecorder) fire(text string, final bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.texts = append(r.texts, text)
}

func (r *debounceRecorder) recorded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.texts))
	copy(out, r.texts)
	return out
}

func TestDebouncerCoalescesBurst(t *testing.T) {
	rec := &debounceRecorder{}
	d := NewDebouncer(50*time.Millisecond, rec.fire)

	d.Submit("first", false)
	d.Submit("second", false)
	d.Submit("third", true)

	time.Sleep(200 * time.Millisecond)
	got := rec.recorded()
	if len(got) != 1 {
		t.Fatalf("expected exactly one callback, got %d: %v", len(got), got)
	}
	if got[0] != "third" {
		t.Fatalf("expected latest snapshot, got %q", got[0])
	}
}

func TestDebouncerFiresPerQuietInterval(t *testing.T) {
	rec := &debounceRecorder{}
	d := NewDebouncer(20*time.Millisecond, rec.fire)

	d.Submit("one", false)
	time.Sleep(100 * time.Millisecond)
	d.Submit("two", false)
	time.Sleep(100 * time.Millisecond)

	got := rec.recorded()
	if len(got) != 2 {
		t.Fatalf("expected two callbacks, got %d: %v", len(got), got)
	}
	if got[0] != "one" || got[1] != "two" {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestDebouncerStopCancelsPending(t *testing.T) {
	rec := &debounceRecorder{}
	d := NewDebouncer(50*time.Millisecond, rec.fire)

	d.Submit("stale", false)
	d.Stop()

	time.Sleep(200 * time.Millisecond)
	if got := rec.recorded(); len(got) != 0 {
		t.Fatalf("expected no callbacks after Stop, got %v", got)
	}
}

func TestDebouncerSubmitAfterStop(t *testing.T) {
	rec := &debounceRecorder{}
	d := NewDebouncer(20*time.Millisecond, rec.fire)

	d.Submit("old", false)
	d.Stop()
	d.Submit("new", true)

	time.Sleep(150 * time.Millisecond)
	got := rec.recorded()
	if len(got) != 1 || got[0] != "new" {
		t.Fatalf("expected only the post-Stop snapshot, got %v", got)
	}
}
