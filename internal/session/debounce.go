package session

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of recognition snapshots into a single
// trailing-edge callback. Each Submit replaces any pending snapshot; after a
// quiet period with no new snapshot, fire runs once with the latest data.
// Stop cancels the pending snapshot so a stale alignment can never be applied
// after a session boundary.
type Debouncer struct {
	mu    sync.Mutex
	quiet time.Duration
	fire  func(text string, final bool)

	timer        *time.Timer
	pendingText  string
	pendingFinal bool
	has          bool
}

// NewDebouncer returns a Debouncer that calls fire on its own timer
// goroutine after quiet elapses without a newer Submit.
func NewDebouncer(quiet time.Duration, fire func(text string, final bool)) *Debouncer {
	return &Debouncer{quiet: quiet, fire: fire}
}

// Submit replaces the pending snapshot and restarts the quiet timer.
func (d *Debouncer) Submit(text string, final bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pendingText = text
	d.pendingFinal = final
	d.has = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, d.flush)
}

// Stop cancels any pending snapshot without firing.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.has = false
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	if !d.has {
		// Stopped between the timer firing and this goroutine running.
		d.mu.Unlock()
		return
	}
	text, final := d.pendingText, d.pendingFinal
	d.has = false
	d.timer = nil
	d.mu.Unlock()
	d.fire(text, final)
}
