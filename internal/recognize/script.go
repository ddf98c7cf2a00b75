package recognize

import (
	"bufio"
	"context"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

// Step is one scripted recognition event.
type Step struct {
	Snapshot Snapshot
	// Delay is the pause before this snapshot is emitted.
	Delay time.Duration
}

// Script replays predetermined snapshots. It is used for demos and tests
// where no speech-to-text server is available.
type Script struct {
	steps     []Step
	listening atomic.Bool
}

// NewScript creates a Script recognizer from the given steps.
func NewScript(steps []Step) *Script {
	s := &Script{steps: steps}
	s.listening.Store(true)
	return s
}

// LoadScript reads a script file: one snapshot per line, the growing
// transcript written out in full. Lines prefixed with "!" are finals; blank
// lines and lines starting with "#" are ignored. Every snapshot is emitted
// after delay.
func LoadScript(path string, delay time.Duration) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close for read-only script.
			_ = cerr
		}
	}()

	var steps []Step
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		final := false
		if strings.HasPrefix(line, "!") {
			final = true
			line = strings.TrimSpace(strings.TrimPrefix(line, "!"))
		}
		steps = append(steps, Step{
			Snapshot: Snapshot{Text: line, Final: final},
			Delay:    delay,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return NewScript(steps), nil
}

// SetListening toggles delivery. Snapshots arriving while muted are dropped,
// matching how a live recognizer behaves with the microphone off.
func (s *Script) SetListening(listening bool) {
	s.listening.Store(listening)
}

// Snapshots replays the script on its own goroutine.
func (s *Script) Snapshots(ctx context.Context) (<-chan Snapshot, error) {
	out := make(chan Snapshot, 16)
	go func() {
		defer close(out)
		for _, step := range s.steps {
			if step.Delay > 0 {
				select {
				case <-time.After(step.Delay):
				case <-ctx.Done():
					return
				}
			}
			if !s.listening.Load() {
				continue
			}
			select {
			case out <- step.Snapshot:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
