// Package recognize abstracts the external speech-to-text collaborator.
//
// A recognizer emits Snapshot values: the full transcript known so far, not
// a delta, with a flag separating authoritative finals from low-latency
// interim hypotheses. The core never interprets audio; it only consumes the
// recognizer's textual output.
package recognize

import "context"

// Snapshot is one recognition event: the entire transcript hypothesis at a
// point in time.
type Snapshot struct {
	Text  string
	Final bool
}

// Recognizer is the abstraction over any speech-to-text backend.
type Recognizer interface {
	// Snapshots starts recognition and returns a channel of transcript
	// snapshots. The channel is closed when ctx is cancelled or the source
	// is exhausted. Snapshots may only be called once per Recognizer.
	Snapshots(ctx context.Context) (<-chan Snapshot, error)

	// SetListening gates delivery. While false, snapshots are dropped and
	// implementations must not attempt to (re)establish their source.
	SetListening(listening bool)
}
