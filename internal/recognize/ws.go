package recognize

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
)

const defaultRestartBackoff = 500 * time.Millisecond

// Option is a functional option for configuring a Client.
type Option func(*Client)

// WithBackoff sets the pause between reconnection attempts. Default: 500ms.
func WithBackoff(d time.Duration) Option {
	return func(c *Client) {
		c.backoff = d
	}
}

// Client streams transcript snapshots from a speech-to-text server over a
// WebSocket. The server resends the whole hypothesis on every event as a
// JSON frame: {"text": "...", "is_final": bool}.
//
// Real recognizer streams end on their own (end of utterance, network drop),
// so the client restarts the connection after a short fixed backoff for as
// long as the session context is alive and the listening flag is set.
type Client struct {
	url       string
	backoff   time.Duration
	listening atomic.Bool
	started   atomic.Bool
}

// NewClient creates a Client for the given ws:// or wss:// URL.
// The client starts out listening.
func NewClient(url string, opts ...Option) (*Client, error) {
	if url == "" {
		return nil, errors.New("recognize: server URL must not be empty")
	}
	c := &Client{url: url, backoff: defaultRestartBackoff}
	c.listening.Store(true)
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// SetListening toggles delivery and reconnection.
func (c *Client) SetListening(listening bool) {
	c.listening.Store(listening)
}

// Snapshots connects to the server and returns the snapshot stream.
func (c *Client) Snapshots(ctx context.Context) (<-chan Snapshot, error) {
	if !c.started.CompareAndSwap(false, true) {
		return nil, errors.New("recognize: Snapshots called twice")
	}
	out := make(chan Snapshot, 16)
	go c.run(ctx, out)
	return out, nil
}

func (c *Client) run(ctx context.Context, out chan<- Snapshot) {
	defer close(out)
	for {
		if ctx.Err() != nil {
			return
		}
		if !c.listening.Load() {
			// Muted: do not reconnect, just wait for the flag to flip.
			if !sleep(ctx, c.backoff) {
				return
			}
			continue
		}
		conn, _, err := websocket.Dial(ctx, c.url, nil)
		if err != nil {
			if !sleep(ctx, c.backoff) {
				return
			}
			continue
		}
		c.readLoop(ctx, conn, out)
		conn.Close(websocket.StatusNormalClosure, "stream ended")
		if !sleep(ctx, c.backoff) {
			return
		}
	}
}

// serverMessage is one transcript frame from the STT server.
type serverMessage struct {
	Text    string `json:"text"`
	IsFinal bool   `json:"is_final"`
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn, out chan<- Snapshot) {
	for {
		_, msg, err := conn.Read(ctx)
		if err != nil {
			return
		}
		var sm serverMessage
		if err := json.Unmarshal(msg, &sm); err != nil {
			continue
		}
		if !c.listening.Load() {
			continue
		}
		select {
		case out <- Snapshot{Text: sm.Text, Final: sm.IsFinal}:
		case <-ctx.Done():
			return
		}
	}
}

// sleep waits for d or until ctx is done; it reports whether to keep going.
func sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}
