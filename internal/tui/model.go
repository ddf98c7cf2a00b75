// Package tui provides the Bubble Tea practice interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/baldojulio/speech-pronunciation/internal/align"
	"github.com/baldojulio/speech-pronunciation/internal/model"
	"github.com/baldojulio/speech-pronunciation/internal/recognize"
	"github.com/baldojulio/speech-pronunciation/internal/session"
	"github.com/baldojulio/speech-pronunciation/internal/store"
)

type mode int

const (
	modeInput mode = iota
	modePractice
)

var (
	matchedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7CC36E"))
	skippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Strikethrough(true)
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Underline(true)
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E")).Italic(true)
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// snapshotMsg is a debounced recognition snapshot ready for alignment.
// session identifies the practice session the snapshot belongs to.
type snapshotMsg struct {
	text    string
	final   bool
	session int64
}

// recogErrMsg reports that the recognizer could not be started.
type recogErrMsg struct{ err error }

// silenceTickMsg drives the silence watchdog. It only changes status text.
type silenceTickMsg time.Time

// Model implements the Bubble Tea practice UI.
type Model struct {
	config   model.Config
	store    *store.Store
	tracker  *session.Tracker
	debounce *session.Debouncer
	recog    recognize.Recognizer

	ctx    context.Context
	cancel context.CancelFunc
	events chan tea.Msg
	// session is a generation counter bumped at every session boundary.
	// Snapshots stamped with an older generation are dropped, so a message
	// already queued in events can never pollute the next session.
	session atomic.Int64

	mode      mode
	input     textinput.Model
	spin      spinner.Model
	listening bool

	width  int
	height int

	startedAt   time.Time
	lastHeardAt time.Time
	last        session.Update
	hasResult   bool
	status      string

	lastAcc    float64
	hasLast    bool
	allMatched int
	allMissed  int
}

// NewModel constructs the practice TUI model. initialText pre-fills the
// sentence prompt (drill mode); the user can still edit it before starting.
func NewModel(cfg model.Config, st *store.Store, tracker *session.Tracker, recog recognize.Recognizer, initialText string) *Model {
	ctx, cancel := context.WithCancel(context.Background())

	input := textinput.New()
	input.Placeholder = "type or paste the sentence to practice"
	input.CharLimit = 0
	input.SetValue(initialText)
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.MiniDot
	spin.Style = statusStyle

	m := &Model{
		config:  cfg,
		store:   st,
		tracker: tracker,
		recog:   recog,
		ctx:     ctx,
		cancel:  cancel,
		events:  make(chan tea.Msg, 16),
		mode:    modeInput,
		input:   input,
		spin:    spin,
		status:  "enter a sentence to begin",
	}
	m.debounce = session.NewDebouncer(time.Duration(cfg.DebounceMs)*time.Millisecond, func(text string, final bool) {
		select {
		case m.events <- snapshotMsg{text: text, final: final, session: m.session.Load()}:
		case <-ctx.Done():
		}
	})
	m.recog.SetListening(false)
	m.loadFooterStats()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick, m.startRecognizer(), m.nextEvent(), m.silenceTick())
}

// startRecognizer opens the snapshot stream and pumps it into the debouncer
// from a dedicated goroutine. The debouncer's timer callback is the only
// path back into the update loop, so alignment never runs concurrently.
func (m *Model) startRecognizer() tea.Cmd {
	return func() tea.Msg {
		ch, err := m.recog.Snapshots(m.ctx)
		if err != nil {
			return recogErrMsg{err: err}
		}
		go func() {
			for snap := range ch {
				m.debounce.Submit(snap.Text, snap.Final)
			}
		}()
		return nil
	}
}

func (m *Model) nextEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-m.events:
			return msg
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) silenceTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return silenceTickMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case snapshotMsg:
		m.handleSnapshot(msg)
		return m, m.nextEvent()
	case recogErrMsg:
		m.status = fmt.Sprintf("recognizer unavailable: %v", msg.err)
		return m, nil
	case silenceTickMsg:
		m.handleSilenceTick()
		return m, m.silenceTick()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	default:
		if m.mode == modeInput {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.teardown()
		return m, tea.Quit
	}
	if m.mode == modeInput {
		if msg.Type == tea.KeyEnter {
			m.submitText()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch msg.Type {
	case tea.KeyTab:
		if update, ok := m.tracker.SkipCurrent(); ok {
			m.applyUpdate(update)
			m.status = "skipped"
		}
		return m, nil
	case tea.KeyCtrlR:
		m.resetSession()
		return m, nil
	case tea.KeyEsc:
		m.leavePractice()
		return m, nil
	case tea.KeySpace:
		m.toggleListening()
		return m, nil
	default:
		return m, nil
	}
}

// submitText starts a new session from the text input. Empty or
// unpronounceable text leaves any previous session untouched.
func (m *Model) submitText() {
	if err := m.tracker.SubmitText(m.input.Value()); err != nil {
		m.status = "no valid words in text"
		return
	}
	// Session boundary: cancel the pending debounce and bump the generation
	// so an already-queued snapshot from the old session is dropped too.
	m.session.Add(1)
	m.debounce.Stop()
	m.mode = modePractice
	m.input.Blur()
	m.last = session.Update{}
	m.hasResult = false
	m.startedAt = time.Now()
	m.lastHeardAt = time.Now()
	m.listening = true
	m.recog.SetListening(true)
	m.status = "listening"
}

func (m *Model) resetSession() {
	m.session.Add(1)
	m.debounce.Stop()
	m.tracker.Reset()
	m.last = session.Update{}
	m.hasResult = false
	m.startedAt = time.Now()
	m.status = "session reset"
}

func (m *Model) leavePractice() {
	m.debounce.Stop()
	m.listening = false
	m.recog.SetListening(false)
	m.mode = modeInput
	m.input.Focus()
	m.status = "enter a sentence to begin"
}

func (m *Model) toggleListening() {
	m.listening = !m.listening
	m.recog.SetListening(m.listening)
	if m.listening {
		m.status = "listening"
	} else {
		m.status = "paused"
	}
}

func (m *Model) handleSnapshot(msg snapshotMsg) {
	if m.mode != modePractice || msg.session != m.session.Load() {
		return
	}
	m.lastHeardAt = time.Now()
	update := m.tracker.RecordRecognition(msg.text)
	m.applyUpdate(update)
	if update.JustCompleted {
		m.finishSession(update)
	}
}

func (m *Model) applyUpdate(update session.Update) {
	m.last = update
	m.hasResult = true
	if update.Completed {
		m.status = "completed!"
		return
	}
	m.status = m.mismatchHint(update)
}

// mismatchHint surfaces the most recent wrong attempt at the current word,
// flagging near misses separately from plain wrong words.
func (m *Model) mismatchHint(update session.Update) string {
	if !m.listening {
		return "paused"
	}
	toks := update.Result.Tokens
	if len(toks) > 0 {
		last := toks[len(toks)-1]
		if last.Status == align.TokenMismatch {
			if last.Closeness >= align.CloseThreshold {
				return "almost! try again"
			}
			return "not quite, try again"
		}
	}
	return "listening"
}

func (m *Model) handleSilenceTick() {
	if m.mode != modePractice || !m.listening || m.last.Completed {
		return
	}
	silence := time.Duration(m.config.SilenceMs) * time.Millisecond
	if silence > 0 && time.Since(m.lastHeardAt) > silence {
		m.status = "waiting for speech"
	}
}

func (m *Model) finishSession(update session.Update) {
	endedAt := time.Now()
	targets := m.tracker.Targets()
	stats := model.SessionStats{
		StartedAt:  m.startedAt,
		EndedAt:    endedAt,
		Lang:       m.config.Lang,
		Text:       originalText(m.tracker),
		TotalWords: update.Total,
		Matched:    update.Matched,
		Skipped:    m.tracker.SkippedCount(),
		Mismatches: countMismatches(update.Result),
		DurationMs: endedAt.Sub(m.startedAt).Milliseconds(),
	}

	perWord := map[string]*model.WordStats{}
	for _, tok := range update.Result.Tokens {
		if tok.TargetIndex < 0 || tok.TargetIndex >= len(targets) {
			continue
		}
		word := targets[tok.TargetIndex].Normalized
		entry, ok := perWord[word]
		if !ok {
			entry = &model.WordStats{Word: word}
			perWord[word] = entry
		}
		entry.Attempts++
		if tok.Status == align.TokenMismatch {
			entry.Mismatches++
		}
	}
	for i, status := range update.Result.Targets {
		if status != align.TargetSkipped {
			continue
		}
		word := targets[i].Normalized
		entry, ok := perWord[word]
		if !ok {
			entry = &model.WordStats{Word: word}
			perWord[word] = entry
		}
		entry.Skipped++
	}
	words := make([]model.WordStats, 0, len(perWord))
	for _, entry := range perWord {
		words = append(words, *entry)
	}

	ctx := context.Background()
	if _, err := m.store.InsertSession(ctx, stats, words); err != nil {
		logErrf("failed to save session: %v\n", err)
	}

	attempts := stats.Matched + stats.Mismatches
	if attempts > 0 {
		m.lastAcc = float64(stats.Matched) / float64(attempts)
		m.hasLast = true
	}
	m.allMatched += stats.Matched
	m.allMissed += stats.Mismatches
}

func originalText(t *session.Tracker) string {
	words := t.Targets()
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = w.Original
	}
	return strings.Join(parts, " ")
}

func countMismatches(res align.Result) int {
	n := 0
	for _, tok := range res.Tokens {
		if tok.Status == align.TokenMismatch {
			n++
		}
	}
	return n
}

func (m *Model) loadFooterStats() {
	ctx := context.Background()
	sessions, err := m.store.ListSessions(ctx, model.StatsConfig{Lang: m.config.Lang})
	if err != nil {
		logErrf("failed to load session stats: %v\n", err)
		return
	}
	if len(sessions) == 0 {
		return
	}
	last := sessions[len(sessions)-1]
	if attempts := last.Matched + last.Mismatches; attempts > 0 {
		m.lastAcc = float64(last.Matched) / float64(attempts)
		m.hasLast = true
	}
	for _, s := range sessions {
		m.allMatched += s.Matched
		m.allMissed += s.Mismatches
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.mode == modeInput {
		return m.viewInput()
	}
	return m.viewPractice()
}

func (m *Model) viewInput() string {
	content := titleStyle.Render("pronounce") + "\n\n" + m.input.View() + "\n\n" + statusStyle.Render(m.status)
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) viewPractice() string {
	targets := m.tracker.Targets()
	if len(targets) == 0 {
		return ""
	}
	var statuses []align.TargetStatus
	if m.hasResult {
		statuses = m.last.Result.Targets
	}
	chips := buildChips(targets, statuses)

	contentWidth := 0
	if m.width > 0 {
		contentWidth = int(float64(m.width) * 0.70)
		if contentWidth < 1 {
			contentWidth = 1
		}
	}
	content := wrapChips(chips, contentWidth)
	statusLine := m.renderStatus()
	footer := m.renderFooter()

	if m.width == 0 || m.height == 0 {
		return content + "\n" + statusLine + "\n" + footer
	}
	body := lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, content)
	statusBar := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, statusLine)
	footerBar := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + statusBar + "\n" + footerBar
}

func (m *Model) renderStatus() string {
	if m.listening && !m.last.Completed {
		return m.spin.View() + " " + statusStyle.Render(m.status)
	}
	return statusStyle.Render(m.status)
}

func (m *Model) renderFooter() string {
	total := m.tracker.Total()
	matched := 0
	skipped := m.tracker.SkippedCount()
	if m.hasResult {
		matched = m.last.Matched
	}
	segments := []string{fmt.Sprintf("Matched %d/%d", matched, total)}
	if skipped > 0 {
		segments = append(segments, fmt.Sprintf("Skipped %d", skipped))
	}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %.1f%%", m.lastAcc*100))
	}
	if all := m.allMatched + m.allMissed; all > 0 {
		segments = append(segments, fmt.Sprintf("All-time %.1f%%", float64(m.allMatched)/float64(all)*100))
	}
	segments = append(segments, "tab skip · space mic · ctrl+r reset · esc new text")
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) teardown() {
	m.debounce.Stop()
	m.cancel()
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
