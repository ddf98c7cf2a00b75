package stats

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"golang.org/x/term"

	"github.com/baldojulio/speech-pronunciation/internal/model"
	"github.com/baldojulio/speech-pronunciation/internal/store"
)

const fallbackTermWidth = 80

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions  []model.SessionAggregate
	WeakWords []model.WordAggregate
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}
	window := cfg.CurveWindow
	if window <= 0 {
		window = len(sessions)
	}
	weak, err := st.GetWeakWords(ctx, window, cfg.Lang)
	if err != nil {
		return Report{}, err
	}
	return Report{Sessions: sessions, WeakWords: weak}, nil
}

// Render writes the full stats report.
func (r Report) Render(w io.Writer, cfg model.StatsConfig) error {
	if err := RenderSummary(w, r.Sessions); err != nil {
		return err
	}
	if err := RenderCurves(w, r.Sessions, cfg.CurveWindow); err != nil {
		return err
	}
	return RenderWeakTable(w, r.WeakWords)
}

// RenderSummary prints a summary for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var totalAcc, bestAcc float64
	completed := 0
	for _, s := range sessions {
		_, acc := SessionMetrics(s)
		totalAcc += acc
		if acc > bestAcc {
			bestAcc = acc
		}
		if s.Matched == s.TotalWords && s.TotalWords > 0 {
			completed++
		}
	}
	count := float64(len(sessions))
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Sessions: %d (%d completed)\n", len(sessions), completed); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg Accuracy: %.1f%%\n", (totalAcc/count)*100); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Best Accuracy: %.1f%%\n", bestAcc*100); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderCurves prints an accuracy learning curve as a sparkline sized to the
// terminal.
func RenderCurves(w io.Writer, sessions []model.SessionAggregate, window int) error {
	if len(sessions) < 2 {
		return nil
	}
	accs := make([]float64, len(sessions))
	for i, s := range sessions {
		_, acc := SessionMetrics(s)
		accs[i] = acc * 100
	}
	accs = MovingAverage(accs, window)
	accs = Resample(accs, termWidth()-12)
	if _, err := fmt.Fprintln(w, "Accuracy Curve"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%5.1f%% %s %.1f%%\n", accs[0], Sparkline(accs), accs[len(accs)-1]); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderWeakTable prints per-word aggregates sorted by lowest accuracy.
func RenderWeakTable(w io.Writer, aggs []model.WordAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No word stats found.")
		return err
	}
	rows := make([]model.WordAggregate, len(aggs))
	copy(rows, aggs)
	sort.Slice(rows, func(i, j int) bool {
		ai := wordAccuracy(rows[i])
		aj := wordAccuracy(rows[j])
		if ai == aj {
			return rows[i].Word < rows[j].Word
		}
		return ai < aj
	})

	if _, err := fmt.Fprintln(w, "Per-Word (Windowed)"); err != nil {
		return err
	}
	headers := []string{"Word", "Accuracy", "Attempts", "Mismatches", "Skipped"}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, []string{
			r.Word,
			fmt.Sprintf("%.1f%%", wordAccuracy(r)*100),
			fmt.Sprintf("%d", r.Attempts),
			fmt.Sprintf("%d", r.Mismatches),
			fmt.Sprintf("%d", r.Skipped),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true}
	for _, line := range formatTable(headers, tableRows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackTermWidth
	}
	return width
}
