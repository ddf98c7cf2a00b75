// Package tui provides the Bubble Tea practice interface.
package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/baldojulio/speech-pronunciation/internal/align"
	"github.com/baldojulio/speech-pronunciation/internal/token"
)

type chip struct {
	s     string
	width int
}

// buildChips styles each target word by its alignment status. The word shown
// is always the original form; normalization only affects comparison.
func buildChips(words []token.Word, statuses []align.TargetStatus) []chip {
	out := make([]chip, 0, len(words))
	for i, w := range words {
		style := pendingStyle
		if i < len(statuses) {
			switch statuses[i] {
			case align.TargetMatched:
				style = matchedStyle
			case align.TargetSkipped:
				style = skippedStyle
			case align.TargetCurrent:
				style = currentStyle
			}
		} else if i == 0 {
			// No alignment yet: the first word is up next.
			style = currentStyle
		}
		out = append(out, chip{
			s:     style.Render(w.Original),
			width: runewidth.StringWidth(w.Original),
		})
	}
	return out
}

// wrapChips joins chips with single spaces, wrapping at chip boundaries so a
// styled word is never split across lines.
func wrapChips(chips []chip, width int) string {
	var out strings.Builder
	lineWidth := 0
	for i, c := range chips {
		sep := 0
		if lineWidth > 0 {
			sep = 1
		}
		if width > 0 && lineWidth+sep+c.width > width && lineWidth > 0 {
			out.WriteRune('\n')
			lineWidth = 0
		} else if i > 0 && lineWidth > 0 {
			out.WriteByte(' ')
			lineWidth++
		}
		out.WriteString(c.s)
		lineWidth += c.width
	}
	return out.String()
}
