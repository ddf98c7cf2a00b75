// Package stats contains statistics calculations and reporting.
package stats

import (
	"math"
	"strings"

	"github.com/baldojulio/speech-pronunciation/internal/model"
)

const sparkChars = " .:-=+*#%@"

// SessionMetrics computes match rate and pronunciation accuracy for a session.
// Match rate is the share of target words matched; accuracy is correct
// pronunciations over total attempts (mismatched tries count against it).
func SessionMetrics(agg model.SessionAggregate) (matchRate, accuracy float64) {
	if agg.TotalWords > 0 {
		matchRate = float64(agg.Matched) / float64(agg.TotalWords)
	}
	attempts := agg.Matched + agg.Mismatches
	if attempts > 0 {
		accuracy = float64(agg.Matched) / float64(attempts)
	}
	return matchRate, accuracy
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Resample shrinks values to at most width points by bucket averaging, so a
// long session history fits one terminal line.
func Resample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		lo := i * len(values) / width
		hi := (i + 1) * len(values) / width
		if hi <= lo {
			hi = lo + 1
		}
		var sum float64
		for _, v := range values[lo:hi] {
			sum += v
		}
		out[i] = sum / float64(hi-lo)
	}
	return out
}
