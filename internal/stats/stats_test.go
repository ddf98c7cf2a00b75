package stats

import (
	"reflect"
	"testing"

	"github.com/baldojulio/speech-pronunciation/internal/model"
)

func TestSessionMetrics(t *testing.T) {
	cases := []struct {
		name     string
		agg      model.SessionAggregate
		wantRate float64
		wantAcc  float64
	}{
		{
			name:     "perfect",
			agg:      model.SessionAggregate{TotalWords: 4, Matched: 4},
			wantRate: 1.0,
			wantAcc:  1.0,
		},
		{
			name:     "retries lower accuracy",
			agg:      model.SessionAggregate{TotalWords: 4, Matched: 4, Mismatches: 4},
			wantRate: 1.0,
			wantAcc:  0.5,
		},
		{
			name:     "partial with skips",
			agg:      model.SessionAggregate{TotalWords: 4, Matched: 2, Skipped: 2},
			wantRate: 0.5,
			wantAcc:  1.0,
		},
		{
			name: "empty session",
			agg:  model.SessionAggregate{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rate, acc := SessionMetrics(tc.agg)
			if rate != tc.wantRate || acc != tc.wantAcc {
				t.Fatalf("SessionMetrics = (%f, %f), want (%f, %f)", rate, acc, tc.wantRate, tc.wantAcc)
			}
		})
	}
}

func TestMovingAverage(t *testing.T) {
	values := []float64{1, 2, 3, 4}
	got := MovingAverage(values, 2)
	want := []float64{1, 1.5, 2.5, 3.5}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("MovingAverage = %v, want %v", got, want)
	}
}

func TestMovingAverageWindowOne(t *testing.T) {
	values := []float64{5, 6}
	got := MovingAverage(values, 1)
	if !reflect.DeepEqual(got, values) {
		t.Fatalf("window 1 should copy input, got %v", got)
	}
}

func TestSparklineFlatSeries(t *testing.T) {
	got := Sparkline([]float64{3, 3, 3})
	if len(got) != 3 {
		t.Fatalf("expected 3 chars, got %q", got)
	}
	if got[0] != got[1] || got[1] != got[2] {
		t.Fatalf("flat series must render uniformly: %q", got)
	}
}

func TestSparklineRange(t *testing.T) {
	got := Sparkline([]float64{0, 10})
	if len(got) != 2 {
		t.Fatalf("expected 2 chars, got %q", got)
	}
	if got[0] != ' ' || got[1] != '@' {
		t.Fatalf("expected extremes, got %q", got)
	}
}

func TestResample(t *testing.T) {
	values := []float64{1, 1, 3, 3, 5, 5}
	got := Resample(values, 3)
	want := []float64{1, 3, 5}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Resample = %v, want %v", got, want)
	}

	short := []float64{1, 2}
	if got := Resample(short, 10); !reflect.DeepEqual(got, short) {
		t.Fatalf("short input must pass through, got %v", got)
	}
}
