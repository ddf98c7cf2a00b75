// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	Lang        string
	ServerURL   string
	DebounceMs  int
	SilenceMs   int
	RandomWords int
	FocusWeak   bool
	WeakTop     int
	WeakFactor  float64
	WeakWindow  int
	ScriptPath  string
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Lang        string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// SessionStats captures a completed practice session.
type SessionStats struct {
	StartedAt  time.Time
	EndedAt    time.Time
	Lang       string
	Text       string
	TotalWords int
	Matched    int
	Skipped    int
	Mismatches int
	DurationMs int64
}

// WordStats stores per-word outcomes for a session.
type WordStats struct {
	Word       string
	Attempts   int
	Mismatches int
	Skipped    int
}

// WordAggregate aggregates word stats across sessions.
type WordAggregate struct {
	Word       string
	Attempts   int
	Mismatches int
	Skipped    int
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID  int64
	EndedAt    time.Time
	TotalWords int
	Matched    int
	Skipped    int
	Mismatches int
	DurationMs int64
}
