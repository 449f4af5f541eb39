package models

import "time"

// Outcome describes what a run did with its plan.
type Outcome string

const (
	OutcomePlanned     Outcome = "planned"
	OutcomeTransferred Outcome = "transferred"
	OutcomeUnchanged   Outcome = "unchanged"
	OutcomeSkipped     Outcome = "skipped"
	OutcomeFailed      Outcome = "failed"
)

// Report is the result of a status or sync run.
type Report struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	DryRun    bool

	Local  Listing
	Remote Listing
	Plan   Plan

	Outcome Outcome
	File    string
	Bytes   int64
	Err     error
}

// HistoryRecord is one journal row.
type HistoryRecord struct {
	ID        int64
	RunID     string
	StartedAt time.Time
	Direction Direction
	Outcome   Outcome
	File      string
	Bytes     int64
	Error     string
}
