package batch

import (
	"time"

	"tifrotate/internal/rotation"
)

// Summary describes a finished run.
type Summary struct {
	RunID     string
	Manifest  string
	Rows      int
	Skipped   int
	Total     int
	Succeeded int
	// Failures are ordered by manifest position.
	Failures []rotation.Outcome
	Elapsed  time.Duration
	DryRun   bool
}

// Failed returns the number of failed jobs.
func (s Summary) Failed() int { return len(s.Failures) }
