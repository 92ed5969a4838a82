package session

import (
	"time"

	"github.com/abhisek/prayz/internal/stats"
)

// Summary holds the data displayed on the summary slide. It is captured once
// per session.
type Summary struct {
	SessionID     string
	ListID        int
	TotalItems    int
	Duration      time.Duration
	PrayedCount   int
	AnsweredCount int

	// Expired is set when the countdown ended the session.
	Expired bool
}

// DurationSecs is the session length in whole seconds.
func (s Summary) DurationSecs() int {
	return int(s.Duration / time.Second)
}

// AverageTimePerPrayer is the rounded number of seconds per prayed item.
func (s Summary) AverageTimePerPrayer() int {
	return stats.AverageTimePerPrayer(s.DurationSecs(), s.PrayedCount)
}
