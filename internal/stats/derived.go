package stats

import (
	"fmt"
	"math"
)

// AverageTimePerPrayer is the rounded number of seconds spent per item in a
// session, or 0 when nothing was prayed.
func AverageTimePerPrayer(sessionSeconds, prayedCount int) int {
	if prayedCount <= 0 {
		return 0
	}
	return int(math.Round(float64(sessionSeconds) / float64(prayedCount)))
}

// AverageSessionLength is the rounded mean session duration in seconds.
func (c Counters) AverageSessionLength() int {
	if c.TotalSessions <= 0 {
		return 0
	}
	return int(math.Round(float64(c.TotalTimePrayed) / float64(c.TotalSessions)))
}

// RequestsPerHour is the rounded rate of requests prayed per hour of prayer.
func (c Counters) RequestsPerHour() int {
	if c.TotalTimePrayed <= 0 {
		return 0
	}
	return int(math.Round(float64(c.TotalRequestsPrayed) / float64(c.TotalTimePrayed) * 3600))
}

var milestones = []struct {
	sessions int
	label    string
}{
	{100, "Century of Prayer!"},
	{50, "Golden Prayer!"},
	{25, "Silver Prayer!"},
	{10, "Bronze Prayer!"},
	{1, "First Prayer!"},
}

// Milestone names the highest session milestone reached, or "" before the
// first session.
func (c Counters) Milestone() string {
	for _, m := range milestones {
		if c.TotalSessions >= m.sessions {
			return m.label
		}
	}
	return ""
}

// FormatDuration renders seconds as "Nm Ss", or "Ss" under a minute.
func FormatDuration(seconds int) string {
	seconds = max(0, seconds)
	mins, secs := seconds/60, seconds%60
	if mins > 0 {
		return fmt.Sprintf("%dm %ds", mins, secs)
	}
	return fmt.Sprintf("%ds", secs)
}
