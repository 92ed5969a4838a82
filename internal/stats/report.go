package stats

import (
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Row is one labelled line of a stats report.
type Row struct {
	Label string
	Value string
}

// Report renders the counters and derived figures for display. now anchors
// the relative dates.
func Report(c Counters, sessionsPerWeek float64, now time.Time) []Row {
	p := message.NewPrinter(language.English)

	rows := []Row{
		{"Sessions", p.Sprintf("%d", c.TotalSessions)},
		{"Time in prayer", FormatDuration(c.TotalTimePrayed)},
		{"Requests prayed", p.Sprintf("%d", c.TotalRequestsPrayed)},
		{"Requests answered", p.Sprintf("%d", c.TotalRequestsAnswered)},
		{"Average session", FormatDuration(c.AverageSessionLength())},
		{"Requests per hour", p.Sprintf("%d", c.RequestsPerHour())},
		{"Sessions per week", p.Sprintf("%.1f", sessionsPerWeek)},
	}
	if c.FirstSessionDate != nil {
		rows = append(rows, Row{"First session", relative(*c.FirstSessionDate, now)})
	}
	if c.LastSessionDate != nil {
		rows = append(rows, Row{"Last session", relative(*c.LastSessionDate, now)})
	}
	return rows
}

func relative(t, now time.Time) string {
	return t.Local().Format("Jan 2, 2006") + " (" + humanize.RelTime(t, now, "ago", "from now") + ")"
}
