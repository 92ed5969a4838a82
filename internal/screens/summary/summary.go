package summary

import (
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/dustin/go-humanize"

	"github.com/abhisek/prayz/internal/router"
	"github.com/abhisek/prayz/internal/screen"
	"github.com/abhisek/prayz/internal/session"
	"github.com/abhisek/prayz/internal/stats"
	"github.com/abhisek/prayz/internal/store"
	"github.com/abhisek/prayz/internal/ui/components"
	"github.com/abhisek/prayz/internal/ui/layout"
	"github.com/abhisek/prayz/internal/ui/theme"
)

// Data is what a session summary shows, whether the session just ended or
// comes from the history log.
type Data struct {
	SessionID     string
	When          time.Time // zero for a session that just ended
	TotalItems    int
	DurationSecs  int
	PrayedCount   int
	AnsweredCount int
	Expired       bool
}

// FromSession converts a live session summary.
func FromSession(s session.Summary) Data {
	return Data{
		SessionID:     s.SessionID,
		TotalItems:    s.TotalItems,
		DurationSecs:  s.DurationSecs(),
		PrayedCount:   s.PrayedCount,
		AnsweredCount: s.AnsweredCount,
		Expired:       s.Expired,
	}
}

// FromRecord converts a logged session.
func FromRecord(r store.SessionSummaryRecord) Data {
	return Data{
		SessionID:     r.SessionID,
		When:          r.Timestamp,
		TotalItems:    r.ItemCount,
		DurationSecs:  r.DurationSecs,
		PrayedCount:   r.PrayedCount,
		AnsweredCount: r.AnsweredCount,
	}
}

// AverageTimePerPrayer is the rounded seconds spent per prayed item.
func (d Data) AverageTimePerPrayer() int {
	return stats.AverageTimePerPrayer(d.DurationSecs, d.PrayedCount)
}

// Render draws the summary card centered in width.
func Render(d Data, width int) string {
	cw := components.ContentWidth(width)
	inner := cw - 6

	heading := "Amen."
	if d.Expired {
		heading = "Time's up. Amen."
	}

	var b strings.Builder
	b.WriteString(theme.Title.Width(inner).Render(heading))
	b.WriteString("\n")
	if !d.When.IsZero() {
		b.WriteString(theme.Subtitle.Width(inner).Render(
			d.When.Local().Format("Mon Jan 2, 15:04") + " · " + humanize.Time(d.When)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	rows := [][2]string{
		{"Items", strconv.Itoa(d.TotalItems)},
		{"Time", stats.FormatDuration(d.DurationSecs)},
		{"Prayed", strconv.Itoa(d.PrayedCount)},
		{"Answered", strconv.Itoa(d.AnsweredCount)},
	}
	if d.PrayedCount > 0 {
		rows = append(rows, [2]string{"Per prayer", stats.FormatDuration(d.AverageTimePerPrayer())})
	}
	for i, r := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(components.StatLine(r[0], r[1], inner))
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, components.Card(b.String(), cw))
}

// SummaryScreen displays one session summary.
type SummaryScreen struct {
	data   Data
	button components.Button
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(d Data) *SummaryScreen {
	return &SummaryScreen{
		data: d,
		button: components.NewButton("Continue", true, func() tea.Cmd {
			return func() tea.Msg { return router.PopScreenMsg{} }
		}),
	}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.button, cmd = s.button.Update(msg)
	return s, cmd
}

func (s *SummaryScreen) View(width, height int) string {
	return "\n" + Render(s.data, width) + "\n\n" +
		lipgloss.PlaceHorizontal(width, lipgloss.Center, s.button.View())
}
