package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/dustin/go-humanize"

	"github.com/abhisek/prayz/internal/router"
	"github.com/abhisek/prayz/internal/screen"
	"github.com/abhisek/prayz/internal/screens/summary"
	"github.com/abhisek/prayz/internal/stats"
	"github.com/abhisek/prayz/internal/store"
	"github.com/abhisek/prayz/internal/ui/layout"
	"github.com/abhisek/prayz/internal/ui/theme"
)

const pageSize = 50

type historyLoadedMsg struct {
	Sessions []store.SessionSummaryRecord
	Err      error
}

// HistoryScreen lists past sessions, newest first.
type HistoryScreen struct {
	eventRepo store.EventRepo
	sessions  []store.SessionSummaryRecord
	selected  int
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{eventRepo: eventRepo}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		sessions, err := repo.QuerySessionSummaries(context.Background(), store.QueryOpts{Limit: pageSize})
		return historyLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
			s.selected = min(s.selected, max(len(s.sessions)-1, 0))
		}
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
		case "enter":
			if s.selected < len(s.sessions) {
				rec := s.sessions[s.selected]
				return s, func() tea.Msg {
					return router.PushScreenMsg{Screen: summary.New(summary.FromRecord(rec))}
				}
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No sessions yet. Be still and begin.")
	}

	// Keep the selection visible on short terminals.
	rows := max(height-2, 1)
	start := 0
	if s.selected >= rows {
		start = s.selected - rows + 1
	}
	end := min(start+rows, len(s.sessions))

	var b strings.Builder
	b.WriteString("\n")
	for i := start; i < end; i++ {
		style := lipgloss.NewStyle().Foreground(theme.Text)
		prefix := "  "
		if i == s.selected {
			style = theme.Selected
			prefix = "▸ "
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Render(prefix+sessionLine(s.sessions[i]))))
		b.WriteString("\n")
	}
	return b.String()
}

func sessionLine(rec store.SessionSummaryRecord) string {
	line := fmt.Sprintf("%s  %-8s  %d/%d prayed",
		rec.Timestamp.Local().Format("Jan 02, 2006"),
		stats.FormatDuration(rec.DurationSecs),
		rec.PrayedCount, rec.ItemCount)
	if rec.AnsweredCount > 0 {
		line += fmt.Sprintf("  %d answered", rec.AnsweredCount)
	}
	return line + "  · " + humanize.Time(rec.Timestamp)
}
