// Package stats is the screen for cumulative prayer stats.
package stats

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/prayz/internal/screen"
	"github.com/abhisek/prayz/internal/services"
	prayerstats "github.com/abhisek/prayz/internal/stats"
	"github.com/abhisek/prayz/internal/ui/components"
	"github.com/abhisek/prayz/internal/ui/layout"
	"github.com/abhisek/prayz/internal/ui/theme"
)

type statsLoadedMsg struct {
	Rows      []prayerstats.Row
	Milestone string
}

// StatsScreen shows the counters kept across sessions.
type StatsScreen struct {
	svc       *services.Services
	rows      []prayerstats.Row
	milestone string
	loaded    bool
}

var _ screen.Screen = (*StatsScreen)(nil)
var _ screen.KeyHintProvider = (*StatsScreen)(nil)

func New(svc *services.Services) *StatsScreen {
	return &StatsScreen{svc: svc}
}

func (s *StatsScreen) Init() tea.Cmd {
	acc := s.svc.Stats
	return func() tea.Msg {
		c := acc.Counters()
		return statsLoadedMsg{
			Rows:      prayerstats.Report(c, acc.SessionsPerWeek(), time.Now()),
			Milestone: c.Milestone(),
		}
	}
}

func (s *StatsScreen) Title() string {
	return "Stats"
}

func (s *StatsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

func (s *StatsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(statsLoadedMsg); ok {
		s.rows = msg.Rows
		s.milestone = msg.Milestone
		s.loaded = true
	}
	return s, nil
}

func (s *StatsScreen) View(width, height int) string {
	if !s.loaded {
		return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Counting...")
	}

	cw := components.ContentWidth(width)
	inner := cw - 6

	var b strings.Builder
	b.WriteString(theme.Title.Width(inner).Render("Your prayer life"))
	b.WriteString("\n")
	if s.milestone != "" {
		b.WriteString(lipgloss.NewStyle().Width(inner).Align(lipgloss.Center).Foreground(theme.Accent).
			Render("✦ " + s.milestone))
	}
	b.WriteString("\n\n")
	for i, r := range s.rows {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(components.StatLine(r.Label, r.Value, inner))
	}

	return components.Center(components.Card(b.String(), cw), width, height)
}
