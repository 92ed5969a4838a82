package home

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/prayz/internal/router"
	"github.com/abhisek/prayz/internal/screen"
	"github.com/abhisek/prayz/internal/screens/history"
	"github.com/abhisek/prayz/internal/screens/lists"
	sessionscreen "github.com/abhisek/prayz/internal/screens/session"
	statsscreen "github.com/abhisek/prayz/internal/screens/stats"
	"github.com/abhisek/prayz/internal/services"
	"github.com/abhisek/prayz/internal/stats"
	"github.com/abhisek/prayz/internal/ui/components"
	"github.com/abhisek/prayz/internal/ui/layout"
	"github.com/abhisek/prayz/internal/ui/theme"
)

const titleCompact = "P · R · A · Y · Z"

// overview is the dashboard data shown above the menu.
type overview struct {
	Lists     int
	Active    int
	Answered  int
	Counters  stats.Counters
	LoadedAt  time.Time
	LoadError error
}

type overviewLoadedMsg overview

// HomeScreen is the main menu.
type HomeScreen struct {
	svc      *services.Services
	menu     components.Menu
	overview overview
	loaded   bool
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(svc *services.Services) *HomeScreen {
	push := func(s func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: s()} }
		}
	}

	items := []components.MenuItem{
		{Label: "Pray all", Hint: "every list not excluded", Action: push(func() screen.Screen {
			return sessionscreen.New(svc, 0)
		})},
		{Label: "Pray a list", Action: push(func() screen.Screen {
			return lists.New(svc, lists.ModePick)
		})},
		{Label: "Lists", Hint: "browse, exclude from all", Action: push(func() screen.Screen {
			return lists.New(svc, lists.ModeBrowse)
		})},
		{Label: "Stats", Action: push(func() screen.Screen {
			return statsscreen.New(svc)
		})},
		{Label: "History", Action: push(func() screen.Screen {
			return history.New(svc.Events)
		})},
		{Label: "Quit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		svc:  svc,
		menu: components.NewMenu(items),
	}
}

// Init reloads the dashboard; it also runs when the screen is revealed
// again after a pop.
func (h *HomeScreen) Init() tea.Cmd {
	svc := h.svc
	return func() tea.Msg {
		ov := overview{LoadedAt: time.Now()}
		if svc.Stats != nil {
			ov.Counters = svc.Stats.Counters()
		}
		coll, err := svc.Collections(context.Background())
		if err != nil {
			ov.LoadError = err
			return overviewLoadedMsg(ov)
		}
		ov.Lists = len(coll.Lists)
		for _, r := range coll.Requests {
			switch {
			case r.IsActive():
				ov.Active++
			case r.IsAnswered():
				ov.Answered++
			}
		}
		return overviewLoadedMsg(ov)
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(overviewLoadedMsg); ok {
		h.overview = overview(msg)
		h.loaded = true
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompactHeight(height+layout.HeaderHeight+layout.FooterHeight) ||
		layout.IsCompactWidth(width)
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, lipgloss.NewStyle().
		Width(cw).Align(lipgloss.Center).Bold(true).Foreground(theme.Primary).
		Render(titleCompact))

	if !compact {
		variant := candleFor(h.overview.Counters.LastSessionDate, h.overview.LoadedAt)
		sections = append(sections, lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).
			Render(RenderCandle(variant)))
	}

	sections = append(sections, components.Card(h.renderOverview(), cw))
	sections = append(sections, h.menu.View())

	return components.Center(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) renderOverview() string {
	switch {
	case !h.loaded:
		return theme.Hint.Render("Gathering your lists...")
	case h.overview.LoadError != nil:
		return theme.Warning.Render(h.overview.LoadError.Error())
	case h.overview.Lists == 0:
		return theme.Hint.Render("No lists yet. Add one with: prayz list add <name>")
	}

	ov := h.overview
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	line := fmt.Sprintf("%s %s   %s %s   %s %s",
		theme.Selected.Render(fmt.Sprint(ov.Lists)), dim.Render(plural(ov.Lists, "list", "lists")),
		theme.Selected.Render(fmt.Sprint(ov.Active)), dim.Render(plural(ov.Active, "request", "requests")),
		theme.Answered.Render(fmt.Sprint(ov.Answered)), dim.Render("answered"))
	if m := ov.Counters.Milestone(); m != "" {
		line += "\n" + lipgloss.NewStyle().Foreground(theme.Accent).Render(m)
	}
	return line
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
