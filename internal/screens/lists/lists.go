// Package lists shows the prayer lists, either to pick one to pray or to
// browse their topics and requests.
package lists

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/prayz/internal/prayer"
	"github.com/abhisek/prayz/internal/router"
	"github.com/abhisek/prayz/internal/screen"
	sessionscreen "github.com/abhisek/prayz/internal/screens/session"
	"github.com/abhisek/prayz/internal/services"
	"github.com/abhisek/prayz/internal/ui/layout"
	"github.com/abhisek/prayz/internal/ui/theme"
)

// Mode selects what enter does.
type Mode int

const (
	ModePick   Mode = iota // enter starts a session for the list
	ModeBrowse             // enter expands the list's topics
)

type listsLoadedMsg struct {
	Collections *prayer.Collections
	Err         error
}

type excludeToggledMsg struct {
	Err error
}

// ListsScreen renders the lists with their topic and request counts.
type ListsScreen struct {
	svc      *services.Services
	mode     Mode
	coll     *prayer.Collections
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*ListsScreen)(nil)
var _ screen.KeyHintProvider = (*ListsScreen)(nil)

// New creates a ListsScreen in the given mode.
func New(svc *services.Services, mode Mode) *ListsScreen {
	return &ListsScreen{
		svc:      svc,
		mode:     mode,
		expanded: make(map[int]bool),
	}
}

func (s *ListsScreen) Init() tea.Cmd {
	svc := s.svc
	return func() tea.Msg {
		coll, err := svc.Collections(context.Background())
		return listsLoadedMsg{Collections: coll, Err: err}
	}
}

func (s *ListsScreen) Title() string {
	if s.mode == ModePick {
		return "Pray a List"
	}
	return "Lists"
}

func (s *ListsScreen) KeyHints() []layout.KeyHint {
	if s.mode == ModePick {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Pray"},
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Topics"},
		{Key: "p", Description: "Pray"},
		{Key: "x", Description: "Exclude from all"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ListsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case listsLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.coll = msg.Collections
		s.selected = min(s.selected, max(len(s.coll.Lists)-1, 0))
		return s, nil

	case excludeToggledMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		return s, s.Init()

	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < s.count()-1 {
				s.selected++
			}
		case "enter":
			if s.mode == ModePick {
				return s, s.pray()
			}
			s.expanded[s.selected] = !s.expanded[s.selected]
		case "p":
			return s, s.pray()
		case "x":
			if s.mode == ModeBrowse {
				return s, s.toggleExclude()
			}
		}
	}
	return s, nil
}

func (s *ListsScreen) count() int {
	if s.coll == nil {
		return 0
	}
	return len(s.coll.Lists)
}

func (s *ListsScreen) current() (prayer.List, bool) {
	if s.selected < 0 || s.selected >= s.count() {
		return prayer.List{}, false
	}
	return s.coll.Lists[s.selected], true
}

func (s *ListsScreen) pray() tea.Cmd {
	l, ok := s.current()
	if !ok {
		return nil
	}
	next := sessionscreen.New(s.svc, l.ID)
	return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func (s *ListsScreen) toggleExclude() tea.Cmd {
	l, ok := s.current()
	if !ok || s.svc.Entities == nil {
		return nil
	}
	entities := s.svc.Entities
	return func() tea.Msg {
		err := entities.SetListExcluded(context.Background(), l.ID, !l.ExcludeFromAll)
		return excludeToggledMsg{Err: err}
	}
}

func (s *ListsScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	switch {
	case s.errMsg != "":
		return center.Foreground(theme.Error).Render("\n\nError: " + s.errMsg)
	case !s.loaded:
		return center.Foreground(theme.TextDim).Render("\n\n  Loading lists...")
	case s.count() == 0:
		return center.Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No lists yet. Add one with: prayz list add <name>")
	}

	var b strings.Builder
	b.WriteString("\n")
	for i, l := range s.coll.Lists {
		prefix := "  "
		style := theme.Unselected
		if i == s.selected {
			prefix = "▸ "
			style = theme.Selected
		}

		active := 0
		for _, tid := range l.TopicIDs {
			active += len(s.coll.ActiveRequestIDs(tid))
		}
		line := fmt.Sprintf("%s%s  %s", prefix, style.Render(l.Name),
			theme.Hint.Render(fmt.Sprintf("%d topics · %d requests", len(l.TopicIDs), active)))
		if l.ExcludeFromAll {
			line += "  " + lipgloss.NewStyle().Foreground(theme.Accent).Render("excluded")
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, line))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(s.renderTopics(l, width))
		}
	}
	return b.String()
}

func (s *ListsScreen) renderTopics(l prayer.List, width int) string {
	if len(l.TopicIDs) == 0 {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Hint.Render("    No topics")) + "\n"
	}
	var b strings.Builder
	for _, tid := range l.TopicIDs {
		t := s.coll.Topic(tid)
		if t == nil {
			continue
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Secondary).Render("    "+t.Name)))
		b.WriteString("\n")
		for _, rid := range t.RequestIDs {
			r := s.coll.Request(rid)
			if r == nil || r.Archived {
				continue
			}
			mark := "·"
			style := lipgloss.NewStyle().Foreground(theme.Text)
			if r.IsAnswered() {
				mark = "✓"
				style = theme.Answered
			}
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				style.Render(fmt.Sprintf("      %s %s", mark, r.Description))))
			b.WriteString("\n")
		}
	}
	return b.String()
}
