package app

import (
	"context"
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/prayz/internal/router"
	"github.com/abhisek/prayz/internal/screen"
	"github.com/abhisek/prayz/internal/screens/home"
	sessionscreen "github.com/abhisek/prayz/internal/screens/session"
	"github.com/abhisek/prayz/internal/screens/welcome"
	"github.com/abhisek/prayz/internal/services"
	"github.com/abhisek/prayz/internal/ui/layout"
)

// Options configures the TUI.
type Options struct {
	Services *services.Services

	// Splash shows the welcome animation before home.
	Splash bool

	// Pray opens a session on ListID straight away, on top of home.
	Pray   bool
	ListID int
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	svc    *services.Services
	router *router.Router
	start  tea.Cmd
	width  int
	height int
}

// newAppModel creates an AppModel whose stack starts at home, or at the
// splash screen that hands off to home.
func newAppModel(opts Options) AppModel {
	svc := opts.Services
	homeFactory := func() screen.Screen { return home.New(svc) }

	var initial screen.Screen
	switch {
	case opts.Pray:
		initial = homeFactory()
	case opts.Splash:
		initial = welcome.New(homeFactory)
	default:
		initial = homeFactory()
	}

	m := AppModel{
		svc:    svc,
		router: router.New(initial),
	}
	if opts.Pray {
		sess := sessionscreen.New(svc, opts.ListID)
		m.start = func() tea.Msg { return router.PushScreenMsg{Screen: sess} }
	}
	return m
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Active().Init(), m.start)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, m.router.Update(m.contentSize())

	case router.PushScreenMsg, router.ReplaceScreenMsg, router.PopScreenMsg:
		// The new top screen has not seen the terminal size yet.
		cmd := m.router.Update(msg)
		if m.width > 0 {
			size := m.contentSize()
			return m, tea.Batch(cmd, func() tea.Msg { return size })
		}
		return m, cmd

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			m.router.CloseAll()
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// contentSize is the area left to screens between header and footer.
func (m AppModel) contentSize() tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: m.width, Height: layout.ContentHeight(m.height)}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion

	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.frame())
	return v
}

// frame renders the header, the active screen and the footer.
func (m AppModel) frame() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	sessions, milestone := m.svc.Milestone()
	header := layout.RenderHeader(title, sessions, milestone, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(m.height-headerHeight-footerHeight, 0)

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		return p.KeyHints()
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
}

// Run starts the Bubble Tea program and blocks until it exits or ctx is
// cancelled. Open sessions are ended before returning.
func Run(ctx context.Context, opts Options) error {
	if opts.Services == nil {
		return errors.New("app: services are required")
	}
	m := newAppModel(opts)
	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err := p.Run()
	m.router.CloseAll()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
