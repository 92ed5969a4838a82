package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/prayz/internal/router"
	"github.com/abhisek/prayz/internal/screen"
	"github.com/abhisek/prayz/internal/ui/theme"
)

const (
	tickInterval = 150 * time.Millisecond
	lightAt      = 600 * time.Millisecond
	bannerAt     = 1500 * time.Millisecond
	totalDur     = 3000 * time.Millisecond
)

const tagline = "Be still, and know."

const candleBody = ` ┌┴┐
 │ │
 │ │
─┴─┴─`

// flameFrames flicker once the candle is lit.
var flameFrames = []string{"  )\n (·)", "  (\n (·)", "  )\n (˙)"}

type tickMsg time.Time

// WelcomeScreen lights a candle, shows the banner, then hands off to home.
type WelcomeScreen struct {
	homeFactory  func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that will transition to the screen produced by homeFactory.
func New(homeFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		homeFactory: homeFactory,
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tick()

	case tea.KeyPressMsg:
		// Any key skips the rest of the animation.
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	homeScreen := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: homeScreen}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	flame := "\n  "
	flameStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	if w.elapsed >= lightAt {
		flame = flameFrames[w.tickCount%len(flameFrames)]
		flameStyle = flameStyle.Foreground(theme.Accent)
	}
	sections = append(sections,
		flameStyle.Render(flame)+"\n"+
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(candleBody))

	if w.elapsed >= bannerAt {
		sections = append(sections, "", RenderBanner(width), "")
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Text).
			Italic(true).
			Render(tagline))
		sections = append(sections, "", lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("press any key to continue"))
	}

	content := strings.Join(sections, "\n")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
