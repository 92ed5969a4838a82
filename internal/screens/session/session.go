package session

import (
	"context"
	"errors"
	"sync/atomic"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/prayz/internal/carousel"
	"github.com/abhisek/prayz/internal/prayer"
	"github.com/abhisek/prayz/internal/router"
	"github.com/abhisek/prayz/internal/screen"
	sess "github.com/abhisek/prayz/internal/session"
	"github.com/abhisek/prayz/internal/services"
	"github.com/abhisek/prayz/internal/settings"
	"github.com/abhisek/prayz/internal/ui/components"
	"github.com/abhisek/prayz/internal/ui/layout"
)

// defaultCellWidth converts terminal columns to carousel distance units
// when the config leaves it unset.
const defaultCellWidth = 8

// inputMode is the inline form currently open, if any.
type inputMode int

const (
	inputNone inputMode = iota
	inputNewRequest
	inputAnswer
)

// errNoTopic is shown when a new request has no topic to go into.
var errNoTopic = errors.New("move to a slide inside a topic to add a request")

// SessionScreen implements screen.Screen for a prayer session.
type SessionScreen struct {
	svc    *services.Services
	listID int
	ctrl   *sess.Controller

	changes chan struct{}
	done    chan struct{}
	closed  bool

	width  atomic.Int64
	height int
	cell   float64

	options components.Options
	input   components.TextInput
	mode    inputMode
	topicID int

	flash  string
	errMsg string
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)
var _ screen.Closer = (*SessionScreen)(nil)
var _ screen.EscapeHandler = (*SessionScreen)(nil)

// New creates a SessionScreen for listID; 0 prays across every list not
// excluded from "all".
func New(svc *services.Services, listID int) *SessionScreen {
	cell := svc.Config.Carousel.CellWidth
	if cell <= 0 {
		cell = defaultCellWidth
	}
	s := &SessionScreen{
		svc:     svc,
		listID:  listID,
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
		cell:    cell,
		input:   components.NewTextInput("", false, 200),
	}
	s.input.Blur()
	s.options = components.NewOptions([]components.Option{
		{Label: "Items", Adjust: s.adjust(stepSelect)},
		{Label: "Time", Adjust: s.adjust(stepTime)},
		{Label: "Answered", Adjust: s.adjust(stepAnswered)},
		{Label: "Shuffle", Adjust: s.adjust(toggleShuffle)},
		{Label: "Keep awake", Adjust: s.adjust(toggleKeepAwake)},
	})
	return s
}

func (s *SessionScreen) Init() tea.Cmd {
	if s.ctrl != nil {
		return s.waitForChange()
	}
	svc := s.svc
	return func() tea.Msg {
		coll, err := svc.Collections(context.Background())
		return sessionReadyMsg{Collections: coll, Err: err}
	}
}

func (s *SessionScreen) Title() string {
	if s.ctrl == nil {
		return "Prayer"
	}
	st := s.ctrl.State()
	switch {
	case st.OnIntro():
		return "Prayer"
	case st.OnSummary():
		return "Summary"
	}
	if it, ok := st.Current(); ok && it.ListName != "" {
		return it.ListName
	}
	return "Prayer"
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	if s.mode != inputNone {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Save"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	if s.ctrl == nil {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	st := s.ctrl.State()
	switch {
	case st.OnIntro():
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Setting"},
			{Key: "-/+", Description: "Adjust"},
			{Key: "→", Description: "Begin"},
			{Key: "Esc", Description: "Back"},
		}
	case st.OnSummary():
		return []layout.KeyHint{
			{Key: "←", Description: "Back"},
			{Key: "Esc", Description: "Finish"},
		}
	}
	return []layout.KeyHint{
		{Key: "←→", Description: "Move"},
		{Key: "n", Description: "New request"},
		{Key: "a", Description: "Answered"},
		{Key: "Esc", Description: "End"},
	}
}

// HandlesEscape keeps esc from popping the screen mid-session.
func (s *SessionScreen) HandlesEscape() bool {
	return true
}

// Close ends the session and cancels its timers.
func (s *SessionScreen) Close() {
	if s.closed {
		return
	}
	s.closed = true
	close(s.done)
	if s.ctrl != nil {
		s.ctrl.Close()
		s.ctrl.Destroy()
	}
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionReadyMsg:
		return s.handleReady(msg)

	case changedMsg:
		return s, s.waitForChange()

	case requestInsertedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.flash = "Added: " + msg.Item.Title()
		return s, nil

	case requestAnsweredMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.flash = "Praise! Marked answered."
		return s, nil

	case tea.WindowSizeMsg:
		s.width.Store(int64(msg.Width))
		s.height = msg.Height
		if s.ctrl != nil {
			s.ctrl.Resize()
		}
		return s, nil

	case tea.MouseClickMsg:
		if s.ctrl != nil && msg.Button == tea.MouseLeft {
			s.ctrl.PointerDown(s.units(msg.X), s.mode != inputNone)
		}
		return s, nil

	case tea.MouseMotionMsg:
		if s.ctrl != nil {
			s.ctrl.PointerMove(s.units(msg.X))
		}
		return s, nil

	case tea.MouseReleaseMsg:
		if s.ctrl != nil {
			s.ctrl.PointerUp(s.units(msg.X))
		}
		return s, nil

	case tea.KeyPressMsg:
		if s.ctrl == nil {
			if msg.String() == "esc" {
				return s, pop
			}
			return s, nil
		}
		if s.mode != inputNone {
			return s.handleInputKey(msg)
		}
		return s.handleKey(msg)
	}

	if s.mode != inputNone {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *SessionScreen) handleReady(msg sessionReadyMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return s, nil
	}
	s.ctrl = s.svc.NewSession(s.listID, msg.Collections, carousel.MeasurerFunc(s.measure))
	s.ctrl.OnChange(s.signal)
	s.ctrl.Carousel().Measure()
	return s, s.waitForChange()
}

func (s *SessionScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	st := s.ctrl.State()
	s.flash, s.errMsg = "", ""

	if st.OnIntro() {
		if opts, adjusted := s.options.Update(msg); adjusted || opts.Selected != s.options.Selected {
			s.options = opts
			return s, nil
		}
	}

	switch msg.String() {
	case "esc":
		if st.OnIntro() || st.OnSummary() || st.Phase != sess.PhaseActive {
			return s, pop
		}
		s.ctrl.Jump(st.MaxIndex)
	case "right", "l", "enter":
		s.ctrl.Next()
	case "left", "h":
		s.ctrl.Prev()
	case "home", "g":
		s.ctrl.Jump(0)
	case "end", "G":
		s.ctrl.Jump(st.MaxIndex)
	case "n":
		it, ok := st.Current()
		if !ok || it.TopicID == 0 {
			s.errMsg = errNoTopic.Error()
			return s, nil
		}
		s.topicID = it.TopicID
		return s, s.openInput(inputNewRequest, "New request in "+topicLabel(it)+":")
	case "a":
		it, ok := st.Current()
		if !ok || !it.IsRequest() || it.IsAnswered {
			s.errMsg = sess.ErrNoRequest.Error()
			return s, nil
		}
		return s, s.openInput(inputAnswer, "How was it answered?")
	}
	return s, nil
}

func (s *SessionScreen) handleInputKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.closeInput()
		return s, nil
	case "enter":
		text := s.input.Value()
		mode, topicID := s.mode, s.topicID
		s.closeInput()
		ctrl := s.ctrl
		switch mode {
		case inputNewRequest:
			return s, func() tea.Msg {
				it, err := ctrl.InsertRequest(context.Background(), topicID, text, prayer.DefaultPriority)
				return requestInsertedMsg{Item: it, Err: err}
			}
		case inputAnswer:
			return s, func() tea.Msg {
				it, err := ctrl.AnswerCurrent(context.Background(), text)
				return requestAnsweredMsg{Item: it, Err: err}
			}
		}
		return s, nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *SessionScreen) openInput(mode inputMode, prompt string) tea.Cmd {
	s.mode = mode
	s.input.Reset()
	s.input.Prompt = prompt
	return s.input.Focus()
}

func (s *SessionScreen) closeInput() {
	s.mode = inputNone
	s.input.Reset()
	s.input.Blur()
}

// signal is the controller's change observer. It never blocks: one
// pending notification is enough to trigger a redraw.
func (s *SessionScreen) signal() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

func (s *SessionScreen) waitForChange() tea.Cmd {
	changes, done := s.changes, s.done
	return func() tea.Msg {
		select {
		case <-changes:
			return changedMsg{}
		case <-done:
			return nil
		}
	}
}

// measure reports the carousel geometry: one slide per terminal width.
func (s *SessionScreen) measure() (carousel.Layout, error) {
	w := float64(s.width.Load()) * s.cell
	if w <= 0 {
		return carousel.Layout{}, errors.New("terminal width unknown")
	}
	return carousel.Layout{
		ContainerWidth: w,
		Slides:         []carousel.Rect{{X: 0, Width: w}, {X: w, Width: w}},
	}, nil
}

func (s *SessionScreen) units(col int) float64 {
	return float64(col) * s.cell
}

func (s *SessionScreen) adjust(fn func(*settings.Settings, sess.State, int)) func(int) {
	return func(delta int) {
		if s.ctrl == nil {
			return
		}
		st := s.ctrl.State()
		s.ctrl.UpdateSettings(context.Background(), func(set *settings.Settings) {
			fn(set, st, delta)
		})
	}
}

func pop() tea.Msg { return router.PopScreenMsg{} }

func topicLabel(it sess.Item) string {
	if it.TopicName != "" {
		return it.TopicName
	}
	return "this topic"
}
