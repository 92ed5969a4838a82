package session

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/prayz/internal/config"
	"github.com/abhisek/prayz/internal/router"
	sess "github.com/abhisek/prayz/internal/session"
	"github.com/abhisek/prayz/internal/services"
	"github.com/abhisek/prayz/internal/settings"
	"github.com/abhisek/prayz/internal/store"
	"github.com/abhisek/prayz/internal/timer"
	"github.com/abhisek/prayz/internal/wakelock"
)

var epoch = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

type harness struct {
	screen *SessionScreen
	svc    *services.Services
	clock  *timer.FakeClock
}

// newHarness seeds one list with a topic of two requests and opens a
// session screen on it with shuffling off: slides are r(Health), r(Work), t.
func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()

	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	svc := services.FromStore(ctx, st, config.DefaultConfig(), zerolog.Nop())
	clock := timer.NewFakeClock(epoch)
	svc.Clock = clock
	svc.WakeLock = wakelock.Noop{}
	svc.Settings.Update(ctx, func(s *settings.Settings) { s.ShuffleRequests = false })

	list, err := svc.Entities.CreateList(ctx, "Family")
	require.NoError(t, err)
	topic, err := svc.Entities.CreateTopic(ctx, list.ID, "Parents")
	require.NoError(t, err)
	_, err = svc.Entities.CreateRequest(ctx, topic.ID, "Health", 3)
	require.NoError(t, err)
	_, err = svc.Entities.CreateRequest(ctx, topic.ID, "Work", 1)
	require.NoError(t, err)

	s := New(svc, list.ID)
	t.Cleanup(s.Close)

	ready := s.Init()()
	require.IsType(t, sessionReadyMsg{}, ready)
	s.Update(ready)
	s.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	require.NotNil(t, s.ctrl)

	return &harness{screen: s, svc: svc, clock: clock}
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func (h *harness) typeText(text string) {
	for _, r := range text {
		h.screen.Update(keyPress(r))
	}
}

func (h *harness) state() sess.State {
	return h.screen.ctrl.State()
}

func isPop(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(router.PopScreenMsg)
	return ok
}

func TestSessionScreen_StartsOnIntro(t *testing.T) {
	h := newHarness(t)

	st := h.state()
	assert.True(t, st.OnIntro())
	assert.Equal(t, sess.PhaseNotStarted, st.Phase)
	assert.Len(t, st.Items, 3)
	assert.Contains(t, h.screen.View(100, 24), "Be still.")
}

func TestSessionScreen_RightArrowStartsSession(t *testing.T) {
	h := newHarness(t)

	h.screen.Update(specialKey(tea.KeyRight))

	st := h.state()
	assert.Equal(t, sess.PhaseActive, st.Phase)
	assert.Equal(t, 1, st.Index)
	assert.Equal(t, "Family", h.screen.Title())
	assert.Contains(t, h.screen.View(100, 24), "Health")
	assert.Equal(t, 1, h.svc.Stats.Counters().TotalSessions)
}

func TestSessionScreen_VimKeysNavigate(t *testing.T) {
	h := newHarness(t)

	h.screen.Update(keyPress('l'))
	h.screen.Update(keyPress('l'))
	assert.Equal(t, 2, h.state().Index)

	h.screen.Update(keyPress('h'))
	assert.Equal(t, 1, h.state().Index)
}

func TestSessionScreen_EscOnIntroPops(t *testing.T) {
	h := newHarness(t)

	_, cmd := h.screen.Update(specialKey(tea.KeyEscape))
	assert.True(t, isPop(cmd))
}

func TestSessionScreen_EscEndsThenPops(t *testing.T) {
	h := newHarness(t)
	h.screen.Update(specialKey(tea.KeyRight))
	h.clock.Advance(90 * time.Second)

	_, cmd := h.screen.Update(specialKey(tea.KeyEscape))
	assert.False(t, isPop(cmd))

	st := h.state()
	assert.True(t, st.OnSummary())
	sum, ok := h.screen.ctrl.Summary()
	require.True(t, ok)
	assert.Equal(t, 90, sum.DurationSecs())
	assert.Contains(t, h.screen.View(100, 24), "Amen.")

	_, cmd = h.screen.Update(specialKey(tea.KeyEscape))
	assert.True(t, isPop(cmd))
}

func TestSessionScreen_IntroOptionsAdjustSettings(t *testing.T) {
	h := newHarness(t)

	h.screen.Update(specialKey(tea.KeyDown)) // Time
	h.screen.Update(keyPress('-'))
	assert.Equal(t, 55, h.svc.Settings.Get().TimeValue)

	h.screen.Update(specialKey(tea.KeyUp)) // Items
	h.screen.Update(keyPress('-'))
	assert.Equal(t, 2, h.svc.Settings.Get().SelectCount)
	assert.Len(t, h.state().Items, 2)

	// Options keys do not move the carousel.
	assert.True(t, h.state().OnIntro())
}

func TestSessionScreen_NewRequestInline(t *testing.T) {
	h := newHarness(t)
	h.screen.Update(specialKey(tea.KeyRight))

	h.screen.Update(keyPress('n'))
	require.Equal(t, inputNewRequest, h.screen.mode)
	h.typeText("Peace at home")
	_, cmd := h.screen.Update(specialKey(tea.KeyEnter))
	require.NotNil(t, cmd)
	assert.Equal(t, inputNone, h.screen.mode)

	msg := cmd()
	require.IsType(t, requestInsertedMsg{}, msg)
	require.NoError(t, msg.(requestInsertedMsg).Err)
	h.screen.Update(msg)

	st := h.state()
	require.Len(t, st.Items, 4)
	assert.Equal(t, "Peace at home", st.Items[1].Description)
	assert.Equal(t, 1, st.Index)
	assert.Contains(t, h.screen.flash, "Peace at home")
}

func TestSessionScreen_EscCancelsInput(t *testing.T) {
	h := newHarness(t)
	h.screen.Update(specialKey(tea.KeyRight))

	h.screen.Update(keyPress('n'))
	h.typeText("draft")
	_, cmd := h.screen.Update(specialKey(tea.KeyEscape))

	assert.Nil(t, cmd)
	assert.Equal(t, inputNone, h.screen.mode)
	assert.Equal(t, sess.PhaseActive, h.state().Phase)
	assert.Len(t, h.state().Items, 3)
}

func TestSessionScreen_AnswerCurrent(t *testing.T) {
	h := newHarness(t)
	h.screen.Update(specialKey(tea.KeyRight))

	h.screen.Update(keyPress('a'))
	require.Equal(t, inputAnswer, h.screen.mode)
	h.typeText("Fully recovered")
	_, cmd := h.screen.Update(specialKey(tea.KeyEnter))
	require.NotNil(t, cmd)

	msg := cmd()
	require.IsType(t, requestAnsweredMsg{}, msg)
	require.NoError(t, msg.(requestAnsweredMsg).Err)
	h.screen.Update(msg)

	assert.Equal(t, 1, h.svc.Stats.Counters().TotalRequestsAnswered)
	coll, err := h.svc.Collections(context.Background())
	require.NoError(t, err)
	var answered int
	for _, r := range coll.Requests {
		if r.IsAnswered() {
			answered++
			assert.Equal(t, "Fully recovered", r.AnswerDescription)
		}
	}
	assert.Equal(t, 1, answered)
}

func TestSessionScreen_AnswerOnTopicShowsError(t *testing.T) {
	h := newHarness(t)
	h.screen.ctrl.Jump(3)
	it, ok := h.state().Current()
	require.True(t, ok)
	require.False(t, it.IsRequest())

	h.screen.Update(keyPress('a'))

	assert.Equal(t, inputNone, h.screen.mode)
	assert.Equal(t, sess.ErrNoRequest.Error(), h.screen.errMsg)
}

func TestSessionScreen_NewRequestOnIntroShowsError(t *testing.T) {
	h := newHarness(t)

	h.screen.Update(keyPress('n'))

	assert.Equal(t, inputNone, h.screen.mode)
	assert.Equal(t, errNoTopic.Error(), h.screen.errMsg)
}

func TestSessionScreen_DwellSignalsChange(t *testing.T) {
	h := newHarness(t)
	h.screen.Update(specialKey(tea.KeyRight))

	// Drain the notifications from starting.
	select {
	case <-h.screen.changes:
	default:
	}

	h.clock.Advance(h.svc.Config.Session.DwellThreshold)

	assert.Equal(t, 1, h.state().PrayedCount)
	assert.IsType(t, changedMsg{}, h.screen.waitForChange()())
}

func TestSessionScreen_MouseSwipe(t *testing.T) {
	h := newHarness(t)
	h.screen.Update(specialKey(tea.KeyRight))

	h.screen.Update(tea.MouseClickMsg{X: 60, Button: tea.MouseLeft})
	h.screen.Update(tea.MouseMotionMsg{X: 30, Button: tea.MouseLeft})
	h.screen.Update(tea.MouseReleaseMsg{X: 30, Button: tea.MouseLeft})

	assert.Equal(t, 2, h.state().Index)
	assert.True(t, h.screen.ctrl.WasDragged())
}

func TestSessionScreen_CloseDestroysController(t *testing.T) {
	h := newHarness(t)
	h.screen.Update(specialKey(tea.KeyRight))

	h.screen.Close()
	h.screen.Close()

	assert.Equal(t, sess.PhaseDestroyed, h.screen.ctrl.Phase())
	assert.Equal(t, 0, h.clock.Pending())
}

func TestStepTime(t *testing.T) {
	tests := []struct {
		from, delta, want int
	}{
		{60, 1, settings.UnlimitedTime},
		{settings.UnlimitedTime, 1, settings.UnlimitedTime},
		{settings.UnlimitedTime, -1, 60},
		{5, 1, 10},
		{5, -1, 4},
		{7, 1, 10},
		{7, -1, 5},
		{1, -1, 1},
	}
	for _, tt := range tests {
		set := settings.Settings{TimeValue: tt.from}
		stepTime(&set, sess.State{}, tt.delta)
		if set.TimeValue != tt.want {
			t.Errorf("stepTime(%d, %+d) = %d, want %d", tt.from, tt.delta, set.TimeValue, tt.want)
		}
	}
}

func TestStepSelectWraps(t *testing.T) {
	st := sess.State{PoolSize: 3}
	set := settings.Settings{}

	stepSelect(&set, st, 1) // all(3) wraps to 1
	assert.Equal(t, 1, set.SelectCount)
	stepSelect(&set, st, -1) // 1 wraps to all
	assert.Equal(t, 0, set.SelectCount)
	stepSelect(&set, st, -1)
	assert.Equal(t, 2, set.SelectCount)
}

func TestStepAnsweredClamps(t *testing.T) {
	st := sess.State{AnsweredAvailable: 1}
	set := settings.Settings{}

	stepAnswered(&set, st, 1)
	stepAnswered(&set, st, 1)
	assert.Equal(t, 1, set.AnsweredCount)
	stepAnswered(&set, st, -1)
	stepAnswered(&set, st, -1)
	assert.Equal(t, 0, set.AnsweredCount)
}

func TestRequestMeta(t *testing.T) {
	it := sess.Item{Kind: sess.KindRequest, Priority: 2, PrayerCount: 1200}
	meta := requestMeta(it)
	assert.True(t, strings.HasPrefix(meta, "✦✦"))
	assert.Contains(t, meta, "prayed 1,200 times")
}
