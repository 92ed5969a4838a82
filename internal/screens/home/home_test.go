package home

import (
	"context"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/prayz/internal/config"
	"github.com/abhisek/prayz/internal/router"
	"github.com/abhisek/prayz/internal/screens/history"
	"github.com/abhisek/prayz/internal/services"
	"github.com/abhisek/prayz/internal/store"
)

func newServices(t *testing.T) *services.Services {
	t.Helper()
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return services.FromStore(context.Background(), st, config.DefaultConfig(), zerolog.Nop())
}

func TestCandleFor(t *testing.T) {
	now := time.Date(2026, 5, 10, 20, 0, 0, 0, time.Local)
	today := now.Add(-2 * time.Hour)
	lastWeek := now.AddDate(0, 0, -7)

	assert.Equal(t, CandleUnlit, candleFor(nil, now))
	assert.Equal(t, CandleLit, candleFor(&today, now))
	assert.Equal(t, CandleEmbered, candleFor(&lastWeek, now))
}

func TestHome_OverviewCounts(t *testing.T) {
	svc := newServices(t)
	ctx := context.Background()
	l, err := svc.Entities.CreateList(ctx, "Family")
	require.NoError(t, err)
	topic, err := svc.Entities.CreateTopic(ctx, l.ID, "Parents")
	require.NoError(t, err)
	_, err = svc.Entities.CreateRequest(ctx, topic.ID, "Health", 1)
	require.NoError(t, err)

	h := New(svc)
	assert.Contains(t, h.View(100, 30), "Gathering")

	msg := h.Init()()
	require.IsType(t, overviewLoadedMsg{}, msg)
	h.Update(msg)

	assert.Equal(t, 1, h.overview.Lists)
	assert.Equal(t, 1, h.overview.Active)
	assert.Equal(t, 0, h.overview.Answered)
}

func TestHome_EmptyPointsAtCLI(t *testing.T) {
	h := New(newServices(t))
	h.Update(h.Init()())
	assert.Contains(t, h.View(100, 30), "prayz list add")
}

func TestHome_MenuPushesHistory(t *testing.T) {
	h := New(newServices(t))
	h.Update(h.Init()())

	for range 4 {
		h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	assert.IsType(t, &history.HistoryScreen{}, push.Screen)
}
