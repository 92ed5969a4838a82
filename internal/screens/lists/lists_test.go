package lists

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/prayz/internal/config"
	"github.com/abhisek/prayz/internal/router"
	sessionscreen "github.com/abhisek/prayz/internal/screens/session"
	"github.com/abhisek/prayz/internal/services"
	"github.com/abhisek/prayz/internal/store"
)

func newServices(t *testing.T) *services.Services {
	t.Helper()
	ctx := context.Background()
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	svc := services.FromStore(ctx, st, config.DefaultConfig(), zerolog.Nop())

	fam, err := svc.Entities.CreateList(ctx, "Family")
	require.NoError(t, err)
	topic, err := svc.Entities.CreateTopic(ctx, fam.ID, "Parents")
	require.NoError(t, err)
	_, err = svc.Entities.CreateRequest(ctx, topic.ID, "Health", 2)
	require.NoError(t, err)
	_, err = svc.Entities.CreateList(ctx, "Work")
	require.NoError(t, err)
	return svc
}

func load(s *ListsScreen) {
	s.Update(s.Init()())
}

func TestLists_PickPushesSession(t *testing.T) {
	s := New(newServices(t), ModePick)
	load(s)

	view := s.View(100, 20)
	assert.Contains(t, view, "Family")
	assert.Contains(t, view, "1 topics · 1 requests")

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	sess, ok := push.Screen.(*sessionscreen.SessionScreen)
	require.True(t, ok)
	sess.Close()
}

func TestLists_BrowseExpandsTopics(t *testing.T) {
	s := New(newServices(t), ModeBrowse)
	load(s)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, cmd)
	view := s.View(100, 20)
	assert.Contains(t, view, "Parents")
	assert.Contains(t, view, "Health")
}

func TestLists_ToggleExclude(t *testing.T) {
	svc := newServices(t)
	s := New(svc, ModeBrowse)
	load(s)

	s.Update(tea.KeyPressMsg{Code: 'j', Text: "j"})
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, excludeToggledMsg{}, msg)

	_, reload := s.Update(msg)
	require.NotNil(t, reload)
	s.Update(reload())

	assert.True(t, s.coll.Lists[1].ExcludeFromAll)
	assert.Contains(t, s.View(100, 20), "excluded")
}

func TestLists_ExcludeIgnoredInPickMode(t *testing.T) {
	s := New(newServices(t), ModePick)
	load(s)

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	assert.Nil(t, cmd)
}

func TestLists_Empty(t *testing.T) {
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	defer st.Close()
	s := New(services.FromStore(context.Background(), st, config.DefaultConfig(), zerolog.Nop()), ModePick)
	load(s)

	assert.Contains(t, s.View(100, 20), "No lists yet")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, cmd)
}
