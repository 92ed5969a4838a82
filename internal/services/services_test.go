package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/prayz/internal/carousel"
	"github.com/abhisek/prayz/internal/config"
	"github.com/abhisek/prayz/internal/settings"
	"github.com/abhisek/prayz/internal/store"
	"github.com/abhisek/prayz/internal/timer"
	"github.com/abhisek/prayz/internal/wakelock"
)

func openServices(t *testing.T) (*Services, *timer.FakeClock) {
	t.Helper()
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	svc := FromStore(context.Background(), st, config.DefaultConfig(), zerolog.Nop())
	clock := timer.NewFakeClock(time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC))
	svc.Clock = clock
	svc.WakeLock = wakelock.Noop{}
	return svc, clock
}

func TestCarouselConfigDefaults(t *testing.T) {
	assert.Equal(t, carousel.DefaultConfig(), CarouselConfig(config.CarouselConfig{}))

	got := CarouselConfig(config.CarouselConfig{SwipeMinDistance: 30, MaxStep: 400})
	assert.Equal(t, 30.0, got.SwipeMinDistance)
	assert.Equal(t, 400.0, got.MaxStep)
	assert.Equal(t, carousel.DefaultConfig().DragThreshold, got.DragThreshold)
}

func TestSessionRecordsThroughStore(t *testing.T) {
	svc, clock := openServices(t)
	ctx := context.Background()

	list, err := svc.Entities.CreateList(ctx, "Family")
	require.NoError(t, err)
	topic, err := svc.Entities.CreateTopic(ctx, list.ID, "Parents")
	require.NoError(t, err)
	req, err := svc.Entities.CreateRequest(ctx, topic.ID, "Health for Mum", 3)
	require.NoError(t, err)

	coll, err := svc.Collections(ctx)
	require.NoError(t, err)

	ctrl := svc.NewSession(list.ID, coll, nil)
	defer ctrl.Destroy()

	ctrl.Next()
	clock.Advance(svc.Config.Session.DwellThreshold)
	clock.Advance(30 * time.Second)

	sum, ok := ctrl.Close()
	require.True(t, ok)
	assert.Equal(t, 1, sum.PrayedCount)

	sessions, milestone := svc.Milestone()
	assert.Equal(t, 1, sessions)
	assert.Equal(t, "First Prayer!", milestone)

	after, err := svc.Collections(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, after.Request(req.ID).PrayerCount)

	history, err := svc.Events.QuerySessionSummaries(ctx, store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, ctrl.ID(), history[0].SessionID)
	assert.Equal(t, 1, history[0].PrayedCount)
}

func TestSettingsPersistAcrossServices(t *testing.T) {
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	defer st.Close()
	ctx := context.Background()

	first := FromStore(ctx, st, config.DefaultConfig(), zerolog.Nop())
	first.Settings.Update(ctx, func(s *settings.Settings) { s.SelectCount = 4 })

	second := FromStore(ctx, st, config.DefaultConfig(), zerolog.Nop())
	assert.Equal(t, 4, second.Settings.Get().SelectCount)
}
