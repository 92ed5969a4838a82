// Package services bundles the long-lived collaborators the screens and
// commands share, and builds prayer sessions from them.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/prayz/internal/carousel"
	"github.com/abhisek/prayz/internal/config"
	"github.com/abhisek/prayz/internal/prayer"
	"github.com/abhisek/prayz/internal/session"
	"github.com/abhisek/prayz/internal/settings"
	"github.com/abhisek/prayz/internal/stats"
	"github.com/abhisek/prayz/internal/store"
	"github.com/abhisek/prayz/internal/timer"
	"github.com/abhisek/prayz/internal/wakelock"
)

// Services holds the application's collaborators. Zero-value fields are
// tolerated where the consumer has a fallback.
type Services struct {
	Entities store.EntityRepo
	Events   store.EventRepo
	Settings *settings.Service
	Stats    *stats.Accumulator
	WakeLock wakelock.Locker
	Config   config.Config
	Clock    timer.Clock
	Log      zerolog.Logger
}

// FromStore wires every repository of st and loads the persisted settings
// and stats.
func FromStore(ctx context.Context, st *store.Store, cfg config.Config, log zerolog.Logger) *Services {
	prefs := settings.NewService(st.SettingsRepo(), log.With().Str("component", "settings").Logger())
	prefs.Load(ctx)

	return &Services{
		Entities: st.EntityRepo(),
		Events:   st.EventRepo(),
		Settings: prefs,
		Stats:    stats.New(ctx, st.StatsRepo(), log.With().Str("component", "stats").Logger(), time.Now),
		WakeLock: wakelock.NewInhibitor(log.With().Str("component", "wakelock").Logger(), nil),
		Config:   cfg,
		Clock:    timer.RealClock{},
		Log:      log,
	}
}

// Collections loads the current lists, topics and requests.
func (s *Services) Collections(ctx context.Context) (*prayer.Collections, error) {
	if s.Entities == nil {
		return prayer.NewCollections(nil, nil, nil), nil
	}
	c, err := s.Entities.Collections(ctx)
	if err != nil {
		return nil, fmt.Errorf("load collections: %w", err)
	}
	return c, nil
}

// NewSession builds a controller for listID (0 prays across all lists).
// measurer reports the rendered slide geometry in the same units as the
// configured carousel distances.
func (s *Services) NewSession(listID int, coll *prayer.Collections, measurer carousel.Measurer) *session.Controller {
	opts := session.Options{
		ListID:         listID,
		Collections:    coll,
		Entities:       s.Entities,
		WakeLock:       s.WakeLock,
		Clock:          s.Clock,
		Log:            s.Log.With().Str("component", "session").Logger(),
		DwellThreshold: s.Config.Session.DwellThreshold,
		Carousel:       CarouselConfig(s.Config.Carousel),
		Measurer:       measurer,
	}
	// Typed nils must not reach the interface fields.
	if s.Settings != nil {
		opts.Settings = s.Settings
	}
	if s.Stats != nil {
		opts.Stats = s.Stats
	}
	if s.Events != nil {
		opts.Events = s.Events
	}
	return session.New(opts)
}

// Milestone returns the lifetime session count and the milestone label.
func (s *Services) Milestone() (int, string) {
	if s.Stats == nil {
		return 0, ""
	}
	c := s.Stats.Counters()
	return c.TotalSessions, c.Milestone()
}

// CarouselConfig maps the file/env carousel settings onto the state
// machine's tuning. Zero fields fall back to the defaults.
func CarouselConfig(c config.CarouselConfig) carousel.Config {
	out := carousel.DefaultConfig()
	if c.SwipeMinDistance > 0 {
		out.SwipeMinDistance = c.SwipeMinDistance
	}
	if c.SwipeWidthRatio > 0 {
		out.SwipeWidthRatio = c.SwipeWidthRatio
	}
	if c.DragThreshold > 0 {
		out.DragThreshold = c.DragThreshold
	}
	if c.DragClearDelay > 0 {
		out.DragClearDelay = c.DragClearDelay
	}
	if c.FrameInterval > 0 {
		out.FrameInterval = c.FrameInterval
	}
	if c.MeasureDebounce > 0 {
		out.MeasureDebounce = c.MeasureDebounce
	}
	if c.MaxStep > 0 {
		out.MaxStep = c.MaxStep
	}
	return out
}
