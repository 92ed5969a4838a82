package session

import (
	"context"

	"github.com/abhisek/prayz/internal/prayer"
	"github.com/abhisek/prayz/internal/settings"
	"github.com/abhisek/prayz/internal/store"
)

// Phase represents the current phase of the session.
type Phase int

const (
	PhaseNotStarted Phase = iota // On the intro slide, selection still live
	PhaseActive                  // Praying through the frozen sequence
	PhaseSummarized              // Stats snapshotted
	PhaseDestroyed               // Timers cancelled, no further effects
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not-started"
	case PhaseActive:
		return "active"
	case PhaseSummarized:
		return "summarized"
	case PhaseDestroyed:
		return "destroyed"
	}
	return "unknown"
}

// EntityStore persists request changes made during a session.
// store.EntityRepo satisfies it.
type EntityStore interface {
	CreateRequest(ctx context.Context, topicID int, description string, priority int) (prayer.Request, error)
	UpdateRequest(ctx context.Context, id int, changes prayer.RequestChanges) (prayer.Request, error)
}

// EventRecorder appends session start and end events.
// store.EventRepo satisfies it.
type EventRecorder interface {
	AppendSessionEvent(ctx context.Context, data store.SessionEventData) error
}

// StatsRecorder receives the cumulative stats increments of a session.
// *stats.Accumulator satisfies it.
type StatsRecorder interface {
	AddSession(ctx context.Context)
	AddSessionTime(ctx context.Context, seconds int)
	AddSessionRequestsPrayed(ctx context.Context, n int)
	AddRequestsAnswered(ctx context.Context, n int)
}

// SettingsStore serves and persists session settings.
// *settings.Service satisfies it.
type SettingsStore interface {
	Get() settings.Settings
	Update(ctx context.Context, fn func(*settings.Settings)) settings.Settings
}

// State is a point-in-time view of a session for rendering.
type State struct {
	SessionID string
	ListID    int
	Phase     Phase
	Settings  settings.Settings

	// Index is the current slide: 0 intro, 1..len(Items) content, MaxIndex summary.
	Index    int
	MaxIndex int
	Items    []Item

	// PoolSize and AnsweredAvailable bound the intro slide's controls.
	PoolSize          int
	AnsweredAvailable int

	PrayedCount      int
	CountdownStarted bool
	Remaining        int

	Dragging   bool
	DeltaX     float64
	WasDragged bool
}

// Current returns the item on the current slide, if any.
func (s State) Current() (Item, bool) {
	if s.Index < 1 || s.Index > len(s.Items) {
		return Item{}, false
	}
	return s.Items[s.Index-1], true
}

// OnIntro reports whether the intro slide is showing.
func (s State) OnIntro() bool { return s.Index == 0 }

// OnSummary reports whether the summary slide is showing.
func (s State) OnSummary() bool { return s.Index == s.MaxIndex }

// CurrentSlide is the 1-based content slide number, 0 on the intro slide.
func (s State) CurrentSlide() int {
	if s.Index < 1 {
		return 0
	}
	return min(s.Index, len(s.Items))
}

// ProgressPercent is how far through the content slides the session is.
func (s State) ProgressPercent() float64 {
	if len(s.Items) == 0 || s.Index < 1 {
		return 0
	}
	return float64(s.CurrentSlide()) / float64(len(s.Items)) * 100
}
