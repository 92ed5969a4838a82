// Package settings holds the user's session preferences and persists them.
package settings

import (
	"context"
	"strconv"
	"sync"

	"github.com/rs/zerolog"
)

// Time budget bounds, in minutes. UnlimitedTime disables the countdown.
const (
	MinTime       = 1
	MaxTime       = 60
	UnlimitedTime = MaxTime + 1
	DefaultTime   = 60

	MaxSelectCount = 100
)

// Settings are the session preferences injected into the engine.
type Settings struct {
	ShuffleRequests bool `json:"shuffleRequests"`
	SelectCount     int  `json:"praySelectCount"`
	TimeValue       int  `json:"prayTimeValue"`
	AnsweredCount   int  `json:"prayAnsweredCount"`
	KeepAwake       bool `json:"keepAwake"`
}

// Default returns the settings used before the user changes anything.
func Default() Settings {
	return Settings{
		ShuffleRequests: true,
		SelectCount:     0,
		TimeValue:       DefaultTime,
		AnsweredCount:   0,
		KeepAwake:       false,
	}
}

// Normalize clamps stored values into their valid ranges.
func (s Settings) Normalize() Settings {
	s.TimeValue = s.ClampTime()
	s.SelectCount = min(max(s.SelectCount, 0), MaxSelectCount)
	s.AnsweredCount = max(s.AnsweredCount, 0)
	return s
}

// Unlimited reports whether the time budget is unbounded.
func (s Settings) Unlimited() bool {
	return s.ClampTime() >= UnlimitedTime
}

// TimeMinutes returns the countdown length in minutes.
func (s Settings) TimeMinutes() int {
	return min(s.ClampTime(), MaxTime)
}

// ClampTime maps TimeValue into [MinTime, UnlimitedTime].
func (s Settings) ClampTime() int {
	return min(max(s.TimeValue, MinTime), UnlimitedTime)
}

// ClampSelect returns the number of main items to show out of available.
// An out-of-range count selects everything; an empty pool selects nothing.
func (s Settings) ClampSelect(available int) int {
	if available <= 0 {
		return 0
	}
	if s.SelectCount < 1 || s.SelectCount > available {
		return available
	}
	return s.SelectCount
}

// ClampAnswered returns the answered sample size out of available.
func (s Settings) ClampAnswered(available int) int {
	return min(max(s.AnsweredCount, 0), max(available, 0))
}

// SelectLabel describes the select count for a pool of available items.
func (s Settings) SelectLabel(available int) string {
	n := s.ClampSelect(available)
	if n == available {
		return "All items"
	}
	return strconv.Itoa(n) + " of " + strconv.Itoa(available)
}

// TimeLabel describes the time budget.
func (s Settings) TimeLabel() string {
	if s.Unlimited() {
		return "Unlimited"
	}
	return strconv.Itoa(s.TimeMinutes()) + " min"
}

// AnsweredLabel describes the answered sample size.
func (s Settings) AnsweredLabel(available int) string {
	n := s.ClampAnswered(available)
	if n == 0 {
		return "None"
	}
	return strconv.Itoa(n)
}

// Repo persists Settings.
type Repo interface {
	// Load returns stored settings, or Default() when none are stored.
	Load(ctx context.Context) (Settings, error)
	Save(ctx context.Context, s Settings) error
}

// Service serves the current settings and persists updates.
type Service struct {
	repo Repo
	log  zerolog.Logger

	mu  sync.Mutex
	cur Settings
}

// NewService returns a Service holding Default() until Load is called.
func NewService(repo Repo, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log, cur: Default()}
}

// Load reads the stored settings. On failure the defaults remain in effect.
func (s *Service) Load(ctx context.Context) Settings {
	if s.repo == nil {
		return s.Get()
	}
	loaded, err := s.repo.Load(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("load settings")
		return s.Get()
	}
	s.mu.Lock()
	s.cur = loaded.Normalize()
	s.mu.Unlock()
	return s.Get()
}

// Get returns the current settings.
func (s *Service) Get() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// Update applies fn to the current settings and persists the result.
// Persistence failures are logged and the new value is kept in memory.
func (s *Service) Update(ctx context.Context, fn func(*Settings)) Settings {
	s.mu.Lock()
	next := s.cur
	fn(&next)
	next = next.Normalize()
	s.cur = next
	s.mu.Unlock()

	if s.repo != nil {
		if err := s.repo.Save(ctx, next); err != nil {
			s.log.Warn().Err(err).Msg("save settings")
		}
	}
	return next
}
