// Package stats accumulates cumulative prayer statistics across sessions.
package stats

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Counters is the persisted form of the cumulative statistics.
type Counters struct {
	TotalTimePrayed       int        `json:"totalTimePrayed"` // seconds
	TotalRequestsPrayed   int        `json:"totalRequestsPrayed"`
	TotalRequestsAnswered int        `json:"totalRequestsAnswered"`
	TotalSessions         int        `json:"totalSessions"`
	FirstSessionDate      *time.Time `json:"firstSessionDate"`
	LastSessionDate       *time.Time `json:"lastSessionDate"`
}

// Repo persists Counters.
type Repo interface {
	// Load returns the stored counters, or zero counters if none exist.
	Load(ctx context.Context) (Counters, error)

	// Save replaces the stored counters.
	Save(ctx context.Context, c Counters) error
}

// Accumulator applies monotonic increments and saves after each one.
// Save failures are logged; the in-memory counters stay authoritative.
type Accumulator struct {
	repo Repo
	log  zerolog.Logger
	now  func() time.Time

	mu sync.Mutex
	c  Counters
}

// New loads the counters from repo. A load failure starts from zero.
func New(ctx context.Context, repo Repo, log zerolog.Logger, now func() time.Time) *Accumulator {
	if now == nil {
		now = time.Now
	}
	a := &Accumulator{repo: repo, log: log, now: now}
	if repo != nil {
		c, err := repo.Load(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("load prayer stats")
		} else {
			a.c = c
		}
	}
	return a
}

// Counters returns a copy of the current counters.
func (a *Accumulator) Counters() Counters {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.c
}

// AddSessionTime adds prayed seconds. Negative values are ignored.
func (a *Accumulator) AddSessionTime(ctx context.Context, seconds int) {
	if seconds <= 0 {
		return
	}
	a.update(ctx, func(c *Counters) { c.TotalTimePrayed += seconds })
}

// AddSessionRequestsPrayed adds n prayed requests.
func (a *Accumulator) AddSessionRequestsPrayed(ctx context.Context, n int) {
	if n <= 0 {
		return
	}
	a.update(ctx, func(c *Counters) { c.TotalRequestsPrayed += n })
}

// AddRequestsAnswered adds n answered requests.
func (a *Accumulator) AddRequestsAnswered(ctx context.Context, n int) {
	if n <= 0 {
		return
	}
	a.update(ctx, func(c *Counters) { c.TotalRequestsAnswered += n })
}

// AddSession counts a started session and stamps the session dates.
func (a *Accumulator) AddSession(ctx context.Context) {
	now := a.now().UTC()
	a.update(ctx, func(c *Counters) {
		c.TotalSessions++
		if c.FirstSessionDate == nil {
			first := now
			c.FirstSessionDate = &first
		}
		last := now
		c.LastSessionDate = &last
	})
}

// SessionsPerWeek averages sessions over the span between the first and last
// session, counting at least one week.
func (a *Accumulator) SessionsPerWeek() float64 {
	c := a.Counters()
	if c.FirstSessionDate == nil || c.LastSessionDate == nil || c.TotalSessions <= 1 {
		return float64(c.TotalSessions)
	}
	weeks := c.LastSessionDate.Sub(*c.FirstSessionDate).Hours() / 24 / 7
	if weeks < 1 {
		weeks = 1
	}
	return float64(c.TotalSessions) / weeks
}

// Reset zeroes every counter.
func (a *Accumulator) Reset(ctx context.Context) {
	a.update(ctx, func(c *Counters) { *c = Counters{} })
}

// SetAll replaces every counter, clamping negatives to zero.
func (a *Accumulator) SetAll(ctx context.Context, in Counters) {
	a.update(ctx, func(c *Counters) {
		*c = in
		c.TotalTimePrayed = max(0, c.TotalTimePrayed)
		c.TotalRequestsPrayed = max(0, c.TotalRequestsPrayed)
		c.TotalRequestsAnswered = max(0, c.TotalRequestsAnswered)
		c.TotalSessions = max(0, c.TotalSessions)
	})
}

func (a *Accumulator) update(ctx context.Context, fn func(*Counters)) {
	a.mu.Lock()
	fn(&a.c)
	snapshot := a.c
	a.mu.Unlock()

	if a.repo == nil {
		return
	}
	if err := a.repo.Save(ctx, snapshot); err != nil {
		a.log.Warn().Err(err).Msg("save prayer stats")
	}
}
