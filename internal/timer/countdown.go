package timer

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// TimeConfig is the session time budget.
type TimeConfig struct {
	Minutes   int
	Unlimited bool
}

// Countdown is the session-wide timer. It decrements once per second and
// reports expiry exactly once.
type Countdown struct {
	clock Clock
	tick  *Timeout

	onTick   func(remaining int)
	onExpire func()

	mu        sync.Mutex
	remaining int
	initial   int
	ticks     int
	started   bool
	running   bool
	expired   bool
	unlimited bool
	startedAt time.Time
}

// NewCountdown creates a stopped Countdown. Either hook may be nil.
func NewCountdown(clock Clock, log zerolog.Logger, onTick func(remaining int), onExpire func()) *Countdown {
	return &Countdown{
		clock:    clock,
		tick:     NewTimeout(clock, log, "countdown"),
		onTick:   onTick,
		onExpire: onExpire,
	}
}

// Start (re)initializes the countdown. For an unlimited budget no ticks are
// scheduled; only the start instant is recorded for Elapsed.
func (c *Countdown) Start(cfg TimeConfig) {
	c.mu.Lock()
	c.tick.Cancel()
	c.started = true
	c.expired = false
	c.ticks = 0
	c.startedAt = c.clock.Now()
	c.unlimited = cfg.Unlimited

	if cfg.Unlimited {
		c.remaining, c.initial = 0, 0
		c.running = false
		c.mu.Unlock()
		return
	}

	total := cfg.Minutes * 60
	if total < 0 {
		total = 0
	}
	c.remaining, c.initial = total, total
	if total == 0 {
		c.running = false
		c.expired = true
		onExpire := c.onExpire
		c.mu.Unlock()
		if onExpire != nil {
			onExpire()
		}
		return
	}
	c.running = true
	c.scheduleLocked()
	c.mu.Unlock()
}

// Stop halts the countdown without firing expiry.
func (c *Countdown) Stop() {
	c.mu.Lock()
	c.running = false
	c.mu.Unlock()
	c.tick.Cancel()
}

// scheduleLocked arms the next tick relative to the start instant so the
// ticks do not drift. A late clock yields zero-delay ticks, one at a time.
func (c *Countdown) scheduleLocked() {
	next := c.startedAt.Add(time.Duration(c.ticks+1) * time.Second)
	d := next.Sub(c.clock.Now())
	if d < 0 {
		d = 0
	}
	c.tick.Schedule(d, c.handleTick)
}

func (c *Countdown) handleTick() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.ticks++
	c.remaining--
	expiredNow := false
	if c.remaining <= 0 {
		c.remaining = 0
		c.running = false
		if !c.expired {
			c.expired = true
			expiredNow = true
		}
	} else {
		c.scheduleLocked()
	}
	remaining := c.remaining
	onTick, onExpire := c.onTick, c.onExpire
	c.mu.Unlock()

	if onTick != nil {
		onTick(remaining)
	}
	if expiredNow && onExpire != nil {
		onExpire()
	}
}

// Remaining returns the seconds left.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Initial returns the starting number of seconds.
func (c *Countdown) Initial() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initial
}

// Started reports whether Start has been called.
func (c *Countdown) Started() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.started
}

// Running reports whether ticks are still scheduled.
func (c *Countdown) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Expired reports whether the countdown reached zero.
func (c *Countdown) Expired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expired
}

// Elapsed returns time spent since Start. Unlimited sessions measure wall
// time from the start instant; limited ones count consumed seconds.
func (c *Countdown) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return 0
	}
	if c.unlimited {
		return c.clock.Now().Sub(c.startedAt)
	}
	return time.Duration(c.initial-c.remaining) * time.Second
}

// ProgressPercent returns consumed time as a percentage in [0, 100].
func (c *Countdown) ProgressPercent() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unlimited || c.initial <= 0 {
		return 0
	}
	pct := float64(c.initial-c.remaining) / float64(c.initial) * 100
	return clampPercent(pct)
}

// FormatRemaining renders the remaining time for display.
func (c *Countdown) FormatRemaining() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unlimited {
		return "Unlimited"
	}
	return FormatSeconds(c.remaining)
}

// FormatSeconds renders whole minutes (rounded up) from a minute on, and
// seconds below that.
func FormatSeconds(total int) string {
	if total >= 60 {
		return fmt.Sprintf("%d min", (total+59)/60)
	}
	return fmt.Sprintf("%d sec", total)
}

func clampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
