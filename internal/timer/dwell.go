package timer

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Dwell fires a callback once a slide has stayed in view for a fixed
// threshold. Restarting it drops the previous slide's callback.
type Dwell struct {
	threshold time.Duration
	t         *Timeout
}

// NewDwell creates a Dwell timer with the given threshold.
func NewDwell(clock Clock, log zerolog.Logger, threshold time.Duration) *Dwell {
	return &Dwell{threshold: threshold, t: NewTimeout(clock, log, "dwell")}
}

// Restart cancels any pending callback and schedules fn after the threshold.
func (d *Dwell) Restart(fn func()) { d.t.Schedule(d.threshold, fn) }

// Stop cancels the pending callback.
func (d *Dwell) Stop() { d.t.Cancel() }

// Pending reports whether a callback is scheduled.
func (d *Dwell) Pending() bool { return d.t.Pending() }

// Threshold returns the dwell duration.
func (d *Dwell) Threshold() time.Duration { return d.threshold }

// Debouncer coalesces bursts of triggers into one call after a quiet delay.
type Debouncer struct {
	delay time.Duration
	t     *Timeout
	log   zerolog.Logger

	mu sync.Mutex
	fn func()
}

// NewDebouncer creates a Debouncer.
func NewDebouncer(clock Clock, log zerolog.Logger, name string, delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay, t: NewTimeout(clock, log, name), log: log}
}

// Trigger (re)arms the debouncer with fn.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	d.fn = fn
	d.mu.Unlock()
	d.t.Schedule(d.delay, d.run)
}

// Flush runs the pending call immediately, if any.
func (d *Debouncer) Flush() {
	if !d.t.Pending() {
		return
	}
	d.t.Cancel()
	d.run()
}

// Stop drops the pending call.
func (d *Debouncer) Stop() {
	d.t.Cancel()
	d.mu.Lock()
	d.fn = nil
	d.mu.Unlock()
}

// Pending reports whether a call is armed.
func (d *Debouncer) Pending() bool { return d.t.Pending() }

func (d *Debouncer) run() {
	d.mu.Lock()
	fn := d.fn
	d.fn = nil
	d.mu.Unlock()
	if fn != nil {
		Guard(d.log, "debounce", fn)
	}
}
