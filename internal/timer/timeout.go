package timer

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Timeout owns at most one scheduled callback. A callback that was already
// released by the clock when it got cancelled or replaced is dropped.
type Timeout struct {
	clock Clock
	log   zerolog.Logger
	name  string

	mu     sync.Mutex
	gen    uint64
	handle Stopper
}

// NewTimeout creates a Timeout. name identifies it in logs.
func NewTimeout(clock Clock, log zerolog.Logger, name string) *Timeout {
	return &Timeout{clock: clock, log: log, name: name}
}

// Schedule cancels any outstanding callback and runs fn after d.
func (t *Timeout) Schedule(d time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancelLocked()
	gen := t.gen
	t.handle = t.clock.AfterFunc(d, func() { t.fire(gen, fn) })
}

// Cancel drops the outstanding callback, if any.
func (t *Timeout) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
}

// Pending reports whether a callback is scheduled.
func (t *Timeout) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.handle != nil
}

func (t *Timeout) cancelLocked() {
	if t.handle != nil {
		t.handle.Stop()
		t.handle = nil
	}
	t.gen++
}

func (t *Timeout) fire(gen uint64, fn func()) {
	t.mu.Lock()
	if gen != t.gen || t.handle == nil {
		t.mu.Unlock()
		return
	}
	t.handle = nil
	t.mu.Unlock()

	Guard(t.log, t.name, fn)
}

// Guard runs fn, recovering and logging a panic instead of letting it
// escape into the clock's goroutine.
func Guard(log zerolog.Logger, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("timer", name).Interface("panic", r).Msg("timer callback panicked")
		}
	}()
	fn()
}
