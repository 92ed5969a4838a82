// Package wakelock keeps the machine awake while a prayer session runs.
// Every failure is logged and swallowed.
package wakelock

import (
	"context"
	"os/exec"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
)

// Locker requests and releases a keep-awake lock.
type Locker interface {
	Request(ctx context.Context)
	Release()
}

// Noop is a Locker that does nothing.
type Noop struct{}

func (Noop) Request(context.Context) {}
func (Noop) Release()                {}

// Starter starts a helper process and returns a function that stops it.
type Starter func(ctx context.Context) (stop func() error, err error)

// Inhibitor holds the lock by running a platform helper (systemd-inhibit or
// caffeinate) for as long as the lock is held.
type Inhibitor struct {
	log   zerolog.Logger
	start Starter

	mu         sync.Mutex
	requesting bool
	stop       func() error
}

// NewInhibitor returns an Inhibitor for the current platform. start may be
// nil to use the platform default.
func NewInhibitor(log zerolog.Logger, start Starter) *Inhibitor {
	if start == nil {
		start = platformStarter(runtime.GOOS)
	}
	return &Inhibitor{log: log, start: start}
}

// Request acquires the lock. It is a no-op while the lock is held or being
// acquired.
func (i *Inhibitor) Request(ctx context.Context) {
	i.mu.Lock()
	if i.requesting || i.stop != nil {
		i.mu.Unlock()
		return
	}
	i.requesting = true
	i.mu.Unlock()

	stop, err := i.start(ctx)

	i.mu.Lock()
	defer i.mu.Unlock()
	i.requesting = false
	if err != nil {
		i.log.Warn().Err(err).Msg("wake lock unavailable")
		return
	}
	i.stop = stop
}

// Release drops the lock if held.
func (i *Inhibitor) Release() {
	i.mu.Lock()
	stop := i.stop
	i.stop = nil
	i.mu.Unlock()

	if stop == nil {
		return
	}
	if err := stop(); err != nil {
		i.log.Debug().Err(err).Msg("wake lock release")
	}
}

// Held reports whether the lock is currently held.
func (i *Inhibitor) Held() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.stop != nil
}

func platformStarter(goos string) Starter {
	var name string
	var args []string
	switch goos {
	case "linux":
		name = "systemd-inhibit"
		args = []string{"--what=idle:sleep", "--who=prayz", "--why=Prayer session", "sleep", "infinity"}
	case "darwin":
		name = "caffeinate"
		args = []string{"-di"}
	default:
		return func(context.Context) (func() error, error) {
			return nil, &UnsupportedError{GOOS: goos}
		}
	}
	return func(ctx context.Context) (func() error, error) {
		// The helper must outlive the request context.
		cmd := exec.CommandContext(context.WithoutCancel(ctx), name, args...)
		if err := cmd.Start(); err != nil {
			return nil, err
		}
		return func() error {
			if err := cmd.Process.Kill(); err != nil {
				return err
			}
			_ = cmd.Wait()
			return nil
		}, nil
	}
}

// UnsupportedError reports a platform without a keep-awake helper.
type UnsupportedError struct {
	GOOS string
}

func (e *UnsupportedError) Error() string {
	return "wake lock not supported on " + e.GOOS
}
