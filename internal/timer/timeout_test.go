package timer

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturingClock hands callbacks back to the test instead of running them,
// to simulate a callback the runtime already released.
type capturingClock struct {
	FakeClock
	captured []func()
}

func (c *capturingClock) AfterFunc(_ time.Duration, f func()) Stopper {
	c.captured = append(c.captured, f)
	return noopStopper{}
}

type noopStopper struct{}

func (noopStopper) Stop() bool { return false }

func TestTimeout_ScheduleReplaces(t *testing.T) {
	c := NewFakeClock(epoch)
	to := NewTimeout(c, zerolog.Nop(), "test")
	var fired []string

	to.Schedule(time.Second, func() { fired = append(fired, "first") })
	to.Schedule(2*time.Second, func() { fired = append(fired, "second") })
	assert.Equal(t, 1, c.Pending())

	c.Advance(2 * time.Second)
	assert.Equal(t, []string{"second"}, fired)
	assert.False(t, to.Pending())
}

func TestTimeout_Cancel_Generation(t *testing.T) {
	c := NewFakeClock(epoch)
	to := NewTimeout(c, zerolog.Nop(), "test")
	fired := false

	to.Schedule(time.Second, func() { fired = true })
	require.True(t, to.Pending())
	to.Cancel()
	to.Cancel()

	c.Advance(time.Minute)
	assert.False(t, fired)
	assert.Zero(t, c.Pending())
}

func TestTimeout_DropsReleasedCallbackAfterCancel_Generation(t *testing.T) {
	c := &capturingClock{}
	to := NewTimeout(c, zerolog.Nop(), "test")
	fired := 0

	to.Schedule(time.Second, func() { fired++ })
	require.Len(t, c.captured, 1)
	to.Cancel()

	c.captured[0]()
	assert.Zero(t, fired)
}

func TestTimeout_StaleGenerationIgnored(t *testing.T) {
	c := &capturingClock{}
	to := NewTimeout(c, zerolog.Nop(), "test")
	var fired []string

	to.Schedule(time.Second, func() { fired = append(fired, "old") })
	to.Schedule(time.Second, func() { fired = append(fired, "new") })
	require.Len(t, c.captured, 2)

	c.captured[0]()
	c.captured[1]()
	assert.Equal(t, []string{"new"}, fired)
}

func TestTimeout_RecoversPanic_Generation(t *testing.T) {
	c := NewFakeClock(epoch)
	to := NewTimeout(c, zerolog.Nop(), "test")
	after := false

	to.Schedule(time.Second, func() { panic("boom") })
	assert.NotPanics(t, func() { c.Advance(time.Second) })

	to.Schedule(time.Second, func() { after = true })
	c.Advance(time.Second)
	assert.True(t, after)
}
