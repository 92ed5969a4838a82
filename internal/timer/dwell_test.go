package timer

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestDwell_FiresAfterThreshold(t *testing.T) {
	c := NewFakeClock(epoch)
	d := NewDwell(c, zerolog.Nop(), 12*time.Second)
	fired := 0
	d.Restart(func() { fired++ })

	c.Advance(11 * time.Second)
	assert.Zero(t, fired)
	c.Advance(time.Second)
	assert.Equal(t, 1, fired)
	assert.False(t, d.Pending())
}

func TestDwell_RestartDropsPending(t *testing.T) {
	c := NewFakeClock(epoch)
	d := NewDwell(c, zerolog.Nop(), 12*time.Second)
	var fired []string
	d.Restart(func() { fired = append(fired, "first") })

	c.Advance(11 * time.Second)
	d.Restart(func() { fired = append(fired, "second") })
	c.Advance(2 * time.Second)
	assert.Empty(t, fired)

	c.Advance(10 * time.Second)
	assert.Equal(t, []string{"second"}, fired)
}

func TestDebouncer_Coalesces(t *testing.T) {
	c := NewFakeClock(epoch)
	d := NewDebouncer(c, zerolog.Nop(), "measure", 50*time.Millisecond)
	calls := 0
	for i := 0; i < 5; i++ {
		d.Trigger(func() { calls++ })
		c.Advance(20 * time.Millisecond)
	}
	assert.Zero(t, calls)

	c.Advance(50 * time.Millisecond)
	assert.Equal(t, 1, calls)
}

func TestDebouncer_FlushAndStop(t *testing.T) {
	c := NewFakeClock(epoch)
	d := NewDebouncer(c, zerolog.Nop(), "measure", 50*time.Millisecond)
	calls := 0

	d.Trigger(func() { calls++ })
	d.Flush()
	assert.Equal(t, 1, calls)
	assert.False(t, d.Pending())

	d.Trigger(func() { calls++ })
	d.Stop()
	c.Advance(time.Second)
	assert.Equal(t, 1, calls)
}
