package carousel

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/prayz/internal/timer"
)

var epoch = time.Date(2025, 1, 1, 6, 0, 0, 0, time.UTC)

// countingMeasurer returns a fixed layout and counts calls.
type countingMeasurer struct {
	layout Layout
	err    error
	calls  int
}

func (m *countingMeasurer) Measure() (Layout, error) {
	m.calls++
	return m.layout, m.err
}

func newTestCarousel(m Measurer) (*Carousel, *timer.FakeClock) {
	clock := timer.NewFakeClock(epoch)
	return New(clock, zerolog.Nop(), DefaultConfig(), m), clock
}

func TestIndexClamping(t *testing.T) {
	c, _ := newTestCarousel(nil)
	c.SetItemCount(3)
	assert.Equal(t, 4, c.MaxIndex())
	assert.Equal(t, 4, c.SetIndex(10))
	assert.Equal(t, 0, c.SetIndex(-2))

	c.SetIndex(4)
	c.SetItemCount(1)
	assert.Equal(t, 2, c.Index(), "shrinking clamps the index")
}

func TestEmptyCarouselMaxIndex(t *testing.T) {
	c, _ := newTestCarousel(nil)
	c.SetItemCount(0)
	assert.Equal(t, 1, c.MaxIndex())
}

func TestSwipe(t *testing.T) {
	m := &countingMeasurer{layout: Layout{ContainerWidth: 800, Slides: []Rect{{X: 0, Width: 600}, {X: 616, Width: 600}}}}
	c, _ := newTestCarousel(m)
	c.SetItemCount(3)
	c.Measure()
	c.SetIndex(1)

	assert.InDelta(t, 90.0, c.Threshold(), 1e-9, "15% of a 600 wide slide")

	c.PointerDown(500, false)
	next, ok := c.PointerUp(400)
	require.True(t, ok)
	assert.Equal(t, 2, next, "left swipe past threshold advances")
	assert.Equal(t, 1, c.Index(), "PointerUp does not commit the index")

	c.PointerDown(400, false)
	next, _ = c.PointerUp(450)
	assert.Equal(t, 1, next, "short drag snaps back")

	c.PointerDown(100, false)
	next, _ = c.PointerUp(300)
	assert.Equal(t, 0, next, "right swipe retreats")

	c.SetIndex(4)
	c.PointerDown(500, false)
	next, _ = c.PointerUp(0)
	assert.Equal(t, 4, next, "clamped at the summary slide")
}

func TestThresholdMinimum(t *testing.T) {
	c, _ := newTestCarousel(&countingMeasurer{layout: Layout{ContainerWidth: 200}})
	c.Measure()
	assert.Equal(t, 60.0, c.Threshold())
}

func TestInteractivePressIgnored(t *testing.T) {
	c, _ := newTestCarousel(nil)
	c.SetItemCount(2)
	c.PointerDown(500, true)
	assert.False(t, c.Dragging())
	_, ok := c.PointerUp(0)
	assert.False(t, ok)
}

func TestMoveIsCoalescedPerFrame(t *testing.T) {
	c, clock := newTestCarousel(nil)
	c.SetItemCount(2)
	changes := 0
	c.OnChange(func() { changes++ })

	c.PointerDown(100, false)
	c.PointerMove(90)
	c.PointerMove(80)
	c.PointerMove(70)
	assert.Zero(t, c.DeltaX(), "no update before the frame")

	clock.Advance(16 * time.Millisecond)
	assert.Equal(t, -30.0, c.DeltaX())
	assert.Equal(t, 1, changes)
	assert.True(t, c.WasDragged())
}

func TestWasDraggedClears(t *testing.T) {
	c, clock := newTestCarousel(nil)
	c.SetItemCount(2)

	c.PointerDown(100, false)
	c.PointerUp(80)
	assert.True(t, c.WasDragged())

	clock.Advance(149 * time.Millisecond)
	assert.True(t, c.WasDragged())
	clock.Advance(time.Millisecond)
	assert.False(t, c.WasDragged())

	c.PointerDown(100, false)
	c.PointerUp(103)
	assert.False(t, c.WasDragged(), "a tap is not a drag")
}

func TestMeasureFallbacks(t *testing.T) {
	tests := []struct {
		name      string
		layout    Layout
		wantSlide float64
		wantStep  float64
	}{
		{"no slides uses container", Layout{ContainerWidth: 700}, 700, 700},
		{"wide container caps step", Layout{ContainerWidth: 1200}, 1200, 880},
		{"one slide steps by its width", Layout{ContainerWidth: 900, Slides: []Rect{{Width: 500}}}, 500, 500},
		{"two slides use their distance", Layout{ContainerWidth: 900, Slides: []Rect{{X: 10, Width: 500}, {X: 530, Width: 500}}}, 500, 520},
		{"zero container falls back to max step", Layout{}, 880, 880},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCarousel(&countingMeasurer{layout: tt.layout})
			c.Measure()
			_, slide, step := c.Geometry()
			assert.Equal(t, tt.wantSlide, slide)
			assert.Equal(t, tt.wantStep, step)
		})
	}
}

func TestRequestMeasureDebounced(t *testing.T) {
	m := &countingMeasurer{layout: Layout{ContainerWidth: 640}}
	c, clock := newTestCarousel(m)

	c.SetItemCount(1)
	c.SetItemCount(2)
	c.Resize()
	clock.Advance(49 * time.Millisecond)
	assert.Zero(t, m.calls)
	clock.Advance(time.Millisecond)
	assert.Equal(t, 1, m.calls)
}

func TestMeasureFailureRetriesOnce(t *testing.T) {
	m := &countingMeasurer{err: errors.New("not rendered")}
	c, clock := newTestCarousel(m)

	c.Measure()
	clock.Advance(time.Second)
	assert.Equal(t, 2, m.calls)

	container, _, step := c.Geometry()
	assert.Zero(t, container)
	assert.Equal(t, 880.0, step)
}

func TestOffset(t *testing.T) {
	c, clock := newTestCarousel(&countingMeasurer{layout: Layout{ContainerWidth: 400}})
	c.Measure()
	c.SetItemCount(3)
	c.SetIndex(2)
	assert.Equal(t, -800.0, c.Offset())

	c.PointerDown(300, false)
	c.PointerMove(280)
	clock.Advance(16 * time.Millisecond)
	assert.Equal(t, -820.0, c.Offset())
}

func TestDestroyCancelsTimers(t *testing.T) {
	m := &countingMeasurer{layout: Layout{ContainerWidth: 400}}
	c, clock := newTestCarousel(m)
	c.SetItemCount(3)
	c.PointerDown(100, false)
	c.PointerMove(10)
	c.Destroy()

	clock.Advance(time.Second)
	assert.Zero(t, m.calls)
	assert.Zero(t, clock.Pending())
	assert.Zero(t, c.DeltaX())
}
