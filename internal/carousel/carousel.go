// Package carousel tracks a swipeable row of slides: the current index, an
// in-progress drag, and the measured slide geometry.
package carousel

import (
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/prayz/internal/timer"
)

// Rect is the horizontal extent of a rendered slide.
type Rect struct {
	X     float64
	Width float64
}

// Layout is a measurement of the rendered carousel.
type Layout struct {
	ContainerWidth float64
	Slides         []Rect
}

// Measurer reports the current rendered layout.
type Measurer interface {
	Measure() (Layout, error)
}

// MeasurerFunc adapts a function to Measurer.
type MeasurerFunc func() (Layout, error)

// Measure calls f.
func (f MeasurerFunc) Measure() (Layout, error) { return f() }

// Config tunes gesture handling. Distances share the Measurer's unit.
type Config struct {
	SwipeMinDistance float64
	SwipeWidthRatio  float64
	DragThreshold    float64
	DragClearDelay   time.Duration
	FrameInterval    time.Duration
	MeasureDebounce  time.Duration
	MaxStep          float64
}

// DefaultConfig returns the stock gesture tuning.
func DefaultConfig() Config {
	return Config{
		SwipeMinDistance: 60,
		SwipeWidthRatio:  0.15,
		DragThreshold:    8,
		DragClearDelay:   150 * time.Millisecond,
		FrameInterval:    16 * time.Millisecond,
		MeasureDebounce:  50 * time.Millisecond,
		MaxStep:          880,
	}
}

// Carousel is the slide state machine. Index 0 is the intro slide, 1..n the
// content slides and n+1 the summary slide.
type Carousel struct {
	cfg      Config
	log      zerolog.Logger
	measurer Measurer

	measure   *timer.Debouncer
	frame     *timer.Timeout
	dragClear *timer.Timeout

	mu         sync.Mutex
	count      int
	index      int
	dragging   bool
	startX     float64
	lastX      float64
	deltaX     float64
	wasDragged bool
	failures   int
	destroyed  bool
	onChange   func()

	containerWidth float64
	slideWidth     float64
	step           float64
}

// New creates a Carousel. measurer may be nil, in which case geometry stays at
// the MaxStep fallback.
func New(clock timer.Clock, log zerolog.Logger, cfg Config, measurer Measurer) *Carousel {
	return &Carousel{
		cfg:       cfg,
		log:       log,
		measurer:  measurer,
		measure:   timer.NewDebouncer(clock, log, "measure", cfg.MeasureDebounce),
		frame:     timer.NewTimeout(clock, log, "frame"),
		dragClear: timer.NewTimeout(clock, log, "drag-clear"),
		step:      cfg.MaxStep,
	}
}

// OnChange registers fn to run after asynchronous state changes (coalesced
// drag frames, measurements, drag flag expiry). fn runs without locks held.
func (c *Carousel) OnChange(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// SetItemCount sets the number of content slides, clamps the index and
// schedules a re-measure.
func (c *Carousel) SetItemCount(n int) {
	c.mu.Lock()
	changed := n != c.count
	c.count = max(n, 0)
	c.index = c.clampLocked(c.index)
	c.mu.Unlock()
	if changed {
		c.RequestMeasure()
	}
}

// ItemCount returns the number of content slides.
func (c *Carousel) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// MaxIndex returns the summary slide index.
func (c *Carousel) MaxIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count + 1
}

// Index returns the current slide index.
func (c *Carousel) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// SetIndex moves to i, clamped to [0, MaxIndex], and returns the result.
func (c *Carousel) SetIndex(i int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = c.clampLocked(i)
	return c.index
}

// Clamp limits i to [0, MaxIndex].
func (c *Carousel) Clamp(i int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clampLocked(i)
}

func (c *Carousel) clampLocked(i int) int {
	return min(max(i, 0), c.count+1)
}

// PointerDown starts a drag at x. Presses on interactive controls never
// start a swipe.
func (c *Carousel) PointerDown(x float64, interactive bool) {
	if interactive {
		return
	}
	c.dragClear.Cancel()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return
	}
	c.dragging = true
	c.wasDragged = false
	c.startX = x
	c.lastX = x
	c.deltaX = 0
}

// PointerMove records x. Updates to the drag offset are coalesced to one
// per frame interval.
func (c *Carousel) PointerMove(x float64) {
	c.mu.Lock()
	if !c.dragging {
		c.mu.Unlock()
		return
	}
	c.lastX = x
	c.mu.Unlock()

	if !c.frame.Pending() {
		c.frame.Schedule(c.cfg.FrameInterval, c.applyMove)
	}
}

func (c *Carousel) applyMove() {
	c.mu.Lock()
	if !c.dragging {
		c.mu.Unlock()
		return
	}
	c.deltaX = c.lastX - c.startX
	if math.Abs(c.deltaX) >= c.cfg.DragThreshold {
		c.wasDragged = true
	}
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// PointerUp ends the drag at x and returns the index the gesture selects.
// The carousel's own index is not changed; the caller commits it with
// SetIndex. ok is false when no drag was in progress.
func (c *Carousel) PointerUp(x float64) (next int, ok bool) {
	c.frame.Cancel()

	c.mu.Lock()
	if !c.dragging {
		idx := c.index
		c.mu.Unlock()
		return idx, false
	}
	c.dragging = false
	dx := x - c.startX
	c.deltaX = 0
	if math.Abs(dx) >= c.cfg.DragThreshold {
		c.wasDragged = true
	}
	dragged := c.wasDragged

	threshold := c.thresholdLocked()
	next = c.index
	if dx <= -threshold {
		next++
	} else if dx >= threshold {
		next--
	}
	next = c.clampLocked(next)
	c.mu.Unlock()

	if dragged {
		c.dragClear.Schedule(c.cfg.DragClearDelay, c.clearDragged)
	}
	return next, true
}

func (c *Carousel) clearDragged() {
	c.mu.Lock()
	c.wasDragged = false
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Dragging reports whether a drag is in progress.
func (c *Carousel) Dragging() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dragging
}

// DeltaX is the current drag offset.
func (c *Carousel) DeltaX() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deltaX
}

// WasDragged reports whether the last release ended a drag rather than a
// tap. It clears shortly after the release.
func (c *Carousel) WasDragged() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.wasDragged
}

// Threshold is the drag distance that commits a swipe.
func (c *Carousel) Threshold() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.thresholdLocked()
}

func (c *Carousel) thresholdLocked() float64 {
	w := c.slideWidth
	if w <= 0 {
		w = c.containerWidth
	}
	if w <= 0 {
		w = 1
	}
	return math.Max(c.cfg.SwipeMinDistance, w*c.cfg.SwipeWidthRatio)
}

// Offset is the horizontal track offset for the current index and drag.
func (c *Carousel) Offset() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	step := c.step
	if step <= 0 {
		step = c.containerWidth
	}
	return -float64(c.index)*step + c.deltaX
}

// Geometry returns the measured container width, slide width and step.
func (c *Carousel) Geometry() (container, slide, step float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.containerWidth, c.slideWidth, c.step
}

// Resize schedules a re-measure after a viewport change.
func (c *Carousel) Resize() { c.RequestMeasure() }

// RequestMeasure schedules a debounced re-measure.
func (c *Carousel) RequestMeasure() {
	c.mu.Lock()
	dead := c.destroyed
	c.mu.Unlock()
	if dead {
		return
	}
	c.measure.Trigger(c.Measure)
}

// Measure reads the layout now. A failed measurement keeps the previous
// geometry and retries once after the debounce delay.
func (c *Carousel) Measure() {
	if c.measurer == nil {
		return
	}
	layout, err := c.measurer.Measure()

	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.failures++
		retry := c.failures == 1
		c.mu.Unlock()
		c.log.Debug().Err(err).Msg("carousel measure failed")
		if retry {
			c.measure.Trigger(c.Measure)
		}
		return
	}
	c.failures = 0
	c.applyLayoutLocked(layout)
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (c *Carousel) applyLayoutLocked(l Layout) {
	w := l.ContainerWidth
	if w <= 0 {
		w = c.containerWidth
	}
	if w <= 0 {
		w = c.cfg.MaxStep
	}
	c.containerWidth = w

	slideW := w
	step := math.Min(w, c.cfg.MaxStep)
	if len(l.Slides) >= 1 {
		if l.Slides[0].Width > 0 {
			slideW = l.Slides[0].Width
		}
		if len(l.Slides) >= 2 {
			if d := math.Abs(l.Slides[1].X - l.Slides[0].X); d > 0 {
				step = d
			}
		} else {
			step = slideW
		}
	}
	c.slideWidth = slideW
	c.step = step
}

// Destroy cancels every pending timer. The carousel ignores input afterwards.
func (c *Carousel) Destroy() {
	c.mu.Lock()
	c.destroyed = true
	c.dragging = false
	c.onChange = nil
	c.mu.Unlock()

	c.measure.Stop()
	c.frame.Cancel()
	c.dragClear.Cancel()
}
