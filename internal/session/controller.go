package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/abhisek/prayz/internal/carousel"
	"github.com/abhisek/prayz/internal/prayer"
	"github.com/abhisek/prayz/internal/settings"
	"github.com/abhisek/prayz/internal/store"
	"github.com/abhisek/prayz/internal/timer"
	"github.com/abhisek/prayz/internal/wakelock"
)

// DefaultDwellThreshold is how long a slide must stay in view to count as prayed.
const DefaultDwellThreshold = 12 * time.Second

var (
	// ErrNoRequest is returned when the current slide is not an open request.
	ErrNoRequest = errors.New("current slide is not an open request")

	// ErrNoStore is returned for changes when the controller has no EntityStore.
	ErrNoStore = errors.New("session has no entity store")

	// ErrDestroyed is returned by operations on a destroyed controller.
	ErrDestroyed = errors.New("session destroyed")
)

// Options configures a Controller. Only Collections is required in
// practice; every collaborator has an in-memory or no-op default.
type Options struct {
	ListID      int
	Collections *prayer.Collections

	Settings SettingsStore
	Entities EntityStore
	Stats    StatsRecorder
	Events   EventRecorder
	WakeLock wakelock.Locker

	Clock          timer.Clock
	Rand           Rand
	Log            zerolog.Logger
	DwellThreshold time.Duration
	Carousel       carousel.Config
	Measurer       carousel.Measurer

	// NewID generates session ids. Defaults to random UUIDs.
	NewID func() string
}

// Controller orchestrates one prayer session: it owns the selection, the
// carousel, the dwell and countdown timers, and records what was prayed.
// All methods are safe for concurrent use; timer callbacks arrive on the
// clock's goroutine.
type Controller struct {
	listID   int
	entities EntityStore
	stats    StatsRecorder
	events   EventRecorder
	prefs    SettingsStore
	wake     wakelock.Locker
	clock    timer.Clock
	log      zerolog.Logger
	builder  Builder
	ctx      context.Context

	car       *carousel.Carousel
	dwell     *timer.Dwell
	countdown *timer.Countdown

	mu               sync.Mutex
	id               string
	phase            Phase
	coll             *prayer.Collections
	set              settings.Settings
	sel              *Selection
	countdownStarted bool
	expired          bool
	startedAt        time.Time
	counted          map[string]bool
	prayed           map[int]bool
	answered         int
	summary          *Summary
	onChange         func()
}

// New creates a Controller on the intro slide.
func New(opts Options) *Controller {
	if opts.Clock == nil {
		opts.Clock = timer.RealClock{}
	}
	if opts.Settings == nil {
		opts.Settings = settings.NewService(nil, opts.Log)
	}
	if opts.WakeLock == nil {
		opts.WakeLock = wakelock.Noop{}
	}
	if opts.DwellThreshold <= 0 {
		opts.DwellThreshold = DefaultDwellThreshold
	}
	if opts.Carousel == (carousel.Config{}) {
		opts.Carousel = carousel.DefaultConfig()
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Collections == nil {
		opts.Collections = prayer.NewCollections(nil, nil, nil)
	}

	id := opts.NewID()
	log := opts.Log.With().Str("session_id", id).Logger()
	b := NewBuilder(log)

	c := &Controller{
		listID:   opts.ListID,
		entities: opts.Entities,
		stats:    opts.Stats,
		events:   opts.Events,
		prefs:    opts.Settings,
		wake:     opts.WakeLock,
		clock:    opts.Clock,
		log:      log,
		builder:  b,
		ctx:      context.Background(),
		id:       id,
		coll:     opts.Collections,
		set:      opts.Settings.Get(),
		sel:      NewSelection(b, opts.ListID, opts.Rand),
		counted:  make(map[string]bool),
		prayed:   make(map[int]bool),
	}
	c.car = carousel.New(opts.Clock, log, opts.Carousel, opts.Measurer)
	c.car.OnChange(c.notify)
	c.dwell = timer.NewDwell(opts.Clock, log, opts.DwellThreshold)
	c.countdown = timer.NewCountdown(opts.Clock, log, func(int) { c.notify() }, c.expire)

	c.refreshSelectionLocked()
	return c
}

// ID returns the session id.
func (c *Controller) ID() string {
	return c.id
}

// Carousel exposes the slide geometry for rendering.
func (c *Controller) Carousel() *carousel.Carousel {
	return c.car
}

// OnChange registers fn to run after every state change, timer ticks
// included. fn runs without locks held and may call back into c.
func (c *Controller) OnChange(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Refresh replaces the collections snapshot. Before the session starts the
// selection follows it; afterwards only live request fields are overlaid.
func (c *Controller) Refresh(coll *prayer.Collections) {
	if coll == nil {
		coll = prayer.NewCollections(nil, nil, nil)
	}
	c.mu.Lock()
	if c.phase == PhaseDestroyed {
		c.mu.Unlock()
		return
	}
	c.coll = coll
	if c.sel.Frozen() {
		c.sel.Overlay(coll)
	} else {
		c.refreshSelectionLocked()
	}
	c.mu.Unlock()
	c.notify()
}

// UpdateSettings applies fn to the settings and persists them. Changes that
// affect the selection only take effect before the session starts.
func (c *Controller) UpdateSettings(ctx context.Context, fn func(*settings.Settings)) settings.Settings {
	next := c.prefs.Update(ctx, fn)

	c.mu.Lock()
	if c.phase == PhaseDestroyed {
		c.mu.Unlock()
		return next
	}
	keep := c.set.KeepAwake
	c.set = next
	if !c.sel.Frozen() {
		c.refreshSelectionLocked()
	}
	var fx []func()
	if c.phase == PhaseActive && next.KeepAwake != keep {
		fx = append(fx, c.wakeEffect(next.KeepAwake))
	}
	c.mu.Unlock()

	c.run(fx)
	return next
}

// SetIndex moves to slide i, clamped to the valid range.
func (c *Controller) SetIndex(i int) {
	c.mu.Lock()
	fx := c.setIndexLocked(i)
	c.mu.Unlock()
	c.run(fx)
}

// Jump moves directly to slide i.
func (c *Controller) Jump(i int) { c.SetIndex(i) }

// Next advances one slide.
func (c *Controller) Next() {
	c.mu.Lock()
	fx := c.setIndexLocked(c.car.Index() + 1)
	c.mu.Unlock()
	c.run(fx)
}

// Prev goes back one slide.
func (c *Controller) Prev() {
	c.mu.Lock()
	fx := c.setIndexLocked(c.car.Index() - 1)
	c.mu.Unlock()
	c.run(fx)
}

// PointerDown starts a swipe at x unless the press landed on a control.
func (c *Controller) PointerDown(x float64, interactive bool) {
	c.car.PointerDown(x, interactive)
}

// PointerMove tracks a swipe.
func (c *Controller) PointerMove(x float64) {
	c.car.PointerMove(x)
}

// PointerUp ends a swipe at x and moves to the slide it selects. It
// reports whether a swipe was in progress.
func (c *Controller) PointerUp(x float64) bool {
	next, ok := c.car.PointerUp(x)
	if !ok {
		return false
	}
	c.SetIndex(next)
	return true
}

// WasDragged reports whether a swipe just ended, so a release is not
// mistaken for a tap.
func (c *Controller) WasDragged() bool {
	return c.car.WasDragged()
}

// Resize schedules a geometry re-measure.
func (c *Controller) Resize() {
	c.car.Resize()
}

// InsertRequest creates a request in topicID. Once the session has started
// the new request is spliced in right after the current slide.
func (c *Controller) InsertRequest(ctx context.Context, topicID int, description string, priority int) (Item, error) {
	if c.entities == nil {
		return Item{}, ErrNoStore
	}
	req, err := c.entities.CreateRequest(ctx, topicID, description, priority)
	if err != nil {
		return Item{}, err
	}

	c.mu.Lock()
	if c.phase == PhaseDestroyed {
		c.mu.Unlock()
		return Item{}, ErrDestroyed
	}
	c.coll = c.coll.WithRequest(req, topicID)
	it, _ := c.builder.RequestFrom(c.coll, req.ID)
	if c.sel.Frozen() {
		idx := c.car.Index()
		onSummary := idx == c.car.MaxIndex()
		seq := c.sel.Sequence(c.set.SelectCount)
		c.sel.Insert(min(idx, len(seq)), it)
		c.car.SetItemCount(len(c.sel.Sequence(c.set.SelectCount)))
		if onSummary {
			c.car.SetIndex(c.car.MaxIndex())
		}
	} else {
		c.refreshSelectionLocked()
	}
	c.mu.Unlock()

	c.log.Info().Int("request_id", req.ID).Int("topic_id", topicID).Msg("request added during session")
	c.notify()
	return it, nil
}

// AnswerCurrent marks the current request answered with description.
func (c *Controller) AnswerCurrent(ctx context.Context, description string) (Item, error) {
	c.mu.Lock()
	it, ok := c.currentLocked()
	c.mu.Unlock()
	if !ok || !it.IsRequest() || it.IsAnswered {
		return Item{}, ErrNoRequest
	}

	now := c.clock.Now().UTC()
	desc := strings.TrimSpace(description)
	if _, err := c.updateRequest(ctx, it.ID, prayer.RequestChanges{
		AnsweredDate:      &now,
		AnswerDescription: &desc,
	}); err != nil {
		return Item{}, err
	}
	if c.stats != nil {
		c.stats.AddRequestsAnswered(ctx, 1)
	}

	c.mu.Lock()
	c.answered++
	if cur, ok := c.currentLocked(); ok && cur.Key() == it.Key() {
		it = cur
	}
	c.mu.Unlock()

	c.log.Info().Int("request_id", it.ID).Msg("request answered")
	c.notify()
	return it, nil
}

// Close ends the session and returns its summary. Only the first call
// records stats; a session that never started has no summary.
func (c *Controller) Close() (Summary, bool) {
	c.mu.Lock()
	fx := c.summarizeLocked()
	sum := c.summary
	c.mu.Unlock()
	c.run(fx)

	if sum == nil {
		return Summary{}, false
	}
	return *sum, true
}

// Destroy cancels every timer and releases the wake lock. No callback
// fires afterwards.
func (c *Controller) Destroy() {
	c.mu.Lock()
	if c.phase == PhaseDestroyed {
		c.mu.Unlock()
		return
	}
	c.phase = PhaseDestroyed
	c.onChange = nil
	c.mu.Unlock()

	c.dwell.Stop()
	c.countdown.Stop()
	c.car.Destroy()
	c.wake.Release()
	c.log.Debug().Msg("session destroyed")
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// State returns a snapshot for rendering.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	seq := c.sel.Sequence(c.set.SelectCount)
	return State{
		SessionID:         c.id,
		ListID:            c.listID,
		Phase:             c.phase,
		Settings:          c.set,
		Index:             c.car.Index(),
		MaxIndex:          c.car.MaxIndex(),
		Items:             seq,
		PoolSize:          len(c.sel.Pool()),
		AnsweredAvailable: c.sel.AnsweredAvailable(),
		PrayedCount:       len(c.prayed),
		CountdownStarted:  c.countdownStarted,
		Remaining:         c.countdown.Remaining(),
		Dragging:          c.car.Dragging(),
		DeltaX:            c.car.DeltaX(),
		WasDragged:        c.car.WasDragged(),
	}
}

// CurrentItem returns the item on the current slide, if any.
func (c *Controller) CurrentItem() (Item, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentLocked()
}

// ProgressPercent is how far through the content slides the session is.
func (c *Controller) ProgressPercent() float64 {
	return c.State().ProgressPercent()
}

// TimeProgressPercent is the share of the time budget used so far.
func (c *Controller) TimeProgressPercent() float64 {
	return c.countdown.ProgressPercent()
}

// FormatRemaining renders the time left, or the full budget before the
// countdown starts.
func (c *Controller) FormatRemaining() string {
	c.mu.Lock()
	started, set := c.countdownStarted, c.set
	c.mu.Unlock()

	switch {
	case set.Unlimited():
		return "Unlimited"
	case !started:
		return timer.FormatSeconds(set.TimeMinutes() * 60)
	}
	return c.countdown.FormatRemaining()
}

// Elapsed is the time since the session started.
func (c *Controller) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.startedAt.IsZero():
		return 0
	case c.summary != nil:
		return c.summary.Duration
	}
	return c.clock.Now().Sub(c.startedAt)
}

// Summary returns the summary captured when the session ended.
func (c *Controller) Summary() (Summary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.summary == nil {
		return Summary{}, false
	}
	return *c.summary, true
}

func (c *Controller) currentLocked() (Item, bool) {
	idx := c.car.Index()
	seq := c.sel.Sequence(c.set.SelectCount)
	if idx < 1 || idx > len(seq) {
		return Item{}, false
	}
	return seq[idx-1], true
}

func (c *Controller) refreshSelectionLocked() {
	c.sel.Refresh(c.coll, c.set)
	c.car.SetItemCount(len(c.sel.Sequence(c.set.SelectCount)))
}

// setIndexLocked moves the carousel and drives the phase transitions. It
// returns effects to run once the lock is released.
func (c *Controller) setIndexLocked(i int) []func() {
	if c.phase == PhaseDestroyed {
		return nil
	}
	prev := c.car.Index()
	idx := c.car.SetIndex(i)
	if idx == prev {
		return nil
	}

	var fx []func()
	if idx >= 1 && c.phase == PhaseNotStarted {
		fx = append(fx, c.startLocked()...)
	}
	if idx == 1 && !c.countdownStarted {
		c.countdownStarted = true
		cfg := timer.TimeConfig{Minutes: c.set.TimeMinutes(), Unlimited: c.set.Unlimited()}
		fx = append(fx, func() {
			if c.Phase() != PhaseDestroyed {
				c.countdown.Start(cfg)
			}
		})
	}
	if idx == c.car.MaxIndex() {
		fx = append(fx, c.summarizeLocked()...)
	}
	c.restartDwellLocked()
	return fx
}

func (c *Controller) startLocked() []func() {
	seq := c.sel.Freeze(c.set.SelectCount)
	c.car.SetItemCount(len(seq))
	c.phase = PhaseActive
	c.startedAt = c.clock.Now()
	clear(c.counted)
	clear(c.prayed)
	c.answered = 0

	data := store.SessionEventData{
		SessionID: c.id,
		Action:    store.ActionStart,
		ListID:    c.listID,
		ItemCount: len(seq),
	}
	keep := c.set.KeepAwake
	c.log.Info().Int("list_id", c.listID).Int("items", len(seq)).Msg("session started")

	fx := []func(){func() {
		if c.stats != nil {
			c.stats.AddSession(c.ctx)
		}
		c.recordEvent(data)
	}}
	if keep {
		fx = append(fx, c.wakeEffect(true))
	}
	return fx
}

// summarizeLocked snapshots the session once. Later calls do nothing.
func (c *Controller) summarizeLocked() []func() {
	if c.phase != PhaseActive {
		return nil
	}
	c.phase = PhaseSummarized
	c.dwell.Stop()

	sum := Summary{
		SessionID:     c.id,
		ListID:        c.listID,
		TotalItems:    len(c.sel.Sequence(c.set.SelectCount)),
		Duration:      c.clock.Now().Sub(c.startedAt),
		PrayedCount:   len(c.prayed),
		AnsweredCount: c.answered,
		Expired:       c.expired,
	}
	c.summary = &sum

	c.log.Info().
		Dur("duration", sum.Duration).
		Int("prayed", sum.PrayedCount).
		Int("answered", sum.AnsweredCount).
		Bool("expired", sum.Expired).
		Msg("session summarized")

	data := store.SessionEventData{
		SessionID:     c.id,
		Action:        store.ActionEnd,
		ListID:        c.listID,
		ItemCount:     sum.TotalItems,
		DurationSecs:  sum.DurationSecs(),
		PrayedCount:   sum.PrayedCount,
		AnsweredCount: sum.AnsweredCount,
	}
	return []func(){func() {
		c.countdown.Stop()
		if c.stats != nil {
			c.stats.AddSessionTime(c.ctx, sum.DurationSecs())
			c.stats.AddSessionRequestsPrayed(c.ctx, sum.PrayedCount)
		}
		c.recordEvent(data)
	}}
}

// expire jumps to the summary slide when the countdown runs out.
func (c *Controller) expire() {
	c.mu.Lock()
	if c.phase != PhaseActive {
		c.mu.Unlock()
		return
	}
	c.expired = true
	fx := c.setIndexLocked(c.car.MaxIndex())
	fx = append(fx, c.summarizeLocked()...)
	c.mu.Unlock()
	c.run(fx)
}

// restartDwellLocked cancels any pending dwell and arms a new one when the
// current slide has not been counted yet.
func (c *Controller) restartDwellLocked() {
	c.dwell.Stop()
	if c.phase != PhaseActive {
		return
	}
	it, ok := c.currentLocked()
	if !ok || it.IsAnswered || c.counted[it.Key()] {
		return
	}
	idx, key := c.car.Index(), it.Key()
	c.dwell.Restart(func() { c.completeDwell(idx, key) })
}

// completeDwell registers the slide at idx as prayed if it is still showing.
// A topic registers each of its active requests.
func (c *Controller) completeDwell(idx int, key string) {
	c.mu.Lock()
	if c.phase != PhaseActive || c.car.Index() != idx {
		c.mu.Unlock()
		return
	}
	it, ok := c.currentLocked()
	if !ok || it.Key() != key || it.IsAnswered || c.counted[key] {
		c.mu.Unlock()
		return
	}
	c.counted[key] = true

	ids := []int{it.ID}
	if it.Kind == KindTopic {
		ids = c.coll.ActiveRequestIDs(it.ID)
	}
	counts := make(map[int]int, len(ids))
	var order []int
	for _, id := range ids {
		if c.prayed[id] {
			continue
		}
		c.prayed[id] = true
		n := it.PrayerCount
		if r := c.coll.Request(id); r != nil {
			n = r.PrayerCount
		}
		counts[id] = n + 1
		order = append(order, id)
	}
	c.mu.Unlock()

	for _, id := range order {
		n := counts[id]
		if _, err := c.updateRequest(c.ctx, id, prayer.RequestChanges{PrayerCount: &n}); err != nil {
			c.log.Warn().Err(err).Int("request_id", id).Msg("register prayer")
		}
	}
	c.log.Debug().Str("item", key).Int("requests", len(order)).Msg("dwell registered")
	c.notify()
}

// updateRequest persists changes and folds the stored request back into the
// snapshot.
func (c *Controller) updateRequest(ctx context.Context, id int, changes prayer.RequestChanges) (prayer.Request, error) {
	if c.entities == nil {
		return prayer.Request{}, ErrNoStore
	}
	req, err := c.entities.UpdateRequest(ctx, id, changes)
	if err != nil {
		return prayer.Request{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == PhaseDestroyed {
		return req, nil
	}
	c.coll = c.coll.WithRequest(req, 0)
	if c.sel.Frozen() {
		c.sel.Overlay(c.coll)
	} else {
		c.refreshSelectionLocked()
	}
	return req, nil
}

func (c *Controller) recordEvent(data store.SessionEventData) {
	if c.events == nil {
		return
	}
	if err := c.events.AppendSessionEvent(c.ctx, data); err != nil {
		c.log.Warn().Err(err).Str("action", data.Action).Msg("record session event")
	}
}

func (c *Controller) wakeEffect(on bool) func() {
	return func() {
		if !on {
			c.wake.Release()
			return
		}
		if c.Phase() != PhaseDestroyed {
			c.wake.Request(c.ctx)
		}
	}
}

// run executes effects outside the lock, then notifies the observer.
func (c *Controller) run(fx []func()) {
	for _, f := range fx {
		f()
	}
	c.notify()
}

func (c *Controller) notify() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}
