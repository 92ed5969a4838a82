package session

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/abhisek/prayz/internal/prayer"
	"github.com/abhisek/prayz/internal/store"
)

var epoch = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

// seededRand returns a deterministic Rand.
func seededRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// fixedRand replays vals, then repeats the last one.
type fixedRand struct {
	vals []float64
	i    int
}

func (f *fixedRand) Float64() float64 {
	v := f.vals[min(f.i, len(f.vals)-1)]
	f.i++
	return v
}

// family builds one list holding topic 10 (requests 100..102, 103 answered)
// and topic 11 with no requests.
func family() *prayer.Collections {
	answered := epoch.Add(-24 * time.Hour)
	return prayer.NewCollections(
		[]prayer.List{{ID: 1, Name: "Family", TopicIDs: []int{10, 11}}},
		[]prayer.Topic{
			{ID: 10, Name: "Health", RequestIDs: []int{100, 101, 102, 103}},
			{ID: 11, Name: "Neighbors"},
		},
		[]prayer.Request{
			{ID: 100, Description: "Mom's surgery", Priority: 3},
			{ID: 101, Description: "Dad's back", Priority: 1},
			{ID: 102, Description: "Sister's job", Priority: 2, PrayerCount: 15},
			{ID: 103, Description: "Grandma's recovery", Priority: 1, AnsweredDate: &answered},
		},
	)
}

// fakeEntities is an in-memory EntityStore.
type fakeEntities struct {
	mu      sync.Mutex
	coll    *prayer.Collections
	nextID  int
	updates []prayer.RequestChanges
	failOn  map[int]error
}

func newFakeEntities(c *prayer.Collections) *fakeEntities {
	return &fakeEntities{coll: c, nextID: 500}
}

func (f *fakeEntities) CreateRequest(_ context.Context, topicID int, description string, priority int) (prayer.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.coll.Topic(topicID) == nil {
		return prayer.Request{}, &store.NotFoundError{Entity: "topic", ID: topicID}
	}
	r, err := prayer.NewRequest(description, priority, epoch)
	if err != nil {
		return prayer.Request{}, err
	}
	f.nextID++
	r.ID = f.nextID
	f.coll = f.coll.WithRequest(r, topicID)
	return r, nil
}

func (f *fakeEntities) UpdateRequest(_ context.Context, id int, changes prayer.RequestChanges) (prayer.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failOn[id]; err != nil {
		return prayer.Request{}, err
	}
	cur := f.coll.Request(id)
	if cur == nil {
		return prayer.Request{}, &store.NotFoundError{Entity: "request", ID: id}
	}
	next := changes.Apply(*cur)
	f.coll = f.coll.WithRequest(next, 0)
	f.updates = append(f.updates, changes)
	return next, nil
}

func (f *fakeEntities) count(id int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.coll.Request(id).PrayerCount
}

func (f *fakeEntities) updateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.updates)
}

// fakeStats records StatsRecorder calls.
type fakeStats struct {
	mu       sync.Mutex
	sessions int
	seconds  int
	prayed   int
	answered int
	calls    []string
}

func (f *fakeStats) AddSession(context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions++
	f.calls = append(f.calls, "session")
}

func (f *fakeStats) AddSessionTime(_ context.Context, s int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seconds += s
	f.calls = append(f.calls, fmt.Sprintf("time:%d", s))
}

func (f *fakeStats) AddSessionRequestsPrayed(_ context.Context, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prayed += n
	f.calls = append(f.calls, fmt.Sprintf("prayed:%d", n))
}

func (f *fakeStats) AddRequestsAnswered(_ context.Context, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answered += n
}

// fakeEvents records session events.
type fakeEvents struct {
	mu     sync.Mutex
	events []store.SessionEventData
}

func (f *fakeEvents) AppendSessionEvent(_ context.Context, data store.SessionEventData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, data)
	return nil
}

// fakeLock counts wake lock calls.
type fakeLock struct {
	mu       sync.Mutex
	requests int
	releases int
}

func (f *fakeLock) Request(context.Context) {
	f.mu.Lock()
	f.requests++
	f.mu.Unlock()
}

func (f *fakeLock) Release() {
	f.mu.Lock()
	f.releases++
	f.mu.Unlock()
}

func keys(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Key()
	}
	return out
}
