package session

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/prayz/internal/prayer"
)

func TestBuilderDefaults(t *testing.T) {
	b := NewBuilder(zerolog.Nop())
	answered := epoch

	it := b.Request(prayer.Request{ID: 7, PrayerCount: -2}, nil, nil)
	assert.Equal(t, UnknownRequest, it.Description)
	assert.Equal(t, prayer.DefaultPriority, it.Priority)
	assert.Equal(t, 0, it.PrayerCount)
	assert.Equal(t, "r7", it.Key())

	topic := &prayer.Topic{ID: 3, Name: "Health"}
	list := &prayer.List{ID: 1, Name: "Family"}
	it = b.Request(prayer.Request{ID: 8, Description: "x", AnsweredDate: &answered}, topic, list)
	assert.True(t, it.IsAnswered)
	assert.Equal(t, "Health", it.TopicName)
	assert.Equal(t, "Family", it.ListName)

	it = b.Request(prayer.Request{ID: 9, Description: "x", AnsweredDate: &answered, Archived: true}, nil, nil)
	assert.False(t, it.IsAnswered, "archived requests are not answered items")

	tp := b.Topic(prayer.Topic{ID: 4}, list)
	assert.Equal(t, UnknownTopic, tp.Name)
	assert.Equal(t, "t4", tp.Key())
	assert.Equal(t, UnknownTopic, tp.Title())
}

func TestResolveScope_List(t *testing.T) {
	s := ResolveScope(1, family())
	assert.Equal(t, []int{10, 11}, s.TopicIDs)
	assert.Equal(t, []int{100, 101, 102}, s.RequestIDs)
	assert.Equal(t, []int{103}, s.AnsweredIDs)
	assert.Equal(t, "r100,r101,r102,t10,t11", s.Signature())
}

func TestResolveScope_AllSkipsExcludedLists(t *testing.T) {
	c := prayer.NewCollections(
		[]prayer.List{
			{ID: 1, Name: "Family", TopicIDs: []int{10}},
			{ID: 2, Name: "Archive", TopicIDs: []int{11}, ExcludeFromAll: true},
		},
		[]prayer.Topic{
			{ID: 10, Name: "Health", RequestIDs: []int{100}},
			{ID: 11, Name: "Old", RequestIDs: []int{101}},
		},
		[]prayer.Request{
			{ID: 100, Description: "a", Priority: 1},
			{ID: 101, Description: "b", Priority: 1},
		},
	)
	s := ResolveScope(AllLists, c)
	assert.Equal(t, []int{10}, s.TopicIDs)
	assert.Equal(t, []int{100}, s.RequestIDs)

	// Excluded lists still work when picked directly.
	s = ResolveScope(2, c)
	assert.Equal(t, []int{11}, s.TopicIDs)
}

func TestComputeSessionPool_PriorityScoring(t *testing.T) {
	pool := ComputeSessionPool(1, family(), false, nil)
	// Scores: 100 → 30, 101 → 10, 102 → 2*10-15 = 5. Topics follow.
	assert.Equal(t, []string{"r100", "r101", "r102", "t10", "t11"}, keys(pool))
}

func TestOrderByScore_Stable(t *testing.T) {
	var in []Item
	for id := 1; id <= 6; id++ {
		in = append(in, Item{Kind: KindRequest, ID: id, Priority: 1})
	}
	in = append(in, Item{Kind: KindRequest, ID: 7, Priority: 2})

	out := OrderByScore(in)
	assert.Equal(t, []string{"r7", "r1", "r2", "r3", "r4", "r5", "r6"}, keys(out))
	assert.Equal(t, "r1", in[0].Key(), "input must not be reordered")
}

func TestComputeSessionPool_EmptyList(t *testing.T) {
	c := prayer.NewCollections([]prayer.List{{ID: 1, Name: "Empty"}}, nil, nil)
	assert.Empty(t, ComputeSessionPool(1, c, false, nil))
	assert.Empty(t, ComputeSessionPool(1, c, true, nil))
	assert.Empty(t, ComputeSessionPool(99, c, false, nil), "unknown list")
}

func TestComputeSessionPool_ShuffleDedupes(t *testing.T) {
	c := family()
	for seed := range uint64(200) {
		pool := ComputeSessionPool(1, c, true, seededRand(seed))
		seen := make(map[string]bool)
		for _, it := range pool {
			require.False(t, seen[it.Key()], "seed %d: duplicate %s", seed, it.Key())
			seen[it.Key()] = true
		}
		require.Len(t, pool, 5, "seed %d", seed)
	}
}

func TestWeightedMultiset(t *testing.T) {
	a := Item{Kind: KindRequest, ID: 1, Priority: 5}
	b := Item{Kind: KindRequest, ID: 2, Priority: 0}
	topic := Item{Kind: KindTopic, ID: 9}

	w := WeightedMultiset([]Item{a, b}, []Item{topic})
	assert.Equal(t, []string{"r1", "r1", "r1", "r1", "r1", "r2", "t9"}, keys(w))
}

func TestShuffleWeight(t *testing.T) {
	a := Item{Kind: KindRequest, ID: 1, Priority: 5}
	b := Item{Kind: KindRequest, ID: 2, Priority: 1}
	rng := seededRand(42)

	var firstA, firstB int
	for range 10000 {
		w := WeightedMultiset([]Item{a, b}, nil)
		FisherYates(w, rng)
		switch w[0].ID {
		case 1:
			firstA++
		case 2:
			firstB++
		}
	}
	// Expected ratio is 5:1.
	assert.Greater(t, firstA, 3*firstB, "a=%d b=%d", firstA, firstB)
	assert.Greater(t, firstB, 0)
}

func TestFisherYates_UsesFullRange(t *testing.T) {
	s := []int{1, 2, 3, 4}
	// A draw of 1.0 would index past the end without clamping.
	FisherYates(s, &fixedRand{vals: []float64{0.9999999999, 1.0, 0}})
	assert.ElementsMatch(t, []int{1, 2, 3, 4}, s)
}

func TestDedupe_KeepsFirst(t *testing.T) {
	in := []Item{
		{Kind: KindRequest, ID: 2},
		{Kind: KindTopic, ID: 2},
		{Kind: KindRequest, ID: 1},
		{Kind: KindRequest, ID: 2},
	}
	assert.Equal(t, []string{"r2", "t2", "r1"}, keys(Dedupe(in)))
}

func answeredFixture(n int) *prayer.Collections {
	answered := epoch.Add(-time.Hour)
	topic := prayer.Topic{ID: 10, Name: "Praise"}
	var reqs []prayer.Request
	for i := range n {
		id := 200 + i
		topic.RequestIDs = append(topic.RequestIDs, id)
		reqs = append(reqs, prayer.Request{ID: id, Description: "answered", Priority: 1, AnsweredDate: &answered})
	}
	topic.RequestIDs = append(topic.RequestIDs, 300)
	reqs = append(reqs, prayer.Request{ID: 300, Description: "open", Priority: 1})
	return prayer.NewCollections(
		[]prayer.List{{ID: 1, Name: "Family", TopicIDs: []int{10}}},
		[]prayer.Topic{topic},
		reqs,
	)
}

func TestSampleAnswered(t *testing.T) {
	b := NewBuilder(zerolog.Nop())
	c := answeredFixture(5)
	scope := ResolveScope(1, c)

	for seed := range uint64(50) {
		got := b.SampleAnswered(scope, c, 2, seededRand(seed))
		require.Len(t, got, 2)
		assert.NotEqual(t, got[0].ID, got[1].ID, "drawn without replacement")
		for _, it := range got {
			assert.True(t, it.IsAnswered)
			assert.GreaterOrEqual(t, it.ID, 200)
			assert.Less(t, it.ID, 205)
		}
	}

	c = answeredFixture(1)
	scope = ResolveScope(1, c)
	assert.Len(t, b.SampleAnswered(scope, c, 2, seededRand(1)), 1, "never more than available")
	assert.Empty(t, b.SampleAnswered(scope, c, 0, seededRand(1)))
}
