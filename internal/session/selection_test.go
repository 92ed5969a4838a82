package session

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/prayz/internal/prayer"
	"github.com/abhisek/prayz/internal/settings"
)

func ordered() settings.Settings {
	s := settings.Default()
	s.ShuffleRequests = false
	return s
}

func TestSelection_SequencePrependsAnswered(t *testing.T) {
	sel := NewSelection(NewBuilder(zerolog.Nop()), 1, seededRand(1))
	set := ordered()
	set.AnsweredCount = 1
	set.SelectCount = 2

	require.True(t, sel.Refresh(family(), set))
	assert.Equal(t, 1, sel.AnsweredAvailable())
	assert.Equal(t, []string{"r103", "r100", "r101"}, keys(sel.Sequence(set.SelectCount)))
	assert.Equal(t, 4, sel.MaxIndex(set.SelectCount))

	// Zero or out of range selects everything.
	assert.Len(t, sel.Sequence(0), 6)
	assert.Len(t, sel.Sequence(500), 6)
}

func TestSelection_EmptyList(t *testing.T) {
	c := prayer.NewCollections([]prayer.List{{ID: 1, Name: "Empty"}}, nil, nil)
	sel := NewSelection(NewBuilder(zerolog.Nop()), 1, nil)
	sel.Refresh(c, ordered())

	assert.Empty(t, sel.Sequence(0))
	assert.Equal(t, 0, settings.Settings{}.ClampSelect(len(sel.Pool())))
	assert.Equal(t, 1, sel.MaxIndex(0), "intro and summary only")
}

func TestSelection_RecomputesOnlyOnSignatureOrShuffle(t *testing.T) {
	sel := NewSelection(NewBuilder(zerolog.Nop()), 1, seededRand(7))
	c := family()
	set := ordered()

	require.True(t, sel.Refresh(c, set))
	assert.False(t, sel.Refresh(c, set), "same inputs")

	// A prayer count change keeps membership, so only live fields change.
	c = c.WithRequest(prayer.Request{ID: 101, Description: "Dad's back", Priority: 1, PrayerCount: 4}, 0)
	assert.False(t, sel.Refresh(c, set))
	assert.Equal(t, 4, sel.Pool()[1].PrayerCount)

	set.ShuffleRequests = true
	assert.True(t, sel.Refresh(c, set), "shuffle toggled")

	c = c.WithRequest(prayer.Request{ID: 104, Description: "New", Priority: 1}, 10)
	assert.True(t, sel.Refresh(c, set), "membership changed")
	assert.Len(t, sel.Pool(), 6)
}

func TestSelection_FreezeIgnoresUpstreamChanges(t *testing.T) {
	sel := NewSelection(NewBuilder(zerolog.Nop()), 1, seededRand(3))
	c := family()
	set := ordered()
	sel.Refresh(c, set)

	frozen := keys(sel.Freeze(0))
	require.True(t, sel.Frozen())

	c = c.WithRequest(prayer.Request{ID: 104, Description: "New", Priority: 5}, 10)
	c = c.WithRequest(prayer.Request{ID: 100, Description: "Mom's surgery", Priority: 3, PrayerCount: 9}, 0)
	set.ShuffleRequests = true
	assert.False(t, sel.Refresh(c, set))

	assert.Equal(t, frozen, keys(sel.Sequence(1)), "select count ignored once frozen")
	assert.Equal(t, 9, sel.Sequence(0)[0].PrayerCount, "live fields still overlaid")
}

func TestSelection_InsertReplacesSequence(t *testing.T) {
	sel := NewSelection(NewBuilder(zerolog.Nop()), 1, nil)
	sel.Refresh(family(), ordered())

	extra := Item{Kind: KindRequest, ID: 900, Description: "Inline"}
	assert.False(t, sel.Insert(0, extra), "not frozen")

	before := sel.Freeze(0)
	require.True(t, sel.Insert(1, extra))
	after := sel.Sequence(0)

	assert.Equal(t, []string{"r100", "r900", "r101", "r102", "t10", "t11"}, keys(after))
	assert.Equal(t, []string{"r100", "r101", "r102", "t10", "t11"}, keys(before), "previous slice untouched")

	require.True(t, sel.Insert(99, Item{Kind: KindRequest, ID: 901, Description: "End"}))
	assert.Equal(t, "r901", sel.Sequence(0)[6].Key())
}
