package session

import (
	"slices"

	sess "github.com/abhisek/prayz/internal/session"
	"github.com/abhisek/prayz/internal/settings"
)

// timeStops are the selectable time budgets in minutes. The last stop is
// unlimited.
var timeStops = []int{1, 2, 3, 4, 5, 10, 15, 20, 25, 30, 35, 40, 45, 50, 55, 60, settings.UnlimitedTime}

// stepSelect moves the item count through 1..pool, wrapping; the full pool
// is stored as 0 so it keeps meaning "all" as the pool grows.
func stepSelect(set *settings.Settings, st sess.State, delta int) {
	n := st.PoolSize
	if n == 0 {
		return
	}
	next := set.ClampSelect(n) + delta
	switch {
	case next < 1:
		next = n
	case next > n:
		next = 1
	}
	if next == n {
		next = 0
	}
	set.SelectCount = next
}

// stepTime moves the time budget to the neighbouring stop.
func stepTime(set *settings.Settings, _ sess.State, delta int) {
	cur := set.ClampTime()
	i, found := slices.BinarySearch(timeStops, cur)
	switch {
	case delta > 0 && found:
		i++
	case delta < 0:
		i--
	}
	set.TimeValue = timeStops[min(max(i, 0), len(timeStops)-1)]
}

func stepAnswered(set *settings.Settings, st sess.State, delta int) {
	set.AnsweredCount = min(max(set.ClampAnswered(st.AnsweredAvailable)+delta, 0), st.AnsweredAvailable)
}

func toggleShuffle(set *settings.Settings, _ sess.State, _ int) {
	set.ShuffleRequests = !set.ShuffleRequests
}

func toggleKeepAwake(set *settings.Settings, _ sess.State, _ int) {
	set.KeepAwake = !set.KeepAwake
}

// optionValues renders the current value of each options row, in order.
func optionValues(st sess.State) []string {
	set := st.Settings
	return []string{
		set.SelectLabel(st.PoolSize),
		set.TimeLabel(),
		set.AnsweredLabel(st.AnsweredAvailable),
		onOff(set.ShuffleRequests),
		onOff(set.KeepAwake),
	}
}

func onOff(b bool) string {
	if b {
		return "On"
	}
	return "Off"
}
