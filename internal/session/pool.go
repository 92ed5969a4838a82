package session

import (
	"math/rand/v2"
	"sort"

	"github.com/rs/zerolog"

	"github.com/abhisek/prayz/internal/prayer"
)

// Rand is the randomness source for shuffles. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// DefaultRand draws from the process-wide generator.
var DefaultRand Rand = globalRand{}

// ComputeSessionPool builds the main session pool for listID.
func ComputeSessionPool(listID int, c *prayer.Collections, shuffle bool, rng Rand) []Item {
	b := NewBuilder(zerolog.Nop())
	return b.Pool(ResolveScope(listID, c), c, shuffle, rng)
}

// Pool builds the main session pool for scope. Requests come first, either
// ordered by score or weighted-shuffled, followed by every eligible topic.
// In shuffle mode topics are shuffled in with the requests.
func (b Builder) Pool(scope Scope, c *prayer.Collections, shuffle bool, rng Rand) []Item {
	if rng == nil {
		rng = DefaultRand
	}
	requests := make([]Item, 0, len(scope.RequestIDs))
	for _, id := range scope.RequestIDs {
		if it, ok := b.RequestFrom(c, id); ok {
			requests = append(requests, it)
		}
	}
	topics := make([]Item, 0, len(scope.TopicIDs))
	for _, id := range scope.TopicIDs {
		if it, ok := b.TopicFrom(c, id); ok {
			topics = append(topics, it)
		}
	}

	if shuffle {
		weighted := WeightedMultiset(requests, topics)
		FisherYates(weighted, rng)
		return Dedupe(weighted)
	}
	return append(OrderByScore(requests), topics...)
}

// Score ranks a request item: priority*10 - prayerCount.
func Score(it Item) int {
	p := it.Priority
	if p <= 0 {
		p = prayer.DefaultPriority
	}
	return p*10 - it.PrayerCount
}

// OrderByScore returns requests sorted by descending Score. Equal scores
// keep their input order.
func OrderByScore(requests []Item) []Item {
	out := make([]Item, len(requests))
	copy(out, requests)
	sort.SliceStable(out, func(i, j int) bool {
		return Score(out[i]) > Score(out[j])
	})
	return out
}

// WeightedMultiset repeats each request max(1, priority) times and appends
// each topic once.
func WeightedMultiset(requests, topics []Item) []Item {
	n := len(topics)
	for _, r := range requests {
		n += max(1, r.Priority)
	}
	out := make([]Item, 0, n)
	for _, r := range requests {
		for range max(1, r.Priority) {
			out = append(out, r)
		}
	}
	return append(out, topics...)
}

// FisherYates shuffles s in place with a uniform permutation.
func FisherYates[T any](s []T, rng Rand) {
	if rng == nil {
		rng = DefaultRand
	}
	for i := len(s) - 1; i > 0; i-- {
		j := min(int(rng.Float64()*float64(i+1)), i)
		s[i], s[j] = s[j], s[i]
	}
}

// Dedupe keeps the first occurrence of every item key.
func Dedupe(items []Item) []Item {
	seen := make(map[string]bool, len(items))
	out := make([]Item, 0, len(items))
	for _, it := range items {
		k := it.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, it)
	}
	return out
}

// SampleAnswered draws up to n answered items from scope without replacement.
func (b Builder) SampleAnswered(scope Scope, c *prayer.Collections, n int, rng Rand) []Item {
	if n <= 0 || len(scope.AnsweredIDs) == 0 {
		return nil
	}
	ids := make([]int, len(scope.AnsweredIDs))
	copy(ids, scope.AnsweredIDs)
	FisherYates(ids, rng)
	ids = ids[:min(n, len(ids))]

	out := make([]Item, 0, len(ids))
	for _, id := range ids {
		if it, ok := b.RequestFrom(c, id); ok {
			out = append(out, it)
		}
	}
	return out
}
