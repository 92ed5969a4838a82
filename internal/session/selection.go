package session

import (
	"strconv"

	"github.com/abhisek/prayz/internal/prayer"
	"github.com/abhisek/prayz/internal/settings"
)

// Selection owns a session's pool and answered sample. It recomputes them
// only when scope membership or shuffle mode changes, and never once frozen.
// It is not safe for concurrent use; the Controller serializes access.
type Selection struct {
	b      Builder
	rng    Rand
	listID int

	computed  bool
	signature string
	shuffle   bool
	pool      []Item

	answeredKey       string
	answered          []Item
	answeredAvailable int

	frozen   bool
	sequence []Item
}

// NewSelection returns an empty selection for listID.
func NewSelection(b Builder, listID int, rng Rand) *Selection {
	if rng == nil {
		rng = DefaultRand
	}
	return &Selection{b: b, rng: rng, listID: listID}
}

// Refresh recomputes the pool and answered sample if their inputs changed.
// It reports whether anything was recomputed. A frozen selection only
// overlays live request fields.
func (s *Selection) Refresh(c *prayer.Collections, set settings.Settings) bool {
	if s.frozen {
		s.Overlay(c)
		return false
	}

	scope := ResolveScope(s.listID, c)
	changed := false

	sig := scope.Signature()
	if !s.computed || sig != s.signature || set.ShuffleRequests != s.shuffle {
		s.pool = s.b.Pool(scope, c, set.ShuffleRequests, s.rng)
		s.signature = sig
		s.shuffle = set.ShuffleRequests
		s.computed = true
		changed = true
	} else {
		s.pool = overlay(s.pool, c)
	}

	s.answeredAvailable = len(scope.AnsweredIDs)
	n := set.ClampAnswered(s.answeredAvailable)
	key := scope.AnsweredSignature() + "#" + strconv.Itoa(n)
	if key != s.answeredKey {
		s.answered = s.b.SampleAnswered(scope, c, n, s.rng)
		s.answeredKey = key
		changed = true
	} else {
		s.answered = overlay(s.answered, c)
	}
	return changed
}

// Pool returns the main pool.
func (s *Selection) Pool() []Item { return s.pool }

// Answered returns the answered sample.
func (s *Selection) Answered() []Item { return s.answered }

// AnsweredAvailable is the number of answered requests in scope.
func (s *Selection) AnsweredAvailable() int { return s.answeredAvailable }

// Frozen reports whether the sequence is fixed.
func (s *Selection) Frozen() bool { return s.frozen }

// Sequence returns the ordered slides: the answered sample followed by the
// first selectCount pool items. An empty pool yields an empty sequence.
// Once frozen the frozen sequence is returned and selectCount is ignored.
func (s *Selection) Sequence(selectCount int) []Item {
	if s.frozen {
		return s.sequence
	}
	if len(s.pool) == 0 {
		return nil
	}
	n := settings.Settings{SelectCount: selectCount}.ClampSelect(len(s.pool))
	out := make([]Item, 0, len(s.answered)+n)
	out = append(out, s.answered...)
	return append(out, s.pool[:n]...)
}

// MaxIndex is the summary slide index for selectCount.
func (s *Selection) MaxIndex(selectCount int) int {
	return len(s.Sequence(selectCount)) + 1
}

// Freeze fixes the sequence for the rest of the session and returns it.
func (s *Selection) Freeze(selectCount int) []Item {
	if !s.frozen {
		s.sequence = s.Sequence(selectCount)
		s.frozen = true
	}
	return s.sequence
}

// Insert splices it into the frozen sequence at position at, replacing the
// sequence slice rather than editing it. It reports false when not frozen.
func (s *Selection) Insert(at int, it Item) bool {
	if !s.frozen {
		return false
	}
	at = min(max(at, 0), len(s.sequence))
	next := make([]Item, 0, len(s.sequence)+1)
	next = append(next, s.sequence[:at]...)
	next = append(next, it)
	next = append(next, s.sequence[at:]...)
	s.sequence = next
	return true
}

// Overlay refreshes request fields of the frozen sequence from c without
// changing its order or membership.
func (s *Selection) Overlay(c *prayer.Collections) {
	if s.frozen {
		s.sequence = overlay(s.sequence, c)
	}
}

// overlay returns a copy of items with live prayer counts, priority and
// answer state. Requests missing from c are kept unchanged.
func overlay(items []Item, c *prayer.Collections) []Item {
	if c == nil || len(items) == 0 {
		return items
	}
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it
		if it.Kind != KindRequest {
			continue
		}
		r := c.Request(it.ID)
		if r == nil {
			continue
		}
		out[i].PrayerCount = max(0, r.PrayerCount)
		if r.Priority > 0 {
			out[i].Priority = r.Priority
		}
		if r.Description != "" {
			out[i].Description = r.Description
		}
		out[i].IsAnswered = r.IsAnswered()
		out[i].AnsweredDate = r.AnsweredDate
		out[i].AnswerDescription = r.AnswerDescription
	}
	return out
}
