package session

import (
	"sort"
	"strconv"
	"strings"

	"github.com/abhisek/prayz/internal/prayer"
)

// AllLists selects every list not excluded from "all" sessions. List ids are
// positive, so zero never names a real list.
const AllLists = 0

// Scope is the set of entities eligible for one session.
type Scope struct {
	ListID int

	// TopicIDs are the eligible topics in collection order.
	TopicIDs []int

	// RequestIDs are the active requests owned by eligible topics, in
	// collection order.
	RequestIDs []int

	// AnsweredIDs are the answered, unarchived requests owned by eligible
	// topics, in collection order.
	AnsweredIDs []int
}

// ResolveScope computes the eligible topics and requests for listID, or for
// every included list when listID is AllLists.
func ResolveScope(listID int, c *prayer.Collections) Scope {
	s := Scope{ListID: listID}
	if c == nil {
		return s
	}

	eligible := make(map[int]bool)
	if listID != AllLists {
		if l := c.List(listID); l != nil {
			for _, tid := range l.TopicIDs {
				eligible[tid] = true
			}
		}
	} else {
		for _, t := range c.Topics {
			// A topic follows its first owning list.
			if owner := c.OwnerList(t.ID); owner != nil && !owner.ExcludeFromAll {
				eligible[t.ID] = true
			}
		}
	}

	owned := make(map[int]bool)
	for _, t := range c.Topics {
		if !eligible[t.ID] {
			continue
		}
		s.TopicIDs = append(s.TopicIDs, t.ID)
		for _, rid := range t.RequestIDs {
			owned[rid] = true
		}
	}

	for _, r := range c.Requests {
		if !owned[r.ID] {
			continue
		}
		switch {
		case r.IsActive():
			s.RequestIDs = append(s.RequestIDs, r.ID)
		case r.IsAnswered():
			s.AnsweredIDs = append(s.AnsweredIDs, r.ID)
		}
	}
	return s
}

// Empty reports whether the scope has nothing to pray for.
func (s Scope) Empty() bool {
	return len(s.TopicIDs) == 0 && len(s.RequestIDs) == 0
}

// Signature identifies the main pool's membership independent of order.
func (s Scope) Signature() string {
	return signature(s.RequestIDs, s.TopicIDs)
}

// AnsweredSignature identifies the answered set independent of order.
func (s Scope) AnsweredSignature() string {
	return signature(s.AnsweredIDs, nil)
}

func signature(requestIDs, topicIDs []int) string {
	keys := make([]string, 0, len(requestIDs)+len(topicIDs))
	for _, id := range requestIDs {
		keys = append(keys, "r"+strconv.Itoa(id))
	}
	for _, id := range topicIDs {
		keys = append(keys, "t"+strconv.Itoa(id))
	}
	sort.Strings(keys)
	return strings.Join(keys, ",")
}
