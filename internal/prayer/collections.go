package prayer

import "slices"

// Collections is a read snapshot of every list, topic and request.
// Lookups build their indexes lazily and are not safe for concurrent use
// while the snapshot is being mutated.
type Collections struct {
	Lists    []List
	Topics   []Topic
	Requests []Request

	listByID    map[int]int
	topicByID   map[int]int
	requestByID map[int]int
	topicOwner  map[int]int
	reqOwner    map[int]int
}

// NewCollections builds a snapshot from the three entity slices.
func NewCollections(lists []List, topics []Topic, requests []Request) *Collections {
	return &Collections{Lists: lists, Topics: topics, Requests: requests}
}

func (c *Collections) index() {
	if c.listByID != nil {
		return
	}
	c.listByID = make(map[int]int, len(c.Lists))
	c.topicByID = make(map[int]int, len(c.Topics))
	c.requestByID = make(map[int]int, len(c.Requests))
	c.topicOwner = make(map[int]int)
	c.reqOwner = make(map[int]int)

	for i, l := range c.Lists {
		c.listByID[l.ID] = i
		for _, tid := range l.TopicIDs {
			// First membership wins while a topic is transiently in two lists.
			if _, ok := c.topicOwner[tid]; !ok {
				c.topicOwner[tid] = l.ID
			}
		}
	}
	for i, t := range c.Topics {
		c.topicByID[t.ID] = i
		for _, rid := range t.RequestIDs {
			if _, ok := c.reqOwner[rid]; !ok {
				c.reqOwner[rid] = t.ID
			}
		}
	}
	for i, r := range c.Requests {
		c.requestByID[r.ID] = i
	}
}

// List returns the list with id, or nil.
func (c *Collections) List(id int) *List {
	c.index()
	if i, ok := c.listByID[id]; ok {
		return &c.Lists[i]
	}
	return nil
}

// Topic returns the topic with id, or nil.
func (c *Collections) Topic(id int) *Topic {
	c.index()
	if i, ok := c.topicByID[id]; ok {
		return &c.Topics[i]
	}
	return nil
}

// Request returns the request with id, or nil.
func (c *Collections) Request(id int) *Request {
	c.index()
	if i, ok := c.requestByID[id]; ok {
		return &c.Requests[i]
	}
	return nil
}

// OwnerList returns the first list containing topicID, or nil.
func (c *Collections) OwnerList(topicID int) *List {
	c.index()
	if lid, ok := c.topicOwner[topicID]; ok {
		return c.List(lid)
	}
	return nil
}

// OwnerTopic returns the first topic containing requestID, or nil.
func (c *Collections) OwnerTopic(requestID int) *Topic {
	c.index()
	if tid, ok := c.reqOwner[requestID]; ok {
		return c.Topic(tid)
	}
	return nil
}

// ActiveRequestIDs returns the ids of the topic's requests that are neither
// answered nor archived, in topic order.
func (c *Collections) ActiveRequestIDs(topicID int) []int {
	t := c.Topic(topicID)
	if t == nil {
		return nil
	}
	var ids []int
	for _, rid := range t.RequestIDs {
		if r := c.Request(rid); r != nil && r.IsActive() {
			ids = append(ids, rid)
		}
	}
	return ids
}

// WithRequest returns a new snapshot in which r replaces the request with the
// same id, or is appended when absent. A positive topicID also appends r to
// that topic's request ids if it is not already there. c is left unchanged.
func (c *Collections) WithRequest(r Request, topicID int) *Collections {
	requests := make([]Request, len(c.Requests), len(c.Requests)+1)
	copy(requests, c.Requests)
	if i, ok := c.requestIndex(r.ID); ok {
		requests[i] = r
	} else {
		requests = append(requests, r)
	}

	topics := c.Topics
	if t := c.Topic(topicID); topicID > 0 && t != nil && !slices.Contains(t.RequestIDs, r.ID) {
		topics = make([]Topic, len(c.Topics))
		copy(topics, c.Topics)
		for i := range topics {
			if topics[i].ID == topicID {
				topics[i].RequestIDs = append(slices.Clone(topics[i].RequestIDs), r.ID)
			}
		}
	}
	return NewCollections(c.Lists, topics, requests)
}

func (c *Collections) requestIndex(id int) (int, bool) {
	c.index()
	i, ok := c.requestByID[id]
	return i, ok
}
