package session

import (
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/prayz/internal/prayer"
)

// Placeholders substituted for missing item text.
const (
	UnknownRequest = "Unknown request"
	UnknownTopic   = "Unknown topic"
)

// Kind tags the variant of an Item.
type Kind string

const (
	KindRequest Kind = "request"
	KindTopic   Kind = "topic"
)

// Item is a single slide in a prayer session: either a request or a topic.
// Items are values; a session replaces them rather than editing them.
type Item struct {
	Kind Kind
	ID   int

	// Description is set for requests, Name for topics.
	Description string
	Name        string

	ListName  string
	TopicName string
	TopicID   int

	CreatedDate       time.Time
	Priority          int
	PrayerCount       int
	IsAnswered        bool
	AnsweredDate      *time.Time
	AnswerDescription string
}

// Key identifies an item across kinds, e.g. "r12" or "t3".
func (it Item) Key() string {
	if it.Kind == KindTopic {
		return "t" + strconv.Itoa(it.ID)
	}
	return "r" + strconv.Itoa(it.ID)
}

// Title is the text shown for the item.
func (it Item) Title() string {
	if it.Kind == KindTopic {
		return it.Name
	}
	return it.Description
}

// IsRequest reports whether the item is a request.
func (it Item) IsRequest() bool { return it.Kind == KindRequest }

// Builder normalizes raw entities into Items. It never fails: malformed
// input is logged and patched with placeholders.
type Builder struct {
	log zerolog.Logger
}

// NewBuilder returns a Builder that reports malformed data to log.
func NewBuilder(log zerolog.Logger) Builder {
	return Builder{log: log}
}

// Request builds a request item. topic and list may be nil.
func (b Builder) Request(r prayer.Request, topic *prayer.Topic, list *prayer.List) Item {
	it := Item{
		Kind:              KindRequest,
		ID:                r.ID,
		Description:       r.Description,
		CreatedDate:       r.CreatedDate,
		Priority:          r.Priority,
		PrayerCount:       r.PrayerCount,
		IsAnswered:        r.IsAnswered(),
		AnswerDescription: r.AnswerDescription,
	}
	if r.AnsweredDate != nil {
		d := *r.AnsweredDate
		it.AnsweredDate = &d
	}
	if it.Priority <= 0 {
		it.Priority = prayer.DefaultPriority
	}
	if it.PrayerCount < 0 {
		it.PrayerCount = 0
	}
	if topic != nil {
		it.TopicName = topic.Name
		it.TopicID = topic.ID
	}
	if list != nil {
		it.ListName = list.Name
	}
	if it.Description == "" {
		b.log.Warn().Int("request_id", r.ID).Msg("request has no description")
		it.Description = UnknownRequest
	}
	return it
}

// Topic builds a topic item. list may be nil.
func (b Builder) Topic(t prayer.Topic, list *prayer.List) Item {
	it := Item{
		Kind:    KindTopic,
		ID:      t.ID,
		Name:    t.Name,
		TopicID: t.ID,
	}
	if list != nil {
		it.ListName = list.Name
	}
	if it.Name == "" {
		b.log.Warn().Int("topic_id", t.ID).Msg("topic has no name")
		it.Name = UnknownTopic
	}
	return it
}

// RequestFrom builds the item for request id using its first owners in c.
func (b Builder) RequestFrom(c *prayer.Collections, id int) (Item, bool) {
	r := c.Request(id)
	if r == nil {
		return Item{}, false
	}
	topic := c.OwnerTopic(id)
	var list *prayer.List
	if topic != nil {
		list = c.OwnerList(topic.ID)
	}
	return b.Request(*r, topic, list), true
}

// TopicFrom builds the item for topic id using its first owning list in c.
func (b Builder) TopicFrom(c *prayer.Collections, id int) (Item, bool) {
	t := c.Topic(id)
	if t == nil {
		return Item{}, false
	}
	return b.Topic(*t, c.OwnerList(id)), true
}
