package store

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/abhisek/prayz/internal/prayer"
	"github.com/abhisek/prayz/internal/settings"
	"github.com/abhisek/prayz/internal/stats"
)

// ErrNotFound is returned when a list, topic or request does not exist.
var ErrNotFound = errors.New("not found")

// NotFoundError names the missing entity. It unwraps to ErrNotFound.
type NotFoundError struct {
	Entity string
	ID     int
}

func (e *NotFoundError) Error() string {
	return e.Entity + " " + strconv.Itoa(e.ID) + " not found"
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// CleanupReport counts the repairs made by EntityRepo.Cleanup.
type CleanupReport struct {
	TopicLinksRemoved   int
	RequestLinksRemoved int
}

// EntityRepo stores lists, topics and requests.
type EntityRepo interface {
	// Collections returns every list, topic and request.
	Collections(ctx context.Context) (*prayer.Collections, error)

	CreateList(ctx context.Context, name string) (prayer.List, error)
	RenameList(ctx context.Context, id int, name string) error
	SetListExcluded(ctx context.Context, id int, excluded bool) error
	DeleteList(ctx context.Context, id int) error

	// CreateTopic adds a topic to the end of list listID.
	CreateTopic(ctx context.Context, listID int, name string) (prayer.Topic, error)
	RenameTopic(ctx context.Context, id int, name string) error
	// MoveTopic detaches the topic from every list and appends it to toListID.
	MoveTopic(ctx context.Context, topicID, toListID int) error
	DeleteTopic(ctx context.Context, id int) error

	// CreateRequest adds a request to the end of topic topicID.
	CreateRequest(ctx context.Context, topicID int, description string, priority int) (prayer.Request, error)
	// UpdateRequest applies a partial update and returns the result.
	UpdateRequest(ctx context.Context, id int, changes prayer.RequestChanges) (prayer.Request, error)
	DeleteRequest(ctx context.Context, id int) error

	// Cleanup repairs multi-membership and dangling ids: a topic keeps only
	// its first list and a request only its first topic.
	Cleanup(ctx context.Context) (CleanupReport, error)

	// Reset deletes every list, topic and request.
	Reset(ctx context.Context) error
}

// SettingsRepo persists session settings. It satisfies settings.Repo.
type SettingsRepo interface {
	Load(ctx context.Context) (settings.Settings, error)
	Save(ctx context.Context, s settings.Settings) error
}

// StatsRepo persists cumulative prayer stats. It satisfies stats.Repo.
type StatsRepo interface {
	Load(ctx context.Context) (stats.Counters, error)
	Save(ctx context.Context, c stats.Counters) error
}

// Session event actions.
const (
	ActionStart = "start"
	ActionEnd   = "end"
)

// SessionEventData captures a session start or end.
type SessionEventData struct {
	SessionID     string
	Action        string
	ListID        int
	ItemCount     int
	DurationSecs  int
	PrayedCount   int
	AnsweredCount int
}

// SessionSummaryRecord is a finished session for the history view.
type SessionSummaryRecord struct {
	SessionID     string
	Sequence      int64
	Timestamp     time.Time
	ListID        int
	ItemCount     int
	DurationSecs  int
	PrayedCount   int
	AnsweredCount int
}

// EventRepo provides append access to session events.
type EventRepo interface {
	// AppendSessionEvent records a session start or end.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// QuerySessionSummaries returns finished sessions, newest first.
	QuerySessionSummaries(ctx context.Context, opts QueryOpts) ([]SessionSummaryRecord, error)

	// DeleteAll removes every session event.
	DeleteAll(ctx context.Context) error
}
