// Package prayer defines the user's prayer data: lists of topics, and
// topics of requests.
package prayer

import (
	"strings"
	"time"
)

// Priority bounds for requests. Priority doubles as a shuffle weight.
const (
	MinPriority     = 1
	MaxPriority     = 5
	DefaultPriority = 1
)

// List groups topics. TopicIDs is ordered.
type List struct {
	ID             int
	Name           string
	TopicIDs       []int
	ExcludeFromAll bool
}

// Topic groups requests. RequestIDs is ordered.
type Topic struct {
	ID         int
	Name       string
	RequestIDs []int
}

// Request is a single prayer request.
type Request struct {
	ID                int
	Description       string
	CreatedDate       time.Time
	Priority          int
	PrayerCount       int
	AnsweredDate      *time.Time
	AnswerDescription string
	Archived          bool
}

// IsAnswered reports whether the request has been answered and is still visible.
func (r Request) IsAnswered() bool {
	return r.AnsweredDate != nil && !r.Archived
}

// IsActive reports whether the request belongs in a regular prayer pool.
func (r Request) IsActive() bool {
	return r.AnsweredDate == nil && !r.Archived
}

// NewList validates and builds a List.
func NewList(name string) (List, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return List{}, &ValidationError{Entity: "list", Field: "name", Reason: "must not be empty"}
	}
	return List{Name: name, TopicIDs: []int{}}, nil
}

// NewTopic validates and builds a Topic.
func NewTopic(name string) (Topic, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Topic{}, &ValidationError{Entity: "topic", Field: "name", Reason: "must not be empty"}
	}
	return Topic{Name: name, RequestIDs: []int{}}, nil
}

// NewRequest validates and builds a Request created at now.
// A zero priority defaults to DefaultPriority; others are clamped.
func NewRequest(description string, priority int, now time.Time) (Request, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return Request{}, &ValidationError{Entity: "request", Field: "description", Reason: "must not be empty"}
	}
	return Request{
		Description: description,
		CreatedDate: now,
		Priority:    ClampPriority(priority),
	}, nil
}

// ClampPriority maps p into [MinPriority, MaxPriority]; zero or negative
// values become DefaultPriority.
func ClampPriority(p int) int {
	if p <= 0 {
		return DefaultPriority
	}
	if p > MaxPriority {
		return MaxPriority
	}
	return p
}

// Score ranks a request for deterministic ordering: higher priority and
// fewer prayers come first.
func (r Request) Score() int {
	p := r.Priority
	if p <= 0 {
		p = DefaultPriority
	}
	return p*10 - r.PrayerCount
}
