package prayer

import "time"

// RequestChanges is a partial update to a Request. Nil fields are left as is.
type RequestChanges struct {
	Description       *string
	Priority          *int
	PrayerCount       *int
	AnsweredDate      *time.Time
	AnswerDescription *string
	Archived          *bool

	// ClearAnswer resets AnsweredDate and AnswerDescription.
	ClearAnswer bool
}

// Empty reports whether the changes would leave a request untouched.
func (ch RequestChanges) Empty() bool {
	return ch.Description == nil && ch.Priority == nil && ch.PrayerCount == nil &&
		ch.AnsweredDate == nil && ch.AnswerDescription == nil && ch.Archived == nil && !ch.ClearAnswer
}

// Apply returns r with the changes applied. Priority is clamped and prayer
// counts never go negative.
func (ch RequestChanges) Apply(r Request) Request {
	if ch.Description != nil {
		r.Description = *ch.Description
	}
	if ch.Priority != nil {
		r.Priority = ClampPriority(*ch.Priority)
	}
	if ch.PrayerCount != nil {
		r.PrayerCount = max(0, *ch.PrayerCount)
	}
	if ch.ClearAnswer {
		r.AnsweredDate = nil
		r.AnswerDescription = ""
	}
	if ch.AnsweredDate != nil {
		d := *ch.AnsweredDate
		r.AnsweredDate = &d
	}
	if ch.AnswerDescription != nil {
		r.AnswerDescription = *ch.AnswerDescription
	}
	if ch.Archived != nil {
		r.Archived = *ch.Archived
	}
	return r
}
