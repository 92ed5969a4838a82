package session

import (
	"github.com/abhisek/prayz/internal/prayer"
	sess "github.com/abhisek/prayz/internal/session"
)

// sessionReadyMsg is sent when the collections are loaded.
type sessionReadyMsg struct {
	Collections *prayer.Collections
	Err         error
}

// changedMsg is sent whenever the controller reports a state change
// (slide moves, countdown ticks, dwell registrations).
type changedMsg struct{}

// requestInsertedMsg confirms an inline new request.
type requestInsertedMsg struct {
	Item sess.Item
	Err  error
}

// requestAnsweredMsg confirms an answered request.
type requestAnsweredMsg struct {
	Item sess.Item
	Err  error
}
