package chat

import "time"

// Participant is a person observed in the chat logs.
type Participant struct {
	ID          string // e-mail address
	DisplayName string // optional friendly name
}

// Label returns the display name if one was observed, else the identifier.
func (p Participant) Label() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.ID
}

// EventKind is the type of a conversation event.
type EventKind string

const (
	EventPost  EventKind = "post"
	EventJoin  EventKind = "join"
	EventLeave EventKind = "leave"
)

// Event is a single timestamped occurrence inside a conversation.
type Event struct {
	Kind        EventKind
	Participant string
	Time        time.Time
}

// Interval is a participant's presence span inside a conversation.
type Interval struct {
	First time.Time
	Last  time.Time
}

// Contains reports whether t falls inside the interval (inclusive).
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.First) && !t.After(iv.Last)
}
