package chat

import (
	"sort"
	"time"
)

// Conversation is an immutable, fully normalized chat session. Events are
// ordered by timestamp (stable for ties) and the per-participant presence
// timeline is derived once at construction.
type Conversation struct {
	ID     string
	Events []Event

	// Presence maps participant ID to the span between their first
	// appearance and their Leave (or the conversation end).
	Presence map[string]Interval

	First time.Time // earliest event
	Last  time.Time // latest event
}

// NewConversation orders the events and derives the presence timeline.
func NewConversation(id string, events []Event) *Conversation {
	c := &Conversation{
		ID:       id,
		Events:   make([]Event, len(events)),
		Presence: make(map[string]Interval),
	}
	copy(c.Events, events)
	sort.SliceStable(c.Events, func(i, j int) bool {
		return c.Events[i].Time.Before(c.Events[j].Time)
	})

	if len(c.Events) == 0 {
		return c
	}
	c.First = c.Events[0].Time
	c.Last = c.Events[len(c.Events)-1].Time

	// First appearance opens a participant's interval; an explicit Leave
	// closes it, otherwise it runs to the conversation end.
	left := make(map[string]bool)
	for _, ev := range c.Events {
		iv, seen := c.Presence[ev.Participant]
		if !seen {
			iv = Interval{First: ev.Time, Last: c.Last}
		}
		if ev.Kind == EventLeave && !left[ev.Participant] {
			iv.Last = ev.Time
			left[ev.Participant] = true
		}
		c.Presence[ev.Participant] = iv
	}
	return c
}

// Members returns the participant IDs in sorted order.
func (c *Conversation) Members() []string {
	ids := make([]string, 0, len(c.Presence))
	for id := range c.Presence {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// IsGroup reports whether anyone besides the two given participants was
// ever present.
func (c *Conversation) IsGroup(a, b string) bool {
	for id := range c.Presence {
		if id != a && id != b {
			return true
		}
	}
	return false
}
