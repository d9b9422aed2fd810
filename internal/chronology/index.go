// Package chronology derives, for every participant who ever posted, the
// time and conversation of their first post, and exposes the "former
// contact" ordering built on top of it.
package chronology

import (
	"time"

	"msngraph/internal/chat"
)

// FirstPost records where and when a participant first posted.
type FirstPost struct {
	Time         time.Time
	Conversation string
}

// Index is a read-only first-post lookup over a dataset.
type Index struct {
	first map[string]FirstPost
}

// BuildIndex scans every event of every conversation once. For equal
// timestamps the post encountered first in event order wins; this is an
// explicit tie-break policy, not an attempt to resolve the ambiguity.
func BuildIndex(ds *chat.Dataset) *Index {
	idx := &Index{first: make(map[string]FirstPost)}
	for _, conv := range ds.Conversations {
		for _, ev := range conv.Events {
			if ev.Kind != chat.EventPost {
				continue
			}
			cur, ok := idx.first[ev.Participant]
			if !ok || ev.Time.Before(cur.Time) {
				idx.first[ev.Participant] = FirstPost{Time: ev.Time, Conversation: conv.ID}
			}
		}
	}
	return idx
}

// FirstPost returns a participant's first post, if they ever posted.
func (idx *Index) FirstPost(id string) (FirstPost, bool) {
	fp, ok := idx.first[id]
	return fp, ok
}

// IsFormerContactOf reports whether a precedes b: a's first post is strictly
// earlier than b's and the two first posts are in separate conversations.
// Participants who never posted are never comparable in either direction.
// The relation is irreflexive and asymmetric; same-conversation or
// same-instant first posts are simply incomparable.
func (idx *Index) IsFormerContactOf(a, b string) bool {
	fa, ok := idx.first[a]
	if !ok {
		return false
	}
	fb, ok := idx.first[b]
	if !ok {
		return false
	}
	return fa.Time.Before(fb.Time) && fa.Conversation != fb.Conversation
}
