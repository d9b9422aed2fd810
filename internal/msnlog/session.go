// Package msnlog reads a directory of MSN Messenger chat log exports (XML
// message logs and Messenger Plus! HTML logs) and normalizes them into the
// conversation dataset the rest of the pipeline consumes.
//
// Each export file holds one contact's sessions; a group conversation is
// recorded once per participating contact. Sessions from different files
// are recognized as the same conversation when they share a post timestamp
// (millisecond resolution), and merged.
package msnlog

import (
	"strconv"
	"time"

	"go.uber.org/zap"
)

// session is one contact's record of one conversation: the contact ID, an
// ordinal within that contact's history, and the kept posts in order.
//
// Only the "important" posts survive parsing: the first and last post of
// the session, posts following a Join and posts preceding a Leave. That is
// enough to reconstruct every participant's presence interval.
type session struct {
	contact string
	ord     int
	posts   []time.Time
}

func (s *session) key() string {
	return s.contact + "#" + strconv.Itoa(s.ord)
}

// addPost appends a kept post, dropping posts that do not move time
// forward. Backwards clock adjustments (NTP, DST) produce these.
func (s *session) addPost(t time.Time, log *zap.Logger) {
	if n := len(s.posts); n > 0 && !t.After(s.posts[n-1]) {
		log.Warn("non-monotonic timestamp; dropping post",
			zap.String("contact", s.contact),
			zap.Int("session", s.ord),
			zap.Time("post", t),
			zap.Time("previous", s.posts[n-1]),
		)
		return
	}
	s.posts = append(s.posts, t)
}

// contactLog accumulates everything parsed from one contact's files.
type contactLog struct {
	contact  string
	sessions map[int]*session
	// maxOrd is the highest session ordinal declared by any of the
	// contact's XML files (the Log element's LastSessionID), used to
	// detect a deleted first log file.
	maxOrd int
	// nextSynthOrd assigns ordinals to HTML sessions, which carry no
	// session IDs of their own. They count down from -1 so they can
	// never collide with, or masquerade as, a real first session.
	nextSynthOrd int
}

func newContactLog(contact string) *contactLog {
	return &contactLog{
		contact:      contact,
		sessions:     make(map[int]*session),
		nextSynthOrd: -1,
	}
}

func (c *contactLog) session(ord int) *session {
	s, ok := c.sessions[ord]
	if !ok {
		s = &session{contact: c.contact, ord: ord}
		c.sessions[ord] = s
	}
	if ord > c.maxOrd {
		c.maxOrd = ord
	}
	return s
}

// synthSession allocates a fresh ordinal for a session parsed from a
// format without session numbering.
func (c *contactLog) synthSession() *session {
	s := &session{contact: c.contact, ord: c.nextSynthOrd}
	c.sessions[c.nextSynthOrd] = s
	c.nextSynthOrd--
	return s
}

// missingFirstSession reports whether the contact's XML logs declare a
// first session we never saw posts for. The usual cause is a deleted
// first log file.
func (c *contactLog) missingFirstSession() bool {
	if c.maxOrd < 1 {
		return false
	}
	first, ok := c.sessions[1]
	return !ok || len(first.posts) == 0
}
