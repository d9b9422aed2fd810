package msnlog

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"msngraph/internal/chat"
)

// buildDataset merges the per-contact sessions into conversations and
// assembles the normalized dataset.
//
// Two sessions belong to the same conversation when they share a post
// timestamp: a group chat is logged once per participating contact, and
// the shared posts are the only cross-file identity the format offers.
// Millisecond timestamps are close enough to unique; a collision between
// unrelated conversations is possible in principle and accepted.
func buildDataset(mainUser string, contacts map[string]*contactLog, names map[string]string, log *zap.Logger) *chat.Dataset {
	synthetic := synthesizeMissingFirstSessions(contacts, log)

	// Deterministic session ordering: contact, then ordinal.
	var sessions []*session
	for _, email := range sortedKeys(contacts) {
		c := contacts[email]
		ords := make([]int, 0, len(c.sessions))
		for ord := range c.sessions {
			ords = append(ords, ord)
		}
		sort.Ints(ords)
		for _, ord := range ords {
			if s := c.sessions[ord]; len(s.posts) > 0 {
				sessions = append(sessions, s)
			}
		}
	}

	groups := groupBySharedPosts(sessions)

	var convs []*chat.Conversation
	for _, group := range groups {
		convs = append(convs, buildConversation(mainUser, group, synthetic, log))
	}
	sort.SliceStable(convs, func(i, j int) bool {
		if !convs[i].First.Equal(convs[j].First) {
			return convs[i].First.Before(convs[j].First)
		}
		return convs[i].ID < convs[j].ID
	})

	participants := make(map[string]chat.Participant, len(contacts)+1)
	for email := range contacts {
		participants[email] = chat.Participant{ID: email, DisplayName: names[strings.ToLower(email)]}
	}
	if _, ok := participants[mainUser]; !ok {
		participants[mainUser] = chat.Participant{ID: mainUser, DisplayName: names[strings.ToLower(mainUser)]}
	}

	return chat.NewDataset(mainUser, convs, participants)
}

// synthesizeMissingFirstSessions handles contacts whose first log file was
// deleted: without it the contact's real first conversation is unknown, so
// a blank two-party conversation dated before every real post stands in.
// Returns the synthetic session keys.
func synthesizeMissingFirstSessions(contacts map[string]*contactLog, log *zap.Logger) map[string]bool {
	synthetic := make(map[string]bool)
	counter := 0
	for _, email := range sortedKeys(contacts) {
		c := contacts[email]
		if !c.missingFirstSession() {
			continue
		}
		log.Warn("first session missing; generating a blank conversation (is an XML file missing?)",
			zap.String("contact", email),
		)
		s := c.session(1)
		s.posts = []time.Time{time.Time{}.Add(time.Duration(counter) * time.Second)}
		synthetic[s.key()] = true
		counter++
	}
	return synthetic
}

// groupBySharedPosts unions sessions that share a post timestamp and
// returns the groups ordered by their first session's position.
func groupBySharedPosts(sessions []*session) [][]*session {
	parent := make([]int, len(sessions))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			if rb < ra {
				ra, rb = rb, ra
			}
			parent[rb] = ra
		}
	}

	byMilli := make(map[int64]int)
	for i, s := range sessions {
		for _, p := range s.posts {
			if j, ok := byMilli[p.UnixMilli()]; ok {
				union(i, j)
			} else {
				byMilli[p.UnixMilli()] = i
			}
		}
	}

	order := make(map[int]int)
	var groups [][]*session
	for i, s := range sessions {
		root := find(i)
		gi, ok := order[root]
		if !ok {
			gi = len(groups)
			order[root] = gi
			groups = append(groups, nil)
		}
		groups[gi] = append(groups[gi], s)
	}
	return groups
}

// buildConversation turns one merged session group into a Conversation.
// For each contact only their earliest session counts; leaving and
// re-entering the same conversation is unsupported, matching the single
// presence interval the attribution rules reason over.
func buildConversation(mainUser string, group []*session, synthetic map[string]bool, log *zap.Logger) *chat.Conversation {
	sort.SliceStable(group, func(i, j int) bool {
		a, b := group[i], group[j]
		if !a.posts[0].Equal(b.posts[0]) {
			return a.posts[0].Before(b.posts[0])
		}
		return a.key() < b.key()
	})

	id := conversationID(group, synthetic)

	kept := make([]*session, 0, len(group))
	seen := make(map[string]bool, len(group))
	for _, s := range group {
		if seen[s.contact] {
			log.Warn("contact left and re-entered the conversation; unsupported, posts after re-entering are ignored",
				zap.String("contact", s.contact),
				zap.String("conversation", id),
			)
			continue
		}
		seen[s.contact] = true
		kept = append(kept, s)
	}

	var events []chat.Event
	for _, s := range kept {
		events = append(events, chat.Event{Kind: chat.EventJoin, Participant: s.contact, Time: s.posts[0]})
		for _, p := range s.posts {
			events = append(events, chat.Event{Kind: chat.EventPost, Participant: s.contact, Time: p})
		}
		events = append(events, chat.Event{Kind: chat.EventLeave, Participant: s.contact, Time: s.posts[len(s.posts)-1]})
	}

	// The logs are the main user's own archive: the main user is present
	// for the whole span of every conversation, whether or not a log
	// file of their own says so.
	if !seen[mainUser] {
		first, last := span(events)
		events = append(events,
			chat.Event{Kind: chat.EventJoin, Participant: mainUser, Time: first},
			chat.Event{Kind: chat.EventLeave, Participant: mainUser, Time: last},
		)
	}

	return chat.NewConversation(id, events)
}

// conversationID is deterministic: the smallest member session key, or a
// name-based UUID for the synthetic placeholder conversations, which have
// no real session to take a name from.
func conversationID(group []*session, synthetic map[string]bool) string {
	if len(group) == 1 && synthetic[group[0].key()] {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte("msngraph:"+group[0].contact)).String()
	}
	id := group[0].key()
	for _, s := range group[1:] {
		if k := s.key(); k < id {
			id = k
		}
	}
	return id
}

func span(events []chat.Event) (first, last time.Time) {
	first, last = events[0].Time, events[0].Time
	for _, ev := range events[1:] {
		if ev.Time.Before(first) {
			first = ev.Time
		}
		if ev.Time.After(last) {
			last = ev.Time
		}
	}
	return first, last
}

func sortedKeys(m map[string]*contactLog) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
