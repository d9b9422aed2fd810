// Package attribution infers who likely introduced the main user to each
// contact. For every contact it finds the contact's first group
// conversation, keeps the participants that qualify as former contacts, and
// emits one edge per membership-timing rule that holds. The rules are
// independent, additive signals; attribution is philosophical, not proof.
package attribution

import (
	"time"

	"go.uber.org/zap"

	"msngraph/internal/chat"
	"msngraph/internal/chronology"
)

// Category classifies an introduction edge.
type Category string

const (
	// CategoryAllPresent: the source was in the conversation at any point.
	CategoryAllPresent Category = "all_present"
	// CategoryPresentBeforeLeft: the source appeared before the target left.
	CategoryPresentBeforeLeft Category = "present_before_left"
	// CategoryPresentAtJoin: the source was there when the target joined.
	CategoryPresentAtJoin Category = "present_at_join"
	// CategoryPresentAtMainUserJoin: the source was there when the main
	// user joined.
	CategoryPresentAtMainUserJoin Category = "present_at_main_user_join"
)

// Edge is a single attributed introduction: Source likely introduced the
// main user to Target. The same pair may carry several categories, each as
// its own edge.
type Edge struct {
	Source   string   `json:"source"`
	Target   string   `json:"target"`
	Category Category `json:"category"`
}

// Engine walks the dataset and produces attribution edges.
type Engine struct {
	ds  *chat.Dataset
	idx *chronology.Index
	log *zap.Logger
}

// NewEngine creates an attribution engine over a normalized dataset.
func NewEngine(ds *chat.Dataset, idx *chronology.Index, log *zap.Logger) *Engine {
	return &Engine{ds: ds, idx: idx, log: log}
}

// Attribute emits edges for every contact that has a qualifying first group
// conversation. Contacts lacking qualifying data simply contribute no
// edges; that is never an error. Output order is deterministic: contacts
// sorted by ID, candidates sorted by ID, categories in fixed order.
func (e *Engine) Attribute() []Edge {
	var edges []Edge
	for _, target := range e.ds.Contacts() {
		edges = append(edges, e.attributeContact(target)...)
	}
	return edges
}

func (e *Engine) attributeContact(target string) []Edge {
	fp, ok := e.idx.FirstPost(target)
	if !ok {
		// Joined or left but never posted; nothing to anchor on.
		return nil
	}
	conv := e.ds.Conversation(fp.Conversation)
	if conv == nil {
		return nil
	}

	main := e.ds.MainUser
	if !conv.IsGroup(main, target) {
		// A strict two-party first conversation attributes nothing.
		e.log.Debug("no group conversation for contact", zap.String("contact", target))
		return nil
	}

	e.log.Info("calculating incoming edges",
		zap.String("contact", target),
		zap.String("conversation", conv.ID),
		zap.Time("first_post", fp.Time),
		zap.Int("participants", len(conv.Presence)),
	)

	targetIv := conv.Presence[target]
	mainIv, mainPresent := conv.Presence[main]

	var edges []Edge
	for _, source := range conv.Members() {
		if source == target {
			continue
		}
		// The former-contact gate comes first; timing never overrides it.
		if !e.idx.IsFormerContactOf(source, target) {
			continue
		}
		sourceIv := conv.Presence[source]

		// Every surviving candidate was present at some point.
		edges = append(edges, Edge{Source: source, Target: target, Category: CategoryAllPresent})
		if presentBeforeLeft(sourceIv, targetIv) {
			edges = append(edges, Edge{Source: source, Target: target, Category: CategoryPresentBeforeLeft})
		}
		if presentAtInstant(sourceIv, targetIv.First) {
			edges = append(edges, Edge{Source: source, Target: target, Category: CategoryPresentAtJoin})
		}
		if mainPresent && presentAtInstant(sourceIv, mainIv.First) {
			edges = append(edges, Edge{Source: source, Target: target, Category: CategoryPresentAtMainUserJoin})
		}
	}
	return edges
}

// presentBeforeLeft holds when the source showed up no later than the
// target's leave (or the conversation end if the target never left).
func presentBeforeLeft(source, target chat.Interval) bool {
	return !source.First.After(target.Last)
}

// presentAtInstant holds when the source's presence span covers the given
// join instant.
func presentAtInstant(source chat.Interval, at time.Time) bool {
	return source.Contains(at)
}
