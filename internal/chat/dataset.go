package chat

import "sort"

// Dataset is the full normalized conversation collection for one run.
// It is read-only once the input collaborator has built it.
type Dataset struct {
	MainUser      string
	Conversations []*Conversation
	Participants  map[string]Participant

	byID map[string]*Conversation
}

// NewDataset assembles a dataset from normalized conversations. Anyone
// present in any conversation is registered as a participant; the caller
// may pass richer participant records (display names) to merge in.
func NewDataset(mainUser string, convs []*Conversation, participants map[string]Participant) *Dataset {
	ds := &Dataset{
		MainUser:      mainUser,
		Conversations: convs,
		Participants:  participants,
		byID:          make(map[string]*Conversation, len(convs)),
	}
	if ds.Participants == nil {
		ds.Participants = make(map[string]Participant)
	}
	for _, c := range convs {
		ds.byID[c.ID] = c
		for id := range c.Presence {
			if _, ok := ds.Participants[id]; !ok {
				ds.Participants[id] = Participant{ID: id}
			}
		}
	}
	return ds
}

// Conversation looks up a conversation by ID, or nil.
func (ds *Dataset) Conversation(id string) *Conversation {
	return ds.byID[id]
}

// Contacts returns all participant IDs except the main user, sorted.
func (ds *Dataset) Contacts() []string {
	ids := make([]string, 0, len(ds.Participants))
	for id := range ds.Participants {
		if id != ds.MainUser {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
