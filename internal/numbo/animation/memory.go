package animation

import "github.com/google/uuid"

// MemorySink is the default, in-memory animation backend: an ordered slice
// of Event records. Used directly by tests and by the CLI's -animate flag.
type MemorySink struct {
	events []Event
}

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Events returns the recorded events in mutation order.
func (s *MemorySink) Events() []Event {
	return s.events
}

func (s *MemorySink) AddNode(id uuid.UUID, kind string, label string) {
	s.events = append(s.events, Event{Kind: EventAddNode, NodeID: id, NodeKind: kind, Label: label})
}

func (s *MemorySink) LabelNode(id uuid.UUID, label string) {
	s.events = append(s.events, Event{Kind: EventLabelNode, NodeID: id, Label: label})
}

func (s *MemorySink) AddEdge(from, to uuid.UUID, relationship string) {
	s.events = append(s.events, Event{Kind: EventAddEdge, FromID: from, ToID: to, Relationship: relationship})
}

func (s *MemorySink) RemoveNode(id uuid.UUID) {
	s.events = append(s.events, Event{Kind: EventRemoveNode, NodeID: id})
}

func (s *MemorySink) RemoveEdge(from, to uuid.UUID) {
	s.events = append(s.events, Event{Kind: EventRemoveEdge, FromID: from, ToID: to})
}

func (s *MemorySink) NextStep() {
	s.events = append(s.events, Event{Kind: EventNextStep})
}
