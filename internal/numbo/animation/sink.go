// Package animation implements the Numbo animation sink: an append-only log
// of graph mutation events (spec.md §6). The core emits AddNode, LabelNode,
// AddEdge, RemoveNode, RemoveEdge, and NextStep calls in the exact order
// the workspace mutates; this package fans those calls out to zero or more
// backend sinks, grounded on the teacher's ObserverManager
// (internal/application/observer/manager.go) non-blocking, panic-recovering
// notification discipline.
package animation

import "github.com/google/uuid"

// Sink receives graph mutation events in exact mutation order. A backend
// (in-memory log, structured logger, websocket broadcaster) implements Sink
// directly; Manager also implements it to fan calls out to many backends.
type Sink interface {
	AddNode(id uuid.UUID, kind string, label string)
	LabelNode(id uuid.UUID, label string)
	AddEdge(from, to uuid.UUID, relationship string)
	RemoveNode(id uuid.UUID)
	RemoveEdge(from, to uuid.UUID)
	NextStep()
}

// EventKind identifies which Sink method produced an Event record.
type EventKind string

const (
	EventAddNode    EventKind = "add_node"
	EventLabelNode  EventKind = "label_node"
	EventAddEdge    EventKind = "add_edge"
	EventRemoveNode EventKind = "remove_node"
	EventRemoveEdge EventKind = "remove_edge"
	EventNextStep   EventKind = "next_step"
)

// Event is the normalized representation of one Sink call, used by backends
// (MemorySink, and the websocket hub sink in internal/infrastructure/api/rest)
// that want a uniform record instead of six distinct methods.
type Event struct {
	Kind         EventKind
	NodeID       uuid.UUID
	NodeKind     string
	Label        string
	FromID       uuid.UUID
	ToID         uuid.UUID
	Relationship string
}

// NoopSink discards every event. cytoplasm.New uses it in place of a nil
// sink, and tests that don't care about animation output can pass it.
type NoopSink struct{}

func (NoopSink) AddNode(uuid.UUID, string, string)    {}
func (NoopSink) LabelNode(uuid.UUID, string)          {}
func (NoopSink) AddEdge(uuid.UUID, uuid.UUID, string) {}
func (NoopSink) RemoveNode(uuid.UUID)                 {}
func (NoopSink) RemoveEdge(uuid.UUID, uuid.UUID)      {}
func (NoopSink) NextStep()                            {}
