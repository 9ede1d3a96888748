package animation

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// registration pairs a sink with its own ordered delivery queue. Unlike the
// teacher's ObserverManager (one throwaway goroutine per event per
// observer, which can reorder two events delivered to the same observer),
// Numbo's sink contract requires each backend to see mutations in exact
// order, so each sink gets a single consumer goroutine draining a buffered
// channel FIFO. Sinks still proceed concurrently with each other.
type registration struct {
	name  string
	sink  Sink
	queue chan func(Sink)
	done  chan struct{}
}

// Manager fans animation events out to any number of registered sinks. It
// implements Sink itself, so the driver holds a single Sink reference
// regardless of how many backends are attached.
type Manager struct {
	mu        sync.RWMutex
	regs      []*registration
	onErr     func(sinkName string, recovered any)
	queueSize int
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithPanicHandler installs a callback invoked when a sink panics while
// processing an event. Defaults to silently recovering.
func WithPanicHandler(f func(sinkName string, recovered any)) ManagerOption {
	return func(m *Manager) { m.onErr = f }
}

// WithQueueSize overrides each registered sink's buffered queue depth
// (default 256). A deeper queue tolerates a slower sink (e.g. a websocket
// client on a laggy connection) before Manager starts dropping events for it.
func WithQueueSize(n int) ManagerOption {
	return func(m *Manager) {
		if n > 0 {
			m.queueSize = n
		}
	}
}

// NewManager returns an empty Manager.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{onErr: func(string, any) {}, queueSize: defaultQueueSize}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

const defaultQueueSize = 256

// Register attaches a named sink. Registering a duplicate name is an error,
// mirroring the teacher's observer registry.
func (m *Manager) Register(name string, sink Sink) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.regs {
		if r.name == name {
			return fmt.Errorf("animation: sink %q already registered", name)
		}
	}
	reg := &registration{
		name:  name,
		sink:  sink,
		queue: make(chan func(Sink), m.queueSize),
		done:  make(chan struct{}),
	}
	go m.drain(reg)
	m.regs = append(m.regs, reg)
	return nil
}

// Close stops all sink goroutines after their queues drain.
func (m *Manager) Close() {
	m.mu.Lock()
	regs := append([]*registration(nil), m.regs...)
	m.regs = nil
	m.mu.Unlock()
	for _, r := range regs {
		close(r.queue)
		<-r.done
	}
}

func (m *Manager) drain(r *registration) {
	defer close(r.done)
	for fn := range r.queue {
		m.runOne(r, fn)
	}
}

func (m *Manager) runOne(r *registration, fn func(Sink)) {
	defer func() {
		if rec := recover(); rec != nil {
			m.onErr(r.name, rec)
		}
	}()
	fn(r.sink)
}

func (m *Manager) dispatch(fn func(Sink)) {
	m.mu.RLock()
	regs := m.regs
	m.mu.RUnlock()
	for _, r := range regs {
		select {
		case r.queue <- fn:
		default:
			// Queue full: drop rather than block the solver on a slow
			// observer, the same trade-off the teacher's bufferSize option
			// implies for its own notification channel.
		}
	}
}

func (m *Manager) AddNode(id uuid.UUID, kind string, label string) {
	m.dispatch(func(s Sink) { s.AddNode(id, kind, label) })
}

func (m *Manager) LabelNode(id uuid.UUID, label string) {
	m.dispatch(func(s Sink) { s.LabelNode(id, label) })
}

func (m *Manager) AddEdge(from, to uuid.UUID, relationship string) {
	m.dispatch(func(s Sink) { s.AddEdge(from, to, relationship) })
}

func (m *Manager) RemoveNode(id uuid.UUID) {
	m.dispatch(func(s Sink) { s.RemoveNode(id) })
}

func (m *Manager) RemoveEdge(from, to uuid.UUID) {
	m.dispatch(func(s Sink) { s.RemoveEdge(from, to) })
}

func (m *Manager) NextStep() {
	m.dispatch(func(s Sink) { s.NextStep() })
}
