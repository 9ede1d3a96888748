package rest

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/google/uuid"

	"github.com/smilemakc/numbo/internal/infrastructure/logger"
	"github.com/smilemakc/numbo/internal/numbo/animation"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// WebSocketHub fans animation events out to every client watching one run
// (spec.md §6's GET /ws?run_id=...), grounded on the teacher's own
// WebSocketHub/WebSocketObserver split except collapsed into one type
// since Numbo only ever has one animation.Sink per run rather than a
// pluggable observer chain.
type WebSocketHub struct {
	mu         sync.RWMutex
	clients    map[string]map[*wsClient]struct{}
	logger     *logger.Logger
	bufferSize int
}

// NewWebSocketHub returns an empty hub. bufferSize sets each client's
// outbound channel depth (NUMBO_OBSERVER_WEBSOCKET_BUFFER_SIZE); a slow
// client beyond that depth has events dropped rather than blocking the
// broadcaster.
func NewWebSocketHub(log *logger.Logger, bufferSize int) *WebSocketHub {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	return &WebSocketHub{clients: make(map[string]map[*wsClient]struct{}), logger: log, bufferSize: bufferSize}
}

// Broadcast sends payload to every client currently watching runID.
// An event that does not fit a slow client's full send buffer is dropped
// for that client rather than allowed to block the solver; the client
// stays connected.
func (h *WebSocketHub) Broadcast(runID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[runID] {
		select {
		case c.send <- payload:
		default:
		}
	}
}

// CloseRun disconnects every client watching runID, called once a solve
// finishes so the client's websocket sees a clean close rather than hanging
// open after the last event.
func (h *WebSocketHub) CloseRun(runID string) {
	h.mu.Lock()
	clients := h.clients[runID]
	delete(h.clients, runID)
	h.mu.Unlock()
	for c := range clients {
		close(c.send)
	}
}

// ServeHTTP upgrades the request and attaches the connection to runID's
// client set until the client disconnects or the run closes.
func (h *WebSocketHub) ServeHTTP(w http.ResponseWriter, r *http.Request, runID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	client := &wsClient{conn: conn, send: make(chan []byte, h.bufferSize)}
	h.mu.Lock()
	if h.clients[runID] == nil {
		h.clients[runID] = make(map[*wsClient]struct{})
	}
	h.clients[runID][client] = struct{}{}
	h.mu.Unlock()

	go h.writePump(client)
	h.readPump(runID, client)
}

func (h *WebSocketHub) readPump(runID string, c *wsClient) {
	defer func() {
		h.mu.Lock()
		delete(h.clients[runID], c)
		h.mu.Unlock()
		_ = c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *WebSocketHub) writePump(c *wsClient) {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// hubSink implements animation.Sink by marshaling each mutation event and
// broadcasting it to one run's websocket clients.
type hubSink struct {
	hub   *WebSocketHub
	runID string
}

// NewHubSink returns an animation.Sink that streams to runID's websocket
// clients through hub.
func NewHubSink(hub *WebSocketHub, runID string) animation.Sink {
	return &hubSink{hub: hub, runID: runID}
}

func (s *hubSink) emit(ev animation.Event) {
	b, err := json.Marshal(ev)
	if err != nil {
		return
	}
	s.hub.Broadcast(s.runID, b)
}

func (s *hubSink) AddNode(id uuid.UUID, kind string, label string) {
	s.emit(animation.Event{Kind: animation.EventAddNode, NodeID: id, NodeKind: kind, Label: label})
}

func (s *hubSink) LabelNode(id uuid.UUID, label string) {
	s.emit(animation.Event{Kind: animation.EventLabelNode, NodeID: id, Label: label})
}

func (s *hubSink) AddEdge(from, to uuid.UUID, relationship string) {
	s.emit(animation.Event{Kind: animation.EventAddEdge, FromID: from, ToID: to, Relationship: relationship})
}

func (s *hubSink) RemoveNode(id uuid.UUID) {
	s.emit(animation.Event{Kind: animation.EventRemoveNode, NodeID: id})
}

func (s *hubSink) RemoveEdge(from, to uuid.UUID) {
	s.emit(animation.Event{Kind: animation.EventRemoveEdge, FromID: from, ToID: to})
}

func (s *hubSink) NextStep() {
	s.emit(animation.Event{Kind: animation.EventNextStep})
}
