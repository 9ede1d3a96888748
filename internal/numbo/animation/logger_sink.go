package animation

import (
	"github.com/google/uuid"

	"github.com/smilemakc/numbo/internal/infrastructure/logger"
)

// LoggerSink logs each graph mutation at debug level, grounded on the
// teacher's LoggerObserver (internal/application/observer/logger_observer.go)
// trimmed from workflow-execution events down to Numbo's six mutation kinds.
type LoggerSink struct {
	logger *logger.Logger
}

// NewLoggerSink returns a Sink that logs every event through log.
func NewLoggerSink(log *logger.Logger) *LoggerSink {
	return &LoggerSink{logger: log}
}

func (s *LoggerSink) AddNode(id uuid.UUID, kind string, label string) {
	s.logger.Debug("animation: add_node", "node_id", id, "kind", kind, "label", label)
}

func (s *LoggerSink) LabelNode(id uuid.UUID, label string) {
	s.logger.Debug("animation: label_node", "node_id", id, "label", label)
}

func (s *LoggerSink) AddEdge(from, to uuid.UUID, relationship string) {
	s.logger.Debug("animation: add_edge", "from", from, "to", to, "relationship", relationship)
}

func (s *LoggerSink) RemoveNode(id uuid.UUID) {
	s.logger.Debug("animation: remove_node", "node_id", id)
}

func (s *LoggerSink) RemoveEdge(from, to uuid.UUID) {
	s.logger.Debug("animation: remove_edge", "from", from, "to", to)
}

func (s *LoggerSink) NextStep() {
	s.logger.Debug("animation: next_step")
}
