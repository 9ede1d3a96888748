package rest

import (
	"sync"

	"github.com/smilemakc/numbo/internal/numbo"
	"github.com/smilemakc/numbo/internal/numboerr"
)

// RunStatus is the lifecycle of one server-tracked Solve invocation.
type RunStatus string

const (
	RunRunning RunStatus = "running"
	RunDone    RunStatus = "done"
)

// RunState is what GET /solve/:run_id reports while a run is in flight or
// once it completes.
type RunState struct {
	Status RunStatus       `json:"status"`
	Result *numbo.Result   `json:"result,omitempty"`
	Reason numboerr.Reason `json:"reason,omitempty"`
}

// RunStore tracks in-flight and completed runs in memory, keyed by run_id.
// A run disappears once the process restarts; SPEC_FULL.md's archive store
// is the durable record, this is just what GET /solve/:run_id reads from
// while the server is up.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]*RunState
}

// NewRunStore returns an empty store.
func NewRunStore() *RunStore {
	return &RunStore{runs: make(map[string]*RunState)}
}

// Start records a new running entry for runID.
func (s *RunStore) Start(runID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[runID] = &RunState{Status: RunRunning}
}

// Finish records a run's outcome.
func (s *RunStore) Finish(runID string, result numbo.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[runID] = &RunState{Status: RunDone, Result: &result, Reason: result.Reason}
}

// Get returns the current state of runID, or ok == false if unknown.
func (s *RunStore) Get(runID string) (*RunState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.runs[runID]
	return st, ok
}
