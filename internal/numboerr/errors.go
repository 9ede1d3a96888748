// Package numboerr defines the sentinel error taxonomy for the Numbo solver.
//
// Most entries in the taxonomy (spec.md §7) are recoverable by design and
// never surface as a Go error return: a codelet that finds a stale operand
// returns an empty follow-up list, and a lookup against an unknown slipnet
// label enqueues find_syntactically_similar instead of failing. The
// sentinels below exist so tests can assert a codelet's intent by value
// instead of allocating a distinct type per call site, and so the two
// taxonomy entries that ARE user-visible (ExhaustedPool, StepCapExceeded)
// have a stable identity to attach to Result.Reason.
package numboerr

import "errors"

var (
	// ErrExhaustedPool means the rack emptied before the cytoplasm reached
	// a solved state. Terminates the driver loop.
	ErrExhaustedPool = errors.New("numbo: rack exhausted before solution")

	// ErrStepCapExceeded means the step counter reached its cap before the
	// cytoplasm reached a solved state. Terminates the driver loop.
	ErrStepCapExceeded = errors.New("numbo: step cap exceeded before solution")

	// ErrStaleOperand marks a codelet's precondition failure: an operand it
	// was closed over is no longer free. Never returned to a caller; it
	// exists for tests to assert why a codelet produced no follow-ups.
	ErrStaleOperand = errors.New("numbo: operand no longer free")

	// ErrMissingConcept marks a label lookup against the slipnet that found
	// no concept node. Recoverable: callers redirect to
	// find_syntactically_similar rather than propagating this value.
	ErrMissingConcept = errors.New("numbo: no slipnet concept for label")

	// ErrUnderflow marks an aborted subtract codelet whose operands would
	// produce a non-positive result.
	ErrUnderflow = errors.New("numbo: subtract result not positive")

	// ErrDegenerate marks an aborted multiply codelet where an operand is 1.
	ErrDegenerate = errors.New("numbo: multiply by one is degenerate")
)

// Reason is a stable label attached to an unsolved Result, identifying which
// taxonomy entry ended the run. It is comparable and JSON-encodable, unlike
// a raw error value.
type Reason string

const (
	ReasonSolved          Reason = ""
	ReasonExhaustedPool   Reason = "exhausted_pool"
	ReasonStepCapExceeded Reason = "step_cap_exceeded"
	ReasonCancelled       Reason = "cancelled"
)

// ReasonFor maps one of the two user-visible sentinel errors to its Reason.
// Any other error (including nil) maps to ReasonSolved, since no other
// taxonomy entry is ever surfaced as a terminal condition.
func ReasonFor(err error) Reason {
	switch {
	case errors.Is(err, ErrExhaustedPool):
		return ReasonExhaustedPool
	case errors.Is(err, ErrStepCapExceeded):
		return ReasonStepCapExceeded
	default:
		return ReasonSolved
	}
}
