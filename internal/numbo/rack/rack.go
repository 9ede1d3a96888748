// Package rack implements the Coderack: a priority-weighted stochastic task
// pool. It is the weighted random pool described in spec.md §4.1 — a flat
// list of (item, urgency) pairs from which Take draws one entry with
// probability proportional to its urgency.
package rack

import "math/rand"

// Named urgency bands, per spec.md §4.1.
const (
	Micro   = 1
	Low     = 10
	Mid     = 30
	High    = 70
	Highest = 100
)

// entry pairs an opaque item with its draw weight.
type entry struct {
	item    any
	urgency int
}

// Rack is a weighted, draw-without-replacement task pool. It is not safe
// for concurrent use: spec.md §5 mandates a single codelet runs to
// completion at a time, so the driver owns the one Rack instance serially.
type Rack struct {
	entries []entry
}

// New returns an empty Rack.
func New() *Rack {
	return &Rack{}
}

// Add inserts item into the pool with the given urgency. Urgency must be a
// positive integer; the caller (driver, codelet) is responsible for using
// one of the named bands or an equivalent positive weight.
func (r *Rack) Add(item any, urgency int) {
	if urgency <= 0 {
		urgency = Micro
	}
	r.entries = append(r.entries, entry{item: item, urgency: urgency})
}

// Len returns the number of items currently in the pool.
func (r *Rack) Len() int {
	return len(r.entries)
}

// Take removes and returns one item, selected with probability proportional
// to its urgency among all current items. Ties are broken by insertion
// order (the walk below visits entries in slice order). Calling Take on an
// empty pool is a programming error; callers must gate on Len() > 0.
func (r *Rack) Take(rng *rand.Rand) any {
	if len(r.entries) == 0 {
		panic("rack: Take called on empty pool")
	}

	total := 0
	for _, e := range r.entries {
		total += e.urgency
	}

	draw := rng.Intn(total) + 1
	acc := 0
	for i, e := range r.entries {
		acc += e.urgency
		if draw <= acc {
			item := e.item
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return item
		}
	}

	// Unreachable given total is the sum of all urgencies, but guards
	// against a silent correctness regression rather than an index panic.
	last := len(r.entries) - 1
	item := r.entries[last].item
	r.entries = r.entries[:last]
	return item
}
