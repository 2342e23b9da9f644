package dag

import (
	"errors"
	"fmt"
	"maps"
)

// ErrExhausted is the panic value (wrapped) raised by [DAG.Middle] when no
// page is ready before the middle index is reached.
var ErrExhausted = errors.New("ready set exhausted before middle page")

// Middle returns the page at index len(nodes)/2 of a topological order of
// nodes under edges, without computing the rest of the order.
//
// Edges are expected to be pre-filtered to the node set; any that are not
// are ignored. Middle panics with an error wrapping ErrExhausted on cyclic or
// under-constrained input, and on an empty node set.
func Middle(nodes []uint32, edges []Edge, s Strategy) uint32 {
	return Restrict(nodes, edges).Middle(s)
}

// Middle returns the page at index NodeCount()/2 of a topological order,
// stopping as soon as that page has been emitted.
func (d *DAG) Middle(s Strategy) uint32 {
	goal := len(d.nodes) / 2
	order := d.walk(s, goal+1)
	if len(order) <= goal {
		panic(fmt.Errorf("%w: emitted %d of %d pages", ErrExhausted, len(order), goal+1))
	}
	return order[goal]
}

// Order returns a full topological order of the graph.
// Returns ErrGraphHasCycle if some pages can never become ready.
func (d *DAG) Order(s Strategy) ([]uint32, error) {
	order := d.walk(s, len(d.nodes))
	if len(order) < len(d.nodes) {
		return order, ErrGraphHasCycle
	}
	return order, nil
}

// walk runs Kahn's algorithm until limit pages are emitted or no page is
// ready. The graph itself is left untouched.
func (d *DAG) walk(s Strategy, limit int) []uint32 {
	remaining := maps.Clone(d.inDegree)
	if remaining == nil {
		remaining = make(map[uint32]int)
	}
	ready := newReadySet(s, d.Sources())
	order := make([]uint32, 0, limit)

	for len(order) < limit && ready.Len() > 0 {
		curr := ready.Pop()
		order = append(order, curr)
		for _, next := range d.outgoing[curr] {
			remaining[next]--
			if remaining[next] == 0 {
				ready.Push(next)
			}
		}
	}
	return order
}
