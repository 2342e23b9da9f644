package dag

import (
	"errors"
	"slices"
)

var (
	// ErrUnknownSourceNode is returned by [DAG.AddEdge] when the From page
	// is not part of the graph's page set.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [DAG.AddEdge] when the To page
	// is not part of the graph's page set.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrGraphHasCycle is returned by [DAG.Validate] and [DAG.Order] when the
	// rules cannot be satisfied by any ordering.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Edge is a directed "From before To" relation between two pages.
type Edge struct {
	From uint32
	To   uint32
}

// DAG is a directed graph over a fixed set of pages.
//
// Nodes keep the order in which they were first added; every traversal
// starts from that order so results are reproducible. Duplicate edges are
// kept and counted twice in the in-degree, which is harmless for Kahn's
// algorithm since they are also released twice.
//
// The zero value is not usable - use New or Restrict.
type DAG struct {
	nodes    []uint32
	index    map[uint32]struct{}
	outgoing map[uint32][]uint32
	inDegree map[uint32]int
	edges    []Edge
}

// New creates a graph containing the distinct pages of nodes, in
// first-occurrence order, and no edges.
func New(nodes []uint32) *DAG {
	d := &DAG{
		nodes:    make([]uint32, 0, len(nodes)),
		index:    make(map[uint32]struct{}, len(nodes)),
		outgoing: make(map[uint32][]uint32),
		inDegree: make(map[uint32]int),
	}
	for _, n := range nodes {
		d.AddNode(n)
	}
	return d
}

// Restrict builds a graph over nodes holding only the edges whose endpoints
// are both in the node set. Edges leaving the set are silently dropped.
func Restrict(nodes []uint32, edges []Edge) *DAG {
	d := New(nodes)
	for _, e := range edges {
		if d.Has(e.From) && d.Has(e.To) {
			d.addEdge(e)
		}
	}
	return d
}

// AddNode adds a page to the graph. It reports whether the page was new.
func (d *DAG) AddNode(id uint32) bool {
	if _, ok := d.index[id]; ok {
		return false
	}
	d.index[id] = struct{}{}
	d.nodes = append(d.nodes, id)
	return true
}

// AddEdge adds a directed edge between two pages already in the graph.
// Returns ErrUnknownSourceNode or ErrUnknownTargetNode otherwise.
func (d *DAG) AddEdge(e Edge) error {
	if !d.Has(e.From) {
		return ErrUnknownSourceNode
	}
	if !d.Has(e.To) {
		return ErrUnknownTargetNode
	}
	d.addEdge(e)
	return nil
}

func (d *DAG) addEdge(e Edge) {
	d.outgoing[e.From] = append(d.outgoing[e.From], e.To)
	d.inDegree[e.To]++
	d.edges = append(d.edges, e)
}

// Has reports whether id is part of the page set.
func (d *DAG) Has(id uint32) bool {
	_, ok := d.index[id]
	return ok
}

// Nodes returns the pages in insertion order. The slice is a copy.
func (d *DAG) Nodes() []uint32 { return slices.Clone(d.nodes) }

// Edges returns all edges in insertion order. The slice is a copy.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

// NodeCount returns the number of distinct pages.
func (d *DAG) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges, duplicates included.
func (d *DAG) EdgeCount() int { return len(d.edges) }

// Children returns the successors of id in edge insertion order.
// The returned slice must not be modified.
func (d *DAG) Children(id uint32) []uint32 { return d.outgoing[id] }

// InDegree returns the number of incoming edges of id.
func (d *DAG) InDegree(id uint32) int { return d.inDegree[id] }

// Sources returns the pages without incoming edges, in insertion order.
func (d *DAG) Sources() []uint32 {
	var out []uint32
	for _, n := range d.nodes {
		if d.inDegree[n] == 0 {
			out = append(out, n)
		}
	}
	return out
}

// Validate returns ErrGraphHasCycle if the edges contain a cycle.
//
// Cycle detection runs in O(N+E) time using depth-first search with
// white/gray/black coloring.
func (d *DAG) Validate() error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[uint32]int, len(d.nodes))
	var hasCycle bool

	var dfs func(id uint32)
	dfs = func(id uint32) {
		color[id] = gray
		for _, child := range d.outgoing[id] {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				hasCycle = true
			}
			if hasCycle {
				return
			}
		}
		color[id] = black
	}

	for _, id := range d.nodes {
		if color[id] == white {
			dfs(id)
			if hasCycle {
				return ErrGraphHasCycle
			}
		}
	}
	return nil
}

// PosMap creates a position lookup map from a slice of pages.
// If a page occurs more than once, its last position wins.
func PosMap(ids []uint32) map[uint32]int {
	m := make(map[uint32]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}
