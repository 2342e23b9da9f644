// Package dag provides the page-ordering constraint graph and the partial
// topological resolver built on top of it.
//
// # Overview
//
// Each ordering rule "X|Y" becomes a directed edge X → Y. A graph is built for
// a single set of pages (the distinct pages of one update) and only holds the
// rules whose endpoints both lie in that set. Graphs are cheap, short-lived
// and never shared between resolutions.
//
// # Basic Usage
//
// Create a graph over a page set with [New] and add edges with [DAG.AddEdge],
// or let [Restrict] do both while dropping edges that leave the set:
//
//	g := dag.Restrict([]uint32{75, 97, 47}, []dag.Edge{{From: 97, To: 75}, {From: 75, To: 47}})
//	mid := g.Middle(dag.Stack) // 75
//
// # Middle Resolution
//
// [DAG.Middle] runs Kahn's algorithm but stops as soon as the element at
// index len/2 has been emitted, so the tail of the order is never computed.
// If the ready set runs dry before that, the graph has a cycle or is
// under-constrained and Middle panics with an error wrapping [ErrExhausted].
// Puzzle input is trusted to be totally ordered, so this is treated as an
// invariant violation rather than a recoverable condition.
//
// # Tie-breaking
//
// When several pages are ready at once, the [Strategy] decides which one is
// emitted first: [Stack] (most recently readied), [Queue] (first readied) or
// [Sorted] (smallest page). For totally ordered inputs every strategy yields
// the same middle page.
//
// # Rendering
//
// [ToDOT] converts a graph to Graphviz DOT and [RenderSVG] renders DOT with
// the embedded Graphviz library.
//
// # Concurrency
//
// DAG instances are not safe for concurrent mutation. Read-only operations
// ([DAG.Middle], [DAG.Order], [DAG.Validate]) do not modify the graph and may
// run in parallel on the same instance.
package dag
