package queue

import "github.com/matzehuels/printqueue/pkg/dag"

// Page is a page number.
type Page = uint32

// Rule requires Before to appear no later than After whenever both pages
// are part of the same update.
type Rule struct {
	Before Page `json:"before" yaml:"before"`
	After  Page `json:"after" yaml:"after"`
}

// Edge converts the rule into a constraint graph edge.
func (r Rule) Edge() dag.Edge { return dag.Edge{From: r.Before, To: r.After} }

// Update is a candidate page ordering.
type Update []Page

// Middle returns the page at index len/2. It panics on an empty update.
func (u Update) Middle() Page { return u[len(u)/2] }

// Pages returns the distinct pages of u in first-occurrence order.
func (u Update) Pages() []Page {
	seen := make(map[Page]struct{}, len(u))
	out := make([]Page, 0, len(u))
	for _, p := range u {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Manual is a parsed puzzle input: the rule list and the updates to check.
// Both are non-empty when produced by Parse. A Manual is never modified
// after parsing and is safe for concurrent reads.
type Manual struct {
	Rules   []Rule   `json:"rules" yaml:"rules"`
	Updates []Update `json:"updates" yaml:"updates"`
}

// RulesFor returns the rules whose two pages are both in pages.
func (m *Manual) RulesFor(pages []Page) []Rule {
	set := make(map[Page]struct{}, len(pages))
	for _, p := range pages {
		set[p] = struct{}{}
	}
	var out []Rule
	for _, r := range m.Rules {
		_, okB := set[r.Before]
		_, okA := set[r.After]
		if okB && okA {
			out = append(out, r)
		}
	}
	return out
}

// Graph builds the constraint graph for update i: its distinct pages and
// the rules restricted to them.
func (m *Manual) Graph(i int) *dag.DAG {
	pages := m.Updates[i].Pages()
	edges := make([]dag.Edge, len(m.Rules))
	for j, r := range m.Rules {
		edges[j] = r.Edge()
	}
	return dag.Restrict(pages, edges)
}
