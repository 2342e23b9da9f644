package queue

import "github.com/matzehuels/printqueue/pkg/dag"

// IsCorrect reports whether update respects every rule whose two pages both
// appear in it. Rules naming a page outside the update are ignored.
func IsCorrect(update Update, rules []Rule) bool {
	pos := dag.PosMap(update)
	for _, r := range rules {
		before, okB := pos[r.Before]
		after, okA := pos[r.After]
		if okB && okA && before > after {
			return false
		}
	}
	return true
}

// IsCorrect reports whether u satisfies the manual's rules.
func (m *Manual) IsCorrect(u Update) bool { return IsCorrect(u, m.Rules) }

// CorrectIndices returns the indices of the updates that are already in
// correct order.
func (m *Manual) CorrectIndices() []int {
	var out []int
	for i, u := range m.Updates {
		if m.IsCorrect(u) {
			out = append(out, i)
		}
	}
	return out
}

// Violations returns the rules broken by u, in rule order.
func (m *Manual) Violations(u Update) []Rule {
	pos := dag.PosMap(u)
	var out []Rule
	for _, r := range m.Rules {
		before, okB := pos[r.Before]
		after, okA := pos[r.After]
		if okB && okA && before > after {
			out = append(out, r)
		}
	}
	return out
}
