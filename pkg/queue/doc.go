// Package queue models a print queue: page ordering rules and the updates
// (page sequences) that must respect them.
//
// # Input
//
// [Parse] reads the two-block text format: one "X|Y" rule per line, a blank
// line, then one comma-separated update per line:
//
//	47|53
//	97|13
//
//	75,47,61,53,29
//	97,61,53,29,13
//
// Malformed input is reported as a *errors.Error from
// github.com/matzehuels/printqueue/pkg/errors; both blocks must be
// non-empty.
//
// # Solving
//
// An update is correct when every rule whose two pages both appear in it is
// respected ([IsCorrect]). [Manual.Part1] sums the middle page of every
// correct update. [Manual.Part2] reorders every incorrect update according
// to the rules restricted to its own pages and sums the new middle pages,
// using the early-exit resolver in github.com/matzehuels/printqueue/pkg/dag.
// Each update contributes to exactly one of the two sums.
//
// [Solve] computes both parts at once, optionally fanning updates out over
// several goroutines.
package queue
