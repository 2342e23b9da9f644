// Package pkg provides the libraries behind printqueue.
//
// # Overview
//
// printqueue checks print queue updates against page ordering rules. Each
// rule "X|Y" says page X must be printed before page Y whenever both appear
// in an update. The pkg directory is organized into:
//
//  1. [queue] - Parsing, correctness checks and scoring of updates
//  2. [dag] - Constraint graphs and the partial topological resolver
//  3. [pipeline] - Orchestration (parse → solve) with result caching
//  4. [cache] - File, Redis and no-op result caches
//  5. [config] - TOML configuration with environment overrides
//  6. [errors] - Structured errors with stable codes
//  7. [observability] - Metrics hooks with no-op defaults
//
// # Architecture
//
//	puzzle input (rules block, blank line, updates block)
//	         ↓
//	    [queue.Parse] → [queue.Manual]
//	         ↓
//	    [queue.Manual.IsCorrect] ─── correct ──→ part 1 (existing middle page)
//	         │
//	      incorrect
//	         ↓
//	    [dag.Middle] (Kahn's algorithm, stops at the middle) → part 2
//
// # Quick Start
//
//	m, err := queue.Parse(input)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(m.Part1(), m.Part2(dag.Stack))
package pkg
