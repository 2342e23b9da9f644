// Package pipeline runs the parse → solve flow shared by the CLI and the
// HTTP API, with result caching and observability hooks.
package pipeline

import (
	"time"

	"github.com/matzehuels/printqueue/pkg/dag"
	perrors "github.com/matzehuels/printqueue/pkg/errors"
	"github.com/matzehuels/printqueue/pkg/queue"
)

// Options configures a pipeline run.
type Options struct {
	// Strategy names the tie-break strategy ("stack", "queue", "sorted").
	// Empty selects stack.
	Strategy string
	// Workers bounds solve concurrency. Values below 2 run sequentially.
	Workers int
	// Refresh skips the cache lookup but still stores the fresh result.
	Refresh bool
}

// ValidateAndSetDefaults checks the options and fills in defaults.
func (o *Options) ValidateAndSetDefaults() error {
	s, err := dag.ParseStrategy(o.Strategy)
	if err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidStrategy, err, "strategy")
	}
	o.Strategy = s.String()
	return perrors.ValidateWorkers(o.Workers)
}

// strategy returns the parsed strategy. Options must be validated.
func (o Options) strategy() dag.Strategy {
	s, _ := dag.ParseStrategy(o.Strategy)
	return s
}

// Stats records timing for a run.
type Stats struct {
	ParseTime time.Duration `json:"parse_time" yaml:"parse_time"`
	SolveTime time.Duration `json:"solve_time" yaml:"solve_time"`
}

// Result is the outcome of a pipeline run.
type Result struct {
	// RunID identifies this run in logs and API responses.
	RunID     string          `json:"run_id" yaml:"run_id"`
	InputHash string          `json:"input_hash" yaml:"input_hash"`
	Strategy  string          `json:"strategy" yaml:"strategy"`
	Rules     int             `json:"rules" yaml:"rules"`
	Updates   int             `json:"updates" yaml:"updates"`
	Part1     uint64          `json:"part1" yaml:"part1"`
	Part2     uint64          `json:"part2" yaml:"part2"`
	Verdicts  []queue.Verdict `json:"verdicts" yaml:"verdicts"`
	Cached    bool            `json:"cached" yaml:"cached"`
	Stats     Stats           `json:"stats" yaml:"stats"`
}

// Correct returns the indices of the updates scored in part 1.
func (r *Result) Correct() []int {
	return queue.Result{Verdicts: r.Verdicts}.Correct()
}
