package queue

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/printqueue/pkg/dag"
	perrors "github.com/matzehuels/printqueue/pkg/errors"
)

// Verdict records how a single update was scored.
type Verdict struct {
	Index   int  `json:"index" yaml:"index"`
	Correct bool `json:"correct" yaml:"correct"`
	// Middle is the existing middle page for correct updates and the
	// resolved middle page for reordered ones.
	Middle Page `json:"middle" yaml:"middle"`
	// Part is 1 for correct updates and 2 for reordered ones.
	Part int `json:"part" yaml:"part"`
}

// Options configures Solve.
type Options struct {
	// Strategy breaks ties between simultaneously ready pages.
	Strategy dag.Strategy
	// Workers bounds the number of goroutines scoring updates.
	// Values below 2 score updates sequentially.
	Workers int
}

// Result is the outcome of Solve.
type Result struct {
	Part1    uint64    `json:"part1" yaml:"part1"`
	Part2    uint64    `json:"part2" yaml:"part2"`
	Verdicts []Verdict `json:"verdicts" yaml:"verdicts"`
}

// Correct returns the indices of the updates that contributed to part 1.
func (r Result) Correct() []int {
	var out []int
	for _, v := range r.Verdicts {
		if v.Correct {
			out = append(out, v.Index)
		}
	}
	return out
}

// Part1 sums the middle page of every correct update.
func (m *Manual) Part1() uint64 {
	var sum uint64
	for _, u := range m.Updates {
		if m.IsCorrect(u) {
			sum += uint64(u.Middle())
		}
	}
	return sum
}

// Part2 reorders every incorrect update and sums the resolved middle pages.
// It panics if an update cannot be ordered (see dag.Middle).
func (m *Manual) Part2(s dag.Strategy) uint64 {
	var sum uint64
	for _, u := range m.Updates {
		if m.IsCorrect(u) {
			continue
		}
		sum += uint64(m.resolveMiddle(u, s))
	}
	return sum
}

func (m *Manual) resolveMiddle(u Update, s dag.Strategy) Page {
	pages := u.Pages()
	rules := m.RulesFor(pages)
	edges := make([]dag.Edge, len(rules))
	for i, r := range rules {
		edges[i] = r.Edge()
	}
	return dag.Middle(pages, edges, s)
}

// Verdict scores update i. It panics if the update is incorrect and
// cannot be ordered.
func (m *Manual) Verdict(i int, s dag.Strategy) Verdict {
	u := m.Updates[i]
	if m.IsCorrect(u) {
		return Verdict{Index: i, Correct: true, Middle: u.Middle(), Part: 1}
	}
	return Verdict{Index: i, Middle: m.resolveMiddle(u, s), Part: 2}
}

// Classify scores every update in order.
func (m *Manual) Classify(s dag.Strategy) []Verdict {
	out := make([]Verdict, len(m.Updates))
	for i := range m.Updates {
		out[i] = m.Verdict(i, s)
	}
	return out
}

// Reorder returns the full corrected ordering of update i. Correct updates
// are returned unchanged.
func (m *Manual) Reorder(i int, s dag.Strategy) (Update, error) {
	if err := perrors.ValidateUpdateIndex(i, len(m.Updates)); err != nil {
		return nil, err
	}
	if m.IsCorrect(m.Updates[i]) {
		return append(Update(nil), m.Updates[i]...), nil
	}
	order, err := m.Graph(i).Order(s)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeUnresolvable, err, "update %d", i)
	}
	return Update(order), nil
}

// Solve scores every update and sums both parts. Resolution failures are
// returned as ErrCodeUnresolvable errors instead of panicking, and the
// first one aborts the run.
func Solve(ctx context.Context, m *Manual, opts Options) (Result, error) {
	verdicts := make([]Verdict, len(m.Updates))

	if opts.Workers < 2 {
		for i := range m.Updates {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
			v, err := m.safeVerdict(i, opts.Strategy)
			if err != nil {
				return Result{}, err
			}
			verdicts[i] = v
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Workers)
		for i := range m.Updates {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				v, err := m.safeVerdict(i, opts.Strategy)
				if err != nil {
					return err
				}
				verdicts[i] = v
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return Result{}, err
		}
	}

	res := Result{Verdicts: verdicts}
	for _, v := range verdicts {
		if v.Part == 1 {
			res.Part1 += uint64(v.Middle)
		} else {
			res.Part2 += uint64(v.Middle)
		}
	}
	return res, nil
}

func (m *Manual) safeVerdict(i int, s dag.Strategy) (v Verdict, err error) {
	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if !ok {
				cause = fmt.Errorf("%v", r)
			}
			err = perrors.Wrap(perrors.ErrCodeUnresolvable, cause, "update %d cannot be ordered", i)
		}
	}()
	return m.Verdict(i, s), nil
}
