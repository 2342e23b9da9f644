package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/printqueue/pkg/cache"
	"github.com/matzehuels/printqueue/pkg/observability"
	"github.com/matzehuels/printqueue/pkg/queue"
)

// keyTypeResult labels result cache events for observability hooks.
const keyTypeResult = "result"

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger; multiple
// goroutines can safely use the same Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// TTL is how long results stay cached. Zero keeps them without expiry.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// TTL starts at cache.TTLResult.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.TTLResult,
	}
}

// Run parses input and solves both parts, consulting the cache first.
func (r *Runner) Run(ctx context.Context, input []byte, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	runID := uuid.NewString()
	inputHash := cache.Hash(input)
	cacheKey := r.Keyer.ResultKey(inputHash, cache.ResultKeyOpts{Strategy: opts.Strategy})
	logger := r.Logger.With("run", runID[:8])

	if !opts.Refresh {
		if res, ok := r.lookup(ctx, cacheKey); ok {
			res.RunID = runID
			logger.Debug("cache hit", "key", cacheKey)
			return res, nil
		}
	}

	result := &Result{
		RunID:     runID,
		InputHash: inputHash,
		Strategy:  opts.Strategy,
	}

	parseStart := time.Now()
	m, err := queue.Parse(string(input))
	result.Stats.ParseTime = time.Since(parseStart)
	if err != nil {
		observability.Solve().OnParseComplete(ctx, 0, 0, result.Stats.ParseTime, err)
		return nil, fmt.Errorf("parse: %w", err)
	}
	observability.Solve().OnParseComplete(ctx, len(m.Rules), len(m.Updates), result.Stats.ParseTime, nil)
	result.Rules = len(m.Rules)
	result.Updates = len(m.Updates)

	logger.Debug("parsed input",
		"rules", result.Rules,
		"updates", result.Updates,
		"duration", result.Stats.ParseTime)

	solveStart := time.Now()
	observability.Solve().OnSolveStart(ctx, len(m.Updates))
	solved, err := queue.Solve(ctx, m, queue.Options{
		Strategy: opts.strategy(),
		Workers:  opts.Workers,
	})
	result.Stats.SolveTime = time.Since(solveStart)
	if err != nil {
		observability.Solve().OnSolveComplete(ctx, 0, 0, result.Stats.SolveTime, err)
		return nil, fmt.Errorf("solve: %w", err)
	}
	correct := len(solved.Correct())
	observability.Solve().OnSolveComplete(ctx, correct, len(solved.Verdicts)-correct, result.Stats.SolveTime, nil)

	result.Part1 = solved.Part1
	result.Part2 = solved.Part2
	result.Verdicts = solved.Verdicts

	logger.Info("solved",
		"part1", result.Part1,
		"part2", result.Part2,
		"correct", correct,
		"duration", result.Stats.SolveTime)

	r.store(ctx, cacheKey, result)
	return result, nil
}

// Parse is a convenience wrapper around queue.Parse that reports to the
// observability hooks.
func (r *Runner) Parse(ctx context.Context, input []byte) (*queue.Manual, error) {
	start := time.Now()
	m, err := queue.Parse(string(input))
	if err != nil {
		observability.Solve().OnParseComplete(ctx, 0, 0, time.Since(start), err)
		return nil, err
	}
	observability.Solve().OnParseComplete(ctx, len(m.Rules), len(m.Updates), time.Since(start), nil)
	return m, nil
}

func (r *Runner) lookup(ctx context.Context, key string) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyTypeResult)
		return nil, false
	}
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		// Corrupt entry; recompute.
		observability.Cache().OnCacheMiss(ctx, keyTypeResult)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyTypeResult)
	res.Cached = true
	return &res, true
}

func (r *Runner) store(ctx context.Context, key string, res *Result) {
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyTypeResult, len(data))
}
