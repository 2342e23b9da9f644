package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/printqueue/pkg/cache"
	perrors "github.com/matzehuels/printqueue/pkg/errors"
	"github.com/matzehuels/printqueue/pkg/observability"
)

func readExample(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "queue", "testdata", "example.txt"))
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Strategy != "stack" {
		t.Errorf("Strategy = %q, want stack", opts.Strategy)
	}

	bad := Options{Strategy: "random"}
	if err := bad.ValidateAndSetDefaults(); !perrors.Is(err, perrors.ErrCodeInvalidStrategy) {
		t.Errorf("err = %v, want INVALID_STRATEGY", err)
	}
	neg := Options{Workers: -2}
	if err := neg.ValidateAndSetDefaults(); !perrors.Is(err, perrors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestRunExample(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Run(context.Background(), readExample(t), Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Part1 != 143 || res.Part2 != 123 {
		t.Errorf("parts = %d, %d, want 143, 123", res.Part1, res.Part2)
	}
	if res.Rules != 21 || res.Updates != 6 {
		t.Errorf("counts = %d rules, %d updates", res.Rules, res.Updates)
	}
	if got := res.Correct(); len(got) != 3 {
		t.Errorf("Correct() = %v, want 3 indices", got)
	}
	if res.RunID == "" || res.InputHash == "" {
		t.Error("run id and input hash must be set")
	}
	if res.Cached {
		t.Error("first run must not be cached")
	}
}

func TestRunParallelStrategies(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	for _, s := range []string{"stack", "queue", "sorted"} {
		t.Run(s, func(t *testing.T) {
			res, err := r.Run(context.Background(), readExample(t), Options{Strategy: s, Workers: 4})
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if res.Part2 != 123 {
				t.Errorf("Part2 = %d, want 123", res.Part2)
			}
		})
	}
}

func TestRunParseError(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Run(context.Background(), []byte("47|53\n75,47"), Options{})
	if !perrors.Is(err, perrors.ErrCodeMissingSeparator) {
		t.Errorf("err = %v, want MISSING_SEPARATOR", err)
	}
}

func TestRunCycleIsUnresolvable(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Run(context.Background(), []byte("1|2\n2|1\n\n1,2\n"), Options{})
	if !perrors.Is(err, perrors.ErrCodeUnresolvable) {
		t.Errorf("err = %v, want UNRESOLVABLE", err)
	}
}

func TestRunUsesCache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	hooks := &countingCacheHooks{}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	r := NewRunner(c, nil, nil)
	input := readExample(t)

	first, err := r.Run(context.Background(), input, Options{})
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Run(context.Background(), input, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if first.Cached || !second.Cached {
		t.Errorf("cached = %v, %v, want false, true", first.Cached, second.Cached)
	}
	if second.Part1 != first.Part1 || second.Part2 != first.Part2 {
		t.Errorf("cached result differs: %+v vs %+v", second, first)
	}
	if second.RunID == first.RunID {
		t.Error("cached run must get a fresh run id")
	}

	// A different strategy is a different key.
	third, err := r.Run(context.Background(), input, Options{Strategy: "sorted"})
	if err != nil {
		t.Fatal(err)
	}
	if third.Cached {
		t.Error("different strategy must miss the cache")
	}

	refreshed, err := r.Run(context.Background(), input, Options{Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.Cached {
		t.Error("Refresh must bypass the cache")
	}

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if hooks.hits != 1 || hooks.misses != 2 || hooks.sets != 3 {
		t.Errorf("hooks = %d hits, %d misses, %d sets", hooks.hits, hooks.misses, hooks.sets)
	}
}

func TestRunReportsSolveHooks(t *testing.T) {
	hooks := &countingSolveHooks{}
	observability.SetSolveHooks(hooks)
	defer observability.Reset()

	r := NewRunner(nil, nil, nil)
	if _, err := r.Run(context.Background(), readExample(t), Options{}); err != nil {
		t.Fatal(err)
	}
	if hooks.rules != 21 || hooks.updates != 6 {
		t.Errorf("parse hook saw %d rules, %d updates", hooks.rules, hooks.updates)
	}
	if hooks.correct != 3 || hooks.reordered != 3 {
		t.Errorf("solve hook saw %d correct, %d reordered", hooks.correct, hooks.reordered)
	}
}

func TestRunnerParse(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	m, err := r.Parse(context.Background(), readExample(t))
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Updates) != 6 {
		t.Errorf("updates = %d", len(m.Updates))
	}
	if _, err := r.Parse(context.Background(), nil); err == nil {
		t.Error("expected error for empty input")
	}
}

// ttlCache records the ttl of every Set.
type ttlCache struct {
	cache.NullCache
	ttls []time.Duration
}

func (c *ttlCache) Set(_ context.Context, _ string, _ []byte, ttl time.Duration) error {
	c.ttls = append(c.ttls, ttl)
	return nil
}

func TestRunCacheTTL(t *testing.T) {
	tests := []struct {
		name string
		set  func(*Runner)
		want time.Duration
	}{
		{"default", func(*Runner) {}, cache.TTLResult},
		{"configured", func(r *Runner) { r.TTL = time.Hour }, time.Hour},
		{"zero never expires", func(r *Runner) { r.TTL = 0 }, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &ttlCache{}
			r := NewRunner(c, nil, nil)
			tt.set(r)
			if _, err := r.Run(context.Background(), readExample(t), Options{}); err != nil {
				t.Fatal(err)
			}
			if len(c.ttls) != 1 || c.ttls[0] != tt.want {
				t.Errorf("Set ttls = %v, want [%v]", c.ttls, tt.want)
			}
		})
	}
}

type countingCacheHooks struct {
	mu                 sync.Mutex
	hits, misses, sets int
}

func (h *countingCacheHooks) OnCacheHit(context.Context, string) {
	h.mu.Lock()
	h.hits++
	h.mu.Unlock()
}

func (h *countingCacheHooks) OnCacheMiss(context.Context, string) {
	h.mu.Lock()
	h.misses++
	h.mu.Unlock()
}

func (h *countingCacheHooks) OnCacheSet(context.Context, string, int) {
	h.mu.Lock()
	h.sets++
	h.mu.Unlock()
}

type countingSolveHooks struct {
	rules, updates     int
	correct, reordered int
}

func (h *countingSolveHooks) OnParseComplete(_ context.Context, rules, updates int, _ time.Duration, _ error) {
	h.rules, h.updates = rules, updates
}

func (h *countingSolveHooks) OnSolveStart(context.Context, int) {}

func (h *countingSolveHooks) OnSolveComplete(_ context.Context, correct, reordered int, _ time.Duration, _ error) {
	h.correct, h.reordered = correct, reordered
}
