// Package observability provides hooks for metrics and tracing.
//
// Libraries emit events through the registered hooks; the defaults are
// no-ops, so instrumentation is opt-in and this package stays free of
// backend dependencies. The server registers Prometheus implementations at
// startup:
//
//	observability.SetSolveHooks(metrics.SolveHooks{})
//	observability.SetCacheHooks(metrics.CacheHooks{})
//
// and the pipeline reports through the accessors:
//
//	observability.Solve().OnSolveStart(ctx, updates)
//	// ... solve ...
//	observability.Solve().OnSolveComplete(ctx, correct, reordered, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Solve Hooks
// =============================================================================

// SolveHooks receives events from the solve pipeline.
type SolveHooks interface {
	// OnParseComplete records a finished parse of the raw input.
	OnParseComplete(ctx context.Context, rules, updates int, duration time.Duration, err error)

	// OnSolveStart records the start of scoring updates.
	OnSolveStart(ctx context.Context, updates int)

	// OnSolveComplete records a finished solve. correct and reordered count
	// the updates scored in part 1 and part 2.
	OnSolveComplete(ctx context.Context, correct, reordered int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSolveHooks is a no-op implementation of SolveHooks.
type NoopSolveHooks struct{}

func (NoopSolveHooks) OnParseComplete(context.Context, int, int, time.Duration, error) {}
func (NoopSolveHooks) OnSolveStart(context.Context, int)                               {}
func (NoopSolveHooks) OnSolveComplete(context.Context, int, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	solveHooks SolveHooks = NoopSolveHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	hooksMu    sync.RWMutex
)

// SetSolveHooks registers custom solve hooks. A nil argument is ignored.
func SetSolveHooks(h SolveHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		solveHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. A nil argument is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Solve returns the registered solve hooks.
func Solve() SolveHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return solveHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	solveHooks = NoopSolveHooks{}
	cacheHooks = NoopCacheHooks{}
}
