// Package metrics exports Prometheus instruments and registers them as the
// observability hooks for the solve pipeline and cache.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/printqueue/pkg/observability"
)

var (
	InputsParsed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "printqueue_inputs_parsed_total",
		Help: "Total number of inputs parsed, labelled by status.",
	}, []string{"status"})

	RulesParsed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "printqueue_rules_parsed_total",
		Help: "Total number of ordering rules parsed.",
	})

	UpdatesScored = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "printqueue_updates_scored_total",
		Help: "Total number of updates scored, labelled by part.",
	}, []string{"part"})

	SolvesInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "printqueue_solves_in_flight",
		Help: "Number of solves currently running.",
	})

	SolveFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "printqueue_solve_failures_total",
		Help: "Total number of solves aborted by an unresolvable update or cancellation.",
	})

	SolveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "printqueue_solve_duration_ms",
		Help:    "Solve latency in milliseconds.",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 25, 50, 100, 250, 1000},
	})

	CacheEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "printqueue_cache_events_total",
		Help: "Cache lookups and writes, labelled by key type and event.",
	}, []string{"key_type", "event"})

	CacheBytesWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "printqueue_cache_bytes_written_total",
		Help: "Total bytes written to the result cache.",
	})
)

// Register installs the Prometheus hooks as the global observability hooks.
func Register() {
	observability.SetSolveHooks(SolveHooks{})
	observability.SetCacheHooks(CacheHooks{})
}

// SolveHooks records solve pipeline events.
type SolveHooks struct{}

func (SolveHooks) OnParseComplete(_ context.Context, rules, _ int, _ time.Duration, err error) {
	if err != nil {
		InputsParsed.WithLabelValues("error").Inc()
		return
	}
	InputsParsed.WithLabelValues("ok").Inc()
	RulesParsed.Add(float64(rules))
}

func (SolveHooks) OnSolveStart(context.Context, int) {
	SolvesInFlight.Inc()
}

func (SolveHooks) OnSolveComplete(_ context.Context, correct, reordered int, d time.Duration, err error) {
	SolvesInFlight.Dec()
	SolveDuration.Observe(float64(d.Microseconds()) / 1000)
	if err != nil {
		SolveFailures.Inc()
		return
	}
	UpdatesScored.WithLabelValues("1").Add(float64(correct))
	UpdatesScored.WithLabelValues("2").Add(float64(reordered))
}

// CacheHooks records cache events.
type CacheHooks struct{}

func (CacheHooks) OnCacheHit(_ context.Context, keyType string) {
	CacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (CacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	CacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (CacheHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	CacheEvents.WithLabelValues(keyType, "set").Inc()
	CacheBytesWritten.Add(float64(size))
}
