// Package cli implements the printqueue command-line interface.
//
// # Commands
//
//   - solve: Sum the middle pages of correct and reordered updates
//   - check: Show which updates already follow the rules
//   - order: Print the corrected order of one update
//   - graph: Render the rule graph of one update as DOT or SVG
//   - serve: Run the HTTP API
//   - cache: Manage the result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so helpers can report progress.
//
// # Example
//
//	printqueue solve -v input.txt
//	printqueue serve --config ~/.config/printqueue/config.toml
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and drops messages below level. The serve command
// shares it with the HTTP request log.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress starts timing from now. Call done once the work finishes.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created,
// rounded to the millisecond.
// Example output: "Solved 6 updates (1ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey keeps this package's context values apart from other packages'.
type ctxKey int

// loggerKey stores the command logger installed by PersistentPreRunE.
const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
// Commands read it back with loggerFromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default(), so helpers called
// outside a command still have somewhere to log.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
