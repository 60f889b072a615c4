// Package cli implements the forcelayout command-line interface.
//
// The commands load a graph from a JSON file, run the force-directed layout
// and write the result back out, or serve a live graph over HTTP. The CLI is
// built using cobra and logs through charmbracelet/log.
//
// # Commands
//
//   - simulate: run a fixed number of ticks on a graph file and write positions
//   - serve: expose a mutable graph and its layout over HTTP
//   - watch: run the layout in an interactive terminal view
//   - config: print the effective physics constants
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which includes
// per-tick statistics from the layout engine.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress measures an operation from creation until done is called.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, rounded to the millisecond, and any
// extra key/value pairs.
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "took", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}
