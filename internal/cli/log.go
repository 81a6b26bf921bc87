// Package cli implements the boxtower command-line interface.
//
// Commands:
//   - solve: find the tallest stack for boxes given as flags, a file or a form
//   - render: redraw a saved solution or an archived run
//   - runs: list and inspect archived runs
//   - cache: inspect and clear the solution cache
//   - config: show or initialize the configuration file
//   - serve: run the HTTP API
//
// All commands support --verbose (-v) for debug-level logging. Command
// handlers attach the CLI logger to their context; helpers read it back with
// loggerFromContext.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger writing "15:04:05.00"-stamped lines to w.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// stopwatch logs how long a command step took.
type stopwatch struct {
	logger *log.Logger
	start  time.Time
}

func startStopwatch(l *log.Logger) stopwatch {
	return stopwatch{logger: l, start: time.Now()}
}

// done logs e.g. "Search finished (1.234s)".
func (s stopwatch) done(format string, args ...any) {
	s.logger.Infof("%s (%s)", fmt.Sprintf(format, args...), time.Since(s.start).Round(time.Millisecond))
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the attached logger, or one that discards
// everything.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok && l != nil {
		return l
	}
	return log.NewWithOptions(io.Discard, log.Options{})
}
