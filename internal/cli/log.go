// Package cli implements the udgraph command-line interface.
//
// # Commands
//
//   - fix: break cycles in basic trees
//   - collapse: collapse empty nodes into composite relations
//   - stats: corpus statistics as a styled report or JSON
//   - render: draw one sentence as SVG or DOT
//   - serve: run the HTTP service
//   - cache: inspect and clear the result cache
//
// Treebanks are read from a file argument or stdin and written to stdout or
// --output. Status lines and logs go to stderr.
//
// # Configuration
//
// Defaults come from the TOML file named by --config (or the user config
// directory); command flags override it.
//
// # Logging
//
// Logs use charmbracelet/log on stderr. --verbose switches to debug level.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs the completion of an operation with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs "msg (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
