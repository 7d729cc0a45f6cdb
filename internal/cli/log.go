// Package cli implements the tagcloud command-line interface.
//
// The commands are hosts for the engine: each one builds an engine with a
// frame scheduler, an input source and a painter suited to its surface.
//
// # Commands
//
//   - render: run a cloud headless and write SVG, PNG or JSON
//   - play: interactive cloud in the terminal
//   - window: interactive cloud in a desktop window
//   - serve: HTTP preview with tag editing, undo and redo
//   - shapes: list the available shapes
//   - cache: manage the rendered frame cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context; the raster library's slog output is routed
// to the same logger.
package cli

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gogpu/gg"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// bridgeRaster routes the raster library's slog output through l.
func bridgeRaster(l *log.Logger) {
	gg.SetLogger(slog.New(l.With("lib", "gg")))
}

// progress logs completion of an operation with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Rendered 40 tags (12ms)".
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
