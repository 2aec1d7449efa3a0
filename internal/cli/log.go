// Package cli implements the rackplan command-line interface.
//
// Every command works on a layout file (--file) holding one rack, its device
// library and image references. Editing commands go through the editor so
// they follow the same placement rules as a scripted session, and the layout
// is only rewritten when a command succeeds.
//
// # Commands
//
//   - new: create an empty layout
//   - place, remove, move, nudge, resize: single edits
//   - check-resize, list, validate: read-only inspection
//   - apply: run a JSON or YAML script of editor commands
//   - catalog: list and import device types
//   - template: save, list and remove rack templates
//   - export: write a PDF elevation or QR asset labels
//   - config: show, initialise, back up or restore ~/.rackplan/config.json
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/piwi3910/RackPlan/internal/model"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const (
	loggerKey ctxKey = iota
	configKey
)

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

func withConfig(ctx context.Context, cfg model.AppConfig) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// configFromContext retrieves the loaded app config, falling back to defaults.
func configFromContext(ctx context.Context) model.AppConfig {
	if cfg, ok := ctx.Value(configKey).(model.AppConfig); ok {
		return cfg
	}
	return model.DefaultAppConfig()
}
