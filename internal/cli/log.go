// Package cli implements the mindmap command-line interface.
//
// Commands work on the map registry configured in the config file (see
// pkg/config), overridable with --store, --store-path and --mode.
//
// # Commands
//
// The main commands are:
//   - maps: list, create, show and delete named maps
//   - node: add, rename, move and delete nodes of a map
//   - layout: print the computed layout of a map as a table
//   - edit: the interactive terminal editor
//   - serve: the JSON HTTP API
//   - config: show the effective configuration
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. At debug
// level, observability hooks log every editor operation, layout pass and
// storage access.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mindmap/pkg/observability"
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

// done logs msg along with the elapsed time since progress was created,
// e.g. "Saved 12 nodes (3ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// =============================================================================
// Observability hooks
// =============================================================================

// logHooks reports editor, layout and storage events at debug level.
type logHooks struct {
	logger *log.Logger
}

// registerLogHooks installs logHooks as the global observability hooks.
func registerLogHooks(l *log.Logger) {
	h := logHooks{logger: l}
	observability.SetEditorHooks(h)
	observability.SetLayoutHooks(h)
	observability.SetStorageHooks(h)
}

func (h logHooks) OnOperation(_ context.Context, op, mapName string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("operation failed", "op", op, "map", mapName, "took", d, "err", err)
		return
	}
	h.logger.Debug("operation", "op", op, "map", mapName, "took", d)
}

func (h logHooks) OnArrange(_ context.Context, mode string, nodes int, d time.Duration) {
	h.logger.Debug("layout", "mode", mode, "nodes", nodes, "took", d)
}

func (h logHooks) OnRead(_ context.Context, backend, key string, hit bool, size int, d time.Duration, err error) {
	h.logger.Debug("store read", "backend", backend, "key", key, "hit", hit, "bytes", size, "took", d, "err", err)
}

func (h logHooks) OnWrite(_ context.Context, backend, key string, size int, d time.Duration, err error) {
	h.logger.Debug("store write", "backend", backend, "key", key, "bytes", size, "took", d, "err", err)
}

func (h logHooks) OnCorrupt(_ context.Context, key, mapName string, err error) {
	h.logger.Warn("corrupt stored data", "key", key, "map", mapName, "err", err)
}

var (
	_ observability.EditorHooks  = logHooks{}
	_ observability.LayoutHooks  = logHooks{}
	_ observability.StorageHooks = logHooks{}
)
