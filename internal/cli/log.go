package cli

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sankeyflow/pkg/observability"
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
// Example output: "Rendered 3 formats (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// =============================================================================
// Log Hooks - debug logging of observability events
// =============================================================================

// logHooks writes pipeline, cache and server events to a logger.
type logHooks struct {
	logger *log.Logger
}

func registerLogHooks(l *log.Logger) {
	h := &logHooks{logger: l}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetServerHooks(h)
}

func (h *logHooks) OnLoadStart(_ context.Context, path string) {
	h.logger.Debug("load started", "input", path)
}

func (h *logHooks) OnLoadComplete(_ context.Context, path string, rows int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("load failed", "input", path, "error", err)
		return
	}
	h.logger.Debug("load finished", "input", path, "rows", rows, "duration", d.Round(time.Microsecond))
}

func (h *logHooks) OnAssembleStart(_ context.Context, rows int) {
	h.logger.Debug("assemble started", "rows", rows)
}

func (h *logHooks) OnAssembleComplete(_ context.Context, nodes, frames int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("assemble failed", "error", err)
		return
	}
	h.logger.Debug("assemble finished", "nodes", nodes, "frames", frames, "duration", d.Round(time.Microsecond))
}

func (h *logHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render started", "formats", strings.Join(formats, ","))
}

func (h *logHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "formats", strings.Join(formats, ","), "error", err)
		return
	}
	h.logger.Debug("render finished", "formats", strings.Join(formats, ","), "duration", d.Round(time.Microsecond))
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *logHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Info("served", "method", method, "path", path, "status", status, "duration", d.Round(time.Microsecond))
}
