package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event as a debug line on a logger. It implements
// all hook interfaces; the CLI registers it when --verbose is set.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that write to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger}
}

func (h *LogHooks) done(msg string, duration time.Duration, err error, kv ...any) {
	kv = append(kv, "duration", duration)
	if err != nil {
		h.logger.Debug(msg+" failed", append(kv, "err", err)...)
		return
	}
	h.logger.Debug(msg, kv...)
}

func (h *LogHooks) OnDecodeStart(_ context.Context, source, format string) {
	h.logger.Debug("decoding", "source", source, "format", format)
}

func (h *LogHooks) OnDecodeComplete(_ context.Context, source string, records int, d time.Duration, err error) {
	h.done("decoded", d, err, "source", source, "records", records)
}

func (h *LogHooks) OnTranslateComplete(_ context.Context, source string, elements int, d time.Duration, err error) {
	h.done("translated", d, err, "source", source, "elements", elements)
}

func (h *LogHooks) OnEncodeComplete(_ context.Context, source string, size int, d time.Duration, err error) {
	h.done("encoded", d, err, "source", source, "bytes", size)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "key", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "key", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "key", keyType, "bytes", size)
}

func (h *LogHooks) OnLoadStart(_ context.Context, sink string, elements int) {
	h.logger.Debug("loading", "sink", sink, "elements", elements)
}

func (h *LogHooks) OnLoadComplete(_ context.Context, sink string, written int, d time.Duration, err error) {
	h.done("loaded", d, err, "sink", sink, "written", written)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ SinkHooks     = (*LogHooks)(nil)
)
