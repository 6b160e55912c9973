package pipeline

import (
	"bytes"
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topo2graph/pkg/cache"
	"github.com/matzehuels/topo2graph/pkg/errors"
	"github.com/matzehuels/topo2graph/pkg/graph"
	"github.com/matzehuels/topo2graph/pkg/observability"
	"github.com/matzehuels/topo2graph/pkg/topology"
)

// cacheKeyType labels output entries in cache hooks.
const cacheKeyType = "output"

// Runner wraps [Convert] with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger, so multiple
// goroutines can share one Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is how long outputs stay cached; zero selects cache.TTLOutput.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// ConvertFile reads and converts the file at path. A missing file is a
// FILE_NOT_FOUND error whose message is "<path>: file not found".
func (r *Runner) ConvertFile(ctx context.Context, path string, opts Options) (*Result, error) {
	if err := errors.ValidateInputFile(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "%s: cannot read", path)
	}
	return r.ConvertBytes(ctx, path, data, opts)
}

// ConvertBytes converts an in-memory input. The format is resolved against
// source when opts.Format is auto.
func (r *Runner) ConvertBytes(ctx context.Context, source string, data []byte, opts Options) (*Result, error) {
	logger := r.logger(opts)
	format := opts.Format.Resolve(source)
	key := r.Keyer.OutputKey(cache.Hash(data), cache.OutputKeyOpts{
		Format: string(format),
		Strict: opts.Strict,
		Indent: opts.Indent(),
	})

	if !opts.Refresh {
		if res, ok := r.lookup(ctx, key, source, format); ok {
			logger.Debug("cache hit", "source", source, "elements", len(res.Elements))
			return res, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, cacheKeyType)

	res, err := Convert(ctx, source, data, format, opts)
	if err != nil {
		return nil, err
	}
	logger.Debug("converted",
		"source", source,
		"format", format,
		"records", res.Records,
		"nodes", res.Nodes(),
		"links", res.Links(),
		"duration", res.Stats.DecodeTime+res.Stats.TranslateTime+res.Stats.EncodeTime)

	ttl := r.TTL
	if ttl <= 0 {
		ttl = cache.TTLOutput
	}
	if err := r.Cache.Set(ctx, key, res.JSON, ttl); err != nil {
		logger.Warn("cache write failed", "source", source, "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, cacheKeyType, len(res.JSON))
	}
	return res, nil
}

// lookup returns a cached result. Entries that fail to decode are treated
// as misses and recomputed.
func (r *Runner) lookup(ctx context.Context, key, source string, format topology.Format) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		return nil, false
	}
	elems, err := graph.ReadJSON(bytes.NewReader(data))
	if err != nil {
		_ = r.Cache.Delete(ctx, key)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, cacheKeyType)
	return &Result{
		Source:   source,
		Format:   format,
		Elements: elems,
		JSON:     data,
		CacheHit: true,
	}, true
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}
