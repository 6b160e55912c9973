// Package pipeline runs the decode → translate → encode conversion that every
// topo2graph entry point shares.
//
// The CLI, the render and push commands, and the HTTP API all turn topology
// input into an element array the same way; this package is that one path.
//
// # Stages
//
//  1. Decode: parse the input bytes into topology records
//  2. Translate: expand records into graph elements
//  3. Encode: serialize the elements as a JSON array
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.ConvertFile(ctx, "net.topo", pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	os.Stdout.Write(res.JSON)
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topo2graph/pkg/graph"
	"github.com/matzehuels/topo2graph/pkg/observability"
	"github.com/matzehuels/topo2graph/pkg/topology"
	"github.com/matzehuels/topo2graph/pkg/translate"
)

// Options configures one conversion.
type Options struct {
	// Format is the input encoding. Empty or auto detects it from the
	// source name.
	Format topology.Format

	// Strict rejects physical hosts that would emit duplicate identifiers.
	Strict bool

	// Compact disables pretty-printing of the JSON output.
	Compact bool

	// Refresh skips the cache lookup but still stores the fresh result.
	Refresh bool

	Logger *log.Logger
}

// Indent returns the JSON indent implied by the options.
func (o Options) Indent() string {
	if o.Compact {
		return ""
	}
	return graph.DefaultIndent
}

// Stats records per-stage timings. Stages skipped by a cache hit stay zero.
type Stats struct {
	DecodeTime    time.Duration
	TranslateTime time.Duration
	EncodeTime    time.Duration
}

// Result is the outcome of converting one input.
type Result struct {
	Source   string
	Format   topology.Format
	Records  int // zero on a cache hit
	Elements []graph.Element
	JSON     []byte // encoded array, without trailing newline
	CacheHit bool
	Stats    Stats
}

// Nodes returns the number of nodes in the result.
func (r *Result) Nodes() int {
	n, _ := graph.Count(r.Elements)
	return n
}

// Links returns the number of links in the result.
func (r *Result) Links() int {
	_, l := graph.Count(r.Elements)
	return l
}

// Convert runs all three stages on data without caching. source names the
// input in hooks and errors; format must already be resolved.
func Convert(ctx context.Context, source string, data []byte, format topology.Format, opts Options) (*Result, error) {
	res := &Result{Source: source, Format: format}
	hooks := observability.Pipeline()

	hooks.OnDecodeStart(ctx, source, string(format))
	start := time.Now()
	records, err := topology.DecodeBytes(data, format)
	res.Stats.DecodeTime = time.Since(start)
	hooks.OnDecodeComplete(ctx, source, len(records), res.Stats.DecodeTime, err)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	res.Records = len(records)

	start = time.Now()
	elems, err := translate.New(translate.Options{Strict: opts.Strict}).Translate(records)
	res.Stats.TranslateTime = time.Since(start)
	hooks.OnTranslateComplete(ctx, source, len(elems), res.Stats.TranslateTime, err)
	if err != nil {
		return nil, fmt.Errorf("translate: %w", err)
	}
	res.Elements = elems

	start = time.Now()
	out, err := graph.MarshalElements(elems, opts.Indent())
	res.Stats.EncodeTime = time.Since(start)
	hooks.OnEncodeComplete(ctx, source, len(out), res.Stats.EncodeTime, err)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	res.JSON = out
	return res, nil
}
