// Package cli implements the topo2graph command-line interface.
//
// The root command translates topology files to graph JSON on stdout. The
// subcommands reuse the same pipeline:
//   - render: Graphviz DOT or SVG of each file's graph
//   - push neo4j, push mongo: load the elements into a database
//   - serve: HTTP API around the translator
//   - cache: inspect or clear the output cache
//
// All commands support --verbose (-v) for debug-level logging. Logs go to
// stderr; stdout carries only command output.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/topo2graph/pkg/buildinfo"
	"github.com/matzehuels/topo2graph/pkg/cache"
	"github.com/matzehuels/topo2graph/pkg/config"
	"github.com/matzehuels/topo2graph/pkg/errors"
	"github.com/matzehuels/topo2graph/pkg/observability"
	"github.com/matzehuels/topo2graph/pkg/pipeline"
	"github.com/matzehuels/topo2graph/pkg/topology"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "topo2graph"

	// usageLine is printed after usage errors.
	usageLine = "usage: " + appName + " [flags] FILE..."
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives JSON, DOT, and SVG output. Err receives status lines.
	Out io.Writer
	Err io.Writer

	cfg   config.Config
	flags globalFlags
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath  string
	inputFormat string
	outputDir   string
	strict      bool
	compact     bool
	noCache     bool
	refresh     bool
	verbose     bool
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
		Err:    w,
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName + " [flags] FILE...",
		Short: "topo2graph translates network topology records to graph JSON",
		Long: `topo2graph reads topology records (switches, endpoints, gateways, hosts,
patch panels, and the links between them) and prints, for each input file, a
JSON array of graph nodes and links.`,
		Version:           buildinfo.Version,
		Args:              cobra.ArbitraryArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		RunE:              c.runConvert,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.Out)
	root.SetErr(c.Err)

	pf := root.PersistentFlags()
	pf.BoolVarP(&c.flags.verbose, "verbose", "v", false, "enable verbose logging")
	pf.StringVar(&c.flags.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/topo2graph/config.toml)")
	pf.StringVar(&c.flags.inputFormat, "input-format", string(topology.FormatAuto), "input encoding: auto, term, yaml, json")
	pf.StringVarP(&c.flags.outputDir, "output-dir", "o", "", "write one file per input into this directory instead of stdout")
	pf.BoolVar(&c.flags.strict, "strict", false, "reject physical hosts that would emit duplicate identifiers")
	pf.BoolVar(&c.flags.compact, "compact", false, "emit compact JSON instead of pretty-printed")
	pf.BoolVar(&c.flags.noCache, "no-cache", false, "disable the output cache")
	pf.BoolVar(&c.flags.refresh, "refresh", false, "ignore cached output but store the fresh result")
	_ = root.RegisterFlagCompletionFunc("input-format", cobra.FixedCompletions(topology.Formats(), cobra.ShellCompDirectiveNoFileComp))

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.pushCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads configuration, applies flag overrides, and attaches the logger
// to the command context.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	if c.flags.verbose {
		c.SetLogLevel(LogDebug)
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetSinkHooks(hooks)
	}

	cfg, err := config.Load(c.flags.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("strict") {
		cfg.Output.Strict = c.flags.strict
	}
	if flags.Changed("compact") {
		cfg.Output.Compact = c.flags.compact
	}
	c.cfg = cfg

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context) *pipeline.Runner {
	runner := pipeline.NewRunner(c.newCache(ctx), nil, c.Logger)
	runner.TTL = c.cfg.Cache.TTL.Duration
	return runner
}

// newCache opens the configured backend. An unavailable backend degrades to
// no caching rather than failing the run.
func (c *CLI) newCache(ctx context.Context) cache.Cache {
	if c.flags.noCache {
		return cache.NewNullCache()
	}
	store, err := c.openCache(ctx)
	if err != nil {
		c.Logger.Warn("cache disabled", "backend", c.cfg.Cache.Backend, "err", err)
		return cache.NewNullCache()
	}
	return store
}

func (c *CLI) openCache(ctx context.Context) (cache.Cache, error) {
	return cache.Open(ctx, cache.Options{
		Backend:   cache.Backend(c.cfg.Cache.Backend),
		Dir:       c.cfg.Cache.Dir,
		RedisAddr: c.cfg.Cache.RedisAddr,
		RedisDB:   c.cfg.Cache.RedisDB,
	})
}

// pipelineOptions merges flags and config into conversion options.
func (c *CLI) pipelineOptions() (pipeline.Options, error) {
	format, err := topology.ParseFormat(c.flags.inputFormat)
	if err != nil {
		return pipeline.Options{}, errors.Wrap(errors.ErrCodeUsage, err, "%s", errors.UserMessage(err))
	}
	return pipeline.Options{
		Format:  format,
		Strict:  c.cfg.Output.Strict,
		Compact: c.cfg.Output.Compact,
		Refresh: c.flags.refresh,
		Logger:  c.Logger,
	}, nil
}

// =============================================================================
// Error Reporting
// =============================================================================

// Report prints err the way the CLI presents failures: usage problems get the
// message followed by the usage line, everything else the full error chain.
func Report(w io.Writer, err error) {
	switch errors.GetCode(err) {
	case errors.ErrCodeUsage, errors.ErrCodeFileNotFound:
		fmt.Fprintln(w, errors.UserMessage(err))
		fmt.Fprintln(w, usageLine)
	default:
		fmt.Fprintln(w, err)
	}
}
