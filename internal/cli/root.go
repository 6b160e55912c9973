package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topo2graph/pkg/errors"
	"github.com/matzehuels/topo2graph/pkg/pipeline"
)

// runConvert translates each argument in order and writes one JSON array per
// file. Output for earlier files is flushed before a later file fails.
func (c *CLI) runConvert(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	return c.eachFile(ctx, args, func(path string, res *pipeline.Result) error {
		data := append(res.JSON, '\n')
		if c.flags.outputDir == "" {
			_, err := c.Out.Write(data)
			return err
		}
		out, err := writeOutput(c.flags.outputDir, path, ".json", data)
		if err != nil {
			return err
		}
		printFile(c.Err, out)
		return nil
	})
}

// eachFile converts every path with a shared runner and hands each result to
// fn. The first failure stops the run.
func (c *CLI) eachFile(ctx context.Context, paths []string, fn func(path string, res *pipeline.Result) error) error {
	if err := requireFiles(paths); err != nil {
		return err
	}
	opts, err := c.pipelineOptions()
	if err != nil {
		return err
	}

	runner := c.newRunner(ctx)
	defer runner.Close()

	logger := loggerFromContext(ctx)
	for _, path := range paths {
		res, err := runner.ConvertFile(ctx, path, opts)
		if err != nil {
			if errors.Is(err, errors.ErrCodeFileNotFound) || errors.Is(err, errors.ErrCodeUsage) {
				return err
			}
			return fmt.Errorf("%s: %w", path, err)
		}
		logger.Debug("translated", "file", path, "records", res.Records, "nodes", res.Nodes(), "links", res.Links(), "cached", res.CacheHit)
		if err := fn(path, res); err != nil {
			return err
		}
	}
	return nil
}

// requireFiles rejects an invocation without input files.
func requireFiles(paths []string) error {
	if len(paths) == 0 {
		return errors.New(errors.ErrCodeUsage, "no input files")
	}
	return nil
}

// writeOutput writes data to dir/<input basename><ext> and returns the path.
func writeOutput(dir, input, ext string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	out := filepath.Join(dir, outputName(input, ext))
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return "", err
	}
	return out, nil
}

// outputName replaces the extension of input's base name with ext.
func outputName(input, ext string) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ext
}
