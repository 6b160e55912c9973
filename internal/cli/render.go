package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topo2graph/pkg/errors"
	"github.com/matzehuels/topo2graph/pkg/pipeline"
	"github.com/matzehuels/topo2graph/pkg/render/dot"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	format   string // "dot" or "svg"
	detailed bool   // node type and metadata in labels
}

// renderCommand creates the render command for Graphviz output.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: string(dot.FormatDOT)}

	cmd := &cobra.Command{
		Use:   "render [flags] FILE...",
		Short: "Render topology graphs as Graphviz DOT or SVG",
		Long: `Render translates each file and draws the resulting graph with Graphviz.

Without --output-dir the diagrams are written to stdout one after another.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errors.ValidateChoice("render format", opts.format, dot.Formats()...); err != nil {
				return errors.Wrap(errors.ErrCodeUsage, err, "%s", errors.UserMessage(err))
			}
			opts.format = strings.ToLower(opts.format)
			return c.runRender(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot, svg")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node types and metadata in labels")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(dot.Formats(), cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, args []string, opts renderOpts) error {
	ctx := cmd.Context()
	format := dot.Format(opts.format)
	return c.eachFile(ctx, args, func(path string, res *pipeline.Result) error {
		prog := newProgress(loggerFromContext(ctx))
		data, err := dot.Render(ctx, res.Elements, format, dot.Options{Detailed: opts.detailed})
		if err != nil {
			return err
		}
		if c.flags.outputDir == "" {
			if len(data) == 0 || data[len(data)-1] != '\n' {
				data = append(data, '\n')
			}
			_, err := c.Out.Write(data)
			return err
		}
		out, err := writeOutput(c.flags.outputDir, path, "."+opts.format, data)
		if err != nil {
			return err
		}
		prog.done("Rendered " + path)
		printFile(c.Err, out)
		return nil
	})
}
