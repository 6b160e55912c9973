package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/topo2graph/pkg/cache"
	"github.com/matzehuels/topo2graph/pkg/server"
)

// serveCommand creates the serve command exposing the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		maxBody int64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the translator over HTTP",
		Long: `Serve exposes POST /v1/translate and GET /healthz.

The request body holds topology records; Content-Type (text/plain, application/yaml,
application/json) or the ?format= query parameter selects the input encoding.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") {
				addr = c.cfg.Server.Addr
			}

			runner := c.newRunner(ctx)
			defer runner.Close()
			// API entries get their own key scope in a shared cache.
			runner.Keyer = cache.NewScopedKeyer(runner.Keyer, "api:")

			srv := server.New(runner, loggerFromContext(ctx), server.Options{MaxBodyBytes: maxBody})
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().Int64Var(&maxBody, "max-body", server.DefaultMaxBodyBytes, "maximum request body size in bytes")

	return cmd
}
