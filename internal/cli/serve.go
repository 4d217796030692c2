package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/udgraph/internal/server"
	"github.com/matzehuels/udgraph/pkg/cache"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		maxBody int64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		Long: `Serve exposes fix, collapse, stats and render over HTTP. Treebanks are
posted as the request body; options are query parameters. Prometheus metrics
are served at /metrics.`,
		Example: `  udgraph serve --addr :9000
  curl --data-binary @corpus.conllu 'localhost:9000/v1/collapse?separator=>'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") {
				addr = c.cfg.Server.Addr
			}

			r := c.newRunner(ctx, cache.NewScopedKeyer(nil, "api:"))
			defer r.Close()

			metrics := server.NewMetrics()
			metrics.Register()

			stderr := cmd.ErrOrStderr()
			printInfo(stderr, "Serving udgraph on %s", addr)
			backend := backendName(c.cfg.Cache.Backend)
			if c.noCache {
				backend = cache.BackendNone
			}
			printKeyValue(stderr, "cache", backend)
			printKeyValue(stderr, "collapse separator", c.cfg.Collapse.Separator)

			srv := server.New(r, c.Logger, server.Config{
				Addr:         addr,
				MaxBodyBytes: maxBody,
				Defaults:     c.pipelineOptions(),
				Metrics:      metrics,
			})
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address (default from config)")
	cmd.Flags().Int64Var(&maxBody, "max-body", server.DefaultMaxBodyBytes, "maximum request body in bytes")
	return cmd
}
