package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/boxtower/internal/server"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
		workers int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve exposes the search over HTTP:

  POST /v1/solve              search a box collection
  GET  /v1/runs               recent runs
  GET  /v1/runs/{id}          one run
  GET  /v1/runs/{id}/{format} draw a run (svg, png, pdf, dot, json)
  GET  /healthz               liveness
  GET  /metrics               Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			if workers == 0 {
				workers = c.Config.Search.Workers
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := server.New(runner, server.Options{
				MaxBoxes: c.Config.Search.MaxBoxes,
				Workers:  workers,
				Logger:   c.Logger,
			})
			printInfo("Serving on %s", StyleHighlight.Render(addr))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the solution cache")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent evaluators per search (default GOMAXPROCS)")

	return cmd
}
