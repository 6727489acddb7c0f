package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/treeideals/internal/server"
	"github.com/matzehuels/treeideals/pkg/bench"
	"github.com/matzehuels/treeideals/pkg/cache"
)

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the samples and engines over HTTP",
		Long: `Serve a JSON API over the sample trees and the engines until interrupted. Benchmark
reports are cached in the configured backend under the "api:" scope.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			ctx := cmd.Context()
			cch := c.newCache(ctx, noCache)
			defer cch.Close()

			store := bench.NewStore(cch, cache.NewScopedKeyer(cache.NewDefaultKeyer(), "api:"))
			store.SetTTL(c.Config.Cache.TTL.Duration)
			srv := server.New(server.Options{
				Logger:    c.Logger,
				Store:     store,
				Workers:   c.Config.Workers,
				MaxIdeals: c.Config.Server.MaxIdeals,
				MaxReps:   c.Config.Server.MaxReps,
			})
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "do not cache benchmark reports")
	return cmd
}
