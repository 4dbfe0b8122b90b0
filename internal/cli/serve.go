package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/algoviz/pkg/metrics"
	"github.com/matzehuels/algoviz/pkg/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noMetrics bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored scenarios over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			opts := []server.Option{
				server.WithLogger(logger),
				server.WithViewport(cfg.Viewport.Rect()),
				server.WithTreeOptions(cfg.TreeOptions()...),
				server.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout),
			}
			if !noMetrics {
				reg := metrics.New(nil)
				reg.Register()
				opts = append(opts, server.WithMetrics(reg.Handler()))
			}

			logger.Info("Serving scenarios", "store", cfg.Store.Backend, "addr", addr)
			return server.New(st, opts...).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: from config)")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not expose /metrics")
	return cmd
}
