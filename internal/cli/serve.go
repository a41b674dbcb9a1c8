package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/doctriage/internal/server"
	"github.com/matzehuels/doctriage/pkg/metrics"
)

type serveOpts struct {
	addr      string
	noCache   bool
	noMetrics bool
}

// serveCommand runs the HTTP API until the context is cancelled.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&opts.noMetrics, "no-metrics", false, "do not expose /metrics")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts serveOpts) error {
	ctx := cmd.Context()
	cfg, err := c.config()
	if err != nil {
		return err
	}
	addr := cfg.Server.Addr
	if opts.addr != "" {
		addr = opts.addr
	}

	store, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	ingester, err := c.newIngester(store)
	if err != nil {
		return err
	}

	srvOpts := server.Options{
		Store:     store,
		Runner:    runner,
		Ingester:  ingester,
		Logger:    c.Logger,
		MaxUpload: cfg.Server.MaxUploadMB << 20,
		Defaults:  renderDefaults(cfg),
	}
	if !opts.noMetrics {
		reg := metrics.NewRegistry()
		reg.Install()
		srvOpts.Metrics = reg.Handler()
	}

	printInfo("Listening on %s", StyleHighlight.Render(addr))
	printDetail("Storage: %s · Cache: %s", cfg.Storage.Backend, cfg.Cache.Backend)
	return server.New(srvOpts).ListenAndServe(ctx, addr)
}
