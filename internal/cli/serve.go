package cli

import (
	"context"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/kgforce/pkg/graph"
	"github.com/matzehuels/kgforce/pkg/metrics"
	"github.com/matzehuels/kgforce/pkg/observability"
	"github.com/matzehuels/kgforce/pkg/pipeline"
	"github.com/matzehuels/kgforce/pkg/server"
)

// serveFlags holds the serve command's flag values.
type serveFlags struct {
	addr  string
	watch bool
}

// serveCommand creates the serve command for the live simulation server.
func (c *CLI) serveCommand() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve [graph.json]",
		Short: "Serve a live simulation over HTTP and WebSocket",
		Long: `Serve a live simulation over HTTP and WebSocket.

The serve command loads a graph, starts the simulation at the configured
frame rate and exposes it to an external renderer:

  GET  /api/stream     WebSocket snapshot stream and pointer input
  GET  /api/snapshot   current layout as JSON
  PUT  /api/graph      replace the graph
  GET  /metrics        Prometheus metrics

With --watch the graph file is reloaded whenever it changes on disk.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.addr, "addr", "", "listen address (default: config or "+server.DefaultAddr+")")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "reload the graph when the file changes")

	return cmd
}

// runServe serves until ctx is canceled.
func (c *CLI) runServe(ctx context.Context, input string, flags serveFlags) error {
	g, err := pipeline.LoadGraph(input)
	if err != nil {
		return err
	}

	reg := metrics.DefaultRegistry()
	observability.SetEngineHooks(reg)
	observability.SetPipelineHooks(reg)
	observability.SetCacheHooks(reg)
	observability.SetHTTPHooks(reg)
	defer observability.Reset()

	cfg := c.serverConfig()
	cfg.Metrics = reg.Handler()
	if flags.addr != "" {
		cfg.Addr = flags.addr
	}

	srv := server.New(cfg)
	defer srv.Close()
	srv.LoadGraph(g, c.Config.Viewport)

	printSuccess("Serving %s", input)
	printKeyValue("address", "http://"+cfg.Addr)
	printKeyValue("stream", "ws://"+cfg.Addr+"/api/stream")
	if flags.watch {
		printKeyValue("watching", input)
	}
	printNewline()

	var w *graphWatcher
	if flags.watch {
		w, err = newGraphWatcher(input, c.Logger, func(g graph.Graph) {
			srv.LoadGraph(g, c.Config.Viewport)
		})
		if err != nil {
			return err
		}
		defer w.Close()
	}

	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return srv.ListenAndServe(gctx)
	})
	if w != nil {
		eg.Go(func() error {
			return w.Run(gctx)
		})
	}
	return eg.Wait()
}

// serverConfig maps the loaded config onto server settings.
func (c *CLI) serverConfig() server.Config {
	return server.Config{
		Addr:       c.Config.Server.Addr,
		FrameRate:  c.Config.Server.FrameRate,
		StreamRate: c.Config.Server.StreamRate,
		Viewport:   c.Config.Viewport,
		Params:     c.Config.Physics,
		Logger:     c.Logger,
	}
}
