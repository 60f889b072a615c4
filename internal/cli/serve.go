package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forcelayout/pkg/config"
	"github.com/matzehuels/forcelayout/pkg/observability"
	"github.com/matzehuels/forcelayout/pkg/server"
)

const shutdownTimeout = 5 * time.Second

type serveOpts struct {
	addr         string
	configPath   string
	watch        bool
	graphPath    string
	tickInterval time.Duration
	seed         int64
	maxTicks     int
}

// serveCommand creates the serve command exposing a live graph over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{addr: ":8080", maxTicks: server.DefaultMaxTicks}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a mutable graph and its layout over HTTP",
		Long: `Serve a mutable graph and its layout over HTTP.

Clients add and remove vertices and edges, advance the layout with
POST /layout, and poll GET /events for lifecycle notifications. Prometheus
metrics are exposed on /metrics.

With --watch the config file is reloaded whenever it changes. With
--tick-interval the server advances the layout on its own.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.watch && opts.configPath == "" {
				return fmt.Errorf("--watch requires --config")
			}
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "physics constants file (toml or yaml)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "reload the config file when it changes")
	cmd.Flags().StringVarP(&opts.graphPath, "graph", "g", "", "graph JSON file to serve initially")
	cmd.Flags().DurationVar(&opts.tickInterval, "tick-interval", 0, "advance the layout every interval (0 disables)")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "noise seed for vertices created without a position")
	cmd.Flags().IntVar(&opts.maxTicks, "max-ticks", opts.maxTicks, "maximum ticks per /layout request")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	cfg, err := c.loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	// Lifecycle and tick events reach the log at debug level.
	hooks := observability.NewLogHooks(c.Logger)
	observability.SetRenderHooks(hooks)
	observability.SetTickHooks(hooks)
	defer observability.Reset()

	srv, err := server.New(server.Options{
		Config:   &cfg,
		Logger:   c.Logger,
		Seed:     opts.seed,
		MaxTicks: opts.maxTicks,
	})
	if err != nil {
		return err
	}

	if opts.graphPath != "" {
		if err := c.importFile(srv, opts.graphPath); err != nil {
			return err
		}
	}

	if opts.watch {
		w, err := config.NewWatcher(opts.configPath, c.Logger)
		if err != nil {
			return err
		}
		w.OnChange(func(cfg config.Config) {
			if err := srv.SetConfig(cfg); err != nil {
				c.Logger.Warn("config rejected", "err", err)
			}
		})
		if err := w.Watch(ctx); err != nil {
			return err
		}
	}

	if opts.tickInterval > 0 {
		go srv.Run(ctx, opts.tickInterval)
	}

	httpSrv := &http.Server{
		Addr:              opts.addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	printInfo("Serving on %s", StyleHighlight.Render(opts.addr))
	if opts.configPath != "" {
		printKeyValue("config", opts.configPath)
	}
	if opts.graphPath != "" {
		printKeyValue("graph", opts.graphPath)
	}
	if opts.tickInterval > 0 {
		printDetail("layout advances every %s", opts.tickInterval)
	}
	printNextStep("Add a vertex", fmt.Sprintf(`curl -X POST localhost%s/vertices -d '{"label":"a"}'`, opts.addr))

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

func (c *CLI) importFile(srv *server.Server, path string) error {
	f, err := openGraph(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := srv.Import(f); err != nil {
		return fmt.Errorf("load graph %s: %w", path, err)
	}
	return nil
}
