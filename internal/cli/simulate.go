package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forcelayout/pkg/graph"
	fio "github.com/matzehuels/forcelayout/pkg/io"
	"github.com/matzehuels/forcelayout/pkg/layout"
	"github.com/matzehuels/forcelayout/pkg/observability"
)

// simulateOpts holds the command-line flags for the simulate command.
type simulateOpts struct {
	ticks      int     // maximum ticks to run
	configPath string  // TOML or YAML physics constants
	seed       int64   // noise seed for initial scatter
	scatter    float64 // scatter radius, 0 disables
	output     string  // graph JSON output path
	dot        string  // optional DOT output path
	svg        string  // optional SVG output path
	dotScale   float64 // layout units to Graphviz points
	labels     bool    // draw labels in DOT/SVG
}

// simulateCommand creates the simulate command for running a layout offline.
func (c *CLI) simulateCommand() *cobra.Command {
	opts := simulateOpts{
		ticks:    defaultTicks,
		scatter:  defaultScatter,
		dotScale: 20,
		labels:   true,
	}

	cmd := &cobra.Command{
		Use:   "simulate [graph.json]",
		Short: "Run the force-directed layout on a graph file",
		Long: `Run the force-directed layout on a graph file.

The input is a JSON graph with vertices and edges. Vertices without a position
are spread around the origin with coherent noise before the first tick, since
vertices sharing a point never push each other apart.

The simulation stops after --ticks ticks, or earlier when stop_energy is set in
the config and the kinetic energy drops below it. The graph is written back as
JSON with the final positions, optionally with a DOT or SVG projection.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.ticks < 1 {
				return fmt.Errorf("--ticks must be positive, got %d", opts.ticks)
			}
			return c.runSimulate(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().IntVarP(&opts.ticks, "ticks", "n", opts.ticks, "maximum number of ticks")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "physics constants file (toml or yaml)")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "noise seed for the initial scatter")
	cmd.Flags().Float64Var(&opts.scatter, "scatter", opts.scatter, "scatter radius for vertices at the origin (0 disables)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <input>.layout.json, - for stdout)")
	cmd.Flags().StringVar(&opts.dot, "dot", "", "also write a Graphviz DOT projection")
	cmd.Flags().StringVar(&opts.svg, "svg", "", "also render an SVG projection")
	cmd.Flags().Float64Var(&opts.dotScale, "dot-scale", opts.dotScale, "layout units per Graphviz point")
	cmd.Flags().BoolVar(&opts.labels, "labels", opts.labels, "draw vertex labels in DOT and SVG output")

	return cmd
}

// runSimulate loads the graph, runs the layout and writes the outputs.
func (c *CLI) runSimulate(ctx context.Context, input string, opts simulateOpts) error {
	cfg, err := c.loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	g, _, err := fio.ImportGraph(input, graph.WithLogger(c.Logger))
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}
	if opts.scatter > 0 {
		if n := layout.Scatter(g, opts.seed, opts.scatter); n > 0 {
			c.Logger.Debug("scattered vertices", "count", n, "radius", opts.scatter)
		}
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Simulating %d ticks...", opts.ticks))
	eng, err := layout.NewEngine(g, cfg,
		layout.WithLogger(c.Logger),
		layout.WithTickHooks(observability.FanoutTicks(
			tickSpinner{s: spinner, total: opts.ticks},
			observability.NewLogHooks(c.Logger),
			observability.Tick(),
		)),
	)
	if err != nil {
		return err
	}

	spinner.Start()
	stats, err := eng.Run(ctx, opts.ticks)
	if err != nil {
		spinner.StopWithError("Simulation interrupted")
		return err
	}
	spinner.Stop()
	prog.done("Layout finished", "ticks", stats.Tick)

	if stats.Vertices == 0 {
		printWarning("%s has no vertices", input)
	}
	settled := cfg.StopEnergy > 0 && stats.KineticEnergy < cfg.StopEnergy
	printStats(stats.Vertices, stats.Edges, stats.Tick, stats.KineticEnergy, settled)

	return c.writeSimulation(ctx, g, input, opts)
}

func (c *CLI) writeSimulation(ctx context.Context, g *graph.Graph, input string, opts simulateOpts) error {
	output := opts.output
	if output == "" {
		output = defaultOutputPath(input)
	}
	if output == "-" {
		if err := fio.WriteGraph(g, os.Stdout); err != nil {
			return err
		}
	} else {
		if err := fio.ExportGraph(g, output); err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}
		printFile(output)
	}

	if opts.dot == "" && opts.svg == "" {
		return nil
	}
	dot := fio.ToDOT(g, fio.DOTOptions{Scale: opts.dotScale, Labels: opts.labels})
	if opts.dot != "" {
		if err := os.WriteFile(opts.dot, []byte(dot), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", opts.dot, err)
		}
		printFile(opts.dot)
	}
	if opts.svg != "" {
		svg, err := fio.RenderSVG(ctx, dot)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.svg, svg, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", opts.svg, err)
		}
		printFile(opts.svg)
	}
	return nil
}

// defaultOutputPath derives "<base>.layout.json" from the input path.
func defaultOutputPath(input string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + ".layout.json"
}
