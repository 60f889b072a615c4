package cli

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/forcelayout/pkg/graph"
	fio "github.com/matzehuels/forcelayout/pkg/io"
	"github.com/matzehuels/forcelayout/pkg/layout"
)

// watchCommand creates the watch command running a layout interactively.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		ticks      int
		perFrame   int
		configPath string
		seed       int64
		scatter    float64
		output     string
	)

	cmd := &cobra.Command{
		Use:   "watch [graph.json]",
		Short: "Run the layout in an interactive terminal view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWatch(cmd.Context(), args[0], ticks, perFrame, configPath, seed, scatter, output)
		},
	}

	cmd.Flags().IntVarP(&ticks, "ticks", "n", defaultTicks, "maximum number of ticks (0 runs until quit)")
	cmd.Flags().IntVar(&perFrame, "per-frame", 1, "ticks per frame")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "physics constants file (toml or yaml)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "noise seed for the initial scatter")
	cmd.Flags().Float64Var(&scatter, "scatter", defaultScatter, "scatter radius for vertices at the origin (0 disables)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the graph with final positions on exit")

	return cmd
}

func (c *CLI) runWatch(ctx context.Context, input string, ticks, perFrame int, configPath string, seed int64, scatter float64, output string) error {
	cfg, err := c.loadConfig(configPath)
	if err != nil {
		return err
	}
	g, _, err := fio.ImportGraph(input, graph.WithLogger(c.Logger))
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}
	if scatter > 0 {
		layout.Scatter(g, seed, scatter)
	}
	// Tick logs would corrupt the view.
	eng, err := layout.NewEngine(g, cfg, layout.WithLogger(log.New(io.Discard)))
	if err != nil {
		return err
	}

	p := tea.NewProgram(NewWatchModel(eng, ticks, perFrame), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	m := final.(WatchModel)
	printStats(m.Stats.Vertices, m.Stats.Edges, m.Stats.Tick, m.Stats.KineticEnergy, m.Done)
	if output != "" {
		if err := fio.ExportGraph(g, output); err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}
		printFile(output)
	}
	return nil
}
