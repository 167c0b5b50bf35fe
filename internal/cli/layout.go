package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kgforce/pkg/graph"
	"github.com/matzehuels/kgforce/pkg/pipeline"
)

// layoutFlags holds the layout command's flag values. Zero values defer to
// the config file.
type layoutFlags struct {
	output  string
	noCache bool
	refresh bool
	steps   int
	width   float64
	height  float64
}

// layoutCommand creates the layout command for running a headless simulation.
func (c *CLI) layoutCommand() *cobra.Command {
	var flags layoutFlags

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Simulate a knowledge graph and write its layout",
		Long: `Simulate a knowledge graph and write its layout.

The layout command reads a graph file (JSON or YAML), runs the force
simulation for a fixed number of frames or until it settles, and writes a
layout.json file holding every node's position and visuals. Render it with
'kgforce render'.

Physics and viewport come from the config file unless overridden by flags.
Results are cached so repeated runs on the same graph are instant.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "recompute even if a cached layout exists")
	cmd.Flags().IntVar(&flags.steps, "steps", pipeline.DefaultSteps, "maximum number of frames to simulate")
	cmd.Flags().Float64Var(&flags.width, "width", 0, "viewport width (default: config)")
	cmd.Flags().Float64Var(&flags.height, "height", 0, "viewport height (default: config)")

	return cmd
}

// runLayout loads the graph, simulates it, and writes the layout file.
func (c *CLI) runLayout(ctx context.Context, input string, flags layoutFlags) error {
	g, err := pipeline.LoadGraph(input)
	if err != nil {
		return err
	}

	opts := c.layoutOptions()
	opts.Steps = flags.steps
	opts.Refresh = flags.refresh
	if flags.width > 0 {
		opts.Width = flags.width
	}
	if flags.height > 0 {
		opts.Height = flags.height
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Simulating layout...")
	opts.Progress = func(frame uint64) {
		spinner.SetMessage("Simulating layout... frame %d/%d", frame, opts.Steps)
	}
	spinner.Start()

	l, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	outputPath := flags.output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}

	if err := graph.WriteLayoutFile(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	if l.Settled {
		printSuccess("Layout settled after %d frames", l.Frames)
	} else {
		printSuccess("Layout complete (%d frames)", l.Frames)
	}
	printFile(outputPath)
	printStats(len(l.Nodes), len(l.Edges), l.Dropped, cacheHit)
	printNewline()
	printNextStep("Render", appName+" render "+outputPath)

	return nil
}
