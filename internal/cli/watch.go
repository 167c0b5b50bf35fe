package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kgforce/pkg/force"
	"github.com/matzehuels/kgforce/pkg/graph"
	"github.com/matzehuels/kgforce/pkg/pipeline"
)

// watchCommand creates the watch command for the live terminal view.
func (c *CLI) watchCommand() *cobra.Command {
	var reload bool

	cmd := &cobra.Command{
		Use:   "watch [graph.json]",
		Short: "Run the simulation live in the terminal",
		Long: `Run the simulation live in the terminal.

The watch command runs the simulation at the configured frame rate and shows
every node's position and speed as it settles. Select nodes and edges from
the keyboard and pause or resume the simulation with space.

With --reload the graph file is reloaded whenever it changes on disk.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWatch(cmd.Context(), args[0], reload)
		},
	}

	cmd.Flags().BoolVarP(&reload, "reload", "r", false, "reload the graph when the file changes")

	return cmd
}

// runWatch runs the terminal view until the user quits or ctx is canceled.
func (c *CLI) runWatch(ctx context.Context, input string, reload bool) error {
	g, err := pipeline.LoadGraph(input)
	if err != nil {
		return err
	}

	// Log lines would tear the alternate screen.
	level := c.Logger.GetLevel()
	c.Logger.SetLevel(LogError)
	defer c.Logger.SetLevel(level)

	sched := force.NewTickerScheduler(c.Config.Server.FrameRate)
	defer sched.Close()
	engine := force.New(sched,
		force.WithParams(c.Config.Physics),
		force.WithLogger(c.Logger),
	)
	defer engine.Close()

	engine.SetGraph(g, c.Config.Viewport)
	engine.Start()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if reload {
		w, err := newGraphWatcher(input, c.Logger, func(g graph.Graph) {
			engine.SetGraph(g, c.Config.Viewport)
			engine.Start()
		})
		if err != nil {
			return err
		}
		defer w.Close()
		go w.Run(ctx)
	}

	p := tea.NewProgram(NewWatchModel(engine, fmt.Sprintf("%s %s", appName, input)),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
