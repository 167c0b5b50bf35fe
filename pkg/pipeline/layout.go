package pipeline

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kgforce/pkg/errors"
	"github.com/matzehuels/kgforce/pkg/force"
	"github.com/matzehuels/kgforce/pkg/graph"
	"github.com/matzehuels/kgforce/pkg/layout"
)

// framesPerCheck is how many frames run between context checks.
const framesPerCheck = 50

// Simulate runs the force simulation headlessly for opts.Steps frames and
// returns the final positions. It stops early when the graph settles
// (see [force.Params.SettleEnergy]) or ctx is canceled.
//
// The engine is driven by a [force.ManualScheduler], so the result depends
// only on the graph and the options.
func Simulate(ctx context.Context, g graph.Graph, opts Options) (graph.Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	sched := force.NewManualScheduler()
	eng := force.New(sched, force.WithParams(opts.Params), force.WithLogger(logger))
	defer eng.Close()

	eng.SetGraph(g, layout.Viewport{Width: opts.Width, Height: opts.Height})
	eng.Start()

	remaining := opts.Steps
	for remaining > 0 && eng.Running() {
		if err := ctx.Err(); err != nil {
			return graph.Layout{}, errors.Wrap(errors.ErrCodeInternal, err, "simulation interrupted after %d frames", eng.Frames())
		}
		n := min(remaining, framesPerCheck)
		if sched.Advance(n) == 0 {
			break
		}
		remaining -= n
		if opts.Progress != nil {
			opts.Progress(eng.Frames())
		}
	}
	eng.Stop()

	snap := eng.Snapshot()
	logger.Debug("simulation finished",
		"frames", snap.Frame,
		"energy", snap.Energy,
		"settled", snap.Settled)
	return snap.Layout(), nil
}
