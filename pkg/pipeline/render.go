package pipeline

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/kgforce/pkg/graph"
	"github.com/matzehuels/kgforce/pkg/render/nodelink"
)

// RenderFromLayout generates output artifacts in the requested formats.
//
// JSON is the layout itself, DOT is the pinned-position Graphviz source, and
// SVG and PNG are rendered from that DOT source. Graphviz renders run
// concurrently, one instance per format.
func RenderFromLayout(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	dot := nodelink.ToDOT(l, nodelink.Options{
		Labels:    opts.Labels,
		Detailed:  opts.Detailed,
		Highlight: opts.Highlight,
	})

	var (
		mu        sync.Mutex
		artifacts = make(map[string][]byte, len(opts.Formats))
	)
	store := func(format string, data []byte) {
		mu.Lock()
		artifacts[format] = data
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		switch format {
		case FormatJSON:
			data, err := graph.MarshalLayout(l)
			if err != nil {
				return nil, fmt.Errorf("serialize layout: %w", err)
			}
			store(format, data)
		case FormatDOT:
			store(format, []byte(dot))
		case FormatSVG:
			g.Go(func() error {
				data, err := nodelink.RenderSVG(gctx, dot)
				if err != nil {
					return fmt.Errorf("render %s: %w", format, err)
				}
				store(format, data)
				return nil
			})
		case FormatPNG:
			g.Go(func() error {
				data, err := nodelink.RenderPNG(gctx, dot)
				if err != nil {
					return fmt.Errorf("render %s: %w", format, err)
				}
				store(format, data)
				return nil
			})
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}
