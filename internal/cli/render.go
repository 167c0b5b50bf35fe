package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kgforce/pkg/errors"
	"github.com/matzehuels/kgforce/pkg/graph"
	"github.com/matzehuels/kgforce/pkg/pipeline"
)

// renderFlags holds the command-line flags for the render command.
type renderFlags struct {
	output    string // output base path; each format appends its extension
	formats   string // comma-separated output formats
	labels    bool   // draw node labels
	detailed  bool   // include node type and properties in labels
	highlight string // node ID to emphasize
	noCache   bool
	refresh   bool
}

// renderCommand creates the render command for turning a layout into images.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render [layout.json]",
		Short: "Render a computed layout to SVG, PNG, DOT or JSON",
		Long: `Render a computed layout to SVG, PNG, DOT or JSON.

The render command takes a layout.json file (produced by 'layout') and
exports it through Graphviz with every node pinned at its simulated
position. Pass several formats at once with -f svg,png,dot.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output base path (default: input without extension)")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", pipeline.FormatSVG, "output formats: svg, png, dot, json (comma-separated)")
	cmd.Flags().BoolVar(&flags.labels, "labels", true, "draw node labels")
	cmd.Flags().BoolVar(&flags.detailed, "detailed", false, "include node type and properties in labels")
	cmd.Flags().StringVar(&flags.highlight, "highlight", "", "node ID to emphasize")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "re-render even if cached artifacts exist")

	return cmd
}

// runRender loads the layout and writes one file per requested format.
func (c *CLI) runRender(ctx context.Context, input string, flags renderFlags) error {
	opts := pipeline.Options{
		Formats:   parseFormats(flags.formats),
		Labels:    flags.labels,
		Detailed:  flags.detailed,
		Highlight: flags.highlight,
		Refresh:   flags.refresh,
		Logger:    c.Logger,
	}
	if err := opts.ValidateForRender(); err != nil {
		return err
	}

	l, err := graph.ReadLayoutFile(input)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "layout file %s not found", input)
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "read layout %s", input)
	}
	if opts.Highlight != "" {
		if _, ok := l.NodeByID(opts.Highlight); !ok {
			return errors.New(errors.ErrCodeNodeNotFound, "highlight node %q is not in the layout", opts.Highlight)
		}
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")))
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	base := basePath(flags.output, input)
	formats := make([]string, 0, len(artifacts))
	for format := range artifacts {
		formats = append(formats, format)
	}
	slices.Sort(formats)

	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := base + "." + format
		if format == pipeline.FormatJSON && filepath.Clean(path) == filepath.Clean(input) {
			// The JSON artifact is the layout itself.
			paths = append(paths, path)
			continue
		}
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		c.Logger.Debug("wrote artifact", "format", format, "bytes", len(artifacts[format]))
		paths = append(paths, path)
	}

	printSuccess("Rendered %d file(s)", len(paths))
	for _, p := range paths {
		printFile(p)
	}
	printStats(len(l.Nodes), len(l.Edges), l.Dropped, cacheHit)
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .png, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
