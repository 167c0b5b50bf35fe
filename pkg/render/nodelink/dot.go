package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/kgforce/pkg/graph"
)

// pointsPerInch converts layout units (points) to Graphviz inches.
const pointsPerInch = 72.0

// Options configures node-link diagram rendering.
type Options struct {
	// Labels draws each node's display label next to it.
	Labels bool

	// Detailed adds the node type and properties to the tooltip.
	Detailed bool

	// Highlight is the ID of a node drawn with a thick outline.
	Highlight string
}

// ToDOT converts a layout to Graphviz DOT format with pinned node positions.
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPNG].
func ToDOT(l graph.Layout, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  overlap=true;\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  bb=\"0,0,%s,%s\";\n", num(l.Width), num(l.Height))
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, label=\"\", penwidth=0, fontsize=10];\n")
	buf.WriteString("  edge [arrowsize=0.5, color=\"#7F8C8D\"];\n")
	buf.WriteString("\n")

	for _, n := range l.Nodes {
		attrs := fmtAttrs(n, l.Height, opts)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range l.Edges {
		attrs := []string{fmt.Sprintf("penwidth=%s", num(edgeWidth(e.Weight)))}
		if e.Relation != "" {
			attrs = append(attrs, fmt.Sprintf("tooltip=%q", e.Relation))
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(n graph.PositionedNode, height float64, opts Options) []string {
	size := 2 * n.Radius / pointsPerInch
	attrs := []string{
		fmt.Sprintf("pos=\"%s,%s!\"", num(n.X), num(height-n.Y)),
		fmt.Sprintf("width=%s", num(size)),
		fmt.Sprintf("fillcolor=%q", n.Color),
		fmt.Sprintf("tooltip=%q", fmtTooltip(n, opts.Detailed)),
	}
	if opts.Labels {
		attrs = append(attrs, fmt.Sprintf("xlabel=%q", n.DisplayLabel()))
	}
	if opts.Highlight != "" && n.ID == opts.Highlight {
		attrs = append(attrs, "penwidth=3", "color=\"#2C3E50\"")
	}
	return attrs
}

func fmtTooltip(n graph.PositionedNode, detailed bool) string {
	label := n.DisplayLabel()
	if !detailed {
		return label
	}

	parts := []string{label}
	if n.Type != "" {
		parts = append(parts, "type: "+n.Type)
	}
	for _, k := range slices.Sorted(maps.Keys(n.Properties)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Properties[k]))
	}
	return strings.Join(parts, "\n")
}

// edgeWidth maps an edge weight to a pen width. Unweighted edges draw at 1.
func edgeWidth(w float64) float64 {
	if w <= 0 {
		return 1
	}
	return min(w, 8)
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	data, err := renderDOT(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(data), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.PNG)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's fixed pt-sized root element with one
// that scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
