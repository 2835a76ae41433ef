package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/sankeyflow/pkg/flow"
	"github.com/matzehuels/sankeyflow/pkg/render"
)

// Default edge thickness range in points.
const (
	DefaultMinPenWidth = 1.0
	DefaultMaxPenWidth = 16.0
)

// Options configures DOT generation.
type Options struct {
	// Title is drawn above the diagram when set.
	Title string

	// Detailed adds node sizes and edge values to the labels.
	Detailed bool

	// MinPenWidth and MaxPenWidth bound the edge thickness. The heaviest
	// edge is drawn at MaxPenWidth. Zero values select the defaults.
	MinPenWidth float64
	MaxPenWidth float64
}

func (o Options) withDefaults() Options {
	if o.MinPenWidth <= 0 {
		o.MinPenWidth = DefaultMinPenWidth
	}
	if o.MaxPenWidth < o.MinPenWidth {
		o.MaxPenWidth = DefaultMaxPenWidth
	}
	return o
}

// ToDOT converts a snapshot to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
func ToDOT(s flow.Snapshot, opts Options) string {
	opts = opts.withDefaults()

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=14, margin=\"0.2,0.1\", color=\"#00000033\"];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("  ranksep=1.2;\n")
	buf.WriteString("  nodesep=0.3;\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n  fontsize=20;\n", opts.Title)
	}
	buf.WriteString("\n")

	for _, n := range s.Nodes {
		attrs := []string{
			fmt.Sprintf("label=%q", nodeLabel(n, opts.Detailed)),
			fmt.Sprintf("fillcolor=%q", Color(n.Color)),
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	var maxValue float64
	for _, e := range s.Edges {
		if e.Value > maxValue {
			maxValue = e.Value
		}
	}
	for _, e := range s.Edges {
		attrs := []string{
			fmt.Sprintf("penwidth=%.2f", penWidth(e.Value, maxValue, opts)),
			fmt.Sprintf("color=%q", Color(e.Color)),
		}
		if opts.Detailed {
			attrs = append(attrs, fmt.Sprintf("label=%q", formatValue(e.Value)))
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(n flow.Node, detailed bool) string {
	if !detailed {
		return n.ID
	}
	return n.ID + "\n" + formatValue(n.Size)
}

func penWidth(v, maxValue float64, opts Options) float64 {
	if maxValue <= 0 {
		return opts.MinPenWidth
	}
	return opts.MinPenWidth + (opts.MaxPenWidth-opts.MinPenWidth)*v/maxValue
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var rgbaRe = regexp.MustCompile(`^rgba?\(\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)\s*(?:,\s*([0-9.]+)\s*)?\)$`)

// Color converts a CSS rgb()/rgba() color to a Graphviz "#RRGGBBAA"
// color. Other strings are returned unchanged and an empty color becomes
// "gray".
func Color(css string) string {
	if css == "" {
		return "gray"
	}
	m := rgbaRe.FindStringSubmatch(strings.TrimSpace(css))
	if m == nil {
		return css
	}
	channel := func(s string) int {
		n, _ := strconv.Atoi(s)
		return min(max(n, 0), 255)
	}
	alpha := 255
	if m[4] != "" {
		a, _ := strconv.ParseFloat(m[4], 64)
		alpha = min(max(int(a*255+0.5), 0), 255)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", channel(m[1]), channel(m[2]), channel(m[3]), alpha)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the SVG scales with its
// container.
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

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
