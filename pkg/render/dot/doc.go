// Package dot renders Sankey snapshots as static Graphviz diagrams.
//
// # Overview
//
// This package produces a left-to-right flow graph for one snapshot (the
// static view or a single timeline frame). Edge thickness is proportional
// to the edge value and node and edge colors carry over from the snapshot,
// so histogram coloring survives in the static output.
//
// # Usage
//
// Convert a snapshot to DOT format, then render to SVG:
//
//	src := dot.ToDOT(res.Static, dot.Options{Title: res.Title})
//	svg, err := dot.RenderSVG(ctx, src)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := dot.RenderPDF(ctx, src)
//	png, err := dot.RenderPNG(ctx, src, 2.0)  // 2x scale
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package dot
