// Package render provides visualization rendering for Sankey diagrams.
//
// # Overview
//
// This package contains the sinks that turn a rendered diagram into
// visual output. It provides:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Interactive HTML documents (in [html] subpackage)
//   - Static Graphviz diagrams (in [dot] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	svg, _ := dot.RenderSVG(ctx, src)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// When rsvg-convert is not installed both return an UNSUPPORTED error.
//
// [html]: https://pkg.go.dev/github.com/matzehuels/sankeyflow/pkg/render/html
// [dot]: https://pkg.go.dev/github.com/matzehuels/sankeyflow/pkg/render/dot
package render
