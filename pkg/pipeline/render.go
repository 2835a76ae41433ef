package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/sankeyflow/pkg/graph"
	"github.com/matzehuels/sankeyflow/pkg/render/dot"
	"github.com/matzehuels/sankeyflow/pkg/render/html"
)

// Render generates output artifacts in the requested formats.
// HTML and JSON carry the whole document; DOT, SVG, PNG and PDF draw the
// snapshot selected by opts.Frame.
func Render(ctx context.Context, doc graph.Document, opts Options) (map[string][]byte, error) {
	opts.SetRenderDefaults()

	var src string
	if opts.NeedsSnapshot() {
		var err error
		if src, err = DOT(doc, opts); err != nil {
			return nil, err
		}
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatHTML:
			data, err = html.Render(doc, html.Options{Width: opts.Width, Height: opts.Height})
		case FormatJSON:
			data, err = graph.EncodeDocument(doc)
		case FormatDOT:
			data = []byte(src)
		case FormatSVG:
			data, err = dot.RenderSVG(ctx, src)
		case FormatPNG:
			data, err = dot.RenderPNG(ctx, src, opts.Scale)
		case FormatPDF:
			data, err = dot.RenderPDF(ctx, src)
		default:
			return nil, ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// DOT returns the Graphviz source for the snapshot selected by opts.Frame.
// Frame snapshots are titled with the frame label.
func DOT(doc graph.Document, opts Options) (string, error) {
	idx := opts.FrameIndex()
	snap, err := doc.Snapshot(idx)
	if err != nil {
		return "", err
	}
	title := doc.Title
	if idx != graph.StaticFrame {
		title = fmt.Sprintf("%s (%s)", doc.Title, doc.Frames[idx].Label)
	}
	return dot.ToDOT(snap, dot.Options{Title: title, Detailed: opts.Detailed}), nil
}
