// Package html renders Sankey documents as self-contained interactive HTML.
//
// The page draws the diagram with D3 and d3-sankey loaded from a CDN. The
// serialized [graph.Document] is embedded in the page, so the output needs
// no server. Animated documents get a timeline slider and a play/pause
// button that steps through the frames at the document's playback interval
// using its easing curve.
//
//	doc := graph.FromResult(res)
//	page, err := html.Render(doc, html.Options{})
package html

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"html/template"
	"io"
	"os"

	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/graph"
)

// Default canvas size in pixels.
const (
	DefaultWidth  = 960
	DefaultHeight = 600
)

//go:embed sankey.html.tmpl
var pageSource string

var page = template.Must(template.New("sankey").Parse(pageSource))

// Options configures the HTML page.
type Options struct {
	Width   int  // Canvas width; zero selects DefaultWidth
	Height  int  // Canvas height; zero selects DefaultHeight
	NoStats bool // Hide the node/link/flow panel
}

type pageData struct {
	ID        string
	Title     string
	Width     int
	Height    int
	Animated  bool
	LastFrame int
	Stats     bool
	Document  template.JS
}

// Render produces the HTML page for doc.
func Render(doc graph.Document, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(doc, opts, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write renders doc to w.
func Write(doc graph.Document, opts Options, w io.Writer) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	// json.Marshal escapes <, > and & so the payload cannot close the
	// surrounding script element.
	data, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode document")
	}

	pd := pageData{
		ID:        doc.ID,
		Title:     doc.Title,
		Width:     opts.Width,
		Height:    opts.Height,
		Animated:  doc.Animated(),
		LastFrame: max(len(doc.Frames)-1, 0),
		Stats:     !opts.NoStats,
		Document:  template.JS(data),
	}
	if pd.Width <= 0 {
		pd.Width = DefaultWidth
	}
	if pd.Height <= 0 {
		pd.Height = DefaultHeight
	}
	if err := page.Execute(w, pd); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "render html")
	}
	return nil
}

// WriteFile renders doc to the file at path.
func WriteFile(doc graph.Document, opts Options, path string) error {
	out, err := Render(doc, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}
