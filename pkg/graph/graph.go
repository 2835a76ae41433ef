package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/flow"
	"github.com/matzehuels/sankeyflow/pkg/sankey"
)

// =============================================================================
// Document Serialization API
// =============================================================================

// FromResult converts a render result to its serialized form.
func FromResult(res *sankey.Result) Document {
	doc := Document{
		Version: FormatVersion,
		ID:      res.ID,
		Title:   res.Title,
		Columns: Columns{
			Source: res.Columns.Source,
			Target: res.Columns.Target,
			Value:  res.Columns.Value,
			Time:   res.TimeColumn,
		},
		Histogram: res.Histogram,
		Static:    withSlices(res.Static),
		Stats: Stats{
			Nodes:     len(res.Static.Nodes),
			Edges:     len(res.Static.Edges),
			TotalFlow: res.Static.TotalFlow(),
			Frames:    len(res.Frames),
		},
	}
	for _, f := range res.Frames {
		f.Snapshot = withSlices(f.Snapshot)
		doc.Frames = append(doc.Frames, f)
	}
	if res.Animated() {
		doc.Playback = &Playback{
			IntervalMS: res.Playback.Interval.Milliseconds(),
			Easing:     res.Playback.Easing,
		}
	}
	return doc
}

// withSlices replaces nil node and edge slices so they encode as [] rather
// than null.
func withSlices(s flow.Snapshot) flow.Snapshot {
	if s.Nodes == nil {
		s.Nodes = []flow.Node{}
	}
	if s.Edges == nil {
		s.Edges = []flow.Edge{}
	}
	return s
}

// MarshalDocument converts a render result to JSON bytes.
func MarshalDocument(res *sankey.Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeDocumentTo(FromResult(res), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeDocument converts a document to indented JSON bytes.
func EncodeDocument(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeDocumentTo(doc, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteDocument writes a render result as JSON to an io.Writer.
// Use MarshalDocument for in-memory serialization or WriteDocumentFile for files.
func WriteDocument(res *sankey.Result, w io.Writer) error {
	return writeDocumentTo(FromResult(res), w)
}

// WriteDocumentFile writes a render result to a JSON file.
// The file is created with 0644 permissions.
func WriteDocumentFile(res *sankey.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeDocumentTo(FromResult(res), f)
}

// UnmarshalDocument decodes and validates a JSON document.
func UnmarshalDocument(data []byte) (Document, error) {
	return readDocumentFrom(bytes.NewReader(data))
}

// ReadDocument decodes and validates a JSON document from an io.Reader.
func ReadDocument(r io.Reader) (Document, error) {
	return readDocumentFrom(r)
}

// ReadDocumentFile reads and validates a JSON document file.
func ReadDocumentFile(path string) (Document, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Document{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readDocumentFrom(f)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeDocumentTo(doc Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readDocumentFrom(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode document")
	}
	if err := doc.Validate(); err != nil {
		return Document{}, err
	}
	return doc, nil
}
