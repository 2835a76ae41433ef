package pipeline

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/sankeyflow/pkg/cache"
	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/graph"
	"github.com/matzehuels/sankeyflow/pkg/metric"
	"github.com/matzehuels/sankeyflow/pkg/sankey"
	"github.com/matzehuels/sankeyflow/pkg/table"
)

// Input is a loaded flow table with the content hash used for cache keys.
type Input struct {
	raw   []byte
	path  string
	table *table.Table
	Hash  string
}

// ReadInput reads the configured input without decoding it. In-memory
// tables are hashed from their JSON encoding.
func ReadInput(opts Options) (*Input, error) {
	if opts.Table != nil {
		data, err := encodeTable(opts.Table)
		if err != nil {
			return nil, err
		}
		return &Input{table: opts.Table, Hash: cache.Hash(data)}, nil
	}

	// Relative inputs may climb out of the working directory, so the path
	// is checked after resolving it.
	path, err := filepath.Abs(opts.Input)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", opts.Input)
	}
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", opts.Input)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", opts.Input)
	}
	return &Input{raw: data, path: opts.Input, Hash: cache.Hash(data)}, nil
}

// Table decodes the input, choosing JSON or CSV by file extension.
func (in *Input) Table() (*table.Table, error) {
	if in.table != nil {
		return in.table, nil
	}
	var (
		t   *table.Table
		err error
	)
	if strings.EqualFold(filepath.Ext(in.path), ".json") {
		t, err = table.ReadJSON(bytes.NewReader(in.raw))
	} else {
		t, err = table.ReadCSV(bytes.NewReader(in.raw))
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", in.path)
	}
	in.table = t
	return t, nil
}

// encodeTable produces a stable encoding of a table for hashing.
func encodeTable(t *table.Table) ([]byte, error) {
	rows := make([][]table.Value, t.Len())
	for i, r := range t.Rows() {
		rows[i] = r.Values()
	}
	return json.Marshal(struct {
		Columns []string        `json:"columns"`
		Rows    [][]table.Value `json:"rows"`
	}{t.Columns(), rows})
}

// Assemble builds a diagram from t, registers the configured filters and
// metrics, and renders it.
func Assemble(t *table.Table, opts Options) (*sankey.Result, error) {
	opts.SetAssembleDefaults()

	diagOpts := []sankey.Option{
		sankey.WithTimeColumn(opts.Time),
		sankey.WithLogger(opts.Logger),
	}
	if opts.ID != "" {
		diagOpts = append(diagOpts, sankey.WithID(opts.ID))
	}
	d := sankey.New(t, diagOpts...)

	for _, spec := range opts.Filters {
		fn, err := spec.Func()
		if err != nil {
			return nil, err
		}
		if err := d.AddFilter(spec.Name, fn); err != nil {
			return nil, err
		}
	}
	if err := applyMetrics(d, opts); err != nil {
		return nil, err
	}

	renderOpts := sankey.DefaultRenderOptions()
	renderOpts.Title = opts.Title
	renderOpts.Histogram = opts.Histogram
	renderOpts.Timeline = !opts.NoTimeline
	renderOpts.Playback = opts.Playback()

	return d.Render(opts.Source, opts.Target, opts.Value, renderOpts)
}

func applyMetrics(d *sankey.Diagram, opts Options) error {
	if opts.NodeMetric != "" {
		fn, err := metric.LookupNode(opts.NodeMetric)
		if err != nil {
			return err
		}
		d.SetNodeMetric(fn)
	}
	if opts.EdgeMetric != "" {
		fn, err := metric.LookupEdge(opts.EdgeMetric)
		if err != nil {
			return err
		}
		d.SetEdgeMetric(fn)
	}
	if opts.NodeColorMetric != "" {
		fn, err := metric.LookupNode(opts.NodeColorMetric)
		if err != nil {
			return err
		}
		d.SetNodeColorMetric(fn)
	}
	if opts.EdgeColorMetric != "" {
		fn, err := metric.LookupEdge(opts.EdgeColorMetric)
		if err != nil {
			return err
		}
		d.SetEdgeColorMetric(fn)
	}
	return nil
}

// AssembleDocument is Assemble followed by serialization.
func AssembleDocument(t *table.Table, opts Options) (graph.Document, error) {
	res, err := Assemble(t, opts)
	if err != nil {
		return graph.Document{}, err
	}
	return graph.FromResult(res), nil
}
