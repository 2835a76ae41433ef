package sankey

import (
	"math"
	"time"

	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/flow"
	"github.com/matzehuels/sankeyflow/pkg/metric"
	"github.com/matzehuels/sankeyflow/pkg/table"
	"github.com/matzehuels/sankeyflow/pkg/timeline"
)

// DefaultTitle is the title used when RenderOptions.Title is empty.
const DefaultTitle = "Interactive Sankey Diagram"

// RenderOptions controls a single render.
type RenderOptions struct {
	// Title is passed through to the renderer.
	Title string
	// Histogram colors edges along the gradient by intensity.
	Histogram bool
	// Timeline builds one frame per period when a time column is declared.
	Timeline bool
	// Playback configures the timeline control.
	Playback timeline.Playback
}

// DefaultRenderOptions returns options with the default title, the
// timeline enabled and default playback settings.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		Title:    DefaultTitle,
		Timeline: true,
		Playback: timeline.DefaultPlayback(),
	}
}

// Result is the renderer-facing output of a render.
type Result struct {
	ID         string
	Title      string
	Columns    metric.Columns
	TimeColumn string
	Static     flow.Snapshot
	Frames     []flow.Frame
	Playback   timeline.Playback
	Histogram  bool
}

// Animated reports whether the result carries timeline frames.
func (r *Result) Animated() bool {
	return len(r.Frames) > 0
}

// Snapshots returns the frame snapshots of an animated result, or the
// static snapshot alone.
func (r *Result) Snapshots() []flow.Snapshot {
	if !r.Animated() {
		return []flow.Snapshot{r.Static}
	}
	out := make([]flow.Snapshot, len(r.Frames))
	for i, f := range r.Frames {
		out[i] = f.Snapshot
	}
	return out
}

// Render validates the columns, applies the filters and metrics and
// returns the static snapshot plus, for a timeline, one frame per period.
//
// Render returns a configuration error when:
//   - source, target, value or the declared time column is missing (MISSING_COLUMN)
//   - the value column holds non-numeric cells (INVALID_COLUMN_TYPE)
//   - a value or a metric-derived width is negative (NEGATIVE_VALUE)
//   - a metric function fails (INVALID_METRIC)
//
// Periods whose rows are all filtered out still produce an empty frame.
func (d *Diagram) Render(source, target, value string, opts RenderOptions) (*Result, error) {
	start := time.Now()
	cols := metric.Columns{Source: source, Target: target, Value: value}
	if err := d.validate(cols); err != nil {
		return nil, err
	}

	opts.Playback = opts.Playback.WithDefaults()
	if err := opts.Playback.Validate(); err != nil {
		return nil, err
	}
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}

	static, err := d.snapshot(d.filters.Apply(d.data), cols, opts.Histogram)
	if err != nil {
		return nil, err
	}

	res := &Result{
		ID:         d.id,
		Title:      opts.Title,
		Columns:    cols,
		TimeColumn: d.timeColumn,
		Static:     static,
		Playback:   opts.Playback,
		Histogram:  opts.Histogram,
	}

	if d.timeColumn != "" && opts.Timeline {
		buckets, err := timeline.Split(d.data, d.timeColumn)
		if err != nil {
			return nil, err
		}
		res.Frames = make([]flow.Frame, len(buckets))
		for i, b := range buckets {
			snap, err := d.snapshot(d.filters.Apply(b.Rows), cols, opts.Histogram)
			if err != nil {
				code := errors.GetCode(err)
				if code == "" {
					code = errors.ErrCodeInternal
				}
				return nil, errors.Wrap(code, err, "frame %s", b.Label())
			}
			res.Frames[i] = flow.Frame{
				Index:    i,
				Label:    b.Label(),
				Key:      b.Key(),
				Snapshot: snap,
			}
		}
	}

	d.logger.Debug("rendered diagram",
		"id", d.id,
		"nodes", len(static.Nodes),
		"edges", len(static.Edges),
		"frames", len(res.Frames),
		"filters", d.filters.Len(),
		"duration", time.Since(start))

	return res, nil
}

// validate checks the render-time configuration against the raw table.
func (d *Diagram) validate(cols metric.Columns) error {
	required := []string{cols.Source, cols.Target, cols.Value}
	if d.timeColumn != "" {
		required = append(required, d.timeColumn)
	}
	for _, c := range required {
		if err := errors.ValidateColumnName(c); err != nil {
			return err
		}
		if !d.data.HasColumn(c) {
			return errors.New(errors.ErrCodeMissingColumn, "column %q not found (have %v)", c, d.data.Columns())
		}
	}

	values, _ := d.data.Column(cols.Value)
	for i, v := range values {
		if v.IsNull() {
			continue
		}
		f, ok := v.Float()
		if !ok {
			return errors.New(errors.ErrCodeInvalidColumnType,
				"value column %q must be numeric: row %d holds %s %q", cols.Value, i, v.Kind(), v.String())
		}
		if math.IsNaN(f) {
			return errors.New(errors.ErrCodeInvalidColumnType, "value column %q: row %d is NaN", cols.Value, i)
		}
		if f < 0 {
			return errors.New(errors.ErrCodeNegativeValue,
				"value column %q: row %d is negative (%v)", cols.Value, i, f)
		}
	}
	return nil
}

// snapshot aggregates one (filtered) table into nodes and edges.
func (d *Diagram) snapshot(t *table.Table, cols metric.Columns, histogram bool) (flow.Snapshot, error) {
	flows, err := metric.Flows(t, cols)
	if err != nil {
		return flow.Snapshot{}, err
	}

	var (
		nodeOrder []string
		edgeOrder []metric.EdgeKey
		sizes     = make(map[string]float64)
		widths    = make(map[metric.EdgeKey]float64)
	)
	for _, f := range flows {
		if f.Value < 0 {
			return flow.Snapshot{}, errors.New(errors.ErrCodeNegativeValue,
				"edge %s->%s has negative value %v", f.Source, f.Target, f.Value)
		}
		for _, id := range [2]string{f.Source, f.Target} {
			if _, ok := sizes[id]; !ok {
				nodeOrder = append(nodeOrder, id)
				sizes[id] = 0
			}
		}
		sizes[f.Source] += f.Value
		sizes[f.Target] += f.Value

		k := f.Key()
		if _, ok := widths[k]; !ok {
			edgeOrder = append(edgeOrder, k)
		}
		widths[k] += f.Value
	}

	if d.nodeMetric != nil {
		m, err := d.nodeMetric(t, cols)
		if err != nil {
			return flow.Snapshot{}, errors.Wrap(errors.ErrCodeInvalidMetric, err, "node metric")
		}
		overlay(sizes, m)
	}
	if d.edgeMetric != nil {
		m, err := d.edgeMetric(t, cols)
		if err != nil {
			return flow.Snapshot{}, errors.Wrap(errors.ErrCodeInvalidMetric, err, "edge metric")
		}
		overlay(widths, m)
	}

	snap := flow.Snapshot{
		Nodes: make([]flow.Node, len(nodeOrder)),
		Edges: make([]flow.Edge, len(edgeOrder)),
	}
	for i, id := range nodeOrder {
		size := sizes[id]
		if math.IsNaN(size) || size < 0 {
			return flow.Snapshot{}, errors.New(errors.ErrCodeNegativeValue, "node %q has invalid size %v", id, size)
		}
		snap.Nodes[i] = flow.Node{ID: id, Size: size, Color: metric.DefaultNodeColor}
	}
	for i, k := range edgeOrder {
		w := widths[k]
		if math.IsNaN(w) || w < 0 {
			return flow.Snapshot{}, errors.New(errors.ErrCodeNegativeValue,
				"edge %s->%s has invalid width %v", k.Source, k.Target, w)
		}
		snap.Edges[i] = flow.Edge{Source: k.Source, Target: k.Target, Value: w, Color: metric.DefaultEdgeColor}
	}

	if err := d.colorNodes(t, cols, snap.Nodes); err != nil {
		return flow.Snapshot{}, err
	}
	if err := d.colorEdges(t, cols, snap.Edges, histogram); err != nil {
		return flow.Snapshot{}, err
	}

	if err := snap.Validate(); err != nil {
		return flow.Snapshot{}, err
	}
	return snap, nil
}

// colorNodes applies the node color metric, if any, along the gradient.
// Nodes the metric does not cover keep the default color.
func (d *Diagram) colorNodes(t *table.Table, cols metric.Columns, nodes []flow.Node) error {
	if d.nodeColorMetric == nil || len(nodes) == 0 {
		return nil
	}
	m, err := d.nodeColorMetric(t, cols)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidMetric, err, "node color metric")
	}
	var present []float64
	for _, n := range nodes {
		if v, ok := m[n.ID]; ok {
			present = append(present, v)
		}
	}
	lo, hi := metric.Range(present)
	for i, n := range nodes {
		if v, ok := m[n.ID]; ok {
			nodes[i].Color = d.gradient.Color(v, lo, hi)
		}
	}
	return nil
}

// colorEdges colors edges along the gradient when histogram coloring is on
// or an edge color metric is set. The intensity is the edge color metric's
// value, falling back to the edge width.
func (d *Diagram) colorEdges(t *table.Table, cols metric.Columns, edges []flow.Edge, histogram bool) error {
	if (!histogram && d.edgeColorMetric == nil) || len(edges) == 0 {
		return nil
	}
	intensity := make([]float64, len(edges))
	for i, e := range edges {
		intensity[i] = e.Value
	}
	if d.edgeColorMetric != nil {
		m, err := d.edgeColorMetric(t, cols)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidMetric, err, "edge color metric")
		}
		for i, e := range edges {
			if v, ok := m[metric.EdgeKey{Source: e.Source, Target: e.Target}]; ok {
				intensity[i] = v
			}
		}
	}
	lo, hi := metric.Range(intensity)
	for i := range edges {
		edges[i].Color = d.gradient.Color(intensity[i], lo, hi)
	}
	return nil
}

// overlay copies the entries of src whose keys already exist in dst.
func overlay[K comparable](dst, src map[K]float64) {
	for k := range dst {
		if v, ok := src[k]; ok {
			dst[k] = v
		}
	}
}
