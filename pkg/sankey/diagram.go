// Package sankey assembles Sankey diagram snapshots from a flow table.
//
// A [Diagram] owns a table plus an ordered filter chain and optional metric
// functions. Each call to [Diagram.Render] validates the requested columns,
// applies the filters, computes node sizes, edge widths and colors, and,
// when a time column is declared, builds one frame per period:
//
//	d := sankey.New(t, sankey.WithTimeColumn("year"))
//	_ = d.AddFilter("high", filter.Compare("value", filter.OpGreater, table.Number(15)))
//	res, err := d.Render("source", "target", "value", sankey.DefaultRenderOptions())
//
// Nothing is cached between renders: filters and metrics registered after
// one render are reflected in the next. The Diagram performs no I/O; the
// returned [Result] is handed to a renderer.
package sankey

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/sankeyflow/pkg/filter"
	"github.com/matzehuels/sankeyflow/pkg/metric"
	"github.com/matzehuels/sankeyflow/pkg/table"
)

// Diagram holds the data, filters and metrics of one Sankey diagram.
// A Diagram is not safe for concurrent mutation.
type Diagram struct {
	id         string
	data       *table.Table
	timeColumn string
	filters    filter.Chain
	gradient   metric.Gradient
	logger     *log.Logger

	nodeMetric      metric.NodeFunc
	edgeMetric      metric.EdgeFunc
	nodeColorMetric metric.NodeFunc
	edgeColorMetric metric.EdgeFunc
}

// Option configures a Diagram.
type Option func(*Diagram)

// WithTimeColumn declares the column whose distinct values become frames.
// The column is checked when the diagram is rendered.
func WithTimeColumn(column string) Option {
	return func(d *Diagram) { d.timeColumn = column }
}

// WithLogger sets the logger for debug output. The default discards.
func WithLogger(l *log.Logger) Option {
	return func(d *Diagram) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithID sets the diagram identity instead of a random UUID.
func WithID(id string) Option {
	return func(d *Diagram) {
		if id != "" {
			d.id = id
		}
	}
}

// WithGradient sets the color ramp used for metric-driven colors.
func WithGradient(g metric.Gradient) Option {
	return func(d *Diagram) { d.gradient = g }
}

// New creates a diagram over data. Columns are not validated here; see
// [Diagram.Render]. A nil table is treated as an empty table without
// columns.
func New(data *table.Table, opts ...Option) *Diagram {
	if data == nil {
		data, _ = table.New(nil, nil)
	}
	d := &Diagram{
		id:       uuid.NewString(),
		data:     data,
		gradient: metric.DefaultGradient(),
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ID returns the diagram identity.
func (d *Diagram) ID() string { return d.id }

// Data returns the unfiltered table.
func (d *Diagram) Data() *table.Table { return d.data }

// TimeColumn returns the declared time column, or "" for a static diagram.
func (d *Diagram) TimeColumn() string { return d.timeColumn }

// AddFilter registers a filter. Filters run in registration order; adding
// an existing name replaces that filter in place.
func (d *Diagram) AddFilter(name string, fn filter.Func) error {
	return d.filters.Add(name, fn)
}

// RemoveFilter unregisters a filter by name.
func (d *Diagram) RemoveFilter(name string) error {
	return d.filters.Remove(name)
}

// Filters returns the registered filter names in application order.
func (d *Diagram) Filters() []string {
	return d.filters.Names()
}

// SetNodeMetric sets the function that sizes nodes. nil restores the
// default.
func (d *Diagram) SetNodeMetric(fn metric.NodeFunc) { d.nodeMetric = fn }

// SetEdgeMetric sets the function that computes edge widths. nil restores
// the default.
func (d *Diagram) SetEdgeMetric(fn metric.EdgeFunc) { d.edgeMetric = fn }

// SetNodeColorMetric sets the function whose values color nodes along the
// gradient. nil restores the default color.
func (d *Diagram) SetNodeColorMetric(fn metric.NodeFunc) { d.nodeColorMetric = fn }

// SetEdgeColorMetric sets the function whose values color edges along the
// gradient. nil colors by edge width when histogram coloring is on.
func (d *Diagram) SetEdgeColorMetric(fn metric.EdgeFunc) { d.edgeColorMetric = fn }
