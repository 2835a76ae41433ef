// Package metric computes node sizes, edge widths and color intensities
// from a flow table.
//
// A metric is a pure function over the (already filtered) table. Node
// metrics return a value per node ID, edge metrics a value per
// (source, target) pair. Metrics are re-invoked on every render and for
// every animation frame, so they must not keep state between calls.
//
// When no metric is registered the defaults apply:
//   - node size is the sum of the node's outgoing and incoming values ([NodeTotal])
//   - edge width is the sum of the value column per pair ([EdgeSum])
//
// # Built-in Metrics
//
// Metrics can be looked up by name for use from configuration files and
// command-line flags:
//
//	node: total, throughput, degree
//	edge: sum, count, share, squared, column:<name>
package metric

import (
	"math"

	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/table"
)

// Columns names the roles of the table columns.
type Columns struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Value  string `json:"value"`
}

// EdgeKey identifies an edge by its endpoints.
type EdgeKey struct {
	Source string
	Target string
}

// NodeFunc computes a value per node ID.
type NodeFunc func(t *table.Table, cols Columns) (map[string]float64, error)

// EdgeFunc computes a value per edge.
type EdgeFunc func(t *table.Table, cols Columns) (map[EdgeKey]float64, error)

// Flow is one row of the table reduced to its endpoints and value.
type Flow struct {
	Source string
	Target string
	Value  float64
	Row    table.Row
}

// Key returns the flow's edge key.
func (f Flow) Key() EdgeKey {
	return EdgeKey{Source: f.Source, Target: f.Target}
}

// Flows reduces each table row to a Flow. Rows whose source or target is
// null are skipped; a null value counts as zero. The value column must be
// numeric.
func Flows(t *table.Table, cols Columns) ([]Flow, error) {
	for _, c := range []string{cols.Source, cols.Target, cols.Value} {
		if !t.HasColumn(c) {
			return nil, errors.New(errors.ErrCodeMissingColumn, "column %q not found", c)
		}
	}

	flows := make([]Flow, 0, t.Len())
	for i, row := range t.Rows() {
		src, _ := row.Get(cols.Source)
		dst, _ := row.Get(cols.Target)
		if src.IsNull() || dst.IsNull() {
			continue
		}
		val, _ := row.Get(cols.Value)
		var f float64
		if !val.IsNull() {
			n, ok := val.Float()
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidColumnType,
					"column %q row %d: %q is not a number", cols.Value, i, val.String())
			}
			f = n
		}
		flows = append(flows, Flow{
			Source: src.String(),
			Target: dst.String(),
			Value:  f,
			Row:    row,
		})
	}
	return flows, nil
}

// =============================================================================
// Node Metrics
// =============================================================================

// NodeTotal sizes each node by the sum of its outgoing and incoming values.
// It is the default node metric.
func NodeTotal(t *table.Table, cols Columns) (map[string]float64, error) {
	flows, err := Flows(t, cols)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64)
	for _, f := range flows {
		out[f.Source] += f.Value
		out[f.Target] += f.Value
	}
	return out, nil
}

// NodeThroughput sizes each node by the larger of its total inflow and
// total outflow.
func NodeThroughput(t *table.Table, cols Columns) (map[string]float64, error) {
	flows, err := Flows(t, cols)
	if err != nil {
		return nil, err
	}
	in := make(map[string]float64)
	out := make(map[string]float64)
	for _, f := range flows {
		out[f.Source] += f.Value
		in[f.Target] += f.Value
	}
	sizes := make(map[string]float64, len(in)+len(out))
	for id, v := range out {
		sizes[id] = math.Max(v, in[id])
	}
	for id, v := range in {
		if _, ok := sizes[id]; !ok {
			sizes[id] = v
		}
	}
	return sizes, nil
}

// NodeDegree sizes each node by the number of distinct edges touching it.
func NodeDegree(t *table.Table, cols Columns) (map[string]float64, error) {
	flows, err := Flows(t, cols)
	if err != nil {
		return nil, err
	}
	seen := make(map[EdgeKey]bool)
	out := make(map[string]float64)
	for _, f := range flows {
		k := f.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out[f.Source]++
		if f.Target != f.Source {
			out[f.Target]++
		}
	}
	return out, nil
}

// NodeScaled multiplies every value of fn by factor.
func NodeScaled(fn NodeFunc, factor float64) NodeFunc {
	return func(t *table.Table, cols Columns) (map[string]float64, error) {
		m, err := fn(t, cols)
		if err != nil {
			return nil, err
		}
		out := make(map[string]float64, len(m))
		for k, v := range m {
			out[k] = v * factor
		}
		return out, nil
	}
}

// =============================================================================
// Edge Metrics
// =============================================================================

// EdgeSum sets each edge width to the sum of its values. It is the default
// edge metric.
func EdgeSum(t *table.Table, cols Columns) (map[EdgeKey]float64, error) {
	flows, err := Flows(t, cols)
	if err != nil {
		return nil, err
	}
	out := make(map[EdgeKey]float64)
	for _, f := range flows {
		out[f.Key()] += f.Value
	}
	return out, nil
}

// EdgeCount sets each edge width to the number of rows for the pair.
func EdgeCount(t *table.Table, cols Columns) (map[EdgeKey]float64, error) {
	flows, err := Flows(t, cols)
	if err != nil {
		return nil, err
	}
	out := make(map[EdgeKey]float64)
	for _, f := range flows {
		out[f.Key()]++
	}
	return out, nil
}

// EdgeShare sets each edge width to its fraction of the total flow.
// All shares are zero when the total is zero.
func EdgeShare(t *table.Table, cols Columns) (map[EdgeKey]float64, error) {
	sums, err := EdgeSum(t, cols)
	if err != nil {
		return nil, err
	}
	var total float64
	for _, v := range sums {
		total += v
	}
	for k, v := range sums {
		if total == 0 {
			sums[k] = 0
		} else {
			sums[k] = v / total
		}
	}
	return sums, nil
}

// EdgeSquared squares each pair's summed value. Used as a color intensity
// it spreads the gradient towards the heaviest flows.
func EdgeSquared(t *table.Table, cols Columns) (map[EdgeKey]float64, error) {
	sums, err := EdgeSum(t, cols)
	if err != nil {
		return nil, err
	}
	for k, v := range sums {
		sums[k] = v * v
	}
	return sums, nil
}

// EdgeColumnSum sums another numeric column per pair.
func EdgeColumnSum(column string) EdgeFunc {
	return func(t *table.Table, cols Columns) (map[EdgeKey]float64, error) {
		if !t.HasColumn(column) {
			return nil, errors.New(errors.ErrCodeMissingColumn, "column %q not found", column)
		}
		flows, err := Flows(t, cols)
		if err != nil {
			return nil, err
		}
		out := make(map[EdgeKey]float64)
		for _, f := range flows {
			k := f.Key()
			if _, ok := out[k]; !ok {
				out[k] = 0
			}
			v, _ := f.Row.Get(column)
			if v.IsNull() {
				continue
			}
			n, ok := v.Float()
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidColumnType,
					"column %q: %q is not a number", column, v.String())
			}
			out[k] += n
		}
		return out, nil
	}
}
