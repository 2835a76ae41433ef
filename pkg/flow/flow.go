// Package flow defines the node and edge records that make up a Sankey
// diagram snapshot.
//
// A [Snapshot] is the complete node/edge set for one frame of a diagram (or
// for the static, whole-table view). Snapshots are plain values: they are
// produced by the sankey package and consumed by renderers, and nothing in
// a renderer feeds back into aggregation.
//
// Every snapshot upholds three invariants, checked by [Snapshot.Validate]:
//   - node IDs are unique
//   - every edge's source and target are nodes of the same snapshot
//   - every edge value is non-negative
package flow

import (
	"math"

	"github.com/matzehuels/sankeyflow/pkg/errors"
)

// Node is a distinct value appearing as a flow source or target.
type Node struct {
	ID    string  `json:"id"`
	Size  float64 `json:"size"`
	Color string  `json:"color,omitempty"`
}

// Edge is a directed flow between two nodes.
type Edge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Value  float64 `json:"value"`
	Color  string  `json:"color,omitempty"`
}

// Snapshot is the node and edge set for one frame.
type Snapshot struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Frame is one time period of an animated diagram.
type Frame struct {
	// Index is the zero-based position of the frame in the timeline.
	Index int `json:"index"`
	// Label is the display form of the period.
	Label string `json:"label"`
	// Key is the machine form of the period, suitable for lookups.
	Key string `json:"key"`
	// Snapshot holds the frame's filtered, aggregated flows.
	Snapshot Snapshot `json:"snapshot"`
}

// IsEmpty reports whether the snapshot has no nodes and no edges.
func (s Snapshot) IsEmpty() bool {
	return len(s.Nodes) == 0 && len(s.Edges) == 0
}

// TotalFlow returns the sum of all edge values.
func (s Snapshot) TotalFlow() float64 {
	var total float64
	for _, e := range s.Edges {
		total += e.Value
	}
	return total
}

// Node returns the node with the given ID.
func (s Snapshot) Node(id string) (Node, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Edge returns the edge between source and target.
func (s Snapshot) Edge(source, target string) (Edge, bool) {
	for _, e := range s.Edges {
		if e.Source == source && e.Target == target {
			return e, true
		}
	}
	return Edge{}, false
}

// NodeIndex maps each node ID to its position in Nodes.
func (s Snapshot) NodeIndex() map[string]int {
	idx := make(map[string]int, len(s.Nodes))
	for i, n := range s.Nodes {
		idx[n.ID] = i
	}
	return idx
}

// Validate checks the snapshot invariants.
func (s Snapshot) Validate() error {
	seen := make(map[string]bool, len(s.Nodes))
	for _, n := range s.Nodes {
		if seen[n.ID] {
			return errors.New(errors.ErrCodeInternal, "duplicate node %q", n.ID)
		}
		seen[n.ID] = true
		if math.IsNaN(n.Size) || n.Size < 0 {
			return errors.New(errors.ErrCodeNegativeValue, "node %q has invalid size %v", n.ID, n.Size)
		}
	}
	for _, e := range s.Edges {
		if !seen[e.Source] {
			return errors.New(errors.ErrCodeInternal, "edge %s->%s: unknown source", e.Source, e.Target)
		}
		if !seen[e.Target] {
			return errors.New(errors.ErrCodeInternal, "edge %s->%s: unknown target", e.Source, e.Target)
		}
		if math.IsNaN(e.Value) || e.Value < 0 {
			return errors.New(errors.ErrCodeNegativeValue, "edge %s->%s has invalid value %v", e.Source, e.Target, e.Value)
		}
	}
	return nil
}
